package pubsub

// Pack is the unit of data carried through a topic. Key decides the partition
// on brokers which support partitioning.
type Pack struct {
	Key []byte
	Msg []byte
}

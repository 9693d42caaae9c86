package pubsub

import (
	"context"
	"sync"
	"time"
)

// LocalPubSub delivers packs to handlers of the same process. It is used when
// no broker is configured.
type LocalPubSub struct {
	mutex    sync.RWMutex
	handlers map[string][]SubscribeHandler
}

func NewLocalPubSub() *LocalPubSub {
	return &LocalPubSub{handlers: make(map[string][]SubscribeHandler)}
}

func (p *LocalPubSub) Publish(ctx context.Context, topic string, pack *Pack) error {
	p.mutex.RLock()
	handlers := p.handlers[topic]
	p.mutex.RUnlock()

	now := time.Now()
	for _, handler := range handlers {
		handler(ctx, pack, now)
	}

	return nil
}

// Subscriber returns a Subscriber which registers handler on the given topics
// when Subscribe is called.
func (p *LocalPubSub) Subscriber(handler SubscribeHandler, topics ...string) Subscriber {
	return &localSubscriber{parent: p, topics: topics, handler: handler}
}

type localSubscriber struct {
	parent  *LocalPubSub
	topics  []string
	handler SubscribeHandler
}

func (s *localSubscriber) Subscribe(ctx context.Context) {
	s.parent.mutex.Lock()
	defer s.parent.mutex.Unlock()

	for _, topic := range s.topics {
		s.parent.handlers[topic] = append(s.parent.handlers[topic], s.handler)
	}
}

func (s *localSubscriber) Stop(ctx context.Context) error {
	s.parent.mutex.Lock()
	defer s.parent.mutex.Unlock()

	for _, topic := range s.topics {
		delete(s.parent.handlers, topic)
	}

	return nil
}

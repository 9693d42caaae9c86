package testutil

import (
	"context"
	"sync"

	"github.com/questx-lab/agora/pkg/pubsub"
)

// MockPublisher records every published pack unless PublishFunc overrides
// the behavior.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mu    sync.Mutex
	packs map[string][]*pubsub.Pack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.packs == nil {
		m.packs = map[string][]*pubsub.Pack{}
	}
	m.packs[topic] = append(m.packs[topic], pack)

	return nil
}

func (m *MockPublisher) Packs(topic string) []*pubsub.Pack {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.packs[topic]
}

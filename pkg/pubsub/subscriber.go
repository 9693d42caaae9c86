package pubsub

import (
	"context"
	"time"
)

type SubscribeHandler func(context.Context, *Pack, time.Time)

type Subscriber interface {
	// Subscribe starts consuming in background and returns once the
	// subscriber is ready.
	Subscribe(ctx context.Context)
	Stop(ctx context.Context) error
}

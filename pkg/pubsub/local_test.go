package pubsub_test

import (
	"context"
	"testing"
	"time"

	"github.com/questx-lab/agora/pkg/pubsub"
	"github.com/stretchr/testify/require"
)

func TestLocalPubSub(t *testing.T) {
	ctx := context.Background()
	ps := pubsub.NewLocalPubSub()

	var received []string
	sub := ps.Subscriber(func(_ context.Context, pack *pubsub.Pack, _ time.Time) {
		received = append(received, string(pack.Msg))
	}, "a")

	require.NoError(t, ps.Publish(ctx, "a", &pubsub.Pack{Msg: []byte("before")}))
	sub.Subscribe(ctx)

	require.NoError(t, ps.Publish(ctx, "a", &pubsub.Pack{Msg: []byte("x")}))
	require.NoError(t, ps.Publish(ctx, "b", &pubsub.Pack{Msg: []byte("y")}))
	require.NoError(t, sub.Stop(ctx))
	require.NoError(t, ps.Publish(ctx, "a", &pubsub.Pack{Msg: []byte("after")}))

	require.Equal(t, []string{"x"}, received)
}

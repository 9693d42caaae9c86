package notification

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/pkg/pubsub"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestServer_HandleEvent(t *testing.T) {
	ctx := testutil.MockContext()
	server := NewServer("test")

	first := NewSession("user1")
	second := NewSession("user1")
	other := NewSession("user2")
	server.join(first)
	server.join(second)
	server.join(other)

	b, err := json.Marshal(model.Notification{ID: "1", Type: "follow", RecipientID: "user1"})
	require.NoError(t, err)
	server.HandleEvent(ctx, &pubsub.Pack{Key: []byte("user1"), Msg: b}, time.Now())

	for _, s := range []*Session{first, second} {
		select {
		case msg := <-s.C:
			var resp EventResponse
			require.NoError(t, json.Unmarshal(msg, &resp))
			require.Equal(t, OpNotification, resp.Op)
		default:
			t.Fatal("session did not receive the notification")
		}
	}

	require.Len(t, other.C, 0)

	server.leave(first)
	server.leave(second)
	_, ok := server.hubs.Load("user1")
	require.False(t, ok)

	_, ok = server.hubs.Load("user2")
	require.True(t, ok)
}

func TestServer_LocalPubSub(t *testing.T) {
	ctx := context.Background()
	server := NewServer("test")
	ps := pubsub.NewLocalPubSub()
	ps.Subscriber(server.HandleEvent, testTopic).Subscribe(ctx)

	session := NewSession("user1")
	server.join(session)
	defer server.leave(session)

	b, err := json.Marshal(model.Notification{ID: "2", RecipientID: "user1"})
	require.NoError(t, err)
	require.NoError(t, ps.Publish(testutil.MockContext(), testTopic, &pubsub.Pack{Msg: b}))

	require.Len(t, session.C, 1)
}

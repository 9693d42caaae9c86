package notification

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/stretchr/testify/require"
)

const testTopic = "notification"

func newTestDispatcher(t *testing.T, publisher *testutil.MockPublisher) *dispatcher {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewDispatcher(
		repository.NewBlockRepository(),
		repository.NewNotificationRepository(),
		publisher,
		node,
		testTopic,
	)
}

func TestDispatcher_Notify(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	publisher := &testutil.MockPublisher{}
	d := newTestDispatcher(t, publisher)

	d.Notify(ctx, Event{
		Type:        entity.NotificationFollow,
		ActorID:     testutil.User2.ID,
		RecipientID: testutil.User1.ID,
	})

	notifications, total, err := repository.NewNotificationRepository().GetList(ctx, testutil.User1.ID, true, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, testutil.User2.ID, notifications[0].ActorID)
	require.False(t, notifications[0].PostID.Valid)

	packs := publisher.Packs(testTopic)
	require.Len(t, packs, 1)
	require.Equal(t, []byte(testutil.User1.ID), packs[0].Key)

	var n model.Notification
	require.NoError(t, json.Unmarshal(packs[0].Msg, &n))
	require.Equal(t, "follow", n.Type)
	require.Equal(t, testutil.User1.ID, n.RecipientID)
}

func TestDispatcher_Notify_Skipped(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	publisher := &testutil.MockPublisher{}
	d := newTestDispatcher(t, publisher)

	require.NoError(t, repository.NewBlockRepository().Create(ctx, &entity.Block{
		BlockerID: testutil.User1.ID,
		BlockedID: testutil.User3.ID,
		CreatedAt: time.Now(),
	}))

	// Self notification.
	d.Notify(ctx, Event{Type: entity.NotificationReply, ActorID: testutil.User1.ID, RecipientID: testutil.User1.ID})

	// Blocked in either direction.
	d.Notify(ctx, Event{Type: entity.NotificationFollow, ActorID: testutil.User3.ID, RecipientID: testutil.User1.ID})
	d.Notify(ctx, Event{Type: entity.NotificationFollow, ActorID: testutil.User1.ID, RecipientID: testutil.User3.ID})

	require.Empty(t, publisher.Packs(testTopic))
	require.Equal(t, int64(0), testutil.CountRows(ctx, &entity.Notification{}, "1=1"))
}

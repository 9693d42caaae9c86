package repository_test

import (
	"testing"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_notificationRepository(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewNotificationRepository()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, repo.Create(ctx, &entity.Notification{
			SnowFlakeBase: entity.SnowFlakeBase{ID: i},
			RecipientID:   "user1",
			ActorID:       "user2",
			Type:          entity.NotificationFollow,
		}))
	}

	require.NoError(t, repo.Create(ctx, &entity.Notification{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 4},
		RecipientID:   "user2",
		ActorID:       "user1",
		Type:          entity.NotificationFollow,
	}))

	notifications, total, err := repo.GetList(ctx, "user1", false, 0, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, notifications, 2)
	require.Equal(t, int64(3), notifications[0].ID)
	require.Equal(t, int64(2), notifications[1].ID)

	// Notifications of another recipient are never marked.
	n, err := repo.MarkRead(ctx, "user1", []int64{1, 4})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, total, err = repo.GetList(ctx, "user1", true, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	n, err = repo.MarkAllRead(ctx, "user1")
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	_, total, err = repo.GetList(ctx, "user1", true, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(0), total)

	_, total, err = repo.GetList(ctx, "user2", true, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}

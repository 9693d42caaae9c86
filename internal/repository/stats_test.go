package repository_test

import (
	"errors"
	"testing"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/questx-lab/agora/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_statsRepository_Apply(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewStatsRepository()

	require.NoError(t, repo.Apply(ctx, repository.PostStatsTable, testutil.Post1.ID, map[string]int64{
		"upvotes_count": 1,
	}))

	// Flip moves the vote from one column to the other in a single update.
	require.NoError(t, repo.Apply(ctx, repository.PostStatsTable, testutil.Post1.ID, map[string]int64{
		"upvotes_count":   -1,
		"downvotes_count": 1,
	}))

	stats, err := repo.GetPostStats(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), stats.UpvotesCount)
	require.Equal(t, int64(1), stats.DownvotesCount)
}

func Test_statsRepository_Apply_Underflow(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewStatsRepository()

	err := repo.Apply(ctx, repository.PostStatsTable, testutil.Post1.ID, map[string]int64{
		"upvotes_count":   -1,
		"downvotes_count": 1,
	})
	require.True(t, errors.Is(err, repository.ErrStatsNotApplied))

	// The guarded update must not have touched the other column.
	stats, err := repo.GetPostStats(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), stats.UpvotesCount)
	require.Equal(t, int64(0), stats.DownvotesCount)
}

func Test_statsRepository_Apply_MissingRow(t *testing.T) {
	ctx := testutil.MockContext()
	repo := repository.NewStatsRepository()

	err := repo.Apply(ctx, repository.UserStatsTable, "unknown", map[string]int64{"followers_count": 1})
	require.True(t, errors.Is(err, repository.ErrStatsNotApplied))

	require.NoError(t, repo.Apply(ctx, repository.UserStatsTable, "unknown", map[string]int64{"followers_count": 0}))
}

func Test_statsRepository_Recount(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewStatsRepository()

	// Corrupt some counters, then rebuild them.
	err := xcontext.DB(ctx).Model(&entity.CommunityStats{}).
		Where("community_id=?", testutil.Community1.ID).
		Updates(map[string]any{"subscribers_count": 42, "posts_count": 7}).Error
	require.NoError(t, err)

	require.NoError(t, repo.Recount(ctx))

	communityStats, err := repo.GetCommunityStats(ctx, testutil.Community1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), communityStats.SubscribersCount)
	require.Equal(t, int64(1), communityStats.ModeratorsCount)
	require.Equal(t, int64(1), communityStats.PostsCount)
	require.Equal(t, int64(1), communityStats.CommentsCount)

	user1Stats, err := repo.GetUserStats(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), user1Stats.CommunitiesCount)
	require.Equal(t, int64(1), user1Stats.SubscriptionsCount)
	require.Equal(t, int64(1), user1Stats.ModerationsCount)
	require.Equal(t, int64(1), user1Stats.CommentsCount)

	postStats, err := repo.GetPostStats(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), postStats.CommentsCount)
}

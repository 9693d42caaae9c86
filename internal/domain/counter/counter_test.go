package counter

import (
	"testing"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/questx-lab/agora/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_deltas(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  []delta
	}{
		{
			name:  "follow created",
			event: NewFollowCreated("a", "b"),
			want: []delta{
				{repository.UserStatsTable, "a", "following_count", 1},
				{repository.UserStatsTable, "b", "followers_count", 1},
			},
		},
		{
			name: "reply deleted",
			event: NewCommentDeleted(entity.Comment{
				Base:        entity.Base{ID: "c2"},
				OwnerUserID: "a",
				PostID:      "p",
				ParentID:    nullString("c1"),
			}, "x"),
			want: []delta{
				{repository.UserStatsTable, "a", "comments_count", -1},
				{repository.CommunityStatsTable, "x", "comments_count", -1},
				{repository.PostStatsTable, "p", "comments_count", -1},
				{repository.CommentStatsTable, "c1", "replies_count", -1},
			},
		},
		{
			name:  "ban added",
			event: NewMemberAdded(Banned, "x", "a"),
			want: []delta{
				{repository.CommunityStatsTable, "x", "banned_count", 1},
			},
		},
		{
			name:  "moderator removed",
			event: NewMemberRemoved(Moderator, "x", "a"),
			want: []delta{
				{repository.CommunityStatsTable, "x", "moderators_count", -1},
				{repository.UserStatsTable, "a", "moderations_count", -1},
			},
		},
		{
			name:  "ownership transferred",
			event: NewOwnershipTransferred("x", "a", "b"),
			want: []delta{
				{repository.UserStatsTable, "a", "communities_count", -1},
				{repository.UserStatsTable, "b", "communities_count", 1},
			},
		},
		{
			name:  "post vote flipped to down",
			event: NewPostVoteFlipped("p", entity.VoteDown),
			want: []delta{
				{repository.PostStatsTable, "p", "upvotes_count", -1},
				{repository.PostStatsTable, "p", "downvotes_count", 1},
			},
		},
		{
			name:  "comment vote deleted",
			event: NewCommentVoteDeleted("c", entity.VoteDown),
			want: []delta{
				{repository.CommentStatsTable, "c", "downvotes_count", -1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, deltas(tt.event))
		})
	}
}

func Test_engine_Apply(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	statsRepo := repository.NewStatsRepository()
	engine := NewEngine(statsRepo)

	require.NoError(t, engine.Apply(ctx,
		NewPostVoteCreated(testutil.Post1.ID, entity.VoteUp),
		NewPostBookmarkCreated(testutil.Post1.ID),
	))

	require.NoError(t, engine.Apply(ctx, NewPostVoteFlipped(testutil.Post1.ID, entity.VoteDown)))

	stats, err := statsRepo.GetPostStats(ctx, testutil.Post1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), stats.UpvotesCount)
	require.Equal(t, int64(1), stats.DownvotesCount)
	require.Equal(t, int64(1), stats.BookmarksCount)
}

func Test_engine_Apply_RollbackWithTransaction(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	statsRepo := repository.NewStatsRepository()
	engine := NewEngine(statsRepo)

	txCtx := xcontext.WithDBTransaction(ctx)
	// user1 has no following to remove, so the whole batch fails.
	err := engine.Apply(txCtx,
		NewFollowCreated(testutil.User2.ID, testutil.User3.ID),
		NewFollowDeleted(testutil.User1.ID, testutil.User2.ID),
	)
	require.Error(t, err)
	xcontext.WithRollbackDBTransaction(txCtx)

	for _, user := range testutil.Users {
		stats, err := statsRepo.GetUserStats(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, int64(0), stats.FollowersCount)
		require.Equal(t, int64(0), stats.FollowingCount)
	}
}

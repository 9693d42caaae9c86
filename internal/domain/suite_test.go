package domain

import (
	"context"
	"sync"
	"testing"

	"github.com/questx-lab/agora/internal/domain/counter"
	"github.com/questx-lab/agora/internal/domain/notification"
	"github.com/questx-lab/agora/internal/domain/visibility"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) Events() []notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Event(nil), n.events...)
}

// suite wires every domain on one fixture database.
type suite struct {
	ctx      context.Context
	notifier *recordingNotifier

	User      UserDomain
	Community CommunityDomain
	Post      PostDomain
	Comment   CommentDomain

	statsRepo repository.StatsRepository
}

func newSuite(t *testing.T) *suite {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	userRepo := repository.NewUserRepository()
	followRepo := repository.NewFollowRepository()
	blockRepo := repository.NewBlockRepository()
	communityRepo := repository.NewCommunityRepository()
	memberRepo := repository.NewCommunityMemberRepository()
	postRepo := repository.NewPostRepository()
	commentRepo := repository.NewCommentRepository()
	voteRepo := repository.NewVoteRepository()
	bookmarkRepo := repository.NewBookmarkRepository()
	statsRepo := repository.NewStatsRepository()

	filter := visibility.NewFilter(blockRepo, memberRepo)
	engine := counter.NewEngine(statsRepo)
	notifier := &recordingNotifier{}

	return &suite{
		ctx:      ctx,
		notifier: notifier,
		User: NewUserDomain(
			userRepo, followRepo, blockRepo, statsRepo, filter, engine, notifier),
		Community: NewCommunityDomain(
			communityRepo, memberRepo, userRepo, postRepo, commentRepo, voteRepo, bookmarkRepo,
			statsRepo, filter, engine, notifier),
		Post: NewPostDomain(
			postRepo, commentRepo, communityRepo, memberRepo, userRepo, voteRepo, bookmarkRepo,
			blockRepo, statsRepo, filter, engine),
		Comment: NewCommentDomain(
			commentRepo, postRepo, memberRepo, userRepo, voteRepo, bookmarkRepo, blockRepo,
			statsRepo, filter, engine, notifier),
		statsRepo: statsRepo,
	}
}

// as returns the suite context acting as userID. An empty userID is the
// anonymous viewer.
func (s *suite) as(userID string) context.Context {
	return testutil.WithUser(s.ctx, userID)
}

func (s *suite) userStats(t *testing.T, userID string) *entity.UserStats {
	stats, err := s.statsRepo.GetUserStats(s.ctx, userID)
	require.NoError(t, err)
	return stats
}

func (s *suite) communityStats(t *testing.T, communityID string) *entity.CommunityStats {
	stats, err := s.statsRepo.GetCommunityStats(s.ctx, communityID)
	require.NoError(t, err)
	return stats
}

func (s *suite) postStats(t *testing.T, postID string) *entity.PostStats {
	stats, err := s.statsRepo.GetPostStats(s.ctx, postID)
	require.NoError(t, err)
	return stats
}

func (s *suite) commentStats(t *testing.T, commentID string) *entity.CommentStats {
	stats, err := s.statsRepo.GetCommentStats(s.ctx, commentID)
	require.NoError(t, err)
	return stats
}

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errorx.Is(err, code), "unexpected error: %v", err)
}

package domain

import (
	"context"
	"database/sql"
	"testing"

	"github.com/questx-lab/agora/internal/domain/counter"
	"github.com/questx-lab/agora/internal/domain/visibility"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/questx-lab/agora/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

// racingVoteRepository changes the vote of the same user right before each of
// the next races conditional writes, as a concurrent request committing
// between the read and the write would.
type racingVoteRepository struct {
	repository.VoteRepository
	engine counter.Engine
	races  int
}

func (r *racingVoteRepository) DeletePostVote(
	ctx context.Context, userID, postID string, direction entity.VoteDirection,
) error {
	if r.races > 0 {
		r.races--
		if err := r.VoteRepository.UpdatePostVote(ctx, userID, postID, direction, -direction); err != nil {
			return err
		}
		if err := r.engine.Apply(ctx, counter.NewPostVoteFlipped(postID, -direction)); err != nil {
			return err
		}
	}

	return r.VoteRepository.DeletePostVote(ctx, userID, postID, direction)
}

func (r *racingVoteRepository) UpdatePostVote(
	ctx context.Context, userID, postID string, from, to entity.VoteDirection,
) error {
	if r.races > 0 {
		r.races--
		if err := r.VoteRepository.DeletePostVote(ctx, userID, postID, from); err != nil {
			return err
		}
		if err := r.engine.Apply(ctx, counter.NewPostVoteDeleted(postID, from)); err != nil {
			return err
		}
	}

	return r.VoteRepository.UpdatePostVote(ctx, userID, postID, from, to)
}

func (r *racingVoteRepository) DeleteCommentVote(
	ctx context.Context, userID, commentID string, direction entity.VoteDirection,
) error {
	if r.races > 0 {
		r.races--
		if err := r.VoteRepository.UpdateCommentVote(ctx, userID, commentID, direction, -direction); err != nil {
			return err
		}
		if err := r.engine.Apply(ctx, counter.NewCommentVoteFlipped(commentID, -direction)); err != nil {
			return err
		}
	}

	return r.VoteRepository.DeleteCommentVote(ctx, userID, commentID, direction)
}

// txBlockRepository records whether each block check ran inside a
// transaction.
type txBlockRepository struct {
	repository.BlockRepository
	inTransaction []bool
}

func (r *txBlockRepository) ExistsEither(ctx context.Context, a, b string) (bool, error) {
	_, ok := xcontext.DB(ctx).Statement.ConnPool.(*sql.Tx)
	r.inTransaction = append(r.inTransaction, ok)
	return r.BlockRepository.ExistsEither(ctx, a, b)
}

func (s *suite) newPostDomain(
	voteRepo repository.VoteRepository, blockRepo repository.BlockRepository,
) PostDomain {
	memberRepo := repository.NewCommunityMemberRepository()
	return NewPostDomain(
		repository.NewPostRepository(), repository.NewCommentRepository(), repository.NewCommunityRepository(),
		memberRepo, repository.NewUserRepository(), voteRepo, repository.NewBookmarkRepository(), blockRepo,
		s.statsRepo, visibility.NewFilter(repository.NewBlockRepository(), memberRepo),
		counter.NewEngine(s.statsRepo))
}

func (s *suite) newCommentDomain(
	voteRepo repository.VoteRepository, blockRepo repository.BlockRepository,
) CommentDomain {
	memberRepo := repository.NewCommunityMemberRepository()
	return NewCommentDomain(
		repository.NewCommentRepository(), repository.NewPostRepository(), memberRepo,
		repository.NewUserRepository(), voteRepo, repository.NewBookmarkRepository(), blockRepo,
		s.statsRepo, visibility.NewFilter(repository.NewBlockRepository(), memberRepo),
		counter.NewEngine(s.statsRepo), s.notifier)
}

func (s *suite) requirePostVotesCounted(t *testing.T, postID string) {
	t.Helper()
	stats := s.postStats(t, postID)
	require.Equal(t, testutil.CountRows(s.ctx, &entity.PostVote{}, "post_id=? AND direction=?", postID, entity.VoteUp),
		stats.UpvotesCount)
	require.Equal(t, testutil.CountRows(s.ctx, &entity.PostVote{}, "post_id=? AND direction=?", postID, entity.VoteDown),
		stats.DownvotesCount)
}

func (s *suite) requireCommentVotesCounted(t *testing.T, commentID string) {
	t.Helper()
	stats := s.commentStats(t, commentID)
	require.Equal(t, testutil.CountRows(s.ctx, &entity.CommentVote{}, "comment_id=? AND direction=?", commentID, entity.VoteUp),
		stats.UpvotesCount)
	require.Equal(t, testutil.CountRows(s.ctx, &entity.CommentVote{}, "comment_id=? AND direction=?", commentID, entity.VoteDown),
		stats.DownvotesCount)
}

func (s *suite) upvotePostAsUser1AndUser2(t *testing.T) {
	for _, userID := range []string{testutil.User1.ID, testutil.User2.ID} {
		_, err := s.Post.Vote(s.as(userID), &model.VotePostRequest{ID: testutil.Post1.ID, Direction: 1})
		require.NoError(t, err)
	}
}

func Test_postDomain_CancelVote_FlippedConcurrently(t *testing.T) {
	s := newSuite(t)
	s.upvotePostAsUser1AndUser2(t)

	voteRepo := &racingVoteRepository{
		VoteRepository: repository.NewVoteRepository(),
		engine:         counter.NewEngine(s.statsRepo),
		races:          1,
	}
	postDomain := s.newPostDomain(voteRepo, repository.NewBlockRepository())

	resp, err := postDomain.CancelVote(s.as(testutil.User1.ID), &model.CancelPostVoteRequest{ID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Stats.UpvotesCount)
	require.Equal(t, int64(0), resp.Stats.DownvotesCount)
	require.Equal(t, int64(0), testutil.CountRows(s.ctx, &entity.PostVote{},
		"post_id=? AND user_id=?", testutil.Post1.ID, testutil.User1.ID))
	s.requirePostVotesCounted(t, testutil.Post1.ID)
}

func Test_postDomain_Vote_CancelledConcurrently(t *testing.T) {
	s := newSuite(t)
	s.upvotePostAsUser1AndUser2(t)

	voteRepo := &racingVoteRepository{
		VoteRepository: repository.NewVoteRepository(),
		engine:         counter.NewEngine(s.statsRepo),
		races:          1,
	}
	postDomain := s.newPostDomain(voteRepo, repository.NewBlockRepository())

	resp, err := postDomain.Vote(s.as(testutil.User1.ID), &model.VotePostRequest{ID: testutil.Post1.ID, Direction: -1})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Stats.UpvotesCount)
	require.Equal(t, int64(1), resp.Stats.DownvotesCount)
	s.requirePostVotesCounted(t, testutil.Post1.ID)
}

func Test_postDomain_CancelVote_KeepsChanging(t *testing.T) {
	s := newSuite(t)
	s.upvotePostAsUser1AndUser2(t)

	voteRepo := &racingVoteRepository{
		VoteRepository: repository.NewVoteRepository(),
		engine:         counter.NewEngine(s.statsRepo),
		races:          maxVoteAttempts,
	}
	postDomain := s.newPostDomain(voteRepo, repository.NewBlockRepository())

	_, err := postDomain.CancelVote(s.as(testutil.User1.ID), &model.CancelPostVoteRequest{ID: testutil.Post1.ID})
	requireErrorCode(t, err, errorx.Conflict)

	// Nothing of the failed request is kept.
	require.Equal(t, int64(2), s.postStats(t, testutil.Post1.ID).UpvotesCount)
	require.Equal(t, int64(0), s.postStats(t, testutil.Post1.ID).DownvotesCount)
	s.requirePostVotesCounted(t, testutil.Post1.ID)
}

func Test_commentDomain_CancelVote_FlippedConcurrently(t *testing.T) {
	s := newSuite(t)
	for _, userID := range []string{testutil.User1.ID, testutil.User2.ID} {
		_, err := s.Comment.Vote(s.as(userID), &model.VoteCommentRequest{ID: testutil.Comment1.ID, Direction: 1})
		require.NoError(t, err)
	}

	voteRepo := &racingVoteRepository{
		VoteRepository: repository.NewVoteRepository(),
		engine:         counter.NewEngine(s.statsRepo),
		races:          1,
	}
	commentDomain := s.newCommentDomain(voteRepo, repository.NewBlockRepository())

	resp, err := commentDomain.CancelVote(s.as(testutil.User1.ID),
		&model.CancelCommentVoteRequest{ID: testutil.Comment1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Stats.UpvotesCount)
	require.Equal(t, int64(0), resp.Stats.DownvotesCount)
	s.requireCommentVotesCounted(t, testutil.Comment1.ID)
}

func Test_Bookmark_ChecksBlockInTransaction(t *testing.T) {
	s := newSuite(t)
	blockRepo := &txBlockRepository{BlockRepository: repository.NewBlockRepository()}

	postDomain := s.newPostDomain(repository.NewVoteRepository(), blockRepo)
	_, err := postDomain.Bookmark(s.as(testutil.User3.ID), &model.BookmarkPostRequest{ID: testutil.Post1.ID})
	require.NoError(t, err)

	commentDomain := s.newCommentDomain(repository.NewVoteRepository(), blockRepo)
	_, err = commentDomain.Bookmark(s.as(testutil.User3.ID), &model.BookmarkCommentRequest{ID: testutil.Comment1.ID})
	require.NoError(t, err)

	require.Equal(t, []bool{true, true}, blockRepo.inTransaction)
}

package domain

import (
	"context"

	"github.com/questx-lab/agora/internal/domain/counter"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
)

// contentRemover deletes posts and comments together with everything hanging
// off them. Its methods must run inside a transaction, counters are applied
// while the stats rows still exist and before the rows are removed.
type contentRemover struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	voteRepo     repository.VoteRepository
	bookmarkRepo repository.BookmarkRepository
	statsRepo    repository.StatsRepository
	counter      counter.Engine
}

func newContentRemover(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	voteRepo repository.VoteRepository,
	bookmarkRepo repository.BookmarkRepository,
	statsRepo repository.StatsRepository,
	counterEngine counter.Engine,
) *contentRemover {
	return &contentRemover{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		voteRepo:     voteRepo,
		bookmarkRepo: bookmarkRepo,
		statsRepo:    statsRepo,
		counter:      counterEngine,
	}
}

func (r *contentRemover) deletePost(ctx context.Context, post entity.Post) error {
	comments, err := r.commentRepo.GetByPostID(ctx, post.ID)
	if err != nil {
		return err
	}

	if err := r.deleteComments(ctx, comments, post.CommunityID); err != nil {
		return err
	}

	if err := r.counter.Apply(ctx, counter.NewPostDeleted(post)); err != nil {
		return err
	}

	if err := r.voteRepo.DeletePostVotesByPostID(ctx, post.ID); err != nil {
		return err
	}

	if err := r.bookmarkRepo.DeletePostBookmarksByPostID(ctx, post.ID); err != nil {
		return err
	}

	if err := r.statsRepo.DeletePostStats(ctx, post.ID); err != nil {
		return err
	}

	return r.postRepo.DeleteByID(ctx, post.ID)
}

// deleteCommentTree deletes root and all of its replies, at any depth.
func (r *contentRemover) deleteCommentTree(ctx context.Context, root entity.Comment, communityID string) error {
	tree := []entity.Comment{root}
	parentIDs := []string{root.ID}
	for len(parentIDs) > 0 {
		replies, err := r.commentRepo.GetByParentIDs(ctx, parentIDs)
		if err != nil {
			return err
		}

		parentIDs = parentIDs[:0]
		for _, reply := range replies {
			tree = append(tree, reply)
			parentIDs = append(parentIDs, reply.ID)
		}
	}

	return r.deleteComments(ctx, tree, communityID)
}

func (r *contentRemover) deleteComments(ctx context.Context, comments []entity.Comment, communityID string) error {
	if len(comments) == 0 {
		return nil
	}

	events := make([]counter.Event, 0, len(comments))
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		events = append(events, counter.NewCommentDeleted(c, communityID))
		ids = append(ids, c.ID)
	}

	if err := r.counter.Apply(ctx, events...); err != nil {
		return err
	}

	if err := r.voteRepo.DeleteCommentVotesByCommentIDs(ctx, ids); err != nil {
		return err
	}

	if err := r.bookmarkRepo.DeleteCommentBookmarksByCommentIDs(ctx, ids); err != nil {
		return err
	}

	if err := r.statsRepo.DeleteCommentStats(ctx, ids); err != nil {
		return err
	}

	return r.commentRepo.DeleteByIDs(ctx, ids)
}

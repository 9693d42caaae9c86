package repository

import (
	"context"
	"time"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository interface {
	GetPostVote(ctx context.Context, userID, postID string) (*entity.PostVote, error)
	CreatePostVote(ctx context.Context, data *entity.PostVote) error
	UpdatePostVote(ctx context.Context, userID, postID string, from, to entity.VoteDirection) error
	DeletePostVote(ctx context.Context, userID, postID string, direction entity.VoteDirection) error
	DeletePostVotesByPostID(ctx context.Context, postID string) error
	GetPostVotes(ctx context.Context, postID string, excludeUserIDs []string, offset, limit int) ([]entity.PostVote, int64, error)

	GetCommentVote(ctx context.Context, userID, commentID string) (*entity.CommentVote, error)
	CreateCommentVote(ctx context.Context, data *entity.CommentVote) error
	UpdateCommentVote(ctx context.Context, userID, commentID string, from, to entity.VoteDirection) error
	DeleteCommentVote(ctx context.Context, userID, commentID string, direction entity.VoteDirection) error
	DeleteCommentVotesByCommentIDs(ctx context.Context, commentIDs []string) error
	GetCommentVotes(ctx context.Context, commentID string, excludeUserIDs []string, offset, limit int) ([]entity.CommentVote, int64, error)
}

type voteRepository struct{}

func NewVoteRepository() *voteRepository {
	return &voteRepository{}
}

// GetPostVote locks the vote row until the end of the running transaction.
// Drivers without row locks, sqlite, ignore the locking clause.
func (r *voteRepository) GetPostVote(ctx context.Context, userID, postID string) (*entity.PostVote, error) {
	var result entity.PostVote
	err := xcontext.DB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "user_id=? AND post_id=?", userID, postID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *voteRepository) CreatePostVote(ctx context.Context, data *entity.PostVote) error {
	return xcontext.DB(ctx).Create(data).Error
}

// UpdatePostVote flips the vote only if it still has the direction from. It
// returns gorm.ErrRecordNotFound if the vote is gone or has changed.
func (r *voteRepository) UpdatePostVote(
	ctx context.Context, userID, postID string, from, to entity.VoteDirection,
) error {
	tx := xcontext.DB(ctx).Model(&entity.PostVote{}).
		Where("user_id=? AND post_id=? AND direction=?", userID, postID, from).
		Updates(map[string]any{"direction": to, "updated_at": time.Now()})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// DeletePostVote removes the vote only if it still has direction.
func (r *voteRepository) DeletePostVote(
	ctx context.Context, userID, postID string, direction entity.VoteDirection,
) error {
	tx := xcontext.DB(ctx).Delete(&entity.PostVote{},
		"user_id=? AND post_id=? AND direction=?", userID, postID, direction)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *voteRepository) DeletePostVotesByPostID(ctx context.Context, postID string) error {
	return xcontext.DB(ctx).Delete(&entity.PostVote{}, "post_id=?", postID).Error
}

func (r *voteRepository) GetPostVotes(
	ctx context.Context, postID string, excludeUserIDs []string, offset, limit int,
) ([]entity.PostVote, int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.PostVote{}).Where("post_id=?", postID)
	if len(excludeUserIDs) > 0 {
		tx = tx.Where("user_id NOT IN (?)", excludeUserIDs)
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []entity.PostVote
	err := tx.Order("created_at ASC, user_id ASC").Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *voteRepository) GetCommentVote(ctx context.Context, userID, commentID string) (*entity.CommentVote, error) {
	var result entity.CommentVote
	err := xcontext.DB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&result, "user_id=? AND comment_id=?", userID, commentID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *voteRepository) CreateCommentVote(ctx context.Context, data *entity.CommentVote) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *voteRepository) UpdateCommentVote(
	ctx context.Context, userID, commentID string, from, to entity.VoteDirection,
) error {
	tx := xcontext.DB(ctx).Model(&entity.CommentVote{}).
		Where("user_id=? AND comment_id=? AND direction=?", userID, commentID, from).
		Updates(map[string]any{"direction": to, "updated_at": time.Now()})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *voteRepository) DeleteCommentVote(
	ctx context.Context, userID, commentID string, direction entity.VoteDirection,
) error {
	tx := xcontext.DB(ctx).Delete(&entity.CommentVote{},
		"user_id=? AND comment_id=? AND direction=?", userID, commentID, direction)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *voteRepository) DeleteCommentVotesByCommentIDs(ctx context.Context, commentIDs []string) error {
	if len(commentIDs) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Delete(&entity.CommentVote{}, "comment_id IN (?)", commentIDs).Error
}

func (r *voteRepository) GetCommentVotes(
	ctx context.Context, commentID string, excludeUserIDs []string, offset, limit int,
) ([]entity.CommentVote, int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.CommentVote{}).Where("comment_id=?", commentID)
	if len(excludeUserIDs) > 0 {
		tx = tx.Where("user_id NOT IN (?)", excludeUserIDs)
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []entity.CommentVote
	err := tx.Order("created_at ASC, user_id ASC").Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

package repository

import (
	"context"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

type BookmarkRepository interface {
	CreatePostBookmark(ctx context.Context, data *entity.PostBookmark) error
	ExistsPostBookmark(ctx context.Context, userID, postID string) (bool, error)
	DeletePostBookmark(ctx context.Context, userID, postID string) error
	DeletePostBookmarksByPostID(ctx context.Context, postID string) error

	CreateCommentBookmark(ctx context.Context, data *entity.CommentBookmark) error
	ExistsCommentBookmark(ctx context.Context, userID, commentID string) (bool, error)
	DeleteCommentBookmark(ctx context.Context, userID, commentID string) error
	DeleteCommentBookmarksByCommentIDs(ctx context.Context, commentIDs []string) error
}

type bookmarkRepository struct{}

func NewBookmarkRepository() *bookmarkRepository {
	return &bookmarkRepository{}
}

func (r *bookmarkRepository) CreatePostBookmark(ctx context.Context, data *entity.PostBookmark) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *bookmarkRepository) ExistsPostBookmark(ctx context.Context, userID, postID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.PostBookmark{}).
		Where("user_id=? AND post_id=?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *bookmarkRepository) DeletePostBookmark(ctx context.Context, userID, postID string) error {
	tx := xcontext.DB(ctx).Delete(&entity.PostBookmark{}, "user_id=? AND post_id=?", userID, postID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *bookmarkRepository) DeletePostBookmarksByPostID(ctx context.Context, postID string) error {
	return xcontext.DB(ctx).Delete(&entity.PostBookmark{}, "post_id=?", postID).Error
}

func (r *bookmarkRepository) CreateCommentBookmark(ctx context.Context, data *entity.CommentBookmark) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *bookmarkRepository) ExistsCommentBookmark(ctx context.Context, userID, commentID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.CommentBookmark{}).
		Where("user_id=? AND comment_id=?", userID, commentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *bookmarkRepository) DeleteCommentBookmark(ctx context.Context, userID, commentID string) error {
	tx := xcontext.DB(ctx).Delete(&entity.CommentBookmark{}, "user_id=? AND comment_id=?", userID, commentID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *bookmarkRepository) DeleteCommentBookmarksByCommentIDs(ctx context.Context, commentIDs []string) error {
	if len(commentIDs) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Delete(&entity.CommentBookmark{}, "comment_id IN (?)", commentIDs).Error
}

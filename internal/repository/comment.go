package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

type CommentFilter struct {
	PostID          string
	ParentID        string
	RootOnly        bool
	BookmarkedBy    string
	ExcludeOwnerIDs []string
}

type CommentRepository interface {
	Create(ctx context.Context, data *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	GetList(ctx context.Context, filter CommentFilter, offset, limit int) ([]entity.Comment, int64, error)
	GetByPostID(ctx context.Context, postID string) ([]entity.Comment, error)
	GetByParentIDs(ctx context.Context, parentIDs []string) ([]entity.Comment, error)
	UpdateContent(ctx context.Context, id, content string) error
	DeleteByIDs(ctx context.Context, ids []string) error
}

type commentRepository struct{}

func NewCommentRepository() *commentRepository {
	return &commentRepository{}
}

func (r *commentRepository) Create(ctx context.Context, data *entity.Comment) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	var result entity.Comment
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *commentRepository) GetList(
	ctx context.Context, filter CommentFilter, offset, limit int,
) ([]entity.Comment, int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Comment{})

	if filter.PostID != "" {
		tx = tx.Where("comments.post_id=?", filter.PostID)
	}

	if filter.ParentID != "" {
		tx = tx.Where("comments.parent_id=?", filter.ParentID)
	}

	if filter.RootOnly {
		tx = tx.Where("comments.parent_id IS NULL")
	}

	if filter.BookmarkedBy != "" {
		tx = tx.Joins("JOIN comment_bookmarks ON comment_bookmarks.comment_id=comments.id").
			Where("comment_bookmarks.user_id=?", filter.BookmarkedBy)
	}

	if len(filter.ExcludeOwnerIDs) > 0 {
		tx = tx.Where("comments.owner_user_id NOT IN (?)", filter.ExcludeOwnerIDs)
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []entity.Comment
	err := tx.Order("comments.created_at ASC, comments.id ASC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *commentRepository) GetByPostID(ctx context.Context, postID string) ([]entity.Comment, error) {
	var result []entity.Comment
	if err := xcontext.DB(ctx).Where("post_id=?", postID).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *commentRepository) GetByParentIDs(ctx context.Context, parentIDs []string) ([]entity.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var result []entity.Comment
	if err := xcontext.DB(ctx).Where("parent_id IN (?)", parentIDs).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Comment{}).
		Where("id=?", id).
		Update("content", content)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *commentRepository) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).Delete(&entity.Comment{}, "id IN (?)", ids)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected != int64(len(ids)) {
		return errors.New("the number of affected rows is invalid")
	}

	return nil
}

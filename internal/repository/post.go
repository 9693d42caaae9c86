package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

type PostFilter struct {
	CommunityID     string
	OwnerUserID     string
	SubscriberID    string // posts of communities this user subscribes to
	BookmarkedBy    string
	ExcludeOwnerIDs []string
}

type PostRepository interface {
	Create(ctx context.Context, data *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetList(ctx context.Context, filter PostFilter, offset, limit int) ([]entity.Post, int64, error)
	GetByCommunityID(ctx context.Context, communityID string) ([]entity.Post, error)
	Update(ctx context.Context, id, title, content string) error
	DeleteByID(ctx context.Context, id string) error
}

type postRepository struct{}

func NewPostRepository() *postRepository {
	return &postRepository{}
}

func (r *postRepository) Create(ctx context.Context, data *entity.Post) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var result entity.Post
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *postRepository) GetList(
	ctx context.Context, filter PostFilter, offset, limit int,
) ([]entity.Post, int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Post{})

	if filter.CommunityID != "" {
		tx = tx.Where("posts.community_id=?", filter.CommunityID)
	}

	if filter.OwnerUserID != "" {
		tx = tx.Where("posts.owner_user_id=?", filter.OwnerUserID)
	}

	if filter.SubscriberID != "" {
		tx = tx.Joins("JOIN community_subscribers ON community_subscribers.community_id=posts.community_id").
			Where("community_subscribers.user_id=?", filter.SubscriberID)
	}

	if filter.BookmarkedBy != "" {
		tx = tx.Joins("JOIN post_bookmarks ON post_bookmarks.post_id=posts.id").
			Where("post_bookmarks.user_id=?", filter.BookmarkedBy)
	}

	if len(filter.ExcludeOwnerIDs) > 0 {
		tx = tx.Where("posts.owner_user_id NOT IN (?)", filter.ExcludeOwnerIDs)
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []entity.Post
	err := tx.Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *postRepository) GetByCommunityID(ctx context.Context, communityID string) ([]entity.Post, error) {
	var result []entity.Post
	if err := xcontext.DB(ctx).Where("community_id=?", communityID).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *postRepository) Update(ctx context.Context, id, title, content string) error {
	values := map[string]any{}
	if title != "" {
		values["title"] = title
	}

	if content != "" {
		values["content"] = content
	}

	if len(values) == 0 {
		return nil
	}

	tx := xcontext.DB(ctx).Model(&entity.Post{}).Where("id=?", id).Updates(values)
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

func (r *postRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Post{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

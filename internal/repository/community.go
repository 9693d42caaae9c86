package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

type CommunityFilter struct {
	Q            string
	SubscriberID string
}

type CommunityRepository interface {
	Create(ctx context.Context, data *entity.Community) error
	GetByID(ctx context.Context, id string) (*entity.Community, error)
	GetByName(ctx context.Context, name string) (*entity.Community, error)
	GetList(ctx context.Context, filter CommunityFilter, offset, limit int) ([]entity.Community, int64, error)
	UpdateAbout(ctx context.Context, id, about string) error
	UpdateOwner(ctx context.Context, id, ownerID string) error
	DeleteByID(ctx context.Context, id string) error
}

type communityRepository struct{}

func NewCommunityRepository() *communityRepository {
	return &communityRepository{}
}

func (r *communityRepository) Create(ctx context.Context, data *entity.Community) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *communityRepository) GetByID(ctx context.Context, id string) (*entity.Community, error) {
	var result entity.Community
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *communityRepository) GetByName(ctx context.Context, name string) (*entity.Community, error) {
	var result entity.Community
	if err := xcontext.DB(ctx).Take(&result, "name=?", name).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *communityRepository) GetList(
	ctx context.Context, filter CommunityFilter, offset, limit int,
) ([]entity.Community, int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Community{})

	if filter.Q != "" {
		tx = tx.Where("communities.name LIKE ?", "%"+filter.Q+"%")
	}

	if filter.SubscriberID != "" {
		tx = tx.Joins("JOIN community_subscribers ON community_subscribers.community_id=communities.id").
			Where("community_subscribers.user_id=?", filter.SubscriberID)
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []entity.Community
	err := tx.Order("communities.created_at ASC, communities.id ASC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *communityRepository) UpdateAbout(ctx context.Context, id, about string) error {
	return r.update(ctx, id, map[string]any{"about": about})
}

func (r *communityRepository) UpdateOwner(ctx context.Context, id, ownerID string) error {
	return r.update(ctx, id, map[string]any{"owner_user_id": ownerID})
}

func (r *communityRepository) update(ctx context.Context, id string, values map[string]any) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Community{}).
		Where("id=?", id).
		Updates(values)

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

func (r *communityRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Community{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

package repository

import (
	"context"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(ctx context.Context, data *entity.Follow) error
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	Delete(ctx context.Context, followerID, followedID string) error
}

type followRepository struct{}

func NewFollowRepository() *followRepository {
	return &followRepository{}
}

func (r *followRepository) Create(ctx context.Context, data *entity.Follow) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Follow{}).
		Where("follower_id=? AND followed_id=?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Follow{}, "follower_id=? AND followed_id=?", followerID, followedID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

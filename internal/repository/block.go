package repository

import (
	"context"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

type BlockRepository interface {
	Create(ctx context.Context, data *entity.Block) error
	Exists(ctx context.Context, blockerID, blockedID string) (bool, error)
	ExistsEither(ctx context.Context, a, b string) (bool, error)
	Delete(ctx context.Context, blockerID, blockedID string) error

	// GetBlockedIDs returns the users blocked by blockerID.
	GetBlockedIDs(ctx context.Context, blockerID string) ([]string, error)

	// GetBlockerIDs returns the users who have blocked blockedID.
	GetBlockerIDs(ctx context.Context, blockedID string) ([]string, error)
}

type blockRepository struct{}

func NewBlockRepository() *blockRepository {
	return &blockRepository{}
}

func (r *blockRepository) Create(ctx context.Context, data *entity.Block) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *blockRepository) Exists(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Block{}).
		Where("blocker_id=? AND blocked_id=?", blockerID, blockedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *blockRepository) ExistsEither(ctx context.Context, a, b string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Block{}).
		Where("(blocker_id=? AND blocked_id=?) OR (blocker_id=? AND blocked_id=?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedID string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Block{}, "blocker_id=? AND blocked_id=?", blockerID, blockedID)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *blockRepository) GetBlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.Block{}).
		Where("blocker_id=?", blockerID).
		Pluck("blocked_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *blockRepository) GetBlockerIDs(ctx context.Context, blockedID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.Block{}).
		Where("blocked_id=?", blockedID).
		Pluck("blocker_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

package repository

import (
	"context"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, data *entity.Notification) error
	GetList(ctx context.Context, recipientID string, unreadOnly bool, offset, limit int) ([]entity.Notification, int64, error)
	MarkRead(ctx context.Context, recipientID string, ids []int64) (int64, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

type notificationRepository struct{}

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, data *entity.Notification) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *notificationRepository) GetList(
	ctx context.Context, recipientID string, unreadOnly bool, offset, limit int,
) ([]entity.Notification, int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Notification{}).Where("recipient_id=?", recipientID)
	if unreadOnly {
		tx = tx.Where("is_read=?", false)
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []entity.Notification
	if err := tx.Order("id DESC").Offset(offset).Limit(limit).Find(&result).Error; err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

// MarkRead only touches notifications owned by the recipient. It returns the
// number of notifications changed.
func (r *notificationRepository) MarkRead(ctx context.Context, recipientID string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx := xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("recipient_id=? AND id IN (?)", recipientID, ids).
		Update("is_read", true)

	return tx.RowsAffected, tx.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("recipient_id=?", recipientID).
		Update("is_read", true)

	return tx.RowsAffected, tx.Error
}

package domain

import (
	"context"
	"strconv"

	"github.com/questx-lab/agora/internal/common"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/xcontext"
)

type NotificationDomain interface {
	GetNotifications(context.Context, *model.GetNotificationsRequest) (*model.GetNotificationsResponse, error)
	ReadNotifications(context.Context, *model.ReadNotificationsRequest) (*model.ReadNotificationsResponse, error)
}

type notificationDomain struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationDomain(notificationRepo repository.NotificationRepository) NotificationDomain {
	return &notificationDomain{notificationRepo: notificationRepo}
}

func (d *notificationDomain) GetNotifications(
	ctx context.Context, req *model.GetNotificationsRequest,
) (*model.GetNotificationsResponse, error) {
	p := common.NormalizePagination(ctx, req.Pagination)
	notifications, total, err := d.notificationRepo.GetList(
		ctx, xcontext.RequestUserID(ctx), req.Unread, p.Offset(), p.PerPage)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get notifications: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Notification{}
	for i := range notifications {
		result = append(result, model.ConvertNotification(&notifications[i]))
	}

	return &model.GetNotificationsResponse{Notifications: result, PageInfo: model.NewPageInfo(p, total)}, nil
}

func (d *notificationDomain) ReadNotifications(
	ctx context.Context, req *model.ReadNotificationsRequest,
) (*model.ReadNotificationsResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if req.All {
		if _, err := d.notificationRepo.MarkAllRead(ctx, requestUserID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot mark all notifications as read: %v", err)
			return nil, errorx.Unknown
		}

		return &model.ReadNotificationsResponse{}, nil
	}

	if len(req.IDs) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require ids or all")
	}

	ids := make([]int64, 0, len(req.IDs))
	for _, s := range req.IDs {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid notification id %s", s)
		}

		ids = append(ids, id)
	}

	if _, err := d.notificationRepo.MarkRead(ctx, requestUserID, ids); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark notifications as read: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ReadNotificationsResponse{}, nil
}

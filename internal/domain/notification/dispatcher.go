package notification

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/agora/internal/common"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/pubsub"
	"github.com/questx-lab/agora/pkg/xcontext"
)

type Notifier interface {
	// Notify must be called after the action has been committed. Failures
	// are logged, the action itself has already succeeded.
	Notify(ctx context.Context, ev Event)
}

type dispatcher struct {
	blockRepo        repository.BlockRepository
	notificationRepo repository.NotificationRepository
	publisher        pubsub.Publisher
	node             *snowflake.Node
	topic            string
}

func NewDispatcher(
	blockRepo repository.BlockRepository,
	notificationRepo repository.NotificationRepository,
	publisher pubsub.Publisher,
	node *snowflake.Node,
	topic string,
) *dispatcher {
	return &dispatcher{
		blockRepo:        blockRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
		node:             node,
		topic:            topic,
	}
}

func (d *dispatcher) Notify(ctx context.Context, ev Event) {
	counter := common.PromCounters[common.NotificationTotal]

	if ev.RecipientID == "" || ev.RecipientID == ev.ActorID {
		return
	}

	blocked, err := d.blockRepo.ExistsEither(ctx, ev.ActorID, ev.RecipientID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check block before notifying: %v", err)
		counter.WithLabelValues(string(ev.Type), "failed").Inc()
		return
	}

	if blocked {
		counter.WithLabelValues(string(ev.Type), "skipped").Inc()
		return
	}

	n := &entity.Notification{
		SnowFlakeBase: entity.SnowFlakeBase{ID: d.node.Generate().Int64()},
		RecipientID:   ev.RecipientID,
		ActorID:       ev.ActorID,
		Type:          ev.Type,
		CommunityID:   nullString(ev.CommunityID),
		PostID:        nullString(ev.PostID),
		CommentID:     nullString(ev.CommentID),
	}

	if err := d.notificationRepo.Create(ctx, n); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create notification: %v", err)
		counter.WithLabelValues(string(ev.Type), "failed").Inc()
		return
	}

	b, err := json.Marshal(model.ConvertNotification(n))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal notification: %v", err)
		counter.WithLabelValues(string(ev.Type), "failed").Inc()
		return
	}

	err = d.publisher.Publish(ctx, d.topic, &pubsub.Pack{Key: []byte(n.RecipientID), Msg: b})
	if err != nil {
		// The notification is persisted, the recipient will still see it
		// when listing.
		xcontext.Logger(ctx).Warnf("Cannot publish notification %d: %v", n.ID, err)
		counter.WithLabelValues(string(ev.Type), "unpublished").Inc()
		return
	}

	counter.WithLabelValues(string(ev.Type), "sent").Inc()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

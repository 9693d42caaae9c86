package entity

import (
	"database/sql"

	"github.com/questx-lab/agora/pkg/enum"
)

type NotificationType string

var (
	NotificationFollow    = enum.New(NotificationType("follow"), "follow")
	NotificationComment   = enum.New(NotificationType("comment"), "comment")
	NotificationReply     = enum.New(NotificationType("reply"), "reply")
	NotificationSubscribe = enum.New(NotificationType("subscribe"), "subscribe")
)

type Notification struct {
	SnowFlakeBase
	RecipientID string `gorm:"index"`
	ActorID     string
	Type        NotificationType
	CommunityID sql.NullString
	PostID      sql.NullString
	CommentID   sql.NullString
	Read        bool `gorm:"column:is_read;index"`
}

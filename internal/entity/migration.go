package entity

import (
	"context"
	"time"

	"github.com/questx-lab/agora/pkg/xcontext"
)

type Migration struct {
	Version   string `gorm:"primaryKey"`
	CreatedAt time.Time
}

// MigrateTable creates every table with its latest schema. Parents come before
// the tables referencing them.
func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&UserStats{},
		&Community{},
		&CommunityStats{},
		&Post{},
		&PostStats{},
		&Comment{},
		&CommentStats{},
		&Follow{},
		&Block{},
		&CommunitySubscriber{},
		&CommunityModerator{},
		&CommunityBan{},
		&PostVote{},
		&CommentVote{},
		&PostBookmark{},
		&CommentBookmark{},
		&Notification{},
		&Migration{},
	)
}

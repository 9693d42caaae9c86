package entity

import "database/sql"

// Comment forms a reply tree through ParentID. Root comments of a post have
// no parent.
type Comment struct {
	Base
	Content     string
	OwnerUserID string         `gorm:"index"`
	OwnerUser   User           `gorm:"foreignKey:OwnerUserID"`
	PostID      string         `gorm:"index"`
	Post        Post           `gorm:"foreignKey:PostID"`
	ParentID    sql.NullString `gorm:"index"`
}

func (c Comment) OwnerID() string {
	return c.OwnerUserID
}

type CommentStats struct {
	CommentID string  `gorm:"primaryKey"`
	Comment   Comment `gorm:"foreignKey:CommentID"`

	RepliesCount   int64 `gorm:"not null;default:0"`
	BookmarksCount int64 `gorm:"not null;default:0"`
	UpvotesCount   int64 `gorm:"not null;default:0"`
	DownvotesCount int64 `gorm:"not null;default:0"`
}

func (cs CommentStats) TableName() string {
	return "comment_stats"
}

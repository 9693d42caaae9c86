package entity

import "time"

// Relation rows have no identity beyond their key pair. The composite primary
// key is the uniqueness constraint duplicate checks rely on.

type Follow struct {
	FollowerID string `gorm:"primaryKey"`
	FollowedID string `gorm:"primaryKey;index"`
	CreatedAt  time.Time
}

type Block struct {
	BlockerID string `gorm:"primaryKey"`
	BlockedID string `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

type CommunitySubscriber struct {
	CommunityID string `gorm:"primaryKey"`
	UserID      string `gorm:"primaryKey;index"`
	CreatedAt   time.Time
}

func (s CommunitySubscriber) OwnerID() string {
	return s.UserID
}

type CommunityModerator struct {
	CommunityID string `gorm:"primaryKey"`
	UserID      string `gorm:"primaryKey;index"`
	CreatedAt   time.Time
}

func (m CommunityModerator) OwnerID() string {
	return m.UserID
}

type CommunityBan struct {
	CommunityID string `gorm:"primaryKey"`
	UserID      string `gorm:"primaryKey;index"`
	CreatedAt   time.Time
}

func (b CommunityBan) OwnerID() string {
	return b.UserID
}

type PostBookmark struct {
	UserID    string `gorm:"primaryKey"`
	PostID    string `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

type CommentBookmark struct {
	UserID    string `gorm:"primaryKey"`
	CommentID string `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

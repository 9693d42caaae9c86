package entity

import (
	"time"

	"github.com/questx-lab/agora/pkg/enum"
)

type VoteDirection int

var (
	VoteUp   = enum.New(VoteDirection(1), "up")
	VoteDown = enum.New(VoteDirection(-1), "down")
)

func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// PostVote holds the current vote of a user on a post. Changing the vote
// flips Direction in place.
type PostVote struct {
	UserID    string `gorm:"primaryKey"`
	PostID    string `gorm:"primaryKey;index"`
	Direction VoteDirection
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v PostVote) OwnerID() string {
	return v.UserID
}

type CommentVote struct {
	UserID    string `gorm:"primaryKey"`
	CommentID string `gorm:"primaryKey;index"`
	Direction VoteDirection
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v CommentVote) OwnerID() string {
	return v.UserID
}

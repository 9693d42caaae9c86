package entity

import (
	"time"
)

type Base struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SnowFlakeBase struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owned is implemented by every entity attributable to a user. For a user,
// the owner is itself.
type Owned interface {
	OwnerID() string
}

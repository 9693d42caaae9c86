package entity

type Community struct {
	Base
	Name        string `gorm:"unique;size:128"`
	About       string
	OwnerUserID string `gorm:"index"`
	OwnerUser   User   `gorm:"foreignKey:OwnerUserID"`
}

func (c Community) OwnerID() string {
	return c.OwnerUserID
}

type CommunityStats struct {
	CommunityID string    `gorm:"primaryKey"`
	Community   Community `gorm:"foreignKey:CommunityID"`

	PostsCount       int64 `gorm:"not null;default:0"`
	CommentsCount    int64 `gorm:"not null;default:0"`
	SubscribersCount int64 `gorm:"not null;default:0"`
	ModeratorsCount  int64 `gorm:"not null;default:0"`
	BannedCount      int64 `gorm:"not null;default:0"`
}

func (cs CommunityStats) TableName() string {
	return "community_stats"
}

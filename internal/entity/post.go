package entity

type Post struct {
	Base
	Title       string
	Content     string
	OwnerUserID string    `gorm:"index"`
	OwnerUser   User      `gorm:"foreignKey:OwnerUserID"`
	CommunityID string    `gorm:"index"`
	Community   Community `gorm:"foreignKey:CommunityID"`
}

func (p Post) OwnerID() string {
	return p.OwnerUserID
}

type PostStats struct {
	PostID string `gorm:"primaryKey"`
	Post   Post   `gorm:"foreignKey:PostID"`

	CommentsCount  int64 `gorm:"not null;default:0"`
	BookmarksCount int64 `gorm:"not null;default:0"`
	UpvotesCount   int64 `gorm:"not null;default:0"`
	DownvotesCount int64 `gorm:"not null;default:0"`
}

func (ps PostStats) TableName() string {
	return "post_stats"
}

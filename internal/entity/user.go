package entity

type User struct {
	Base
	Username     string `gorm:"unique;size:64"`
	Email        string `gorm:"unique;size:256"`
	PasswordHash string
	Verified     bool
}

func (u User) OwnerID() string {
	return u.ID
}

type UserStats struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	FollowersCount     int64 `gorm:"not null;default:0"`
	FollowingCount     int64 `gorm:"not null;default:0"`
	CommunitiesCount   int64 `gorm:"not null;default:0"`
	PostsCount         int64 `gorm:"not null;default:0"`
	CommentsCount      int64 `gorm:"not null;default:0"`
	SubscriptionsCount int64 `gorm:"not null;default:0"`
	ModerationsCount   int64 `gorm:"not null;default:0"`
}

func (us UserStats) TableName() string {
	return "user_stats"
}

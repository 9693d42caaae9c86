package repository

import (
	"context"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

// UserFilter selects users. The relation fields are mutually independent and
// combine with AND.
type UserFilter struct {
	Q          string
	IDs        []string
	ExcludeIDs []string

	FollowersOf   string // users following this user
	FollowedBy    string // users followed by this user
	BlockedBy     string
	SubscribersOf string // community id
	ModeratorsOf  string // community id
	BannedFrom    string // community id
}

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetList(ctx context.Context, filter UserFilter, offset, limit int) ([]entity.User, int64, error)
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "username=?", username).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "email=?", email).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.User
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *userRepository) GetList(
	ctx context.Context, filter UserFilter, offset, limit int,
) ([]entity.User, int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.User{})

	if filter.Q != "" {
		tx = tx.Where("users.username LIKE ?", "%"+filter.Q+"%")
	}

	if len(filter.IDs) > 0 {
		tx = tx.Where("users.id IN (?)", filter.IDs)
	}

	if len(filter.ExcludeIDs) > 0 {
		tx = tx.Where("users.id NOT IN (?)", filter.ExcludeIDs)
	}

	if filter.FollowersOf != "" {
		tx = tx.Joins("JOIN follows ON follows.follower_id=users.id").
			Where("follows.followed_id=?", filter.FollowersOf)
	}

	if filter.FollowedBy != "" {
		tx = tx.Joins("JOIN follows AS followed ON followed.followed_id=users.id").
			Where("followed.follower_id=?", filter.FollowedBy)
	}

	if filter.BlockedBy != "" {
		tx = tx.Joins("JOIN blocks ON blocks.blocked_id=users.id").
			Where("blocks.blocker_id=?", filter.BlockedBy)
	}

	if filter.SubscribersOf != "" {
		tx = tx.Joins("JOIN community_subscribers ON community_subscribers.user_id=users.id").
			Where("community_subscribers.community_id=?", filter.SubscribersOf)
	}

	if filter.ModeratorsOf != "" {
		tx = tx.Joins("JOIN community_moderators ON community_moderators.user_id=users.id").
			Where("community_moderators.community_id=?", filter.ModeratorsOf)
	}

	if filter.BannedFrom != "" {
		tx = tx.Joins("JOIN community_bans ON community_bans.user_id=users.id").
			Where("community_bans.community_id=?", filter.BannedFrom)
	}

	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var result []entity.User
	err := tx.Order("users.created_at ASC, users.id ASC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

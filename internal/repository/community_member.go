package repository

import (
	"context"
	"time"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/enum"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

// MemberRole selects one of the three community membership tables. The three
// tables share the (community_id, user_id) shape.
type MemberRole string

var (
	RoleSubscriber = enum.New(MemberRole("subscriber"), "subscriber")
	RoleModerator  = enum.New(MemberRole("moderator"), "moderator")
	RoleBanned     = enum.New(MemberRole("banned"), "banned")
)

func (r MemberRole) table() string {
	switch r {
	case RoleSubscriber:
		return "community_subscribers"
	case RoleModerator:
		return "community_moderators"
	case RoleBanned:
		return "community_bans"
	}

	panic("unknown member role " + string(r))
}

func (r MemberRole) record(communityID, userID string) any {
	now := time.Now()
	switch r {
	case RoleSubscriber:
		return &entity.CommunitySubscriber{CommunityID: communityID, UserID: userID, CreatedAt: now}
	case RoleModerator:
		return &entity.CommunityModerator{CommunityID: communityID, UserID: userID, CreatedAt: now}
	case RoleBanned:
		return &entity.CommunityBan{CommunityID: communityID, UserID: userID, CreatedAt: now}
	}

	panic("unknown member role " + string(r))
}

func (r MemberRole) model() any {
	switch r {
	case RoleSubscriber:
		return &entity.CommunitySubscriber{}
	case RoleModerator:
		return &entity.CommunityModerator{}
	case RoleBanned:
		return &entity.CommunityBan{}
	}

	panic("unknown member role " + string(r))
}

type CommunityMemberRepository interface {
	Create(ctx context.Context, role MemberRole, communityID, userID string) error
	Exists(ctx context.Context, role MemberRole, communityID, userID string) (bool, error)
	Delete(ctx context.Context, role MemberRole, communityID, userID string) error
	DeleteByCommunityID(ctx context.Context, role MemberRole, communityID string) error
	GetUserIDs(ctx context.Context, role MemberRole, communityID string) ([]string, error)
	GetCommunityIDs(ctx context.Context, role MemberRole, userID string) ([]string, error)
}

type communityMemberRepository struct{}

func NewCommunityMemberRepository() *communityMemberRepository {
	return &communityMemberRepository{}
}

func (r *communityMemberRepository) Create(ctx context.Context, role MemberRole, communityID, userID string) error {
	return xcontext.DB(ctx).Create(role.record(communityID, userID)).Error
}

func (r *communityMemberRepository) Exists(
	ctx context.Context, role MemberRole, communityID, userID string,
) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Table(role.table()).
		Where("community_id=? AND user_id=?", communityID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *communityMemberRepository) Delete(ctx context.Context, role MemberRole, communityID, userID string) error {
	tx := xcontext.DB(ctx).Table(role.table()).
		Where("community_id=? AND user_id=?", communityID, userID).
		Delete(role.model())
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *communityMemberRepository) DeleteByCommunityID(ctx context.Context, role MemberRole, communityID string) error {
	return xcontext.DB(ctx).Table(role.table()).
		Where("community_id=?", communityID).
		Delete(role.model()).Error
}

func (r *communityMemberRepository) GetUserIDs(
	ctx context.Context, role MemberRole, communityID string,
) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Table(role.table()).
		Where("community_id=?", communityID).
		Order("created_at ASC, user_id ASC").
		Pluck("user_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *communityMemberRepository) GetCommunityIDs(
	ctx context.Context, role MemberRole, userID string,
) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Table(role.table()).
		Where("user_id=?", userID).
		Pluck("community_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

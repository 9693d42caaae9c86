package domain

import (
	"context"
	"time"

	"github.com/questx-lab/agora/internal/common"
	"github.com/questx-lab/agora/internal/domain/counter"
	"github.com/questx-lab/agora/internal/domain/notification"
	"github.com/questx-lab/agora/internal/domain/visibility"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/xcontext"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetUser(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	GetUsers(context.Context, *model.GetUsersRequest) (*model.GetUsersResponse, error)
	GetFollowers(context.Context, *model.GetFollowersRequest) (*model.GetFollowersResponse, error)
	GetFollowing(context.Context, *model.GetFollowingRequest) (*model.GetFollowingResponse, error)
	GetBlockedUsers(context.Context, *model.GetBlockedUsersRequest) (*model.GetBlockedUsersResponse, error)
	Follow(context.Context, *model.FollowRequest) (*model.FollowResponse, error)
	Unfollow(context.Context, *model.UnfollowRequest) (*model.UnfollowResponse, error)
	Block(context.Context, *model.BlockRequest) (*model.BlockResponse, error)
	Unblock(context.Context, *model.UnblockRequest) (*model.UnblockResponse, error)
}

type userDomain struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	blockRepo  repository.BlockRepository
	statsRepo  repository.StatsRepository
	visibility *visibility.Filter
	counter    counter.Engine
	notifier   notification.Notifier
}

func NewUserDomain(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	blockRepo repository.BlockRepository,
	statsRepo repository.StatsRepository,
	visibilityFilter *visibility.Filter,
	counterEngine counter.Engine,
	notifier notification.Notifier,
) UserDomain {
	return &userDomain{
		userRepo:   userRepo,
		followRepo: followRepo,
		blockRepo:  blockRepo,
		statsRepo:  statsRepo,
		visibility: visibilityFilter,
		counter:    counterEngine,
		notifier:   notifier,
	}
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	stats, err := d.statsRepo.GetUserStats(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetMeResponse{User: model.ConvertUser(user, stats, true)}, nil
}

func (d *userDomain) GetUser(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error) {
	user, err := d.getVisibleUser(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.GetUserStats(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetUserResponse{User: model.ConvertUser(user, stats, false)}, nil
}

func (d *userDomain) GetUsers(ctx context.Context, req *model.GetUsersRequest) (*model.GetUsersResponse, error) {
	users, pageInfo, err := d.listUsers(ctx, req.Pagination, repository.UserFilter{Q: req.Q})
	if err != nil {
		return nil, err
	}

	return &model.GetUsersResponse{Users: users, PageInfo: pageInfo}, nil
}

func (d *userDomain) GetFollowers(
	ctx context.Context, req *model.GetFollowersRequest,
) (*model.GetFollowersResponse, error) {
	user, err := d.getVisibleUser(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	users, pageInfo, err := d.listUsers(ctx, req.Pagination, repository.UserFilter{FollowersOf: user.ID})
	if err != nil {
		return nil, err
	}

	return &model.GetFollowersResponse{Users: users, PageInfo: pageInfo}, nil
}

func (d *userDomain) GetFollowing(
	ctx context.Context, req *model.GetFollowingRequest,
) (*model.GetFollowingResponse, error) {
	user, err := d.getVisibleUser(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	users, pageInfo, err := d.listUsers(ctx, req.Pagination, repository.UserFilter{FollowedBy: user.ID})
	if err != nil {
		return nil, err
	}

	return &model.GetFollowingResponse{Users: users, PageInfo: pageInfo}, nil
}

// GetBlockedUsers returns the block list of the request user. It is not
// filtered, the request user must be able to see whom they block.
func (d *userDomain) GetBlockedUsers(
	ctx context.Context, req *model.GetBlockedUsersRequest,
) (*model.GetBlockedUsersResponse, error) {
	p := common.NormalizePagination(ctx, req.Pagination)
	filter := repository.UserFilter{BlockedBy: xcontext.RequestUserID(ctx)}
	users, total, err := d.userRepo.GetList(ctx, filter, p.Offset(), p.PerPage)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get blocked users: %v", err)
		return nil, errorx.Unknown
	}

	clientUsers, err := convertUsers(ctx, d.statsRepo, users)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetBlockedUsersResponse{Users: clientUsers, PageInfo: model.NewPageInfo(p, total)}, nil
}

func (d *userDomain) Follow(ctx context.Context, req *model.FollowRequest) (*model.FollowResponse, error) {
	target, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	requestUserID := xcontext.RequestUserID(ctx)
	if target.ID == requestUserID {
		return nil, errorx.New(errorx.SelfAction, "You cannot follow yourself")
	}

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	exists, err := d.followRepo.Exists(txCtx, requestUserID, target.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check follow: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "You are already following this user")
	}

	err = d.followRepo.Create(txCtx, &entity.Follow{
		FollowerID: requestUserID,
		FollowedID: target.ID,
		CreatedAt:  time.Now(),
	})
	if err := createRelation(ctx, err, "You are already following this user", "create follow"); err != nil {
		return nil, err
	}

	if err := d.counter.Apply(txCtx, counter.NewFollowCreated(requestUserID, target.ID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update follow counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(txCtx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.notifier.Notify(ctx, notification.Event{
		Type:        entity.NotificationFollow,
		ActorID:     requestUserID,
		RecipientID: target.ID,
	})

	return &model.FollowResponse{}, nil
}

func (d *userDomain) Unfollow(ctx context.Context, req *model.UnfollowRequest) (*model.UnfollowResponse, error) {
	target, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	requestUserID := xcontext.RequestUserID(ctx)
	if target.ID == requestUserID {
		return nil, errorx.New(errorx.SelfAction, "You cannot unfollow yourself")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.followRepo.Delete(ctx, requestUserID, target.ID); err != nil {
		return nil, notFoundOrUnknown(ctx, err, "You are not following this user", "delete follow")
	}

	if err := d.counter.Apply(ctx, counter.NewFollowDeleted(requestUserID, target.ID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update follow counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnfollowResponse{}, nil
}

func (d *userDomain) Block(ctx context.Context, req *model.BlockRequest) (*model.BlockResponse, error) {
	target, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	requestUserID := xcontext.RequestUserID(ctx)
	if target.ID == requestUserID {
		return nil, errorx.New(errorx.SelfAction, "You cannot block yourself")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	exists, err := d.blockRepo.Exists(ctx, requestUserID, target.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check block: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "You have already blocked this user")
	}

	err = d.blockRepo.Create(ctx, &entity.Block{
		BlockerID: requestUserID,
		BlockedID: target.ID,
		CreatedAt: time.Now(),
	})
	if err := createRelation(ctx, err, "You have already blocked this user", "create block"); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.BlockResponse{}, nil
}

func (d *userDomain) Unblock(ctx context.Context, req *model.UnblockRequest) (*model.UnblockResponse, error) {
	target, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	requestUserID := xcontext.RequestUserID(ctx)
	if target.ID == requestUserID {
		return nil, errorx.New(errorx.SelfAction, "You cannot unblock yourself")
	}

	if err := d.blockRepo.Delete(ctx, requestUserID, target.ID); err != nil {
		return nil, notFoundOrUnknown(ctx, err, "You have not blocked this user", "delete block")
	}

	return &model.UnblockResponse{}, nil
}

// getVisibleUser returns NotFound for users hidden from the request user, a
// blocked profile looks the same as a missing one.
func (d *userDomain) getVisibleUser(ctx context.Context, username string) (*entity.User, error) {
	user, err := d.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	hidden, err := d.visibility.IsHidden(ctx, xcontext.RequestUserID(ctx), user.ID, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check visibility: %v", err)
		return nil, errorx.Unknown
	}

	if hidden {
		return nil, errorx.New(errorx.NotFound, "Not found user")
	}

	return user, nil
}

func (d *userDomain) listUsers(
	ctx context.Context, p model.Pagination, filter repository.UserFilter,
) ([]model.User, model.PageInfo, error) {
	p = common.NormalizePagination(ctx, p)

	excluded, err := d.visibility.Exclusion(ctx, xcontext.RequestUserID(ctx), "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get block exclusion: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}
	filter.ExcludeIDs = excluded

	users, total, err := d.userRepo.GetList(ctx, filter, p.Offset(), p.PerPage)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}

	clientUsers, err := convertUsers(ctx, d.statsRepo, users)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user stats: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}

	return clientUsers, model.NewPageInfo(p, total), nil
}

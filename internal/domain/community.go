package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/agora/internal/common"
	"github.com/questx-lab/agora/internal/domain/counter"
	"github.com/questx-lab/agora/internal/domain/notification"
	"github.com/questx-lab/agora/internal/domain/visibility"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

type CommunityDomain interface {
	Create(context.Context, *model.CreateCommunityRequest) (*model.CreateCommunityResponse, error)
	Get(context.Context, *model.GetCommunityRequest) (*model.GetCommunityResponse, error)
	GetList(context.Context, *model.GetCommunitiesRequest) (*model.GetCommunitiesResponse, error)
	GetMyCommunities(context.Context, *model.GetMyCommunitiesRequest) (*model.GetMyCommunitiesResponse, error)
	Update(context.Context, *model.UpdateCommunityRequest) (*model.UpdateCommunityResponse, error)
	Delete(context.Context, *model.DeleteCommunityRequest) (*model.DeleteCommunityResponse, error)
	Subscribe(context.Context, *model.SubscribeCommunityRequest) (*model.SubscribeCommunityResponse, error)
	Unsubscribe(context.Context, *model.UnsubscribeCommunityRequest) (*model.UnsubscribeCommunityResponse, error)
	Ban(context.Context, *model.BanUserRequest) (*model.BanUserResponse, error)
	Unban(context.Context, *model.UnbanUserRequest) (*model.UnbanUserResponse, error)
	Mod(context.Context, *model.ModUserRequest) (*model.ModUserResponse, error)
	Unmod(context.Context, *model.UnmodUserRequest) (*model.UnmodUserResponse, error)
	Transfer(context.Context, *model.TransferCommunityRequest) (*model.TransferCommunityResponse, error)
	GetSubscribers(context.Context, *model.GetSubscribersRequest) (*model.GetSubscribersResponse, error)
	GetModerators(context.Context, *model.GetModeratorsRequest) (*model.GetModeratorsResponse, error)
	GetBannedUsers(context.Context, *model.GetBannedUsersRequest) (*model.GetBannedUsersResponse, error)
}

type communityDomain struct {
	communityRepo         repository.CommunityRepository
	memberRepo            repository.CommunityMemberRepository
	userRepo              repository.UserRepository
	postRepo              repository.PostRepository
	statsRepo             repository.StatsRepository
	communityRoleVerifier *common.CommunityRoleVerifier
	remover               *contentRemover
	visibility            *visibility.Filter
	counter               counter.Engine
	notifier              notification.Notifier
}

func NewCommunityDomain(
	communityRepo repository.CommunityRepository,
	memberRepo repository.CommunityMemberRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	voteRepo repository.VoteRepository,
	bookmarkRepo repository.BookmarkRepository,
	statsRepo repository.StatsRepository,
	visibilityFilter *visibility.Filter,
	counterEngine counter.Engine,
	notifier notification.Notifier,
) CommunityDomain {
	return &communityDomain{
		communityRepo:         communityRepo,
		memberRepo:            memberRepo,
		userRepo:              userRepo,
		postRepo:              postRepo,
		statsRepo:             statsRepo,
		communityRoleVerifier: common.NewCommunityRoleVerifier(memberRepo),
		remover: newContentRemover(
			postRepo, commentRepo, voteRepo, bookmarkRepo, statsRepo, counterEngine),
		visibility: visibilityFilter,
		counter:    counterEngine,
		notifier:   notifier,
	}
}

func (d *communityDomain) Create(
	ctx context.Context, req *model.CreateCommunityRequest,
) (*model.CreateCommunityResponse, error) {
	if err := checkCommunityName(req.Name); err != nil {
		return nil, err
	}

	if err := checkText("about", req.About, 0, 1024); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	_, err := d.communityRepo.GetByName(ctx, req.Name)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get community by name: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.AlreadyExists, "Duplicated community name")
	}

	requestUserID := xcontext.RequestUserID(ctx)
	community := &entity.Community{
		Base:        entity.Base{ID: uuid.NewString()},
		Name:        req.Name,
		About:       req.About,
		OwnerUserID: requestUserID,
	}
	if err := d.communityRepo.Create(ctx, community); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Duplicated community name")
		}

		xcontext.Logger(ctx).Errorf("Cannot create community: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.statsRepo.CreateCommunityStats(ctx, community.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create community stats: %v", err)
		return nil, errorx.Unknown
	}

	// The owner is subscribed to and moderates the community from the start.
	for _, role := range []repository.MemberRole{repository.RoleSubscriber, repository.RoleModerator} {
		if err := d.memberRepo.Create(ctx, role, community.ID, requestUserID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot add owner as %s: %v", role, err)
			return nil, errorx.Unknown
		}
	}

	err = d.counter.Apply(ctx,
		counter.NewCommunityCreated(*community),
		counter.NewMemberAdded(counter.Subscriber, community.ID, requestUserID),
		counter.NewMemberAdded(counter.Moderator, community.ID, requestUserID),
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update community counters: %v", err)
		return nil, errorx.Unknown
	}

	stats, err := d.statsRepo.GetCommunityStats(ctx, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community stats: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCommunityResponse{Community: model.ConvertCommunity(community, stats)}, nil
}

func (d *communityDomain) Get(
	ctx context.Context, req *model.GetCommunityRequest,
) (*model.GetCommunityResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.GetCommunityStats(ctx, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetCommunityResponse{Community: model.ConvertCommunity(community, stats)}, nil
}

func (d *communityDomain) GetList(
	ctx context.Context, req *model.GetCommunitiesRequest,
) (*model.GetCommunitiesResponse, error) {
	communities, pageInfo, err := d.listCommunities(ctx, req.Pagination, repository.CommunityFilter{Q: req.Q})
	if err != nil {
		return nil, err
	}

	return &model.GetCommunitiesResponse{Communities: communities, PageInfo: pageInfo}, nil
}

func (d *communityDomain) GetMyCommunities(
	ctx context.Context, req *model.GetMyCommunitiesRequest,
) (*model.GetMyCommunitiesResponse, error) {
	filter := repository.CommunityFilter{SubscriberID: xcontext.RequestUserID(ctx)}
	communities, pageInfo, err := d.listCommunities(ctx, req.Pagination, filter)
	if err != nil {
		return nil, err
	}

	return &model.GetMyCommunitiesResponse{Communities: communities, PageInfo: pageInfo}, nil
}

func (d *communityDomain) Update(
	ctx context.Context, req *model.UpdateCommunityRequest,
) (*model.UpdateCommunityResponse, error) {
	if err := checkText("about", req.About, 0, 1024); err != nil {
		return nil, err
	}

	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	if community.OwnerUserID != xcontext.RequestUserID(ctx) {
		if err := d.communityRoleVerifier.VerifyModerator(ctx, community.ID); err != nil {
			return nil, err
		}
	}

	if err := d.communityRepo.UpdateAbout(ctx, community.ID, req.About); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update community: %v", err)
		return nil, errorx.Unknown
	}

	community, err = d.communityRepo.GetByID(ctx, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	stats, err := d.statsRepo.GetCommunityStats(ctx, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateCommunityResponse{Community: model.ConvertCommunity(community, stats)}, nil
}

// Delete removes the community with its posts, comments and memberships. The
// counters of every user involved are updated in the same transaction.
func (d *communityDomain) Delete(
	ctx context.Context, req *model.DeleteCommunityRequest,
) (*model.DeleteCommunityResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	if err := d.communityRoleVerifier.VerifyOwner(ctx, community); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	posts, err := d.postRepo.GetByCommunityID(ctx, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get posts of community: %v", err)
		return nil, errorx.Unknown
	}

	for _, post := range posts {
		if err := d.remover.deletePost(ctx, post); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete post %s: %v", post.ID, err)
			return nil, errorx.Unknown
		}
	}

	for _, role := range []repository.MemberRole{
		repository.RoleBanned, repository.RoleModerator, repository.RoleSubscriber,
	} {
		userIDs, err := d.memberRepo.GetUserIDs(ctx, role, community.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get %s list: %v", role, err)
			return nil, errorx.Unknown
		}

		events := make([]counter.Event, 0, len(userIDs))
		for _, userID := range userIDs {
			events = append(events, counter.NewMemberRemoved(counterRole(role), community.ID, userID))
		}

		if err := d.counter.Apply(ctx, events...); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update %s counters: %v", role, err)
			return nil, errorx.Unknown
		}

		if err := d.memberRepo.DeleteByCommunityID(ctx, role, community.ID); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete %s list: %v", role, err)
			return nil, errorx.Unknown
		}
	}

	if err := d.counter.Apply(ctx, counter.NewCommunityDeleted(*community)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update owner counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.statsRepo.DeleteCommunityStats(ctx, community.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete community stats: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.communityRepo.DeleteByID(ctx, community.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete community: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteCommunityResponse{}, nil
}

func (d *communityDomain) Subscribe(
	ctx context.Context, req *model.SubscribeCommunityRequest,
) (*model.SubscribeCommunityResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	requestUserID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	banned, err := d.communityRoleVerifier.Has(ctx, repository.RoleBanned, community.ID, requestUserID)
	if err != nil {
		return nil, err
	}

	if banned {
		return nil, errorx.New(errorx.Banned, "You are banned from this community")
	}

	subscribed, err := d.communityRoleVerifier.Has(ctx, repository.RoleSubscriber, community.ID, requestUserID)
	if err != nil {
		return nil, err
	}

	if subscribed {
		return nil, errorx.New(errorx.AlreadyExists, "You are already subscribed to this community")
	}

	err = d.memberRepo.Create(ctx, repository.RoleSubscriber, community.ID, requestUserID)
	if err := createRelation(ctx, err, "You are already subscribed to this community", "subscribe"); err != nil {
		return nil, err
	}

	err = d.counter.Apply(ctx, counter.NewMemberAdded(counter.Subscriber, community.ID, requestUserID))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update subscriber counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.notifier.Notify(ctx, notification.Event{
		Type:        entity.NotificationSubscribe,
		ActorID:     requestUserID,
		RecipientID: community.OwnerUserID,
		CommunityID: community.ID,
	})

	return &model.SubscribeCommunityResponse{}, nil
}

// Unsubscribe also drops the moderation of the request user, only subscribers
// may moderate.
func (d *communityDomain) Unsubscribe(
	ctx context.Context, req *model.UnsubscribeCommunityRequest,
) (*model.UnsubscribeCommunityResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	requestUserID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	banned, err := d.communityRoleVerifier.Has(ctx, repository.RoleBanned, community.ID, requestUserID)
	if err != nil {
		return nil, err
	}

	if banned {
		return nil, errorx.New(errorx.Banned, "You are banned from this community")
	}

	subscribed, err := d.communityRoleVerifier.Has(ctx, repository.RoleSubscriber, community.ID, requestUserID)
	if err != nil {
		return nil, err
	}

	if !subscribed {
		return nil, errorx.New(errorx.NotFound, "You are not subscribed to this community")
	}

	if community.OwnerUserID == requestUserID {
		return nil, errorx.New(errorx.Forbidden, "The owner cannot unsubscribe, transfer the community first")
	}

	if err := d.removeMember(ctx, repository.RoleSubscriber, community.ID, requestUserID); err != nil {
		return nil, err
	}

	if err := d.removeMemberIfExists(ctx, repository.RoleModerator, community.ID, requestUserID); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnsubscribeCommunityResponse{}, nil
}

// Ban revokes the subscription and the moderation of the banned user.
func (d *communityDomain) Ban(ctx context.Context, req *model.BanUserRequest) (*model.BanUserResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	if err := d.communityRoleVerifier.VerifyModerator(ctx, community.ID); err != nil {
		return nil, err
	}

	target, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	if target.ID == xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.SelfAction, "You cannot ban yourself")
	}

	if target.ID == community.OwnerUserID {
		return nil, errorx.New(errorx.Forbidden, "The owner cannot be banned")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	banned, err := d.communityRoleVerifier.Has(ctx, repository.RoleBanned, community.ID, target.ID)
	if err != nil {
		return nil, err
	}

	if banned {
		return nil, errorx.New(errorx.AlreadyExists, "The user is already banned")
	}

	err = d.memberRepo.Create(ctx, repository.RoleBanned, community.ID, target.ID)
	if err := createRelation(ctx, err, "The user is already banned", "ban user"); err != nil {
		return nil, err
	}

	if err := d.counter.Apply(ctx, counter.NewMemberAdded(counter.Banned, community.ID, target.ID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update ban counters: %v", err)
		return nil, errorx.Unknown
	}

	for _, role := range []repository.MemberRole{repository.RoleModerator, repository.RoleSubscriber} {
		if err := d.removeMemberIfExists(ctx, role, community.ID, target.ID); err != nil {
			return nil, err
		}
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.BanUserResponse{}, nil
}

func (d *communityDomain) Unban(ctx context.Context, req *model.UnbanUserRequest) (*model.UnbanUserResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	if err := d.communityRoleVerifier.VerifyModerator(ctx, community.ID); err != nil {
		return nil, err
	}

	target, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.removeMember(ctx, repository.RoleBanned, community.ID, target.ID); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnbanUserResponse{}, nil
}

func (d *communityDomain) Mod(ctx context.Context, req *model.ModUserRequest) (*model.ModUserResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	if err := d.communityRoleVerifier.VerifyOwner(ctx, community); err != nil {
		return nil, err
	}

	target, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	subscribed, err := d.communityRoleVerifier.Has(ctx, repository.RoleSubscriber, community.ID, target.ID)
	if err != nil {
		return nil, err
	}

	if !subscribed {
		return nil, errorx.New(errorx.NotSubscribed, "Only subscribers can be moderators")
	}

	moderator, err := d.communityRoleVerifier.Has(ctx, repository.RoleModerator, community.ID, target.ID)
	if err != nil {
		return nil, err
	}

	if moderator {
		return nil, errorx.New(errorx.AlreadyExists, "The user is already a moderator")
	}

	if err := d.addModerator(ctx, community.ID, target.ID); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ModUserResponse{}, nil
}

func (d *communityDomain) Unmod(ctx context.Context, req *model.UnmodUserRequest) (*model.UnmodUserResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	if err := d.communityRoleVerifier.VerifyOwner(ctx, community); err != nil {
		return nil, err
	}

	target, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	if target.ID == community.OwnerUserID {
		return nil, errorx.New(errorx.Forbidden, "The owner always moderates the community")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.removeMember(ctx, repository.RoleModerator, community.ID, target.ID); err != nil {
		return nil, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnmodUserResponse{}, nil
}

// Transfer hands the community to a subscriber, who becomes a moderator if
// not already one. The previous owner keeps moderating.
func (d *communityDomain) Transfer(
	ctx context.Context, req *model.TransferCommunityRequest,
) (*model.TransferCommunityResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	if err := d.communityRoleVerifier.VerifyOwner(ctx, community); err != nil {
		return nil, err
	}

	target, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	if target.ID == community.OwnerUserID {
		return nil, errorx.New(errorx.SelfAction, "You already own this community")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	subscribed, err := d.communityRoleVerifier.Has(ctx, repository.RoleSubscriber, community.ID, target.ID)
	if err != nil {
		return nil, err
	}

	if !subscribed {
		return nil, errorx.New(errorx.NotSubscribed, "The new owner must be a subscriber")
	}

	if err := d.communityRepo.UpdateOwner(ctx, community.ID, target.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update owner: %v", err)
		return nil, errorx.Unknown
	}

	event := counter.NewOwnershipTransferred(community.ID, community.OwnerUserID, target.ID)
	if err := d.counter.Apply(ctx, event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update owner counters: %v", err)
		return nil, errorx.Unknown
	}

	moderator, err := d.communityRoleVerifier.Has(ctx, repository.RoleModerator, community.ID, target.ID)
	if err != nil {
		return nil, err
	}

	if !moderator {
		if err := d.addModerator(ctx, community.ID, target.ID); err != nil {
			return nil, err
		}
	}

	community, err = d.communityRepo.GetByID(ctx, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	stats, err := d.statsRepo.GetCommunityStats(ctx, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community stats: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.TransferCommunityResponse{Community: model.ConvertCommunity(community, stats)}, nil
}

func (d *communityDomain) GetSubscribers(
	ctx context.Context, req *model.GetSubscribersRequest,
) (*model.GetSubscribersResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	excluded, err := d.visibility.Exclusion(ctx, xcontext.RequestUserID(ctx), community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get block exclusion: %v", err)
		return nil, errorx.Unknown
	}

	filter := repository.UserFilter{SubscribersOf: community.ID, ExcludeIDs: excluded}
	users, pageInfo, err := d.listUsers(ctx, req.Pagination, filter)
	if err != nil {
		return nil, err
	}

	return &model.GetSubscribersResponse{Users: users, PageInfo: pageInfo}, nil
}

// GetModerators is not paginated, a community has a handful of moderators.
func (d *communityDomain) GetModerators(
	ctx context.Context, req *model.GetModeratorsRequest,
) (*model.GetModeratorsResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	userIDs, err := d.memberRepo.GetUserIDs(ctx, repository.RoleModerator, community.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get moderators: %v", err)
		return nil, errorx.Unknown
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get moderators: %v", err)
		return nil, errorx.Unknown
	}

	users, err = visibility.Visible(ctx, d.visibility, xcontext.RequestUserID(ctx), community.ID, users)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot filter moderators: %v", err)
		return nil, errorx.Unknown
	}

	clientUsers, err := convertUsers(ctx, d.statsRepo, users)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetModeratorsResponse{Users: clientUsers}, nil
}

func (d *communityDomain) GetBannedUsers(
	ctx context.Context, req *model.GetBannedUsersRequest,
) (*model.GetBannedUsersResponse, error) {
	community, err := d.getCommunity(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	if err := d.communityRoleVerifier.VerifyModerator(ctx, community.ID); err != nil {
		return nil, err
	}

	users, pageInfo, err := d.listUsers(ctx, req.Pagination, repository.UserFilter{BannedFrom: community.ID})
	if err != nil {
		return nil, err
	}

	return &model.GetBannedUsersResponse{Users: users, PageInfo: pageInfo}, nil
}

func (d *communityDomain) getCommunity(ctx context.Context, name string) (*entity.Community, error) {
	community, err := d.communityRepo.GetByName(ctx, name)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found community", "get community")
	}

	return community, nil
}

func (d *communityDomain) listCommunities(
	ctx context.Context, p model.Pagination, filter repository.CommunityFilter,
) ([]model.Community, model.PageInfo, error) {
	p = common.NormalizePagination(ctx, p)
	communities, total, err := d.communityRepo.GetList(ctx, filter, p.Offset(), p.PerPage)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get communities: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}

	clientCommunities, err := convertCommunities(ctx, d.statsRepo, communities)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community stats: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}

	return clientCommunities, model.NewPageInfo(p, total), nil
}

func (d *communityDomain) listUsers(
	ctx context.Context, p model.Pagination, filter repository.UserFilter,
) ([]model.User, model.PageInfo, error) {
	p = common.NormalizePagination(ctx, p)
	users, total, err := d.userRepo.GetList(ctx, filter, p.Offset(), p.PerPage)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get members: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}

	clientUsers, err := convertUsers(ctx, d.statsRepo, users)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user stats: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}

	return clientUsers, model.NewPageInfo(p, total), nil
}

func (d *communityDomain) addModerator(ctx context.Context, communityID, userID string) error {
	err := d.memberRepo.Create(ctx, repository.RoleModerator, communityID, userID)
	if err := createRelation(ctx, err, "The user is already a moderator", "add moderator"); err != nil {
		return err
	}

	if err := d.counter.Apply(ctx, counter.NewMemberAdded(counter.Moderator, communityID, userID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update moderator counters: %v", err)
		return errorx.Unknown
	}

	return nil
}

// removeMember returns NotFound if userID does not have the role.
func (d *communityDomain) removeMember(
	ctx context.Context, role repository.MemberRole, communityID, userID string,
) error {
	if err := d.memberRepo.Delete(ctx, role, communityID, userID); err != nil {
		return notFoundOrUnknown(ctx, err, "The user is not a "+string(role), "remove "+string(role))
	}

	if err := d.counter.Apply(ctx, counter.NewMemberRemoved(counterRole(role), communityID, userID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update %s counters: %v", role, err)
		return errorx.Unknown
	}

	return nil
}

func (d *communityDomain) removeMemberIfExists(
	ctx context.Context, role repository.MemberRole, communityID, userID string,
) error {
	err := d.removeMember(ctx, role, communityID, userID)
	if errorx.Is(err, errorx.NotFound) {
		return nil
	}

	return err
}

func counterRole(role repository.MemberRole) counter.Role {
	switch role {
	case repository.RoleModerator:
		return counter.Moderator
	case repository.RoleBanned:
		return counter.Banned
	default:
		return counter.Subscriber
	}
}

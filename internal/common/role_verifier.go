package common

import (
	"context"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/xcontext"
)

// CommunityRoleVerifier checks the membership of the request user in a
// community. Every Verify method returns an errorx error ready to be returned
// by a domain.
type CommunityRoleVerifier struct {
	memberRepo repository.CommunityMemberRepository
}

func NewCommunityRoleVerifier(memberRepo repository.CommunityMemberRepository) *CommunityRoleVerifier {
	return &CommunityRoleVerifier{memberRepo: memberRepo}
}

func (verifier *CommunityRoleVerifier) Has(
	ctx context.Context, role repository.MemberRole, communityID, userID string,
) (bool, error) {
	ok, err := verifier.memberRepo.Exists(ctx, role, communityID, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check %s of community %s: %v", role, communityID, err)
		return false, errorx.Unknown
	}

	return ok, nil
}

// VerifyParticipant requires the request user to be subscribed to the
// community and not banned from it.
func (verifier *CommunityRoleVerifier) VerifyParticipant(ctx context.Context, communityID string) error {
	userID := xcontext.RequestUserID(ctx)

	banned, err := verifier.Has(ctx, repository.RoleBanned, communityID, userID)
	if err != nil {
		return err
	}

	if banned {
		return errorx.New(errorx.Banned, "You are banned from this community")
	}

	subscribed, err := verifier.Has(ctx, repository.RoleSubscriber, communityID, userID)
	if err != nil {
		return err
	}

	if !subscribed {
		return errorx.New(errorx.NotSubscribed, "You are not subscribed to this community")
	}

	return nil
}

// VerifyModerator requires the request user to moderate the community.
func (verifier *CommunityRoleVerifier) VerifyModerator(ctx context.Context, communityID string) error {
	ok, err := verifier.Has(ctx, repository.RoleModerator, communityID, xcontext.RequestUserID(ctx))
	if err != nil {
		return err
	}

	if !ok {
		return errorx.New(errorx.Unauthorized, "Only moderators can perform this action")
	}

	return nil
}

// VerifyOwner requires the request user to own the community.
func (verifier *CommunityRoleVerifier) VerifyOwner(ctx context.Context, community *entity.Community) error {
	if community.OwnerUserID != xcontext.RequestUserID(ctx) {
		return errorx.New(errorx.Unauthorized, "Only the owner can perform this action")
	}

	return nil
}

// VerifyOwnerOrModerator is the rule for editing content: the content owner
// or a moderator of its community.
func (verifier *CommunityRoleVerifier) VerifyOwnerOrModerator(
	ctx context.Context, ownerID, communityID string,
) error {
	if ownerID == xcontext.RequestUserID(ctx) {
		return nil
	}

	ok, err := verifier.Has(ctx, repository.RoleModerator, communityID, xcontext.RequestUserID(ctx))
	if err != nil {
		return err
	}

	if !ok {
		return errorx.New(errorx.Ownership, "You are neither the owner nor a moderator")
	}

	return nil
}

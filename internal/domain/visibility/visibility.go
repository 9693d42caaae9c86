// Package visibility hides content across a block between two users. A block
// is stored in one direction but hides content in both: if A blocks B, A does
// not see what B owns and B does not see what A owns.
//
// Anonymous viewers see everything. A moderator listing the content of their
// own community sees everything in it.
package visibility

import (
	"context"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
	"golang.org/x/exp/maps"
)

type Filter struct {
	blockRepo  repository.BlockRepository
	memberRepo repository.CommunityMemberRepository
}

func NewFilter(
	blockRepo repository.BlockRepository,
	memberRepo repository.CommunityMemberRepository,
) *Filter {
	return &Filter{blockRepo: blockRepo, memberRepo: memberRepo}
}

// Exclusion returns the owners whose content must be hidden from actorID. An
// empty actorID is the anonymous viewer. communityID is the community the
// listing is scoped to, or empty if it is not scoped. A nil result means
// nothing has to be hidden.
func (f *Filter) Exclusion(ctx context.Context, actorID, communityID string) ([]string, error) {
	set, err := f.exclusionSet(ctx, actorID, communityID)
	if err != nil || set == nil {
		return nil, err
	}

	return maps.Keys(set), nil
}

func (f *Filter) exclusionSet(ctx context.Context, actorID, communityID string) (map[string]struct{}, error) {
	if actorID == "" {
		return nil, nil
	}

	if communityID != "" {
		isModerator, err := f.memberRepo.Exists(ctx, repository.RoleModerator, communityID, actorID)
		if err != nil {
			return nil, err
		}

		if isModerator {
			return nil, nil
		}
	}

	blocked, err := f.blockRepo.GetBlockedIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}

	blocking, err := f.blockRepo.GetBlockerIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if len(blocked) == 0 && len(blocking) == 0 {
		return nil, nil
	}

	set := make(map[string]struct{}, len(blocked)+len(blocking))
	for _, id := range blocked {
		set[id] = struct{}{}
	}
	for _, id := range blocking {
		set[id] = struct{}{}
	}

	return set, nil
}

// IsHidden reports whether an entity owned by ownerID is hidden from actorID.
func (f *Filter) IsHidden(ctx context.Context, actorID, ownerID, communityID string) (bool, error) {
	if actorID == "" || actorID == ownerID {
		return false, nil
	}

	if communityID != "" {
		isModerator, err := f.memberRepo.Exists(ctx, repository.RoleModerator, communityID, actorID)
		if err != nil {
			return false, err
		}

		if isModerator {
			return false, nil
		}
	}

	return f.blockRepo.ExistsEither(ctx, actorID, ownerID)
}

// Visible returns the candidates which are not hidden from actorID, in their
// original order.
func Visible[T entity.Owned](
	ctx context.Context, f *Filter, actorID, communityID string, candidates []T,
) ([]T, error) {
	excluded, err := f.exclusionSet(ctx, actorID, communityID)
	if err != nil {
		return nil, err
	}

	return excludeOwners(candidates, excluded), nil
}

// Exclude drops the candidates owned by one of ownerIDs, keeping the order of
// the rest.
func Exclude[T entity.Owned](candidates []T, ownerIDs []string) []T {
	if len(ownerIDs) == 0 {
		return candidates
	}

	set := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		set[id] = struct{}{}
	}

	return excludeOwners(candidates, set)
}

func excludeOwners[T entity.Owned](candidates []T, owners map[string]struct{}) []T {
	if len(owners) == 0 {
		return candidates
	}

	result := make([]T, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := owners[c.OwnerID()]; !ok {
			result = append(result, c)
		}
	}

	return result
}

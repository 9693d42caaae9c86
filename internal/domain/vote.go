package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/agora/internal/domain/counter"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

// A vote is read, then written only if it still has the direction it was read
// with. A miss means another request changed it in between, the vote is read
// again up to maxVoteAttempts times.
const maxVoteAttempts = 3

// voteTarget binds the vote rows of one user on one post or comment.
type voteTarget struct {
	kind string

	get    func(ctx context.Context) (entity.VoteDirection, error)
	create func(ctx context.Context, direction entity.VoteDirection) error
	update func(ctx context.Context, from, to entity.VoteDirection) error
	delete func(ctx context.Context, direction entity.VoteDirection) error

	created func(direction entity.VoteDirection) counter.Event
	deleted func(direction entity.VoteDirection) counter.Event
	flipped func(direction entity.VoteDirection) counter.Event
}

// castVote creates the vote or flips it to direction. It must run inside the
// transaction of the caller.
func castVote(
	ctx context.Context, engine counter.Engine, target voteTarget, direction entity.VoteDirection,
) error {
	for attempt := 1; ; attempt++ {
		current, err := target.get(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err := target.create(ctx, direction)
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errorx.New(errorx.AlreadyVoted, "You have already voted this %s", target.kind)
			}

			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot create %s vote: %v", target.kind, err)
				return errorx.Unknown
			}

			return applyVoteCounter(ctx, engine, target.created(direction))
		}

		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get %s vote: %v", target.kind, err)
			return errorx.Unknown
		}

		if current == direction {
			return errorx.New(errorx.AlreadyVoted, "You have already voted this %s", target.kind)
		}

		err = target.update(ctx, current, direction)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if attempt < maxVoteAttempts {
				continue
			}

			return errorx.New(errorx.Conflict, "Your vote on this %s keeps changing, try again", target.kind)
		}

		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot update %s vote: %v", target.kind, err)
			return errorx.Unknown
		}

		return applyVoteCounter(ctx, engine, target.flipped(direction))
	}
}

// withdrawVote deletes the vote with the direction it has at the time of the
// delete. It must run inside the transaction of the caller.
func withdrawVote(ctx context.Context, engine counter.Engine, target voteTarget) error {
	for attempt := 1; ; attempt++ {
		current, err := target.get(ctx)
		if err != nil {
			return notFoundOrUnknown(ctx, err,
				"You have not voted this "+target.kind, "get "+target.kind+" vote")
		}

		err = target.delete(ctx, current)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if attempt < maxVoteAttempts {
				continue
			}

			return errorx.New(errorx.Conflict, "Your vote on this %s keeps changing, try again", target.kind)
		}

		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete %s vote: %v", target.kind, err)
			return errorx.Unknown
		}

		return applyVoteCounter(ctx, engine, target.deleted(current))
	}
}

func applyVoteCounter(ctx context.Context, engine counter.Engine, ev counter.Event) error {
	if err := engine.Apply(ctx, ev); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update vote counters: %v", err)
		return errorx.Unknown
	}

	return nil
}

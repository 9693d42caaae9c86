package counter

import (
	"context"
	"fmt"
	"sort"

	"github.com/questx-lab/agora/internal/common"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
)

// Engine keeps the stats rows equal to the count of their relation rows. It
// must be called with the context of the transaction performing the relation
// mutation, so that both commit or roll back together.
type Engine interface {
	Apply(ctx context.Context, events ...Event) error
}

type delta struct {
	table  repository.StatsTable
	id     string
	column string
	n      int64
}

type rowKey struct {
	table repository.StatsTable
	id    string
}

type engine struct {
	statsRepo repository.StatsRepository
}

func NewEngine(statsRepo repository.StatsRepository) *engine {
	return &engine{statsRepo: statsRepo}
}

// Apply merges the deltas of all events per stats row and updates each row
// once. Rows are updated in a fixed order so concurrent transactions lock
// them in the same sequence.
func (e *engine) Apply(ctx context.Context, events ...Event) error {
	rows := map[rowKey]map[string]int64{}
	for _, ev := range events {
		for _, d := range deltas(ev) {
			key := rowKey{table: d.table, id: d.id}
			if rows[key] == nil {
				rows[key] = map[string]int64{}
			}
			rows[key][d.column] += d.n
		}
	}

	keys := make([]rowKey, 0, len(rows))
	for key := range rows {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].table != keys[j].table {
			return keys[i].table < keys[j].table
		}
		return keys[i].id < keys[j].id
	})

	for _, key := range keys {
		if err := e.statsRepo.Apply(ctx, key.table, key.id, rows[key]); err != nil {
			return fmt.Errorf("apply %s of %s: %w", key.table, key.id, err)
		}

		common.PromCounters[common.StatsUpdateTotal].WithLabelValues(string(key.table)).Inc()
	}

	return nil
}

func deltas(ev Event) []delta {
	sign := int64(1)
	switch ev.Kind {
	case PostDeleted, CommentDeleted, CommunityDeleted, FollowDeleted, MemberRemoved,
		PostVoteDeleted, CommentVoteDeleted, PostBookmarkDeleted, CommentBookmarkDeleted:
		sign = -1
	}

	user := func(id, column string) delta {
		return delta{table: repository.UserStatsTable, id: id, column: column, n: sign}
	}
	community := func(column string) delta {
		return delta{table: repository.CommunityStatsTable, id: ev.CommunityID, column: column, n: sign}
	}
	post := func(id, column string) delta {
		return delta{table: repository.PostStatsTable, id: id, column: column, n: sign}
	}
	comment := func(id, column string) delta {
		return delta{table: repository.CommentStatsTable, id: id, column: column, n: sign}
	}

	switch ev.Kind {
	case PostCreated, PostDeleted:
		return []delta{
			user(ev.UserID, "posts_count"),
			community("posts_count"),
		}

	case CommentCreated, CommentDeleted:
		result := []delta{
			user(ev.UserID, "comments_count"),
			community("comments_count"),
			post(ev.PostID, "comments_count"),
		}
		if ev.ParentID != "" {
			result = append(result, comment(ev.ParentID, "replies_count"))
		}
		return result

	case CommunityCreated, CommunityDeleted:
		return []delta{user(ev.UserID, "communities_count")}

	case OwnershipTransferred:
		from := user(ev.UserID, "communities_count")
		from.n = -1
		return []delta{from, user(ev.TargetID, "communities_count")}

	case FollowCreated, FollowDeleted:
		return []delta{
			user(ev.UserID, "following_count"),
			user(ev.TargetID, "followers_count"),
		}

	case MemberAdded, MemberRemoved:
		switch ev.Role {
		case Subscriber:
			return []delta{community("subscribers_count"), user(ev.UserID, "subscriptions_count")}
		case Moderator:
			return []delta{community("moderators_count"), user(ev.UserID, "moderations_count")}
		case Banned:
			return []delta{community("banned_count")}
		}

	case PostVoteCreated, PostVoteDeleted:
		return []delta{post(ev.TargetID, voteColumn(ev.Direction))}

	case CommentVoteCreated, CommentVoteDeleted:
		return []delta{comment(ev.TargetID, voteColumn(ev.Direction))}

	case PostVoteFlipped, CommentVoteFlipped:
		table := repository.PostStatsTable
		if ev.Kind == CommentVoteFlipped {
			table = repository.CommentStatsTable
		}

		return []delta{
			{table: table, id: ev.TargetID, column: voteColumn(-ev.Direction), n: -1},
			{table: table, id: ev.TargetID, column: voteColumn(ev.Direction), n: 1},
		}

	case PostBookmarkCreated, PostBookmarkDeleted:
		return []delta{post(ev.TargetID, "bookmarks_count")}

	case CommentBookmarkCreated, CommentBookmarkDeleted:
		return []delta{comment(ev.TargetID, "bookmarks_count")}
	}

	panic(fmt.Sprintf("unknown counter event %d", ev.Kind))
}

func voteColumn(direction entity.VoteDirection) string {
	if direction == entity.VoteUp {
		return "upvotes_count"
	}

	return "downvotes_count"
}

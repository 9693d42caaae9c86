package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

// ErrStatsNotApplied is returned by Apply when the stats row does not exist
// or when a decrement would bring a counter below zero.
var ErrStatsNotApplied = errors.New("stats row is missing or counter would become negative")

type StatsTable string

const (
	UserStatsTable      StatsTable = "user_stats"
	CommunityStatsTable StatsTable = "community_stats"
	PostStatsTable      StatsTable = "post_stats"
	CommentStatsTable   StatsTable = "comment_stats"
)

func (t StatsTable) key() string {
	switch t {
	case UserStatsTable:
		return "user_id"
	case CommunityStatsTable:
		return "community_id"
	case PostStatsTable:
		return "post_id"
	case CommentStatsTable:
		return "comment_id"
	}

	panic("unknown stats table " + string(t))
}

type StatsRepository interface {
	CreateUserStats(ctx context.Context, userID string) error
	CreateCommunityStats(ctx context.Context, communityID string) error
	CreatePostStats(ctx context.Context, postID string) error
	CreateCommentStats(ctx context.Context, commentID string) error

	GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error)
	GetUserStatsByIDs(ctx context.Context, userIDs []string) ([]entity.UserStats, error)
	GetCommunityStats(ctx context.Context, communityID string) (*entity.CommunityStats, error)
	GetCommunityStatsByIDs(ctx context.Context, communityIDs []string) ([]entity.CommunityStats, error)
	GetPostStats(ctx context.Context, postID string) (*entity.PostStats, error)
	GetPostStatsByIDs(ctx context.Context, postIDs []string) ([]entity.PostStats, error)
	GetCommentStats(ctx context.Context, commentID string) (*entity.CommentStats, error)
	GetCommentStatsByIDs(ctx context.Context, commentIDs []string) ([]entity.CommentStats, error)

	DeleteCommunityStats(ctx context.Context, communityID string) error
	DeletePostStats(ctx context.Context, postID string) error
	DeleteCommentStats(ctx context.Context, commentIDs []string) error

	// Apply adds every delta to its column of one stats row in a single
	// atomic UPDATE. Negative deltas are guarded so no counter goes below
	// zero.
	Apply(ctx context.Context, table StatsTable, id string, deltas map[string]int64) error

	// Recount rebuilds every counter from the relation tables.
	Recount(ctx context.Context) error
}

type statsRepository struct{}

func NewStatsRepository() *statsRepository {
	return &statsRepository{}
}

func (r *statsRepository) CreateUserStats(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).Create(&entity.UserStats{UserID: userID}).Error
}

func (r *statsRepository) CreateCommunityStats(ctx context.Context, communityID string) error {
	return xcontext.DB(ctx).Create(&entity.CommunityStats{CommunityID: communityID}).Error
}

func (r *statsRepository) CreatePostStats(ctx context.Context, postID string) error {
	return xcontext.DB(ctx).Create(&entity.PostStats{PostID: postID}).Error
}

func (r *statsRepository) CreateCommentStats(ctx context.Context, commentID string) error {
	return xcontext.DB(ctx).Create(&entity.CommentStats{CommentID: commentID}).Error
}

func (r *statsRepository) GetUserStats(ctx context.Context, userID string) (*entity.UserStats, error) {
	var result entity.UserStats
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *statsRepository) GetUserStatsByIDs(ctx context.Context, userIDs []string) ([]entity.UserStats, error) {
	var result []entity.UserStats
	if len(userIDs) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "user_id IN (?)", userIDs).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *statsRepository) GetCommunityStats(ctx context.Context, communityID string) (*entity.CommunityStats, error) {
	var result entity.CommunityStats
	if err := xcontext.DB(ctx).Take(&result, "community_id=?", communityID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *statsRepository) GetCommunityStatsByIDs(
	ctx context.Context, communityIDs []string,
) ([]entity.CommunityStats, error) {
	var result []entity.CommunityStats
	if len(communityIDs) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "community_id IN (?)", communityIDs).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *statsRepository) GetPostStats(ctx context.Context, postID string) (*entity.PostStats, error) {
	var result entity.PostStats
	if err := xcontext.DB(ctx).Take(&result, "post_id=?", postID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *statsRepository) GetPostStatsByIDs(ctx context.Context, postIDs []string) ([]entity.PostStats, error) {
	var result []entity.PostStats
	if len(postIDs) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "post_id IN (?)", postIDs).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *statsRepository) GetCommentStats(ctx context.Context, commentID string) (*entity.CommentStats, error) {
	var result entity.CommentStats
	if err := xcontext.DB(ctx).Take(&result, "comment_id=?", commentID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *statsRepository) GetCommentStatsByIDs(
	ctx context.Context, commentIDs []string,
) ([]entity.CommentStats, error) {
	var result []entity.CommentStats
	if len(commentIDs) == 0 {
		return result, nil
	}

	if err := xcontext.DB(ctx).Find(&result, "comment_id IN (?)", commentIDs).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *statsRepository) DeleteCommunityStats(ctx context.Context, communityID string) error {
	return xcontext.DB(ctx).Delete(&entity.CommunityStats{}, "community_id=?", communityID).Error
}

func (r *statsRepository) DeletePostStats(ctx context.Context, postID string) error {
	return xcontext.DB(ctx).Delete(&entity.PostStats{}, "post_id=?", postID).Error
}

func (r *statsRepository) DeleteCommentStats(ctx context.Context, commentIDs []string) error {
	if len(commentIDs) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Delete(&entity.CommentStats{}, "comment_id IN (?)", commentIDs).Error
}

func (r *statsRepository) Apply(ctx context.Context, table StatsTable, id string, deltas map[string]int64) error {
	columns := make([]string, 0, len(deltas))
	for col, delta := range deltas {
		if delta != 0 {
			columns = append(columns, col)
		}
	}

	if len(columns) == 0 {
		return nil
	}

	// Fixed column order keeps the generated statement stable.
	sort.Strings(columns)

	tx := xcontext.DB(ctx).Table(string(table)).Where(table.key()+"=?", id)
	values := map[string]any{}
	for _, col := range columns {
		delta := deltas[col]
		values[col] = gorm.Expr(col+" + ?", delta)
		if delta < 0 {
			tx = tx.Where(col+" >= ?", -delta)
		}
	}

	result := tx.Updates(values)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s(%s)", ErrStatsNotApplied, table, id)
	}

	return nil
}

type recount struct {
	table  StatsTable
	column string
	query  string
}

var recounts = []recount{
	{UserStatsTable, "followers_count", "SELECT COUNT(*) FROM follows WHERE follows.followed_id=user_stats.user_id"},
	{UserStatsTable, "following_count", "SELECT COUNT(*) FROM follows WHERE follows.follower_id=user_stats.user_id"},
	{UserStatsTable, "communities_count", "SELECT COUNT(*) FROM communities WHERE communities.owner_user_id=user_stats.user_id"},
	{UserStatsTable, "posts_count", "SELECT COUNT(*) FROM posts WHERE posts.owner_user_id=user_stats.user_id"},
	{UserStatsTable, "comments_count", "SELECT COUNT(*) FROM comments WHERE comments.owner_user_id=user_stats.user_id"},
	{UserStatsTable, "subscriptions_count", "SELECT COUNT(*) FROM community_subscribers WHERE community_subscribers.user_id=user_stats.user_id"},
	{UserStatsTable, "moderations_count", "SELECT COUNT(*) FROM community_moderators WHERE community_moderators.user_id=user_stats.user_id"},

	{CommunityStatsTable, "posts_count", "SELECT COUNT(*) FROM posts WHERE posts.community_id=community_stats.community_id"},
	{CommunityStatsTable, "comments_count", "SELECT COUNT(*) FROM comments JOIN posts ON posts.id=comments.post_id WHERE posts.community_id=community_stats.community_id"},
	{CommunityStatsTable, "subscribers_count", "SELECT COUNT(*) FROM community_subscribers WHERE community_subscribers.community_id=community_stats.community_id"},
	{CommunityStatsTable, "moderators_count", "SELECT COUNT(*) FROM community_moderators WHERE community_moderators.community_id=community_stats.community_id"},
	{CommunityStatsTable, "banned_count", "SELECT COUNT(*) FROM community_bans WHERE community_bans.community_id=community_stats.community_id"},

	{PostStatsTable, "comments_count", "SELECT COUNT(*) FROM comments WHERE comments.post_id=post_stats.post_id"},
	{PostStatsTable, "bookmarks_count", "SELECT COUNT(*) FROM post_bookmarks WHERE post_bookmarks.post_id=post_stats.post_id"},
	{PostStatsTable, "upvotes_count", "SELECT COUNT(*) FROM post_votes WHERE post_votes.post_id=post_stats.post_id AND post_votes.direction=1"},
	{PostStatsTable, "downvotes_count", "SELECT COUNT(*) FROM post_votes WHERE post_votes.post_id=post_stats.post_id AND post_votes.direction=-1"},

	{CommentStatsTable, "replies_count", "SELECT COUNT(*) FROM comments AS replies WHERE replies.parent_id=comment_stats.comment_id"},
	{CommentStatsTable, "bookmarks_count", "SELECT COUNT(*) FROM comment_bookmarks WHERE comment_bookmarks.comment_id=comment_stats.comment_id"},
	{CommentStatsTable, "upvotes_count", "SELECT COUNT(*) FROM comment_votes WHERE comment_votes.comment_id=comment_stats.comment_id AND comment_votes.direction=1"},
	{CommentStatsTable, "downvotes_count", "SELECT COUNT(*) FROM comment_votes WHERE comment_votes.comment_id=comment_stats.comment_id AND comment_votes.direction=-1"},
}

func (r *statsRepository) Recount(ctx context.Context) error {
	values := map[StatsTable]map[string]any{}
	for _, rc := range recounts {
		if values[rc.table] == nil {
			values[rc.table] = map[string]any{}
		}
		values[rc.table][rc.column] = gorm.Expr("(" + rc.query + ")")
	}

	db := xcontext.DB(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, table := range []StatsTable{UserStatsTable, CommunityStatsTable, PostStatsTable, CommentStatsTable} {
		if err := db.Table(string(table)).Updates(values[table]).Error; err != nil {
			return err
		}
	}

	return nil
}

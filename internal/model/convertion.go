package model

import (
	"strconv"
	"time"

	"github.com/questx-lab/agora/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUserStats(stats *entity.UserStats) UserStats {
	if stats == nil {
		return UserStats{}
	}

	return UserStats{
		FollowersCount:     stats.FollowersCount,
		FollowingCount:     stats.FollowingCount,
		CommunitiesCount:   stats.CommunitiesCount,
		PostsCount:         stats.PostsCount,
		CommentsCount:      stats.CommentsCount,
		SubscriptionsCount: stats.SubscriptionsCount,
		ModerationsCount:   stats.ModerationsCount,
	}
}

// ConvertUser hides the email unless includeSensitive is set, which is only
// the case when users query themselves.
func ConvertUser(user *entity.User, stats *entity.UserStats, includeSensitive bool) User {
	if user == nil {
		return User{}
	}

	u := User{
		ID:        user.ID,
		Username:  user.Username,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt.Format(DefaultTimeLayout),
		Stats:     ConvertUserStats(stats),
	}

	if includeSensitive {
		u.Email = user.Email
	}

	return u
}

func ConvertShortUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	return ShortUser{ID: user.ID, Username: user.Username}
}

func ConvertCommunityStats(stats *entity.CommunityStats) CommunityStats {
	if stats == nil {
		return CommunityStats{}
	}

	return CommunityStats{
		PostsCount:       stats.PostsCount,
		CommentsCount:    stats.CommentsCount,
		SubscribersCount: stats.SubscribersCount,
		ModeratorsCount:  stats.ModeratorsCount,
		BannedCount:      stats.BannedCount,
	}
}

func ConvertCommunity(community *entity.Community, stats *entity.CommunityStats) Community {
	if community == nil {
		return Community{}
	}

	return Community{
		ID:        community.ID,
		Name:      community.Name,
		About:     community.About,
		OwnerID:   community.OwnerUserID,
		CreatedAt: community.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt: community.UpdatedAt.Format(DefaultTimeLayout),
		Stats:     ConvertCommunityStats(stats),
	}
}

func ConvertPostStats(stats *entity.PostStats) PostStats {
	if stats == nil {
		return PostStats{}
	}

	return PostStats{
		CommentsCount:  stats.CommentsCount,
		BookmarksCount: stats.BookmarksCount,
		UpvotesCount:   stats.UpvotesCount,
		DownvotesCount: stats.DownvotesCount,
	}
}

func ConvertPost(post *entity.Post, stats *entity.PostStats) Post {
	if post == nil {
		return Post{}
	}

	return Post{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		OwnerID:     post.OwnerUserID,
		CommunityID: post.CommunityID,
		CreatedAt:   post.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt:   post.UpdatedAt.Format(DefaultTimeLayout),
		Stats:       ConvertPostStats(stats),
	}
}

func ConvertCommentStats(stats *entity.CommentStats) CommentStats {
	if stats == nil {
		return CommentStats{}
	}

	return CommentStats{
		RepliesCount:   stats.RepliesCount,
		BookmarksCount: stats.BookmarksCount,
		UpvotesCount:   stats.UpvotesCount,
		DownvotesCount: stats.DownvotesCount,
	}
}

func ConvertComment(comment *entity.Comment, stats *entity.CommentStats) Comment {
	if comment == nil {
		return Comment{}
	}

	return Comment{
		ID:        comment.ID,
		Content:   comment.Content,
		OwnerID:   comment.OwnerUserID,
		PostID:    comment.PostID,
		ParentID:  comment.ParentID.String,
		CreatedAt: comment.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt: comment.UpdatedAt.Format(DefaultTimeLayout),
		Stats:     ConvertCommentStats(stats),
	}
}

func ConvertVote(user *entity.User, direction entity.VoteDirection, createdAt time.Time) Vote {
	return Vote{
		User:      ConvertShortUser(user),
		Direction: int(direction),
		CreatedAt: createdAt.Format(DefaultTimeLayout),
	}
}

func ConvertNotification(n *entity.Notification) Notification {
	if n == nil {
		return Notification{}
	}

	return Notification{
		ID:          strconv.FormatInt(n.ID, 10),
		Type:        string(n.Type),
		RecipientID: n.RecipientID,
		ActorID:     n.ActorID,
		CommunityID: n.CommunityID.String,
		PostID:      n.PostID.String,
		CommentID:   n.CommentID.String,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt.Format(DefaultTimeLayout),
	}
}

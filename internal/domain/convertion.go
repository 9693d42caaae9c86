package domain

import (
	"context"

	"github.com/questx-lab/agora/internal/common"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
)

// The helpers below attach the stats rows to a page of entities with one
// query per page.

func convertUsers(
	ctx context.Context, statsRepo repository.StatsRepository, users []entity.User,
) ([]model.User, error) {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	stats, err := statsRepo.GetUserStatsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	statsMap := common.IndexBy(stats, func(s entity.UserStats) string { return s.UserID })
	result := []model.User{}
	for i := range users {
		s := statsMap[users[i].ID]
		result = append(result, model.ConvertUser(&users[i], &s, false))
	}

	return result, nil
}

func convertCommunities(
	ctx context.Context, statsRepo repository.StatsRepository, communities []entity.Community,
) ([]model.Community, error) {
	ids := make([]string, 0, len(communities))
	for _, c := range communities {
		ids = append(ids, c.ID)
	}

	stats, err := statsRepo.GetCommunityStatsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	statsMap := common.IndexBy(stats, func(s entity.CommunityStats) string { return s.CommunityID })
	result := []model.Community{}
	for i := range communities {
		s := statsMap[communities[i].ID]
		result = append(result, model.ConvertCommunity(&communities[i], &s))
	}

	return result, nil
}

func convertPosts(
	ctx context.Context, statsRepo repository.StatsRepository, posts []entity.Post,
) ([]model.Post, error) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	stats, err := statsRepo.GetPostStatsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	statsMap := common.IndexBy(stats, func(s entity.PostStats) string { return s.PostID })
	result := []model.Post{}
	for i := range posts {
		s := statsMap[posts[i].ID]
		result = append(result, model.ConvertPost(&posts[i], &s))
	}

	return result, nil
}

func convertComments(
	ctx context.Context, statsRepo repository.StatsRepository, comments []entity.Comment,
) ([]model.Comment, error) {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	stats, err := statsRepo.GetCommentStatsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	statsMap := common.IndexBy(stats, func(s entity.CommentStats) string { return s.CommentID })
	result := []model.Comment{}
	for i := range comments {
		s := statsMap[comments[i].ID]
		result = append(result, model.ConvertComment(&comments[i], &s))
	}

	return result, nil
}

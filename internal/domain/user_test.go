package domain

import (
	"testing"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func usernames(users []model.User) []string {
	result := []string{}
	for _, u := range users {
		result = append(result, u.Username)
	}
	return result
}

func Test_userDomain_Follow(t *testing.T) {
	s := newSuite(t)
	ctx := s.as(testutil.User2.ID)

	_, err := s.User.Follow(ctx, &model.FollowRequest{Username: testutil.User3.Username})
	require.NoError(t, err)

	_, err = s.User.Follow(ctx, &model.FollowRequest{Username: testutil.User3.Username})
	requireErrorCode(t, err, errorx.AlreadyExists)

	require.Equal(t, int64(1), s.userStats(t, testutil.User2.ID).FollowingCount)
	require.Equal(t, int64(1), s.userStats(t, testutil.User3.ID).FollowersCount)
	require.Equal(t, int64(1), testutil.CountRows(s.ctx, &entity.Follow{},
		"follower_id=? AND followed_id=?", testutil.User2.ID, testutil.User3.ID))

	events := s.notifier.Events()
	require.Len(t, events, 1)
	require.Equal(t, entity.NotificationFollow, events[0].Type)
	require.Equal(t, testutil.User3.ID, events[0].RecipientID)

	followers, err := s.User.GetFollowers(ctx, &model.GetFollowersRequest{Username: testutil.User3.Username})
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User2.Username}, usernames(followers.Users))

	following, err := s.User.GetFollowing(ctx, &model.GetFollowingRequest{Username: testutil.User2.Username})
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User3.Username}, usernames(following.Users))
}

func Test_userDomain_Follow_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		code     errorx.Code
	}{
		{name: "self", username: testutil.User1.Username, code: errorx.SelfAction},
		{name: "unknown user", username: "nobody", code: errorx.NotFound},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)
			_, err := s.User.Follow(s.as(testutil.User1.ID), &model.FollowRequest{Username: tt.username})
			requireErrorCode(t, err, tt.code)
			require.Equal(t, int64(0), s.userStats(t, testutil.User1.ID).FollowingCount)
		})
	}
}

func Test_userDomain_Unfollow(t *testing.T) {
	s := newSuite(t)
	ctx := s.as(testutil.User1.ID)

	_, err := s.User.Unfollow(ctx, &model.UnfollowRequest{Username: testutil.User2.Username})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = s.User.Unfollow(ctx, &model.UnfollowRequest{Username: testutil.User1.Username})
	requireErrorCode(t, err, errorx.SelfAction)

	_, err = s.User.Follow(ctx, &model.FollowRequest{Username: testutil.User2.Username})
	require.NoError(t, err)
	require.Equal(t, int64(1), s.userStats(t, testutil.User2.ID).FollowersCount)

	_, err = s.User.Unfollow(ctx, &model.UnfollowRequest{Username: testutil.User2.Username})
	require.NoError(t, err)
	require.Equal(t, int64(0), s.userStats(t, testutil.User1.ID).FollowingCount)
	require.Equal(t, int64(0), s.userStats(t, testutil.User2.ID).FollowersCount)
}

func Test_userDomain_Block(t *testing.T) {
	s := newSuite(t)
	user1Ctx := s.as(testutil.User1.ID)
	user3Ctx := s.as(testutil.User3.ID)

	_, err := s.User.Block(user1Ctx, &model.BlockRequest{Username: testutil.User3.Username})
	require.NoError(t, err)

	_, err = s.User.Block(user1Ctx, &model.BlockRequest{Username: testutil.User3.Username})
	requireErrorCode(t, err, errorx.AlreadyExists)

	_, err = s.User.Block(user1Ctx, &model.BlockRequest{Username: testutil.User1.Username})
	requireErrorCode(t, err, errorx.SelfAction)

	// Hidden in both directions.
	_, err = s.User.GetUser(user1Ctx, &model.GetUserRequest{Username: testutil.User3.Username})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = s.User.GetUser(user3Ctx, &model.GetUserRequest{Username: testutil.User1.Username})
	requireErrorCode(t, err, errorx.NotFound)

	resp, err := s.User.GetUser(s.as(testutil.User2.ID), &model.GetUserRequest{Username: testutil.User3.Username})
	require.NoError(t, err)
	require.Empty(t, resp.User.Email)

	users, err := s.User.GetUsers(user1Ctx, &model.GetUsersRequest{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{testutil.User1.Username, testutil.User2.Username}, usernames(users.Users))
	require.Equal(t, int64(2), users.PageInfo.Total)

	users, err = s.User.GetUsers(user3Ctx, &model.GetUsersRequest{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{testutil.User2.Username, testutil.User3.Username}, usernames(users.Users))

	users, err = s.User.GetUsers(s.as(""), &model.GetUsersRequest{})
	require.NoError(t, err)
	require.Len(t, users.Users, 3)

	blocked, err := s.User.GetBlockedUsers(user1Ctx, &model.GetBlockedUsersRequest{})
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User3.Username}, usernames(blocked.Users))

	_, err = s.User.Unblock(user1Ctx, &model.UnblockRequest{Username: testutil.User3.Username})
	require.NoError(t, err)

	_, err = s.User.Unblock(user1Ctx, &model.UnblockRequest{Username: testutil.User3.Username})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = s.User.GetUser(user3Ctx, &model.GetUserRequest{Username: testutil.User1.Username})
	require.NoError(t, err)
}

func Test_userDomain_GetMe(t *testing.T) {
	s := newSuite(t)

	resp, err := s.User.GetMe(s.as(testutil.User1.ID), &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Email, resp.User.Email)
	require.Equal(t, int64(1), resp.User.Stats.CommunitiesCount)
	require.Equal(t, int64(1), resp.User.Stats.ModerationsCount)
	require.Equal(t, int64(1), resp.User.Stats.CommentsCount)
}

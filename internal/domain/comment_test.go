package domain

import (
	"testing"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func commentIDs(comments []model.Comment) []string {
	result := []string{}
	for _, c := range comments {
		result = append(result, c.ID)
	}
	return result
}

func Test_commentDomain_CreateAndReply(t *testing.T) {
	s := newSuite(t)
	user1Ctx := s.as(testutil.User1.ID)
	user2Ctx := s.as(testutil.User2.ID)

	created, err := s.Comment.Create(user1Ctx, &model.CreateCommentRequest{
		PostID:  testutil.Post1.ID,
		Content: "second comment",
	})
	require.NoError(t, err)
	require.Empty(t, created.Comment.ParentID)

	reply, err := s.Comment.Reply(user2Ctx, &model.ReplyCommentRequest{
		CommentID: testutil.Comment1.ID,
		Content:   "a reply",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.Comment1.ID, reply.Comment.ParentID)

	require.Equal(t, int64(3), s.postStats(t, testutil.Post1.ID).CommentsCount)
	require.Equal(t, int64(3), s.communityStats(t, testutil.Community1.ID).CommentsCount)
	require.Equal(t, int64(2), s.userStats(t, testutil.User1.ID).CommentsCount)
	require.Equal(t, int64(1), s.userStats(t, testutil.User2.ID).CommentsCount)
	require.Equal(t, int64(1), s.commentStats(t, testutil.Comment1.ID).RepliesCount)

	events := s.notifier.Events()
	require.Len(t, events, 2)
	require.Equal(t, entity.NotificationComment, events[0].Type)
	require.Equal(t, testutil.User2.ID, events[0].RecipientID)
	require.Equal(t, created.Comment.ID, events[0].CommentID)
	require.Equal(t, entity.NotificationReply, events[1].Type)
	require.Equal(t, testutil.User1.ID, events[1].RecipientID)
	require.Equal(t, testutil.User2.ID, events[1].ActorID)

	roots, err := s.Comment.GetList(s.as(""), &model.GetCommentsRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{testutil.Comment1.ID, created.Comment.ID}, commentIDs(roots.Comments))

	replies, err := s.Comment.GetReplies(s.as(""), &model.GetRepliesRequest{CommentID: testutil.Comment1.ID})
	require.NoError(t, err)
	require.Equal(t, []string{reply.Comment.ID}, commentIDs(replies.Comments))
}

func Test_commentDomain_Create_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		userID string
		req    *model.CreateCommentRequest
		code   errorx.Code
	}{
		{
			name:   "empty content",
			userID: testutil.User1.ID,
			req:    &model.CreateCommentRequest{PostID: testutil.Post1.ID},
			code:   errorx.BadRequest,
		},
		{
			name:   "unknown post",
			userID: testutil.User1.ID,
			req:    &model.CreateCommentRequest{PostID: "unknown", Content: "hi"},
			code:   errorx.NotFound,
		},
		{
			name:   "not subscribed",
			userID: testutil.User3.ID,
			req:    &model.CreateCommentRequest{PostID: testutil.Post1.ID, Content: "hi"},
			code:   errorx.NotSubscribed,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			s := newSuite(t)
			_, err := s.Comment.Create(s.as(tt.userID), tt.req)
			requireErrorCode(t, err, tt.code)
			require.Equal(t, int64(1), s.postStats(t, testutil.Post1.ID).CommentsCount)
			require.Empty(t, s.notifier.Events())
		})
	}
}

func Test_commentDomain_Delete(t *testing.T) {
	s := newSuite(t)
	user2Ctx := s.as(testutil.User2.ID)

	reply, err := s.Comment.Reply(user2Ctx, &model.ReplyCommentRequest{
		CommentID: testutil.Comment1.ID,
		Content:   "reply",
	})
	require.NoError(t, err)

	nested, err := s.Comment.Reply(s.as(testutil.User1.ID), &model.ReplyCommentRequest{
		CommentID: reply.Comment.ID,
		Content:   "nested reply",
	})
	require.NoError(t, err)

	_, err = s.Comment.Vote(user2Ctx, &model.VoteCommentRequest{ID: nested.Comment.ID, Direction: 1})
	require.NoError(t, err)

	_, err = s.Comment.Bookmark(user2Ctx, &model.BookmarkCommentRequest{ID: nested.Comment.ID})
	require.NoError(t, err)

	_, err = s.Comment.Delete(s.as(testutil.User3.ID), &model.DeleteCommentRequest{ID: testutil.Comment1.ID})
	requireErrorCode(t, err, errorx.Ownership)

	// Deleting a reply only updates the parent.
	_, err = s.Comment.Delete(s.as(testutil.User1.ID), &model.DeleteCommentRequest{ID: nested.Comment.ID})
	require.NoError(t, err)
	require.Equal(t, int64(0), s.commentStats(t, reply.Comment.ID).RepliesCount)
	require.Equal(t, int64(2), s.postStats(t, testutil.Post1.ID).CommentsCount)

	// Deleting the root removes the whole tree.
	_, err = s.Comment.Delete(s.as(testutil.User1.ID), &model.DeleteCommentRequest{ID: testutil.Comment1.ID})
	require.NoError(t, err)

	require.Equal(t, int64(0), s.postStats(t, testutil.Post1.ID).CommentsCount)
	require.Equal(t, int64(0), s.communityStats(t, testutil.Community1.ID).CommentsCount)
	require.Equal(t, int64(0), s.userStats(t, testutil.User1.ID).CommentsCount)
	require.Equal(t, int64(0), s.userStats(t, testutil.User2.ID).CommentsCount)

	require.Equal(t, int64(0), testutil.CountRows(s.ctx, &entity.Comment{}, "post_id=?", testutil.Post1.ID))
	require.Equal(t, int64(0), testutil.CountRows(s.ctx, &entity.CommentStats{}, "comment_id=?", reply.Comment.ID))
	require.Equal(t, int64(0), testutil.CountRows(s.ctx, &entity.CommentVote{}, "comment_id=?", nested.Comment.ID))
	require.Equal(t, int64(0), testutil.CountRows(s.ctx, &entity.CommentBookmark{}, "comment_id=?", nested.Comment.ID))
}

func Test_commentDomain_Visibility(t *testing.T) {
	s := newSuite(t)

	_, err := s.Community.Subscribe(s.as(testutil.User3.ID),
		&model.SubscribeCommunityRequest{Name: testutil.Community1.Name})
	require.NoError(t, err)

	// user1 wrote comment1 and blocks user3.
	_, err = s.User.Block(s.as(testutil.User1.ID), &model.BlockRequest{Username: testutil.User3.Username})
	require.NoError(t, err)

	user3Ctx := s.as(testutil.User3.ID)

	_, err = s.Comment.Reply(user3Ctx, &model.ReplyCommentRequest{CommentID: testutil.Comment1.ID, Content: "hi"})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = s.Comment.Get(user3Ctx, &model.GetCommentRequest{ID: testutil.Comment1.ID})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = s.Comment.Vote(user3Ctx, &model.VoteCommentRequest{ID: testutil.Comment1.ID, Direction: 1})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = s.Comment.Bookmark(user3Ctx, &model.BookmarkCommentRequest{ID: testutil.Comment1.ID})
	requireErrorCode(t, err, errorx.Forbidden)

	list, err := s.Comment.GetList(user3Ctx, &model.GetCommentsRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.Empty(t, list.Comments)

	// user3 can still comment on the post itself.
	created, err := s.Comment.Create(user3Ctx, &model.CreateCommentRequest{PostID: testutil.Post1.ID, Content: "hi"})
	require.NoError(t, err)

	list, err = s.Comment.GetList(s.as(testutil.User2.ID), &model.GetCommentsRequest{PostID: testutil.Post1.ID})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{testutil.Comment1.ID, created.Comment.ID}, commentIDs(list.Comments))
	require.Equal(t, int64(2), list.PageInfo.Total)
	require.Equal(t, int64(1), s.userStats(t, testutil.User3.ID).CommentsCount)
}

func Test_commentDomain_Vote(t *testing.T) {
	s := newSuite(t)
	ctx := s.as(testutil.User2.ID)
	commentID := testutil.Comment1.ID

	resp, err := s.Comment.Vote(ctx, &model.VoteCommentRequest{ID: commentID, Direction: -1})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Stats.DownvotesCount)

	_, err = s.Comment.Vote(ctx, &model.VoteCommentRequest{ID: commentID, Direction: -1})
	requireErrorCode(t, err, errorx.AlreadyVoted)

	resp, err = s.Comment.Vote(ctx, &model.VoteCommentRequest{ID: commentID, Direction: 1})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Stats.UpvotesCount)
	require.Equal(t, int64(0), resp.Stats.DownvotesCount)

	_, err = s.Comment.Vote(ctx, &model.VoteCommentRequest{ID: commentID, Direction: 0})
	requireErrorCode(t, err, errorx.InvalidVote)

	votes, err := s.Comment.GetVotes(ctx, &model.GetCommentVotesRequest{ID: commentID})
	require.NoError(t, err)
	require.Len(t, votes.Votes, 1)
	require.Equal(t, 1, votes.Votes[0].Direction)

	cancel, err := s.Comment.CancelVote(ctx, &model.CancelCommentVoteRequest{ID: commentID})
	require.NoError(t, err)
	require.Equal(t, int64(0), cancel.Stats.UpvotesCount)

	_, err = s.Comment.CancelVote(ctx, &model.CancelCommentVoteRequest{ID: commentID})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_commentDomain_Bookmark(t *testing.T) {
	s := newSuite(t)
	ctx := s.as(testutil.User3.ID)
	commentID := testutil.Comment1.ID

	_, err := s.Comment.Bookmark(ctx, &model.BookmarkCommentRequest{ID: commentID})
	require.NoError(t, err)

	_, err = s.Comment.Bookmark(ctx, &model.BookmarkCommentRequest{ID: commentID})
	requireErrorCode(t, err, errorx.AlreadyExists)
	require.Equal(t, int64(1), s.commentStats(t, commentID).BookmarksCount)

	bookmarks, err := s.Comment.GetBookmarks(ctx, &model.GetBookmarkedCommentsRequest{})
	require.NoError(t, err)
	require.Equal(t, []string{commentID}, commentIDs(bookmarks.Comments))

	_, err = s.Comment.Unbookmark(ctx, &model.UnbookmarkCommentRequest{ID: commentID})
	require.NoError(t, err)
	require.Equal(t, int64(0), s.commentStats(t, commentID).BookmarksCount)
}

func Test_commentDomain_Update(t *testing.T) {
	s := newSuite(t)

	_, err := s.Comment.Update(s.as(testutil.User3.ID), &model.UpdateCommentRequest{
		ID: testutil.Comment1.ID, Content: "edited",
	})
	requireErrorCode(t, err, errorx.Ownership)

	resp, err := s.Comment.Update(s.as(testutil.User1.ID), &model.UpdateCommentRequest{
		ID: testutil.Comment1.ID, Content: "edited",
	})
	require.NoError(t, err)
	require.Equal(t, "edited", resp.Comment.Content)
}

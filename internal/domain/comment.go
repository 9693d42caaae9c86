package domain

import (
	"context"
	"database/sql"
	"time"

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
)

type CommentDomain interface {
	Create(context.Context, *model.CreateCommentRequest) (*model.CreateCommentResponse, error)
	Reply(context.Context, *model.ReplyCommentRequest) (*model.ReplyCommentResponse, error)
	Get(context.Context, *model.GetCommentRequest) (*model.GetCommentResponse, error)
	GetList(context.Context, *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
	GetReplies(context.Context, *model.GetRepliesRequest) (*model.GetRepliesResponse, error)
	Update(context.Context, *model.UpdateCommentRequest) (*model.UpdateCommentResponse, error)
	Delete(context.Context, *model.DeleteCommentRequest) (*model.DeleteCommentResponse, error)
	Vote(context.Context, *model.VoteCommentRequest) (*model.VoteCommentResponse, error)
	CancelVote(context.Context, *model.CancelCommentVoteRequest) (*model.CancelCommentVoteResponse, error)
	GetVotes(context.Context, *model.GetCommentVotesRequest) (*model.GetCommentVotesResponse, error)
	Bookmark(context.Context, *model.BookmarkCommentRequest) (*model.BookmarkCommentResponse, error)
	Unbookmark(context.Context, *model.UnbookmarkCommentRequest) (*model.UnbookmarkCommentResponse, error)
	GetBookmarks(context.Context, *model.GetBookmarkedCommentsRequest) (*model.GetBookmarkedCommentsResponse, error)
}

type commentDomain struct {
	commentRepo           repository.CommentRepository
	postRepo              repository.PostRepository
	userRepo              repository.UserRepository
	voteRepo              repository.VoteRepository
	bookmarkRepo          repository.BookmarkRepository
	blockRepo             repository.BlockRepository
	statsRepo             repository.StatsRepository
	communityRoleVerifier *common.CommunityRoleVerifier
	remover               *contentRemover
	visibility            *visibility.Filter
	counter               counter.Engine
	notifier              notification.Notifier
}

func NewCommentDomain(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	memberRepo repository.CommunityMemberRepository,
	userRepo repository.UserRepository,
	voteRepo repository.VoteRepository,
	bookmarkRepo repository.BookmarkRepository,
	blockRepo repository.BlockRepository,
	statsRepo repository.StatsRepository,
	visibilityFilter *visibility.Filter,
	counterEngine counter.Engine,
	notifier notification.Notifier,
) CommentDomain {
	return &commentDomain{
		commentRepo:           commentRepo,
		postRepo:              postRepo,
		userRepo:              userRepo,
		voteRepo:              voteRepo,
		bookmarkRepo:          bookmarkRepo,
		blockRepo:             blockRepo,
		statsRepo:             statsRepo,
		communityRoleVerifier: common.NewCommunityRoleVerifier(memberRepo),
		remover: newContentRemover(
			postRepo, commentRepo, voteRepo, bookmarkRepo, statsRepo, counterEngine),
		visibility: visibilityFilter,
		counter:    counterEngine,
		notifier:   notifier,
	}
}

func (d *commentDomain) Create(
	ctx context.Context, req *model.CreateCommentRequest,
) (*model.CreateCommentResponse, error) {
	if err := checkText("content", req.Content, 1, 10000); err != nil {
		return nil, err
	}

	post, err := d.getVisiblePost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	comment, err := d.create(ctx, post, nil, req.Content)
	if err != nil {
		return nil, err
	}

	d.notifier.Notify(ctx, notification.Event{
		Type:        entity.NotificationComment,
		ActorID:     comment.OwnerUserID,
		RecipientID: post.OwnerUserID,
		CommunityID: post.CommunityID,
		PostID:      post.ID,
		CommentID:   comment.ID,
	})

	return &model.CreateCommentResponse{
		Comment: model.ConvertComment(comment, &entity.CommentStats{CommentID: comment.ID}),
	}, nil
}

// Reply creates a comment under another comment of the same post.
func (d *commentDomain) Reply(
	ctx context.Context, req *model.ReplyCommentRequest,
) (*model.ReplyCommentResponse, error) {
	if err := checkText("content", req.Content, 1, 10000); err != nil {
		return nil, err
	}

	parent, post, err := d.getVisibleComment(ctx, req.CommentID)
	if err != nil {
		return nil, err
	}

	comment, err := d.create(ctx, post, parent, req.Content)
	if err != nil {
		return nil, err
	}

	d.notifier.Notify(ctx, notification.Event{
		Type:        entity.NotificationReply,
		ActorID:     comment.OwnerUserID,
		RecipientID: parent.OwnerUserID,
		CommunityID: post.CommunityID,
		PostID:      post.ID,
		CommentID:   comment.ID,
	})

	return &model.ReplyCommentResponse{
		Comment: model.ConvertComment(comment, &entity.CommentStats{CommentID: comment.ID}),
	}, nil
}

func (d *commentDomain) Get(ctx context.Context, req *model.GetCommentRequest) (*model.GetCommentResponse, error) {
	comment, _, err := d.getVisibleComment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.GetCommentStats(ctx, comment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetCommentResponse{Comment: model.ConvertComment(comment, stats)}, nil
}

// GetList returns the root comments of a post.
func (d *commentDomain) GetList(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	post, err := d.getVisiblePost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	filter := repository.CommentFilter{PostID: post.ID, RootOnly: true}
	comments, pageInfo, err := d.listComments(ctx, req.Pagination, post.CommunityID, filter)
	if err != nil {
		return nil, err
	}

	return &model.GetCommentsResponse{Comments: comments, PageInfo: pageInfo}, nil
}

func (d *commentDomain) GetReplies(
	ctx context.Context, req *model.GetRepliesRequest,
) (*model.GetRepliesResponse, error) {
	comment, post, err := d.getVisibleComment(ctx, req.CommentID)
	if err != nil {
		return nil, err
	}

	filter := repository.CommentFilter{ParentID: comment.ID}
	comments, pageInfo, err := d.listComments(ctx, req.Pagination, post.CommunityID, filter)
	if err != nil {
		return nil, err
	}

	return &model.GetRepliesResponse{Comments: comments, PageInfo: pageInfo}, nil
}

func (d *commentDomain) Update(
	ctx context.Context, req *model.UpdateCommentRequest,
) (*model.UpdateCommentResponse, error) {
	if err := checkText("content", req.Content, 1, 10000); err != nil {
		return nil, err
	}

	comment, post, err := d.getComment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	err = d.communityRoleVerifier.VerifyOwnerOrModerator(ctx, comment.OwnerUserID, post.CommunityID)
	if err != nil {
		return nil, err
	}

	if err := d.commentRepo.UpdateContent(ctx, comment.ID, req.Content); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update comment: %v", err)
		return nil, errorx.Unknown
	}

	comment, _, err = d.getComment(ctx, comment.ID)
	if err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.GetCommentStats(ctx, comment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateCommentResponse{Comment: model.ConvertComment(comment, stats)}, nil
}

// Delete removes the comment and its whole reply subtree.
func (d *commentDomain) Delete(
	ctx context.Context, req *model.DeleteCommentRequest,
) (*model.DeleteCommentResponse, error) {
	comment, post, err := d.getComment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	err = d.communityRoleVerifier.VerifyOwnerOrModerator(ctx, comment.OwnerUserID, post.CommunityID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.remover.deleteCommentTree(ctx, *comment, post.CommunityID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeleteCommentResponse{}, nil
}

func (d *commentDomain) Vote(ctx context.Context, req *model.VoteCommentRequest) (*model.VoteCommentResponse, error) {
	direction := entity.VoteDirection(req.Direction)
	if !direction.Valid() {
		return nil, errorx.New(errorx.InvalidVote, "Direction must be 1 or -1")
	}

	comment, post, err := d.getVisibleComment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.communityRoleVerifier.VerifyParticipant(ctx, post.CommunityID); err != nil {
		return nil, err
	}

	target := d.voteTarget(xcontext.RequestUserID(ctx), comment.ID)
	if err := castVote(ctx, d.counter, target, direction); err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.GetCommentStats(ctx, comment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment stats: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VoteCommentResponse{Stats: model.ConvertCommentStats(stats)}, nil
}

func (d *commentDomain) CancelVote(
	ctx context.Context, req *model.CancelCommentVoteRequest,
) (*model.CancelCommentVoteResponse, error) {
	comment, post, err := d.getComment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.communityRoleVerifier.VerifyParticipant(ctx, post.CommunityID); err != nil {
		return nil, err
	}

	if err := withdrawVote(ctx, d.counter, d.voteTarget(xcontext.RequestUserID(ctx), comment.ID)); err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.GetCommentStats(ctx, comment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment stats: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CancelCommentVoteResponse{Stats: model.ConvertCommentStats(stats)}, nil
}

func (d *commentDomain) voteTarget(userID, commentID string) voteTarget {
	return voteTarget{
		kind: "comment",
		get: func(ctx context.Context) (entity.VoteDirection, error) {
			vote, err := d.voteRepo.GetCommentVote(ctx, userID, commentID)
			if err != nil {
				return 0, err
			}
			return vote.Direction, nil
		},
		create: func(ctx context.Context, direction entity.VoteDirection) error {
			return d.voteRepo.CreateCommentVote(ctx, &entity.CommentVote{
				UserID:    userID,
				CommentID: commentID,
				Direction: direction,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			})
		},
		update: func(ctx context.Context, from, to entity.VoteDirection) error {
			return d.voteRepo.UpdateCommentVote(ctx, userID, commentID, from, to)
		},
		delete: func(ctx context.Context, direction entity.VoteDirection) error {
			return d.voteRepo.DeleteCommentVote(ctx, userID, commentID, direction)
		},
		created: func(direction entity.VoteDirection) counter.Event {
			return counter.NewCommentVoteCreated(commentID, direction)
		},
		deleted: func(direction entity.VoteDirection) counter.Event {
			return counter.NewCommentVoteDeleted(commentID, direction)
		},
		flipped: func(direction entity.VoteDirection) counter.Event {
			return counter.NewCommentVoteFlipped(commentID, direction)
		},
	}
}

func (d *commentDomain) GetVotes(
	ctx context.Context, req *model.GetCommentVotesRequest,
) (*model.GetCommentVotesResponse, error) {
	comment, post, err := d.getVisibleComment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	p := common.NormalizePagination(ctx, req.Pagination)
	excluded, err := d.visibility.Exclusion(ctx, xcontext.RequestUserID(ctx), post.CommunityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get block exclusion: %v", err)
		return nil, errorx.Unknown
	}

	votes, total, err := d.voteRepo.GetCommentVotes(ctx, comment.ID, excluded, p.Offset(), p.PerPage)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment votes: %v", err)
		return nil, errorx.Unknown
	}

	userIDs := make([]string, 0, len(votes))
	for _, v := range votes {
		userIDs = append(userIDs, v.UserID)
	}

	users, err := d.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get voters: %v", err)
		return nil, errorx.Unknown
	}

	userMap := common.IndexBy(users, func(u entity.User) string { return u.ID })
	clientVotes := []model.Vote{}
	for _, v := range votes {
		user := userMap[v.UserID]
		clientVotes = append(clientVotes, model.ConvertVote(&user, v.Direction, v.CreatedAt))
	}

	return &model.GetCommentVotesResponse{Votes: clientVotes, PageInfo: model.NewPageInfo(p, total)}, nil
}

func (d *commentDomain) Bookmark(
	ctx context.Context, req *model.BookmarkCommentRequest,
) (*model.BookmarkCommentResponse, error) {
	comment, _, err := d.getComment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	requestUserID := xcontext.RequestUserID(ctx)
	blocked, err := d.blockRepo.ExistsEither(ctx, requestUserID, comment.OwnerUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check block: %v", err)
		return nil, errorx.Unknown
	}

	if blocked {
		return nil, errorx.New(errorx.Forbidden, "You cannot bookmark this comment")
	}

	exists, err := d.bookmarkRepo.ExistsCommentBookmark(ctx, requestUserID, comment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check bookmark: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "You have already bookmarked this comment")
	}

	err = d.bookmarkRepo.CreateCommentBookmark(ctx, &entity.CommentBookmark{
		UserID:    requestUserID,
		CommentID: comment.ID,
		CreatedAt: time.Now(),
	})
	if err := createRelation(ctx, err, "You have already bookmarked this comment", "create bookmark"); err != nil {
		return nil, err
	}

	if err := d.counter.Apply(ctx, counter.NewCommentBookmarkCreated(comment.ID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update bookmark counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.BookmarkCommentResponse{}, nil
}

func (d *commentDomain) Unbookmark(
	ctx context.Context, req *model.UnbookmarkCommentRequest,
) (*model.UnbookmarkCommentResponse, error) {
	comment, _, err := d.getComment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.bookmarkRepo.DeleteCommentBookmark(ctx, xcontext.RequestUserID(ctx), comment.ID); err != nil {
		return nil, notFoundOrUnknown(ctx, err, "You have not bookmarked this comment", "delete bookmark")
	}

	if err := d.counter.Apply(ctx, counter.NewCommentBookmarkDeleted(comment.ID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update bookmark counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnbookmarkCommentResponse{}, nil
}

func (d *commentDomain) GetBookmarks(
	ctx context.Context, req *model.GetBookmarkedCommentsRequest,
) (*model.GetBookmarkedCommentsResponse, error) {
	filter := repository.CommentFilter{BookmarkedBy: xcontext.RequestUserID(ctx)}
	comments, pageInfo, err := d.listComments(ctx, req.Pagination, "", filter)
	if err != nil {
		return nil, err
	}

	return &model.GetBookmarkedCommentsResponse{Comments: comments, PageInfo: pageInfo}, nil
}

// create inserts a comment of the request user on post, under parent if it is
// not nil.
func (d *commentDomain) create(
	ctx context.Context, post *entity.Post, parent *entity.Comment, content string,
) (*entity.Comment, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.communityRoleVerifier.VerifyParticipant(ctx, post.CommunityID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		Base:        entity.Base{ID: uuid.NewString()},
		Content:     content,
		OwnerUserID: xcontext.RequestUserID(ctx),
		PostID:      post.ID,
	}
	if parent != nil {
		comment.ParentID = sql.NullString{Valid: true, String: parent.ID}
	}

	if err := d.commentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.statsRepo.CreateCommentStats(ctx, comment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment stats: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.counter.Apply(ctx, counter.NewCommentCreated(*comment, post.CommunityID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update comment counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return comment, nil
}

func (d *commentDomain) getComment(ctx context.Context, id string) (*entity.Comment, *entity.Post, error) {
	comment, err := d.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, notFoundOrUnknown(ctx, err, "Not found comment", "get comment")
	}

	post, err := d.postRepo.GetByID(ctx, comment.PostID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post of comment: %v", err)
		return nil, nil, errorx.Unknown
	}

	return comment, post, nil
}

func (d *commentDomain) getVisiblePost(ctx context.Context, id string) (*entity.Post, error) {
	post, err := d.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found post", "get post")
	}

	hidden, err := d.visibility.IsHidden(ctx, xcontext.RequestUserID(ctx), post.OwnerUserID, post.CommunityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check visibility: %v", err)
		return nil, errorx.Unknown
	}

	if hidden {
		return nil, errorx.New(errorx.NotFound, "Not found post")
	}

	return post, nil
}

func (d *commentDomain) getVisibleComment(ctx context.Context, id string) (*entity.Comment, *entity.Post, error) {
	comment, post, err := d.getComment(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	hidden, err := d.visibility.IsHidden(ctx, xcontext.RequestUserID(ctx), comment.OwnerUserID, post.CommunityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check visibility: %v", err)
		return nil, nil, errorx.Unknown
	}

	if hidden {
		return nil, nil, errorx.New(errorx.NotFound, "Not found comment")
	}

	return comment, post, nil
}

func (d *commentDomain) listComments(
	ctx context.Context, p model.Pagination, communityID string, filter repository.CommentFilter,
) ([]model.Comment, model.PageInfo, error) {
	p = common.NormalizePagination(ctx, p)

	excluded, err := d.visibility.Exclusion(ctx, xcontext.RequestUserID(ctx), communityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get block exclusion: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}
	filter.ExcludeOwnerIDs = excluded

	comments, total, err := d.commentRepo.GetList(ctx, filter, p.Offset(), p.PerPage)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}

	clientComments, err := convertComments(ctx, d.statsRepo, comments)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comment stats: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}

	return clientComments, model.NewPageInfo(p, total), nil
}

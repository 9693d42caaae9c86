package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/agora/internal/common"
	"github.com/questx-lab/agora/internal/domain/counter"
	"github.com/questx-lab/agora/internal/domain/visibility"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/xcontext"
)

type PostDomain interface {
	Create(context.Context, *model.CreatePostRequest) (*model.CreatePostResponse, error)
	Get(context.Context, *model.GetPostRequest) (*model.GetPostResponse, error)
	GetList(context.Context, *model.GetPostsRequest) (*model.GetPostsResponse, error)
	GetUserPosts(context.Context, *model.GetUserPostsRequest) (*model.GetUserPostsResponse, error)
	GetFeed(context.Context, *model.GetFeedRequest) (*model.GetFeedResponse, error)
	Update(context.Context, *model.UpdatePostRequest) (*model.UpdatePostResponse, error)
	Delete(context.Context, *model.DeletePostRequest) (*model.DeletePostResponse, error)
	Vote(context.Context, *model.VotePostRequest) (*model.VotePostResponse, error)
	CancelVote(context.Context, *model.CancelPostVoteRequest) (*model.CancelPostVoteResponse, error)
	GetVotes(context.Context, *model.GetPostVotesRequest) (*model.GetPostVotesResponse, error)
	Bookmark(context.Context, *model.BookmarkPostRequest) (*model.BookmarkPostResponse, error)
	Unbookmark(context.Context, *model.UnbookmarkPostRequest) (*model.UnbookmarkPostResponse, error)
	GetBookmarks(context.Context, *model.GetBookmarkedPostsRequest) (*model.GetBookmarkedPostsResponse, error)
}

type postDomain struct {
	postRepo              repository.PostRepository
	communityRepo         repository.CommunityRepository
	userRepo              repository.UserRepository
	voteRepo              repository.VoteRepository
	bookmarkRepo          repository.BookmarkRepository
	blockRepo             repository.BlockRepository
	statsRepo             repository.StatsRepository
	communityRoleVerifier *common.CommunityRoleVerifier
	remover               *contentRemover
	visibility            *visibility.Filter
	counter               counter.Engine
}

func NewPostDomain(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	communityRepo repository.CommunityRepository,
	memberRepo repository.CommunityMemberRepository,
	userRepo repository.UserRepository,
	voteRepo repository.VoteRepository,
	bookmarkRepo repository.BookmarkRepository,
	blockRepo repository.BlockRepository,
	statsRepo repository.StatsRepository,
	visibilityFilter *visibility.Filter,
	counterEngine counter.Engine,
) PostDomain {
	return &postDomain{
		postRepo:              postRepo,
		communityRepo:         communityRepo,
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
	}
}

func (d *postDomain) Create(ctx context.Context, req *model.CreatePostRequest) (*model.CreatePostResponse, error) {
	if err := checkText("title", req.Title, 1, 300); err != nil {
		return nil, err
	}

	if err := checkText("content", req.Content, 0, 40000); err != nil {
		return nil, err
	}

	community, err := d.communityRepo.GetByName(ctx, req.CommunityName)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found community", "get community")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.communityRoleVerifier.VerifyParticipant(ctx, community.ID); err != nil {
		return nil, err
	}

	post := &entity.Post{
		Base:        entity.Base{ID: uuid.NewString()},
		Title:       req.Title,
		Content:     req.Content,
		OwnerUserID: xcontext.RequestUserID(ctx),
		CommunityID: community.ID,
	}
	if err := d.postRepo.Create(ctx, post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create post: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.statsRepo.CreatePostStats(ctx, post.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create post stats: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.counter.Apply(ctx, counter.NewPostCreated(*post)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update post counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreatePostResponse{Post: model.ConvertPost(post, &entity.PostStats{PostID: post.ID})}, nil
}

func (d *postDomain) Get(ctx context.Context, req *model.GetPostRequest) (*model.GetPostResponse, error) {
	post, err := d.getVisiblePost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.GetPostStats(ctx, post.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPostResponse{Post: model.ConvertPost(post, stats)}, nil
}

func (d *postDomain) GetList(ctx context.Context, req *model.GetPostsRequest) (*model.GetPostsResponse, error) {
	community, err := d.communityRepo.GetByName(ctx, req.CommunityName)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found community", "get community")
	}

	posts, pageInfo, err := d.listPosts(ctx, req.Pagination, community.ID,
		repository.PostFilter{CommunityID: community.ID})
	if err != nil {
		return nil, err
	}

	return &model.GetPostsResponse{Posts: posts, PageInfo: pageInfo}, nil
}

func (d *postDomain) GetUserPosts(
	ctx context.Context, req *model.GetUserPostsRequest,
) (*model.GetUserPostsResponse, error) {
	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found user", "get user")
	}

	hidden, err := d.visibility.IsHidden(ctx, xcontext.RequestUserID(ctx), user.ID, "")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check visibility: %v", err)
		return nil, errorx.Unknown
	}

	if hidden {
		return nil, errorx.New(errorx.NotFound, "Not found user")
	}

	posts, pageInfo, err := d.listPosts(ctx, req.Pagination, "", repository.PostFilter{OwnerUserID: user.ID})
	if err != nil {
		return nil, err
	}

	return &model.GetUserPostsResponse{Posts: posts, PageInfo: pageInfo}, nil
}

// GetFeed returns the latest posts of the communities the request user is
// subscribed to.
func (d *postDomain) GetFeed(ctx context.Context, req *model.GetFeedRequest) (*model.GetFeedResponse, error) {
	filter := repository.PostFilter{SubscriberID: xcontext.RequestUserID(ctx)}
	posts, pageInfo, err := d.listPosts(ctx, req.Pagination, "", filter)
	if err != nil {
		return nil, err
	}

	return &model.GetFeedResponse{Posts: posts, PageInfo: pageInfo}, nil
}

func (d *postDomain) Update(ctx context.Context, req *model.UpdatePostRequest) (*model.UpdatePostResponse, error) {
	if req.Title != "" {
		if err := checkText("title", req.Title, 1, 300); err != nil {
			return nil, err
		}
	}

	if err := checkText("content", req.Content, 0, 40000); err != nil {
		return nil, err
	}

	post, err := d.getPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := d.communityRoleVerifier.VerifyOwnerOrModerator(ctx, post.OwnerUserID, post.CommunityID); err != nil {
		return nil, err
	}

	if err := d.postRepo.Update(ctx, post.ID, req.Title, req.Content); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update post: %v", err)
		return nil, errorx.Unknown
	}

	post, err = d.getPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.GetPostStats(ctx, post.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post stats: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdatePostResponse{Post: model.ConvertPost(post, stats)}, nil
}

func (d *postDomain) Delete(ctx context.Context, req *model.DeletePostRequest) (*model.DeletePostResponse, error) {
	post, err := d.getPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := d.communityRoleVerifier.VerifyOwnerOrModerator(ctx, post.OwnerUserID, post.CommunityID); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.remover.deletePost(ctx, *post); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete post: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DeletePostResponse{}, nil
}

// Vote creates the vote of the request user, or flips its direction if the
// user already voted the other way.
func (d *postDomain) Vote(ctx context.Context, req *model.VotePostRequest) (*model.VotePostResponse, error) {
	direction := entity.VoteDirection(req.Direction)
	if !direction.Valid() {
		return nil, errorx.New(errorx.InvalidVote, "Direction must be 1 or -1")
	}

	post, err := d.getVisiblePost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.communityRoleVerifier.VerifyParticipant(ctx, post.CommunityID); err != nil {
		return nil, err
	}

	target := d.voteTarget(xcontext.RequestUserID(ctx), post.ID)
	if err := castVote(ctx, d.counter, target, direction); err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.GetPostStats(ctx, post.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post stats: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.VotePostResponse{Stats: model.ConvertPostStats(stats)}, nil
}

func (d *postDomain) CancelVote(
	ctx context.Context, req *model.CancelPostVoteRequest,
) (*model.CancelPostVoteResponse, error) {
	post, err := d.getPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.communityRoleVerifier.VerifyParticipant(ctx, post.CommunityID); err != nil {
		return nil, err
	}

	if err := withdrawVote(ctx, d.counter, d.voteTarget(xcontext.RequestUserID(ctx), post.ID)); err != nil {
		return nil, err
	}

	stats, err := d.statsRepo.GetPostStats(ctx, post.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post stats: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CancelPostVoteResponse{Stats: model.ConvertPostStats(stats)}, nil
}

func (d *postDomain) voteTarget(userID, postID string) voteTarget {
	return voteTarget{
		kind: "post",
		get: func(ctx context.Context) (entity.VoteDirection, error) {
			vote, err := d.voteRepo.GetPostVote(ctx, userID, postID)
			if err != nil {
				return 0, err
			}
			return vote.Direction, nil
		},
		create: func(ctx context.Context, direction entity.VoteDirection) error {
			return d.voteRepo.CreatePostVote(ctx, &entity.PostVote{
				UserID:    userID,
				PostID:    postID,
				Direction: direction,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			})
		},
		update: func(ctx context.Context, from, to entity.VoteDirection) error {
			return d.voteRepo.UpdatePostVote(ctx, userID, postID, from, to)
		},
		delete: func(ctx context.Context, direction entity.VoteDirection) error {
			return d.voteRepo.DeletePostVote(ctx, userID, postID, direction)
		},
		created: func(direction entity.VoteDirection) counter.Event {
			return counter.NewPostVoteCreated(postID, direction)
		},
		deleted: func(direction entity.VoteDirection) counter.Event {
			return counter.NewPostVoteDeleted(postID, direction)
		},
		flipped: func(direction entity.VoteDirection) counter.Event {
			return counter.NewPostVoteFlipped(postID, direction)
		},
	}
}

func (d *postDomain) GetVotes(
	ctx context.Context, req *model.GetPostVotesRequest,
) (*model.GetPostVotesResponse, error) {
	post, err := d.getVisiblePost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	p := common.NormalizePagination(ctx, req.Pagination)
	excluded, err := d.visibility.Exclusion(ctx, xcontext.RequestUserID(ctx), post.CommunityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get block exclusion: %v", err)
		return nil, errorx.Unknown
	}

	votes, total, err := d.voteRepo.GetPostVotes(ctx, post.ID, excluded, p.Offset(), p.PerPage)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post votes: %v", err)
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

	return &model.GetPostVotesResponse{Votes: clientVotes, PageInfo: model.NewPageInfo(p, total)}, nil
}

// Bookmark is refused across a mutual block, even for moderators.
func (d *postDomain) Bookmark(
	ctx context.Context, req *model.BookmarkPostRequest,
) (*model.BookmarkPostResponse, error) {
	post, err := d.getPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	requestUserID := xcontext.RequestUserID(ctx)
	blocked, err := d.blockRepo.ExistsEither(ctx, requestUserID, post.OwnerUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check block: %v", err)
		return nil, errorx.Unknown
	}

	if blocked {
		return nil, errorx.New(errorx.Forbidden, "You cannot bookmark this post")
	}

	exists, err := d.bookmarkRepo.ExistsPostBookmark(ctx, requestUserID, post.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check bookmark: %v", err)
		return nil, errorx.Unknown
	}

	if exists {
		return nil, errorx.New(errorx.AlreadyExists, "You have already bookmarked this post")
	}

	err = d.bookmarkRepo.CreatePostBookmark(ctx, &entity.PostBookmark{
		UserID:    requestUserID,
		PostID:    post.ID,
		CreatedAt: time.Now(),
	})
	if err := createRelation(ctx, err, "You have already bookmarked this post", "create bookmark"); err != nil {
		return nil, err
	}

	if err := d.counter.Apply(ctx, counter.NewPostBookmarkCreated(post.ID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update bookmark counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.BookmarkPostResponse{}, nil
}

func (d *postDomain) Unbookmark(
	ctx context.Context, req *model.UnbookmarkPostRequest,
) (*model.UnbookmarkPostResponse, error) {
	post, err := d.getPost(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.bookmarkRepo.DeletePostBookmark(ctx, xcontext.RequestUserID(ctx), post.ID); err != nil {
		return nil, notFoundOrUnknown(ctx, err, "You have not bookmarked this post", "delete bookmark")
	}

	if err := d.counter.Apply(ctx, counter.NewPostBookmarkDeleted(post.ID)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update bookmark counters: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UnbookmarkPostResponse{}, nil
}

func (d *postDomain) GetBookmarks(
	ctx context.Context, req *model.GetBookmarkedPostsRequest,
) (*model.GetBookmarkedPostsResponse, error) {
	filter := repository.PostFilter{BookmarkedBy: xcontext.RequestUserID(ctx)}
	posts, pageInfo, err := d.listPosts(ctx, req.Pagination, "", filter)
	if err != nil {
		return nil, err
	}

	return &model.GetBookmarkedPostsResponse{Posts: posts, PageInfo: pageInfo}, nil
}

func (d *postDomain) getPost(ctx context.Context, id string) (*entity.Post, error) {
	post, err := d.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrUnknown(ctx, err, "Not found post", "get post")
	}

	return post, nil
}

// getVisiblePost returns NotFound if the post owner and the request user are
// in a mutual block, unless the request user moderates the community.
func (d *postDomain) getVisiblePost(ctx context.Context, id string) (*entity.Post, error) {
	post, err := d.getPost(ctx, id)
	if err != nil {
		return nil, err
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

// listPosts applies the block exclusion of the request user to filter.
// communityID is the community the listing is scoped to, if any.
func (d *postDomain) listPosts(
	ctx context.Context, p model.Pagination, communityID string, filter repository.PostFilter,
) ([]model.Post, model.PageInfo, error) {
	p = common.NormalizePagination(ctx, p)

	excluded, err := d.visibility.Exclusion(ctx, xcontext.RequestUserID(ctx), communityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get block exclusion: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}
	filter.ExcludeOwnerIDs = excluded

	posts, total, err := d.postRepo.GetList(ctx, filter, p.Offset(), p.PerPage)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get posts: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}

	clientPosts, err := convertPosts(ctx, d.statsRepo, posts)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get post stats: %v", err)
		return nil, model.PageInfo{}, errorx.Unknown
	}

	return clientPosts, model.NewPageInfo(p, total), nil
}

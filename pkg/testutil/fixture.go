package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/xcontext"
)

// Fixture data. User1 owns and moderates Community1, User2 subscribes to it
// and wrote Post1, User1 commented Post1 with Comment1. User3 is unrelated to
// everything.
var (
	User1 = &entity.User{Base: entity.Base{ID: "user1"}, Username: "user1", Email: "user1@agora.test"}
	User2 = &entity.User{Base: entity.Base{ID: "user2"}, Username: "user2", Email: "user2@agora.test"}
	User3 = &entity.User{Base: entity.Base{ID: "user3"}, Username: "user3", Email: "user3@agora.test"}

	Users = []*entity.User{User1, User2, User3}

	Community1 = &entity.Community{
		Base:        entity.Base{ID: "community1"},
		Name:        "community1",
		About:       "the first community",
		OwnerUserID: User1.ID,
	}

	Post1 = &entity.Post{
		Base:        entity.Base{ID: "post1"},
		Title:       "post1",
		Content:     "content of post1",
		OwnerUserID: User2.ID,
		CommunityID: Community1.ID,
	}

	Comment1 = &entity.Comment{
		Base:        entity.Base{ID: "comment1"},
		Content:     "comment of user1",
		OwnerUserID: User1.ID,
		PostID:      Post1.ID,
		ParentID:    sql.NullString{},
	}
)

// CreateFixtureDb inserts the fixture data into the database of ctx. Counters
// are rebuilt from the inserted rows at the end so that they start consistent.
func CreateFixtureDb(ctx context.Context) {
	InsertUsers(ctx)
	InsertCommunities(ctx)
	InsertPosts(ctx)
	InsertComments(ctx)

	if err := repository.NewStatsRepository().Recount(ctx); err != nil {
		panic(err)
	}
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	statsRepo := repository.NewStatsRepository()

	for i, u := range Users {
		user := *u
		user.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}

		if err := statsRepo.CreateUserStats(ctx, user.ID); err != nil {
			panic(err)
		}
	}
}

func InsertCommunities(ctx context.Context) {
	community := *Community1
	if err := repository.NewCommunityRepository().Create(ctx, &community); err != nil {
		panic(err)
	}

	if err := repository.NewStatsRepository().CreateCommunityStats(ctx, community.ID); err != nil {
		panic(err)
	}

	memberRepo := repository.NewCommunityMemberRepository()
	members := []struct {
		role   repository.MemberRole
		userID string
	}{
		{repository.RoleSubscriber, User1.ID},
		{repository.RoleModerator, User1.ID},
		{repository.RoleSubscriber, User2.ID},
	}

	for _, m := range members {
		if err := memberRepo.Create(ctx, m.role, community.ID, m.userID); err != nil {
			panic(err)
		}
	}
}

func InsertPosts(ctx context.Context) {
	post := *Post1
	if err := repository.NewPostRepository().Create(ctx, &post); err != nil {
		panic(err)
	}

	if err := repository.NewStatsRepository().CreatePostStats(ctx, post.ID); err != nil {
		panic(err)
	}
}

func InsertComments(ctx context.Context) {
	comment := *Comment1
	if err := repository.NewCommentRepository().Create(ctx, &comment); err != nil {
		panic(err)
	}

	if err := repository.NewStatsRepository().CreateCommentStats(ctx, comment.ID); err != nil {
		panic(err)
	}
}

// CountRows returns the number of rows of model matching the condition.
func CountRows(ctx context.Context, model any, query string, args ...any) int64 {
	var count int64
	if err := xcontext.DB(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		panic(err)
	}

	return count
}

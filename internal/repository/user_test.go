package repository_test

import (
	"testing"
	"time"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_userRepository_GetList(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	followRepo := repository.NewFollowRepository()
	require.NoError(t, followRepo.Create(ctx, &entity.Follow{
		FollowerID: testutil.User2.ID,
		FollowedID: testutil.User1.ID,
		CreatedAt:  time.Now(),
	}))
	require.NoError(t, followRepo.Create(ctx, &entity.Follow{
		FollowerID: testutil.User3.ID,
		FollowedID: testutil.User1.ID,
		CreatedAt:  time.Now(),
	}))

	tests := []struct {
		name      string
		filter    repository.UserFilter
		offset    int
		limit     int
		wantIDs   []string
		wantTotal int64
	}{
		{
			name:      "all users",
			filter:    repository.UserFilter{},
			limit:     10,
			wantIDs:   []string{testutil.User1.ID, testutil.User2.ID, testutil.User3.ID},
			wantTotal: 3,
		},
		{
			name:      "paginated",
			filter:    repository.UserFilter{},
			offset:    1,
			limit:     1,
			wantIDs:   []string{testutil.User2.ID},
			wantTotal: 3,
		},
		{
			name:      "search",
			filter:    repository.UserFilter{Q: "er3"},
			limit:     10,
			wantIDs:   []string{testutil.User3.ID},
			wantTotal: 1,
		},
		{
			name:      "followers",
			filter:    repository.UserFilter{FollowersOf: testutil.User1.ID},
			limit:     10,
			wantIDs:   []string{testutil.User2.ID, testutil.User3.ID},
			wantTotal: 2,
		},
		{
			name:      "followers with exclusion",
			filter:    repository.UserFilter{FollowersOf: testutil.User1.ID, ExcludeIDs: []string{testutil.User2.ID}},
			limit:     10,
			wantIDs:   []string{testutil.User3.ID},
			wantTotal: 1,
		},
		{
			name:      "following",
			filter:    repository.UserFilter{FollowedBy: testutil.User2.ID},
			limit:     10,
			wantIDs:   []string{testutil.User1.ID},
			wantTotal: 1,
		},
		{
			name:      "subscribers",
			filter:    repository.UserFilter{SubscribersOf: testutil.Community1.ID},
			limit:     10,
			wantIDs:   []string{testutil.User1.ID, testutil.User2.ID},
			wantTotal: 2,
		},
		{
			name:      "moderators",
			filter:    repository.UserFilter{ModeratorsOf: testutil.Community1.ID},
			limit:     10,
			wantIDs:   []string{testutil.User1.ID},
			wantTotal: 1,
		},
	}

	repo := repository.NewUserRepository()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, total, err := repo.GetList(ctx, tt.filter, tt.offset, tt.limit)
			require.NoError(t, err)
			require.Equal(t, tt.wantTotal, total)

			ids := []string{}
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}

package repository_test

import (
	"errors"
	"testing"

	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_communityMemberRepository(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewCommunityMemberRepository()

	ok, err := repo.Exists(ctx, repository.RoleSubscriber, testutil.Community1.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Exists(ctx, repository.RoleModerator, testutil.Community1.ID, testutil.User2.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// Duplicate membership rows are rejected by the primary key.
	require.Error(t, repo.Create(ctx, repository.RoleSubscriber, testutil.Community1.ID, testutil.User2.ID))

	require.NoError(t, repo.Create(ctx, repository.RoleBanned, testutil.Community1.ID, testutil.User3.ID))
	ids, err := repo.GetUserIDs(ctx, repository.RoleBanned, testutil.Community1.ID)
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User3.ID}, ids)

	communityIDs, err := repo.GetCommunityIDs(ctx, repository.RoleSubscriber, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, []string{testutil.Community1.ID}, communityIDs)

	require.NoError(t, repo.Delete(ctx, repository.RoleSubscriber, testutil.Community1.ID, testutil.User2.ID))
	err = repo.Delete(ctx, repository.RoleSubscriber, testutil.Community1.ID, testutil.User2.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// Only the rows of the given role are removed.
	require.NoError(t, repo.DeleteByCommunityID(ctx, repository.RoleModerator, testutil.Community1.ID))
	ids, err = repo.GetUserIDs(ctx, repository.RoleSubscriber, testutil.Community1.ID)
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User1.ID}, ids)
	ids, err = repo.GetUserIDs(ctx, repository.RoleModerator, testutil.Community1.ID)
	require.NoError(t, err)
	require.Empty(t, ids)
}

package migration

import (
	"testing"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/testutil"
	"github.com/questx-lab/agora/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestMigrate(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	// Break a counter, the recount migration must repair it.
	err := xcontext.DB(ctx).Model(&entity.UserStats{}).
		Where("user_id=?", testutil.User2.ID).
		Update("posts_count", 42).Error
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx))
	require.Equal(t, int64(len(Migrators)), testutil.CountRows(ctx, &entity.Migration{}, "1=1"))

	var stats entity.UserStats
	require.NoError(t, xcontext.DB(ctx).Take(&stats, "user_id=?", testutil.User2.ID).Error)
	require.Equal(t, int64(1), stats.PostsCount)

	// Applied versions are skipped.
	require.NoError(t, xcontext.DB(ctx).Model(&stats).Update("posts_count", 7).Error)
	require.NoError(t, Migrate(ctx))
	require.NoError(t, xcontext.DB(ctx).Take(&stats, "user_id=?", testutil.User2.ID).Error)
	require.Equal(t, int64(7), stats.PostsCount)

	require.NoError(t, Run(ctx, "0001"))
	require.NoError(t, xcontext.DB(ctx).Take(&stats, "user_id=?", testutil.User2.ID).Error)
	require.Equal(t, int64(1), stats.PostsCount)

	require.Error(t, Run(ctx, "9999"))
}

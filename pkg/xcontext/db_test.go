package xcontext_test

import (
	"context"
	"testing"

	"github.com/questx-lab/agora/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type record struct {
	ID string `gorm:"primaryKey"`
}

func newDBContext(t *testing.T) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&record{}))
	return xcontext.WithDB(context.Background(), db)
}

func countRecords(t *testing.T, ctx context.Context) int64 {
	var n int64
	require.NoError(t, xcontext.DB(ctx).Model(&record{}).Count(&n).Error)
	return n
}

func TestTransaction_Commit(t *testing.T) {
	ctx := newDBContext(t)

	txCtx := xcontext.WithDBTransaction(ctx)
	require.NoError(t, xcontext.DB(txCtx).Create(&record{ID: "a"}).Error)
	require.NoError(t, xcontext.WithCommitDBTransaction(txCtx))
	xcontext.WithRollbackDBTransaction(txCtx)

	require.Equal(t, int64(1), countRecords(t, ctx))
}

func TestTransaction_Rollback(t *testing.T) {
	ctx := newDBContext(t)

	txCtx := xcontext.WithDBTransaction(ctx)
	require.NoError(t, xcontext.DB(txCtx).Create(&record{ID: "a"}).Error)
	xcontext.WithRollbackDBTransaction(txCtx)

	require.Equal(t, int64(0), countRecords(t, ctx))
}

func TestTransaction_NestedJoinsOuter(t *testing.T) {
	ctx := newDBContext(t)

	outer := xcontext.WithDBTransaction(ctx)
	inner := xcontext.WithDBTransaction(outer)
	require.NoError(t, xcontext.DB(inner).Create(&record{ID: "a"}).Error)

	// Committing the joined context must not end the outer transaction.
	require.NoError(t, xcontext.WithCommitDBTransaction(inner))
	xcontext.WithRollbackDBTransaction(outer)

	require.Equal(t, int64(0), countRecords(t, ctx))
}

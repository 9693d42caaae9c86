package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type dbTransaction struct {
	tx     *gorm.DB
	nested bool
	done   bool
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction of ctx if there is one, otherwise the
// root database.
func DB(ctx context.Context) *gorm.DB {
	if t := getValue[*dbTransaction](ctx, dbTxKey{}); t != nil && !t.done {
		return t.tx
	}

	db := getValue[*gorm.DB](ctx, dbKey{})
	if db == nil {
		return nil
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction and returns a context whose DB() is
// bound to it. If ctx already runs inside a transaction, the returned context
// joins it; commit and rollback on the joined context are no-ops, the owner of
// the outer transaction decides.
func WithDBTransaction(ctx context.Context) context.Context {
	if t := getValue[*dbTransaction](ctx, dbTxKey{}); t != nil && !t.done {
		return context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: t.tx, nested: true})
	}

	return context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) error {
	t := getValue[*dbTransaction](ctx, dbTxKey{})
	if t == nil || t.nested || t.done {
		return nil
	}

	t.done = true
	return t.tx.Commit().Error
}

// WithRollbackDBTransaction is safe to defer right after WithDBTransaction, it
// does nothing once the transaction has been committed.
func WithRollbackDBTransaction(ctx context.Context) {
	t := getValue[*dbTransaction](ctx, dbTxKey{})
	if t == nil || t.nested || t.done {
		return
	}

	t.done = true
	t.tx.Rollback()
}

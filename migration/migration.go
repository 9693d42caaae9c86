package migration

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/xcontext"
	"gorm.io/gorm"
)

type Migrator func(ctx context.Context) error

// Migrators lists every schema or data migration by version. Versions are
// applied in lexical order and recorded in the migrations table.
var Migrators = map[string]Migrator{
	"0000": migrate0000,
	"0001": migrate0001,
}

// Migrate applies the migrators which have not been recorded yet.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	versions := make([]string, 0, len(Migrators))
	for version := range Migrators {
		versions = append(versions, version)
	}
	sort.Strings(versions)

	for _, version := range versions {
		applied, err := isApplied(ctx, version)
		if err != nil {
			return err
		}

		if applied {
			continue
		}

		if err := Run(ctx, version); err != nil {
			return err
		}
	}

	return nil
}

// Run applies a single version in a transaction and records it, even if it
// has been applied before.
func Run(ctx context.Context, version string) error {
	migrator, ok := Migrators[version]
	if !ok {
		return errors.New("not found migration version " + version)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := migrator(ctx); err != nil {
		return err
	}

	err := xcontext.DB(ctx).Save(&entity.Migration{Version: version, CreatedAt: time.Now()}).Error
	if err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Applied migration %s", version)
	return xcontext.WithCommitDBTransaction(ctx)
}

func isApplied(ctx context.Context, version string) (bool, error) {
	var m entity.Migration
	err := xcontext.DB(ctx).Take(&m, "version=?", version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}

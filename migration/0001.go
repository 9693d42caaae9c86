package migration

import (
	"context"

	"github.com/questx-lab/agora/internal/repository"
)

// migrate0001 rebuilds every stats counter from the relation tables. It can be
// run again at any time to repair drifted counters.
func migrate0001(ctx context.Context) error {
	return repository.NewStatsRepository().Recount(ctx)
}

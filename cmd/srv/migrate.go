package main

import (
	"github.com/questx-lab/agora/migration"
	"github.com/questx-lab/agora/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())

	if version := cctx.String("version"); version != "" {
		return migration.Run(s.ctx, version)
	}

	return migration.Migrate(s.ctx)
}

package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/agora/config"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/pkg/authenticator"
	"github.com/questx-lab/agora/pkg/logger"
	"github.com/questx-lab/agora/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection of an in-memory sqlite opens its own database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Default()
	cfg.Database.Driver = "sqlite"
	cfg.ApiServer.DefaultLimit = 10
	cfg.ApiServer.MaxLimit = 50
	cfg.Auth = config.AuthConfigs{
		TokenSecret: "secret",
		AccessToken: config.TokenConfigs{
			Name:       "access_token",
			Expiration: time.Minute,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}

// WithUser switches the requesting user of an existing mock context.
func WithUser(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}

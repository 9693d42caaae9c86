package main

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/agora/config"
	"github.com/questx-lab/agora/internal/domain"
	"github.com/questx-lab/agora/internal/domain/counter"
	"github.com/questx-lab/agora/internal/domain/notification"
	"github.com/questx-lab/agora/internal/domain/visibility"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/authenticator"
	"github.com/questx-lab/agora/pkg/crypto"
	"github.com/questx-lab/agora/pkg/kafka"
	"github.com/questx-lab/agora/pkg/logger"
	"github.com/questx-lab/agora/pkg/pubsub"
	"github.com/questx-lab/agora/pkg/xcontext"
	"github.com/questx-lab/agora/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	ctx context.Context

	redisClient xredis.Client
	localPubSub *pubsub.LocalPubSub
	publisher   pubsub.Publisher

	userRepo         repository.UserRepository
	followRepo       repository.FollowRepository
	blockRepo        repository.BlockRepository
	communityRepo    repository.CommunityRepository
	memberRepo       repository.CommunityMemberRepository
	postRepo         repository.PostRepository
	commentRepo      repository.CommentRepository
	voteRepo         repository.VoteRepository
	bookmarkRepo     repository.BookmarkRepository
	statsRepo        repository.StatsRepository
	notificationRepo repository.NotificationRepository
	revokedTokenRepo repository.RevokedTokenRepository

	authDomain         domain.AuthDomain
	userDomain         domain.UserDomain
	communityDomain    domain.CommunityDomain
	postDomain         domain.PostDomain
	commentDomain      domain.CommentDomain
	notificationDomain domain.NotificationDomain
}

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	if secret := cctx.String("token-secret"); secret != "" {
		cfg.Auth.TokenSecret = secret
	}

	if password := cctx.String("db-password"); password != "" {
		cfg.Database.Password = password
	}

	log := logger.NewLogger(logger.ParseLevel(cfg.Log.Level))

	// Tokens signed with a random secret do not survive a restart, which is
	// only acceptable on a local environment.
	if cfg.Auth.TokenSecret == "" {
		if cfg.Env != "local" {
			return errors.New("auth.TokenSecret is required")
		}

		if cfg.Auth.TokenSecret, err = crypto.GenerateRandomString(); err != nil {
			return err
		}

		log.Warnf("No token secret configured, using a random one")
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, log)
	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.ConnectionString())
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Error
	}
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx, xcontext.Configs(s.ctx).Redis.Addr)
	if err != nil {
		panic(err)
	}
}

// loadPublisher publishes to Kafka when a broker is configured, otherwise to
// the in-process pubsub.
func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx)
	if !cfg.Kafka.Enabled() {
		s.localPubSub = pubsub.NewLocalPubSub()
		s.publisher = s.localPubSub
		return
	}

	publisher, err := kafka.NewPublisher("api", []string{cfg.Kafka.Addr})
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.followRepo = repository.NewFollowRepository()
	s.blockRepo = repository.NewBlockRepository()
	s.communityRepo = repository.NewCommunityRepository()
	s.memberRepo = repository.NewCommunityMemberRepository()
	s.postRepo = repository.NewPostRepository()
	s.commentRepo = repository.NewCommentRepository()
	s.voteRepo = repository.NewVoteRepository()
	s.bookmarkRepo = repository.NewBookmarkRepository()
	s.statsRepo = repository.NewStatsRepository()
	s.notificationRepo = repository.NewNotificationRepository()
	s.revokedTokenRepo = repository.NewRevokedTokenRepository(s.redisClient)
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	node, err := snowflake.NewNode(cfg.Notification.NodeID)
	if err != nil {
		panic(err)
	}

	visibilityFilter := visibility.NewFilter(s.blockRepo, s.memberRepo)
	counterEngine := counter.NewEngine(s.statsRepo)
	notifier := notification.NewDispatcher(
		s.blockRepo, s.notificationRepo, s.publisher, node, cfg.Notification.Topic)

	s.authDomain = domain.NewAuthDomain(s.userRepo, s.statsRepo, s.revokedTokenRepo)
	s.userDomain = domain.NewUserDomain(
		s.userRepo, s.followRepo, s.blockRepo, s.statsRepo,
		visibilityFilter, counterEngine, notifier)
	s.communityDomain = domain.NewCommunityDomain(
		s.communityRepo, s.memberRepo, s.userRepo, s.postRepo, s.commentRepo, s.voteRepo,
		s.bookmarkRepo, s.statsRepo, visibilityFilter, counterEngine, notifier)
	s.postDomain = domain.NewPostDomain(
		s.postRepo, s.commentRepo, s.communityRepo, s.memberRepo, s.userRepo, s.voteRepo,
		s.bookmarkRepo, s.blockRepo, s.statsRepo, visibilityFilter, counterEngine)
	s.commentDomain = domain.NewCommentDomain(
		s.commentRepo, s.postRepo, s.memberRepo, s.userRepo, s.voteRepo, s.bookmarkRepo,
		s.blockRepo, s.statsRepo, visibilityFilter, counterEngine, notifier)
	s.notificationDomain = domain.NewNotificationDomain(s.notificationRepo)
}

package main

import (
	"errors"
	"net/http"

	"github.com/questx-lab/agora/internal/domain/notification"
	"github.com/questx-lab/agora/internal/middleware"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/kafka"
	"github.com/questx-lab/agora/pkg/prometheus"
	"github.com/questx-lab/agora/pkg/router"
	"github.com/questx-lab/agora/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startNotification(*cli.Context) error {
	cfg := xcontext.Configs(s.ctx)
	if !cfg.Kafka.Enabled() {
		return errors.New("the notification service needs a kafka broker, the api serves notifications otherwise")
	}

	s.loadRedisClient()
	revokedTokenRepo := repository.NewRevokedTokenRepository(s.redisClient)

	notificationServer := notification.NewServer(cfg.NotificationServer.Address())
	subscriber, err := kafka.NewSubscriber(
		cfg.Notification.GroupID,
		[]string{cfg.Kafka.Addr},
		[]string{cfg.Notification.Topic},
		notificationServer.HandleEvent,
		xcontext.Logger(s.ctx),
	)
	if err != nil {
		return err
	}

	subscriber.Subscribe(s.ctx)
	defer func() {
		if err := subscriber.Stop(s.ctx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot stop subscriber: %v", err)
		}
	}()

	defaultRouter := router.New(s.ctx)
	defaultRouter.AddCloser(middleware.Logger())
	if cfg.Metrics.Enabled {
		defaultRouter.Handle(cfg.Metrics.Path, prometheus.NewHandler())
	}

	defaultRouter.Before(middleware.NewAuthVerifier(revokedTokenRepo).WithRequired().Middleware())
	router.Websocket(defaultRouter, "/notifications/ws", notificationServer.ServeWebsocket)

	httpSrv := &http.Server{
		Addr:    cfg.NotificationServer.Address(),
		Handler: defaultRouter.Handler(cfg.NotificationServer),
	}

	xcontext.Logger(s.ctx).Infof("Starting notification server on port: %s", cfg.NotificationServer.Port)
	if err := httpSrv.ListenAndServe(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

package main

import (
	"net/http"

	"github.com/questx-lab/agora/internal/domain/notification"
	"github.com/questx-lab/agora/internal/middleware"
	"github.com/questx-lab/agora/pkg/prometheus"
	"github.com/questx-lab/agora/pkg/router"
	"github.com/questx-lab/agora/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()

	cfg := xcontext.Configs(s.ctx)
	defaultRouter := s.loadRouter()

	// Without a broker, notifications never leave this process, so the api
	// serves the websocket sessions itself.
	if s.localPubSub != nil {
		notificationServer := notification.NewServer("api")
		s.localPubSub.Subscriber(notificationServer.HandleEvent, cfg.Notification.Topic).Subscribe(s.ctx)

		wsRouter := defaultRouter.Branch()
		wsRouter.Before(middleware.NewAuthVerifier(s.revokedTokenRepo).WithRequired().Middleware())
		router.Websocket(wsRouter, "/notifications/ws", notificationServer.ServeWebsocket)
	}

	httpSrv := &http.Server{
		Addr:    cfg.ApiServer.Address(),
		Handler: defaultRouter.Handler(cfg.ApiServer.ServerConfigs),
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on port: %s", cfg.ApiServer.Port)
	if err := httpSrv.ListenAndServe(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() *router.Router {
	cfg := xcontext.Configs(s.ctx)

	defaultRouter := router.New(s.ctx)
	defaultRouter.AddCloser(middleware.Logger())
	if cfg.Metrics.Enabled {
		defaultRouter.AddCloser(middleware.Prometheus())
		defaultRouter.Handle(cfg.Metrics.Path, prometheus.NewHandler())
	}

	authVerifier := middleware.NewAuthVerifier(s.revokedTokenRepo)

	// Auth API
	authRouter := defaultRouter.Branch()
	authRouter.After(middleware.SetAccessTokenCookie())
	{
		router.POST(authRouter, "/register", s.authDomain.Register)
		router.POST(authRouter, "/login", s.authDomain.Login)
	}

	// These following APIs need an authenticated user.
	onlyTokenAuthRouter := defaultRouter.Branch()
	onlyTokenAuthRouter.Before(authVerifier.WithRequired().Middleware())
	{
		router.POST(onlyTokenAuthRouter, "/logout", s.authDomain.Logout)

		// User API
		router.GET(onlyTokenAuthRouter, "/getMe", s.userDomain.GetMe)
		router.GET(onlyTokenAuthRouter, "/getBlockedUsers", s.userDomain.GetBlockedUsers)
		router.POST(onlyTokenAuthRouter, "/follow", s.userDomain.Follow)
		router.POST(onlyTokenAuthRouter, "/unfollow", s.userDomain.Unfollow)
		router.POST(onlyTokenAuthRouter, "/block", s.userDomain.Block)
		router.POST(onlyTokenAuthRouter, "/unblock", s.userDomain.Unblock)

		// Community API
		router.GET(onlyTokenAuthRouter, "/getMyCommunities", s.communityDomain.GetMyCommunities)
		router.GET(onlyTokenAuthRouter, "/getBannedUsers", s.communityDomain.GetBannedUsers)
		router.POST(onlyTokenAuthRouter, "/createCommunity", s.communityDomain.Create)
		router.POST(onlyTokenAuthRouter, "/updateCommunity", s.communityDomain.Update)
		router.POST(onlyTokenAuthRouter, "/deleteCommunity", s.communityDomain.Delete)
		router.POST(onlyTokenAuthRouter, "/subscribe", s.communityDomain.Subscribe)
		router.POST(onlyTokenAuthRouter, "/unsubscribe", s.communityDomain.Unsubscribe)
		router.POST(onlyTokenAuthRouter, "/ban", s.communityDomain.Ban)
		router.POST(onlyTokenAuthRouter, "/unban", s.communityDomain.Unban)
		router.POST(onlyTokenAuthRouter, "/mod", s.communityDomain.Mod)
		router.POST(onlyTokenAuthRouter, "/unmod", s.communityDomain.Unmod)
		router.POST(onlyTokenAuthRouter, "/transferCommunity", s.communityDomain.Transfer)

		// Post API
		router.GET(onlyTokenAuthRouter, "/getFeed", s.postDomain.GetFeed)
		router.GET(onlyTokenAuthRouter, "/getBookmarkedPosts", s.postDomain.GetBookmarks)
		router.POST(onlyTokenAuthRouter, "/createPost", s.postDomain.Create)
		router.POST(onlyTokenAuthRouter, "/updatePost", s.postDomain.Update)
		router.POST(onlyTokenAuthRouter, "/deletePost", s.postDomain.Delete)
		router.POST(onlyTokenAuthRouter, "/votePost", s.postDomain.Vote)
		router.POST(onlyTokenAuthRouter, "/cancelPostVote", s.postDomain.CancelVote)
		router.POST(onlyTokenAuthRouter, "/bookmarkPost", s.postDomain.Bookmark)
		router.POST(onlyTokenAuthRouter, "/unbookmarkPost", s.postDomain.Unbookmark)

		// Comment API
		router.GET(onlyTokenAuthRouter, "/getBookmarkedComments", s.commentDomain.GetBookmarks)
		router.POST(onlyTokenAuthRouter, "/createComment", s.commentDomain.Create)
		router.POST(onlyTokenAuthRouter, "/replyComment", s.commentDomain.Reply)
		router.POST(onlyTokenAuthRouter, "/updateComment", s.commentDomain.Update)
		router.POST(onlyTokenAuthRouter, "/deleteComment", s.commentDomain.Delete)
		router.POST(onlyTokenAuthRouter, "/voteComment", s.commentDomain.Vote)
		router.POST(onlyTokenAuthRouter, "/cancelCommentVote", s.commentDomain.CancelVote)
		router.POST(onlyTokenAuthRouter, "/bookmarkComment", s.commentDomain.Bookmark)
		router.POST(onlyTokenAuthRouter, "/unbookmarkComment", s.commentDomain.Unbookmark)

		// Notification API
		router.GET(onlyTokenAuthRouter, "/getNotifications", s.notificationDomain.GetNotifications)
		router.POST(onlyTokenAuthRouter, "/readNotifications", s.notificationDomain.ReadNotifications)
	}

	// Public API, anonymous requests see every content.
	publicRouter := defaultRouter.Branch()
	publicRouter.Before(authVerifier.Middleware())
	{
		router.GET(publicRouter, "/getUser", s.userDomain.GetUser)
		router.GET(publicRouter, "/getUsers", s.userDomain.GetUsers)
		router.GET(publicRouter, "/getFollowers", s.userDomain.GetFollowers)
		router.GET(publicRouter, "/getFollowing", s.userDomain.GetFollowing)

		router.GET(publicRouter, "/getCommunity", s.communityDomain.Get)
		router.GET(publicRouter, "/getCommunities", s.communityDomain.GetList)
		router.GET(publicRouter, "/getSubscribers", s.communityDomain.GetSubscribers)
		router.GET(publicRouter, "/getModerators", s.communityDomain.GetModerators)

		router.GET(publicRouter, "/getPost", s.postDomain.Get)
		router.GET(publicRouter, "/getPosts", s.postDomain.GetList)
		router.GET(publicRouter, "/getUserPosts", s.postDomain.GetUserPosts)
		router.GET(publicRouter, "/getPostVotes", s.postDomain.GetVotes)

		router.GET(publicRouter, "/getComment", s.commentDomain.Get)
		router.GET(publicRouter, "/getComments", s.commentDomain.GetList)
		router.GET(publicRouter, "/getReplies", s.commentDomain.GetReplies)
		router.GET(publicRouter, "/getCommentVotes", s.commentDomain.GetVotes)
	}

	return defaultRouter
}

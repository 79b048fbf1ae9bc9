package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prasaddsahil07/vdoTube/internal/di"
	authmw "github.com/prasaddsahil07/vdoTube/internal/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/config"
	"github.com/prasaddsahil07/vdoTube/pkg/logger"
	"github.com/prasaddsahil07/vdoTube/pkg/metrics"
	"github.com/prasaddsahil07/vdoTube/pkg/middleware"
	"github.com/prasaddsahil07/vdoTube/pkg/telemetry"
)

// setupRoutes installs the global middleware chain and every route
func setupRoutes(router *gin.Engine, c *di.Container, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Get()))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.CORSOrigins)))
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware())
	}
	if cfg.Metrics.Enabled {
		router.Use(metrics.Middleware())
		router.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// Health check endpoints
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)

	auth := authmw.Auth(c.AuthService)
	withSecrets := authmw.AuthWithSecrets(c.AuthService)

	// Credential endpoints share one token bucket config
	var limit gin.HandlerFunc = func(ctx *gin.Context) { ctx.Next() }
	if cfg.RateLimit.Enabled {
		rlCfg := middleware.DefaultRateLimitConfig()
		rlCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rlCfg.BurstSize = cfg.RateLimit.BurstSize
		if cfg.RateLimit.UseRedis && c.Redis != nil {
			rlCfg.Redis = c.Redis
		}
		limit = middleware.RateLimiter(rlCfg)
	}

	// Replays client retries of state flips; needs Redis
	var idempotent gin.HandlerFunc = func(ctx *gin.Context) { ctx.Next() }
	if c.Redis != nil {
		idempotent = middleware.Idempotency(middleware.DefaultIdempotencyConfig(c.Redis))
	}

	// Multipart routes stream to the object store and get the longer write bound
	timeout := middleware.Timeout(cfg.Server.RequestTimeout)
	uploadTimeout := middleware.Timeout(cfg.Server.WriteTimeout)

	v1 := router.Group("/api/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("/register", limit, uploadTimeout, c.UserHandler.Register)
			users.POST("/login", limit, timeout, c.UserHandler.Login)
			users.POST("/refreshToken", limit, timeout, c.UserHandler.RefreshToken)
			users.POST("/changePassword", timeout, withSecrets, c.UserHandler.ChangePassword)

			protected := users.Group("", auth)
			{
				protected.PATCH("/updateAvatar", uploadTimeout, c.UserHandler.UpdateAvatar)
				protected.PATCH("/updateCoverImage", uploadTimeout, c.UserHandler.UpdateCoverImage)
			}
			protected = users.Group("", timeout, auth)
			{
				protected.POST("/logout", c.UserHandler.Logout)
				protected.GET("/getUser", c.UserHandler.GetCurrentUser)
				protected.GET("/getUserById/:userId", c.UserHandler.GetUserByID)
				protected.PATCH("/updateDetails", c.UserHandler.UpdateDetails)
				protected.GET("/history", c.UserHandler.WatchHistory)
				protected.GET("/c/:username", c.UserHandler.ChannelProfile)
			}
		}

		uploads := v1.Group("/videos", uploadTimeout, auth)
		{
			uploads.POST("", c.VideoHandler.Publish)
			uploads.PATCH("/:videoId", c.VideoHandler.Update)
		}

		videos := v1.Group("/videos", timeout, auth)
		{
			videos.GET("", c.VideoHandler.List)
			videos.GET("/:videoId", c.VideoHandler.Get)
			videos.DELETE("/:videoId", c.VideoHandler.Delete)
			videos.PATCH("/toggle/publish/:videoId", idempotent, c.VideoHandler.TogglePublish)
			videos.PATCH("/watchHistory/:videoId", c.VideoHandler.RecordView)
		}

		tweets := v1.Group("/tweets", timeout, auth)
		{
			tweets.POST("", c.TweetHandler.Create)
			tweets.GET("/user/:userId", c.TweetHandler.ListByUser)
			tweets.GET("/getAllTweets", c.TweetHandler.ListAll)
			tweets.PATCH("/:tweetId", c.TweetHandler.Update)
			tweets.DELETE("/:tweetId", c.TweetHandler.Delete)
		}

		comments := v1.Group("/comments", timeout, auth)
		{
			comments.GET("/:videoId", c.CommentHandler.List)
			comments.POST("/:videoId", c.CommentHandler.Add)
			comments.PATCH("/c/:commentId", c.CommentHandler.Update)
			comments.DELETE("/c/:commentId", c.CommentHandler.Delete)
		}

		likes := v1.Group("/likes", timeout, auth)
		{
			likes.POST("/toggle/:kind/:id", idempotent, c.LikeHandler.Toggle)
			likes.GET("/isLiked/:kind/:id", c.LikeHandler.IsLiked)
			likes.GET("/videos", c.LikeHandler.LikedVideos)
			likes.GET("/tweets", c.LikeHandler.LikedTweets)
		}

		subscriptions := v1.Group("/subscriptions", timeout, auth)
		{
			subscriptions.GET("/c/:channelId", c.SubscriptionHandler.Subscribers)
			subscriptions.POST("/c/:channelId", idempotent, c.SubscriptionHandler.Toggle)
			subscriptions.GET("/u/:subscriberId", c.SubscriptionHandler.SubscribedChannels)
			subscriptions.GET("/isSubscribed/:channelId", c.SubscriptionHandler.IsSubscribed)
		}

		playlists := v1.Group("/playlists", timeout, auth)
		{
			playlists.POST("", c.PlaylistHandler.Create)
			playlists.GET("/:playlistId", c.PlaylistHandler.Get)
			playlists.PATCH("/:playlistId", c.PlaylistHandler.Update)
			playlists.DELETE("/:playlistId", c.PlaylistHandler.Delete)
			playlists.PATCH("/add/:videoId/:playlistId", idempotent, c.PlaylistHandler.AddVideo)
			playlists.PATCH("/remove/:videoId/:playlistId", idempotent, c.PlaylistHandler.RemoveVideo)
			playlists.GET("/user/:userId", c.PlaylistHandler.ListByUser)
		}

		dashboard := v1.Group("/dashboard", timeout, auth)
		{
			dashboard.GET("/stats/:channelId", c.DashboardHandler.Stats)
			dashboard.GET("/videos/getAllPublishedVideos/published", c.DashboardHandler.PublishedVideos)
			dashboard.GET("/videos/:channelId", c.DashboardHandler.ChannelVideos)
		}
	}
}

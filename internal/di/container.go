package di

import (
	"fmt"

	"github.com/prasaddsahil07/vdoTube/internal/handler"
	"github.com/prasaddsahil07/vdoTube/internal/repository"
	"github.com/prasaddsahil07/vdoTube/internal/service"
	"github.com/prasaddsahil07/vdoTube/pkg/config"
	"github.com/prasaddsahil07/vdoTube/pkg/database"
	"github.com/prasaddsahil07/vdoTube/pkg/redis"
)

// Container holds all dependencies of the API server
type Container struct {
	// Infrastructure
	DB        *database.PostgresDB
	Redis     *redis.Client
	Store     service.MediaStore
	Publisher service.EventPublisher

	// Repositories
	UserRepo      repository.UserRepository
	VideoRepo     repository.VideoRepository
	TweetRepo     repository.TweetRepository
	CommentRepo   repository.CommentRepository
	PlaylistRepo  repository.PlaylistRepository
	ToggleRepo    repository.ToggleRepository
	DashboardRepo repository.DashboardRepository

	// Services
	TokenService        service.TokenService
	MediaService        service.MediaService
	AuthService         service.AuthService
	UserService         service.UserService
	VideoService        service.VideoService
	TweetService        service.TweetService
	CommentService      service.CommentService
	PlaylistService     service.PlaylistService
	LikeService         service.LikeService
	SubscriptionService service.SubscriptionService
	DashboardService    service.DashboardService

	// Handlers
	HealthHandler       *handler.HealthHandler
	UserHandler         *handler.UserHandler
	VideoHandler        *handler.VideoHandler
	TweetHandler        *handler.TweetHandler
	CommentHandler      *handler.CommentHandler
	PlaylistHandler     *handler.PlaylistHandler
	LikeHandler         *handler.LikeHandler
	SubscriptionHandler *handler.SubscriptionHandler
	DashboardHandler    *handler.DashboardHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB    *database.PostgresDB
	Redis *redis.Client
	// Store is the object store media is uploaded to
	Store service.MediaStore
	// Publisher is nil when messaging is disabled
	Publisher service.EventPublisher
	Config    *config.Config
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) (*Container, error) {
	c := &Container{
		DB:        cfg.DB,
		Redis:     cfg.Redis,
		Store:     cfg.Store,
		Publisher: cfg.Publisher,
	}
	if c.Publisher == nil {
		c.Publisher = service.NoOpEventPublisher{}
	}
	appCfg := cfg.Config

	// Initialize repositories
	pool := c.DB.Pool()
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.VideoRepo = repository.NewPostgresVideoRepository(pool)
	c.TweetRepo = repository.NewPostgresTweetRepository(pool)
	c.CommentRepo = repository.NewPostgresCommentRepository(pool)
	c.PlaylistRepo = repository.NewPostgresPlaylistRepository(pool)
	c.ToggleRepo = repository.NewPostgresToggleRepository(pool)
	c.DashboardRepo = repository.NewPostgresDashboardRepository(pool)

	// Initialize services
	c.TokenService = service.NewTokenService(&service.TokenServiceConfig{
		AccessSecret:  appCfg.JWT.AccessTokenSecret,
		RefreshSecret: appCfg.JWT.RefreshTokenSecret,
		AccessTTL:     appCfg.JWT.AccessTokenTTL,
		RefreshTTL:    appCfg.JWT.RefreshTokenTTL,
		Issuer:        appCfg.JWT.Issuer,
	})
	c.MediaService = service.NewMediaService(c.Store, c.Publisher)
	c.AuthService = service.NewAuthService(c.UserRepo, c.TokenService, c.MediaService, c.Publisher, &service.AuthServiceConfig{
		BcryptCost: appCfg.JWT.BcryptCost,
	})
	c.UserService = service.NewUserService(c.UserRepo, c.ToggleRepo, c.MediaService)
	c.VideoService = service.NewVideoService(c.VideoRepo, c.UserRepo, c.MediaService, c.Publisher)
	c.TweetService = service.NewTweetService(c.TweetRepo, c.UserRepo)
	c.CommentService = service.NewCommentService(c.CommentRepo, c.VideoRepo)
	c.PlaylistService = service.NewPlaylistService(c.PlaylistRepo, c.UserRepo)
	c.LikeService = service.NewLikeService(c.ToggleRepo, c.UserRepo, c.Publisher)
	c.SubscriptionService = service.NewSubscriptionService(c.ToggleRepo, c.UserRepo, c.Publisher)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.VideoRepo, c.UserRepo)

	// Initialize handlers
	uploader, err := handler.NewUploader(appCfg.Server.UploadTempDir, appCfg.Server.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create uploader: %w", err)
	}
	cookies := handler.CookieOptions{
		Secure:   appCfg.Cookie.Secure,
		Domain:   appCfg.Cookie.Domain,
		SameSite: appCfg.Cookie.SameSiteMode(),
	}

	checks := map[string]handler.HealthChecker{"postgres": c.DB}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(checks)
	c.UserHandler = handler.NewUserHandler(c.AuthService, c.UserService, uploader, cookies, c.TokenService.RefreshTTL())
	c.VideoHandler = handler.NewVideoHandler(c.VideoService, uploader)
	c.TweetHandler = handler.NewTweetHandler(c.TweetService)
	c.CommentHandler = handler.NewCommentHandler(c.CommentService)
	c.PlaylistHandler = handler.NewPlaylistHandler(c.PlaylistService)
	c.LikeHandler = handler.NewLikeHandler(c.LikeService)
	c.SubscriptionHandler = handler.NewSubscriptionHandler(c.SubscriptionService)
	c.DashboardHandler = handler.NewDashboardHandler(c.DashboardService)

	return c, nil
}

// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"mediasphere/internal/config"
	"mediasphere/internal/middleware"
	"mediasphere/internal/query"
	"mediasphere/internal/repository"
	"mediasphere/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo     repository.UserRepository
	videoRepo    repository.VideoRepository
	tweetRepo    repository.TweetRepository
	commentRepo  repository.CommentRepository
	playlistRepo repository.PlaylistRepository
	relationRepo repository.RelationRepository

	exec *query.Executor

	userService         *service.UserService
	videoService        *service.VideoService
	tweetService        *service.TweetService
	commentService      *service.CommentService
	playlistService     *service.PlaylistService
	likeService         *service.LikeService
	subscriptionService *service.SubscriptionService
	channelService      *service.ChannelService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The bootstrap layer and tests control DB and Redis setup themselves.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("mediasphere-api"),
		userRepo:       repository.NewUserRepository(db),
		videoRepo:      repository.NewVideoRepository(db),
		tweetRepo:      repository.NewTweetRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		playlistRepo:   repository.NewPlaylistRepository(db),
		relationRepo:   repository.NewRelationRepository(db),
		exec:           query.NewExecutor(repository.NewStore(db)),
	}

	server.userService = service.NewUserService(server.userRepo)
	server.videoService = service.NewVideoService(server.videoRepo, server.exec)
	server.tweetService = service.NewTweetService(server.tweetRepo, server.userRepo, server.exec)
	server.commentService = service.NewCommentService(server.commentRepo, server.videoRepo, server.exec)
	server.playlistService = service.NewPlaylistService(server.playlistRepo, server.videoRepo, server.exec)
	server.likeService = service.NewLikeService(server.relationRepo, server.videoRepo, server.commentRepo, server.tweetRepo, server.exec)
	server.subscriptionService = service.NewSubscriptionService(server.relationRepo, server.userRepo, server.exec)
	server.channelService = service.NewChannelService(server.userRepo, server.relationRepo, server.videoService, server.exec)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "MediaSphere Metrics Dashboard",
	}))

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public reads resolve the principal when a token is present so
	// viewer-specific fields can be computed.
	publicVideos := api.Group("/videos", middleware.AuthOptional)
	publicVideos.Get("/", s.ListVideos)
	publicVideos.Get("/:id/comments", s.ListVideoComments)
	publicVideos.Get("/:id", s.GetVideo)

	publicChannels := api.Group("/channels", middleware.AuthOptional)
	publicChannels.Get("/u/:username", s.GetChannelProfile)
	publicChannels.Get("/:id/stats", s.GetChannelStats)
	publicChannels.Get("/:id/videos", s.GetChannelVideos)
	publicChannels.Get("/:id/subscribers", s.GetChannelSubscribers)

	api.Get("/users/:id/tweets", middleware.AuthOptional, s.GetUserTweets)
	api.Get("/users/:id/playlists", middleware.AuthOptional, s.GetUserPlaylists)
	api.Get("/playlists/:id", middleware.AuthOptional, s.GetPlaylist)

	protected := api.Group("", middleware.AuthRequired)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)

	videos := protected.Group("/videos")
	videos.Post("/", s.CreateVideo)
	videos.Post("/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.AddComment)
	videos.Patch("/:id/toggle-publish", s.TogglePublishStatus)
	videos.Put("/:id", s.UpdateVideo)
	videos.Delete("/:id", s.DeleteVideo)

	comments := protected.Group("/comments")
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	tweets := protected.Group("/tweets")
	tweets.Post("/", s.CreateTweet)
	tweets.Put("/:id", s.UpdateTweet)
	tweets.Delete("/:id", s.DeleteTweet)

	likes := protected.Group("/likes")
	likes.Post("/videos/:id/toggle", s.ToggleVideoLike)
	likes.Post("/comments/:id/toggle", s.ToggleCommentLike)
	likes.Post("/tweets/:id/toggle", s.ToggleTweetLike)
	likes.Get("/videos", s.GetLikedVideos)

	subscriptions := protected.Group("/subscriptions")
	subscriptions.Post("/channels/:id/toggle", s.ToggleSubscription)
	subscriptions.Get("/channels", s.GetSubscribedChannels)

	playlists := protected.Group("/playlists")
	playlists.Post("/", s.CreatePlaylist)
	playlists.Post("/:id/videos/:videoId", s.AddVideoToPlaylist)
	playlists.Delete("/:id/videos/:videoId", s.RemoveVideoFromPlaylist)
	playlists.Put("/:id", s.UpdatePlaylist)
	playlists.Delete("/:id", s.DeletePlaylist)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases server-held resources: the database pool and the Redis
// client. Call after the Fiber app has stopped accepting requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var firstErr error

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("close database: %w", err)
			}
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close redis: %w", err)
		}
	}

	return firstErr
}

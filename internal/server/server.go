package server

import (
	"context"
	"fmt"
	"time"

	"zephyr/internal/cache"
	"zephyr/internal/config"
	"zephyr/internal/database"
	"zephyr/internal/middleware"
	"zephyr/internal/repository"
	"zephyr/internal/search"
	"zephyr/internal/service"
	indexsync "zephyr/internal/sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo repository.UserRepository
	postRepo repository.PostRepository
	engRepo  repository.EngagementRepository
	index    search.Index

	projector *indexsync.Projector
	scheduler *indexsync.Scheduler
	syncStop  context.CancelFunc

	userService       *service.UserService
	postService       *service.PostService
	engagementService *service.EngagementService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	index, err := search.NewElasticIndex(cfg.ESAddressList(), cfg.ESIndex)
	if err != nil {
		return nil, fmt.Errorf("search index setup failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, index)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Used by tests and by bootstrap layers that establish DB/Redis themselves.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, index search.Index) (*Server, error) {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	engRepo := repository.NewEngagementRepository(db)

	prom := middleware.InitMetrics("zephyr-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		postRepo:       postRepo,
		engRepo:        engRepo,
		index:          index,
	}

	server.projector = indexsync.NewProjector(index, postRepo)
	server.userService = service.NewUserService(userRepo)
	server.engagementService = service.NewEngagementService(postRepo, engRepo)
	server.postService = service.NewPostService(
		postRepo, engRepo, index, server.projector, server.userService.IsAdmin)

	if cfg.SyncEnabled {
		scheduler, err := indexsync.NewScheduler(
			postRepo, server.projector, cfg.SyncInterval(), cfg.SyncWindow(), cfg.SyncBatchSize)
		if err != nil {
			return nil, fmt.Errorf("sync scheduler setup failed: %w", err)
		}
		server.scheduler = scheduler
	}

	return server, nil
}

// StartSync launches the incremental index sync loop. No-op when sync is
// disabled in configuration.
func (s *Server) StartSync() {
	if s.scheduler == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.syncStop = cancel
	go s.scheduler.Run(ctx)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID into logs
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

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
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, "register", 5, 10*time.Minute), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, "login", 10, 5*time.Minute), s.Login)

	posts := api.Group("/posts")
	posts.Post("/query", middleware.AuthOptional, s.QueryPosts)
	posts.Post("/search", middleware.AuthOptional,
		middleware.RateLimit(s.redis, "search", 30, time.Minute), s.SearchPosts)
	posts.Get("/:id", middleware.AuthOptional, s.GetPost)

	posts.Post("/", middleware.AuthRequired, s.CreatePost)
	posts.Put("/:id", middleware.AuthRequired, s.UpdatePost)
	posts.Delete("/:id", middleware.AuthRequired, s.DeletePost)

	posts.Post("/:id/like", middleware.AuthRequired, s.ToggleLike)
	posts.Post("/:id/collect", middleware.AuthRequired, s.ToggleCollect)

	me := api.Group("/users/me", middleware.AuthRequired)
	me.Get("/likes", s.ListMyLikes)
	me.Get("/collections", s.ListMyCollections)
}

// HealthCheck reports process liveness and database reachability.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
	}
	return c.JSON(status)
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.syncStop != nil {
		s.syncStop()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Warn("redis close failed", "error", err.Error())
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}

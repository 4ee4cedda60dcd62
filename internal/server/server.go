// Package server contains the HTTP handlers, middleware stack and routes of the posts API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "masterblog/docs" // swagger docs
	"masterblog/internal/cache"
	"masterblog/internal/config"
	"masterblog/internal/middleware"
	"masterblog/internal/models"
	"masterblog/internal/repository"
	"masterblog/internal/service"
	"masterblog/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
)

// ServiceName labels metrics, traces and the fiber app.
const ServiceName = "masterblog-api"

type Server struct {
	config         *config.Config
	store          storage.Store
	closeStore     func() error
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	postRepo       repository.PostRepository
	postService    *service.PostService
}

// NewServer opens the configured store and the optional Redis client.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage initialization failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)

	server := NewServerWithDeps(cfg, store, redisClient, time.Now)
	server.closeStore = closeStore
	return server, nil
}

// NewServerWithDeps builds a Server around an existing store. redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, store storage.Store, redisClient *redis.Client, clock func() time.Time) *Server {
	postRepo := repository.NewPostRepository(store)

	return &Server{
		config:         cfg,
		store:          store,
		closeStore:     func() error { return nil },
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics(ServiceName),
		postRepo:       postRepo,
		postService: service.NewPostService(postRepo, service.PostServiceOptions{
			Clock:         clock,
			DateLayout:    cfg.DateFormat,
			RequireAuthor: cfg.RequireAuthor,
		}),
	}
}

// NewApp returns a fiber app with the middleware stack and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Masterblog API",
		BodyLimit:    1024 * 1024,
		ErrorHandler: ErrorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// ErrorHandler renders errors that escaped a handler in the standard error body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return models.RespondWithError(c, fiberErr.Code, &models.AppError{
			Code:    httpErrorCode(fiberErr.Code),
			Message: fiberErr.Message,
		})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

func httpErrorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return models.CodeNotFound
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return models.CodeValidation
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	}
	return models.CodeInternal
}

func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New())

	app.Use(middleware.TracingMiddleware())

	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400, // 24 hours
	}))
}

func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Masterblog Metrics Dashboard",
	}))

	api.Get("/docs/*", swagger.HandlerDefault)

	posts := api.Group("/posts")
	posts.Get("/", s.rateLimit("list_posts"), s.GetPosts)
	posts.Post("/", s.rateLimit("create_post"), s.CreatePost)
	posts.Get("/search", s.SearchPosts)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)
}

// rateLimit limits a route to RATE_LIMIT_PER_MINUTE requests per client,
// counted in Redis when connected and in process otherwise.
func (s *Server) rateLimit(resource string) fiber.Handler {
	limit := s.config.RateLimitPerMinute
	if s.config.IsTest() || limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if s.redis != nil {
		return middleware.RateLimit(s.redis, limit, time.Minute, resource)
	}
	return middleware.LocalRateLimit(limit, time.Minute, resource)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storageStatus := "healthy"
	if _, err := s.postRepo.Snapshot(ctx); err != nil {
		storageStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is optional; without it rate limiting is in process.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storageStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Masterblog API",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"storage": storageStatus,
			"driver":  s.config.StorageDriver,
			"redis":   redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases the store and the Redis connection.
func (s *Server) Shutdown(_ context.Context) error {
	var errs []error

	if s.closeStore != nil {
		if err := s.closeStore(); err != nil {
			middleware.Logger.Error("error closing store", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return errors.Join(errs...)
}

// Package server wires the HTTP layer: Fiber app, middleware chain, routes
// and the handlers translating requests into service calls.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "socialapp/docs" // swagger docs
	"socialapp/internal/auth"
	"socialapp/internal/cache"
	"socialapp/internal/config"
	"socialapp/internal/database"
	"socialapp/internal/middleware"
	"socialapp/internal/models"
	"socialapp/internal/repository"
	"socialapp/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	defaultOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	bodyLimit      = 1 << 20
	globalRate     = 100
)

// Server owns the API's dependencies and its Fiber app.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.TokenManager
	userService    *service.UserService
	profileService *service.ProfileService
	postService    *service.PostService
}

// NewServer connects to the database and Redis and builds a Server on them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps builds a Server on already-open connections. redisClient
// may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	users := repository.NewUserRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("socialapp-api"),
		tokens:         tokens,
		userService:    service.NewUserService(users, tokens),
		profileService: service.NewProfileService(repository.NewProfileRepository(db), users),
		postService:    service.NewPostService(repository.NewPostRepository(db), users),
	}, nil
}

// NewApp builds the Fiber app with its error handler, middleware and routes.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Social App API",
		BodyLimit:    bodyLimit,
		ErrorHandler: s.ErrorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// ErrorHandler renders errors that escape handlers and middleware. Fiber's
// own 4xx errors (unknown route, bad method) keep their status and message.
func (s *Server) ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Msg: fe.Message})
	}
	return s.respondError(c, err)
}

// SetupMiddleware installs the global chain. Order matters: ids and the
// trace span exist before anything logs, and CORS headers are set before
// the limiter can reject.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = defaultOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, x-auth-token",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        globalRate,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Msg: "Too many requests, please try again later.",
			})
		},
	}))
}

// Start builds the app and blocks serving on the configured port.
func (s *Server) Start() error {
	app := s.NewApp()
	middleware.Logger.Info("server starting",
		slog.String("port", s.config.Port),
		slog.String("env", s.config.Env),
	)
	return app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests, waits for in-flight ones within ctx and
// closes the database and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http: %w", err))
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	if s.redis != nil {
		if s.redis == cache.GetClient() {
			cache.SetClient(nil)
		}
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	middleware.Logger.Info("server shutdown complete")
	return nil
}

package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/projecthub/internal/api/handler"
	"github.com/taskhive/projecthub/internal/api/middleware"
	"github.com/taskhive/projecthub/internal/core/service"
	infraauth "github.com/taskhive/projecthub/internal/infrastructure/auth"
	mongodb "github.com/taskhive/projecthub/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhive/projecthub/internal/infrastructure/db/redis"
	"github.com/taskhive/projecthub/internal/pkg/config"
	"github.com/taskhive/projecthub/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("projecthub"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	projectRepo := mongodb.NewProjectRepository(db)
	sessions := redisdb.NewSessionStore(rdb)

	hasher := infraauth.NewBcryptHasher(cfg.Bcrypt.Cost)
	issuer := infraauth.NewJWTIssuer(userRepo, cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	identityService := service.NewIdentityService(userRepo, hasher, issuer, sessions, logger.WithComponent("identity"))
	projectService := service.NewProjectService(projectRepo, userRepo, logger.WithComponent("projects"))

	authHandler := handler.NewAuthHandler(identityService)
	projectHandler := handler.NewProjectHandler(projectService)
	authMiddleware := middleware.Auth(cfg.JWT.Secret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Project routes (authenticated) ---
	projects := e.Group("/v1/projects", authMiddleware)
	projects.POST("", projectHandler.Create)
	projects.GET("/:id", projectHandler.Get)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}

package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/postboard/feed-api/internal/api/handler"
	"github.com/postboard/feed-api/internal/api/middleware"
	"github.com/postboard/feed-api/internal/core/ports"
)

// RouterConfig carries everything the router wires together. Mongo and Redis
// are only used by the readiness probe and may be nil in tests.
type RouterConfig struct {
	AuthService ports.AuthService
	PostService ports.PostService
	Verifier    middleware.TokenVerifier
	ImagesDir   string
	Mongo       *mongo.Database
	Redis       *redis.Client
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("feed"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	feedHandler := handler.NewFeedHandler(cfg.PostService)
	requireAuth := middleware.Auth(cfg.Verifier)

	// --- Auth routes ---
	e.PUT("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// --- Feed routes (all protected) ---
	feed := e.Group("/feed", requireAuth)
	feed.GET("/posts", feedHandler.List)
	feed.POST("/post", feedHandler.Create)
	feed.GET("/post/:postId", feedHandler.Get)
	feed.PUT("/post/:postId", feedHandler.Update)
	feed.DELETE("/post/:postId", feedHandler.Delete)

	// --- Uploaded images, served statically ---
	if cfg.ImagesDir != "" {
		e.Static("/images", cfg.ImagesDir)
	}

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	if cfg.Mongo != nil && cfg.Redis != nil {
		readiness := handler.NewReadinessHandler(cfg.Mongo, cfg.Redis)
		e.GET("/health/ready", readiness.Readiness)
	}

	return e
}

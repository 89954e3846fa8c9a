package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/postboard/feed-api/docs"
	"github.com/postboard/feed-api/internal/api"
	"github.com/postboard/feed-api/internal/core/service"
	"github.com/postboard/feed-api/internal/core/token"
	"github.com/postboard/feed-api/internal/infrastructure/config"
	mongodb "github.com/postboard/feed-api/internal/infrastructure/db/mongo"
	redisdb "github.com/postboard/feed-api/internal/infrastructure/db/redis"
	"github.com/postboard/feed-api/internal/infrastructure/queue"
	"github.com/postboard/feed-api/internal/infrastructure/storage"
	"github.com/postboard/feed-api/pkg/logger"
)

// @title        Feed API
// @version      1.0
// @description  User signup/login and an authenticated post feed with image uploads.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Dependencies ---
	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("post index creation failed")
	}

	images, err := storage.NewDiskStore(cfg.ImagesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("image store init failed")
	}

	cleaner := queue.NewCleaner(0, images, log)
	cleaner.Start(ctx)

	tokens := token.New(cfg.JWTSecret, cfg.TokenTTL)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.Window)

	authService := service.NewAuthService(userRepo, tokens, limiter, log)
	postService := service.NewPostService(postRepo, userRepo, images, cleaner, log)

	e := api.NewRouter(api.RouterConfig{
		AuthService: authService,
		PostService: postService,
		Verifier:    tokens,
		ImagesDir:   cfg.ImagesDir,
		Mongo:       db,
		Redis:       rdb,
		Log:         log,
	})

	// --- Serve ---
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

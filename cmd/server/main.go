package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/openbiz/directory-api/internal/api"
	"github.com/openbiz/directory-api/internal/core/service"
	"github.com/openbiz/directory-api/internal/infrastructure/config"
	mongodb "github.com/openbiz/directory-api/internal/infrastructure/db/mongo"
	redisdb "github.com/openbiz/directory-api/internal/infrastructure/db/redis"
	"github.com/openbiz/directory-api/internal/infrastructure/queue"
	"github.com/openbiz/directory-api/pkg/logger"
)

// @title        Business Directory API
// @version      1.0
// @description  User accounts and business listings behind token-based
// @description  authentication with role and ownership checks.
//
// @securityDefinitions.apikey BearerAuth
// @in    header
// @name  Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db)
	businessRepo := mongodb.NewBusinessRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	// The unique indexes on username/email are the real duplicate-account
	// invariant; refusing to start without them is deliberate.
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := businessRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("business index creation failed")
	}

	// --- Audit pipeline ---
	auditSvc := service.NewAuditService(auditRepo, log)
	audit := queue.NewDispatcher(cfg.AuditWorkers, auditSvc, log)
	audit.Start(ctx)

	// --- Application services ---
	limiter := redisdb.NewLoginLimiter(rdb)
	authSvc := service.NewAuthService(userRepo, limiter, audit, cfg.JWTSecret, cfg.TokenTTL, log)
	userSvc := service.NewUserService(userRepo, audit, log)
	businessSvc := service.NewBusinessService(businessRepo, userRepo, audit, log)

	e, err := api.NewRouter(api.Services{
		Auth:       authSvc,
		Users:      userSvc,
		Businesses: businessSvc,
	}, db, rdb, cfg.JWTSecret, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router construction failed")
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("directory api started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecobank/internal/config"
	"ecobank/internal/database"
	"ecobank/internal/email"
	"ecobank/internal/handlers"
	"ecobank/internal/logger"
	"ecobank/internal/milestones"
	"ecobank/internal/persistence"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.Initialize(logger.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var remote persistence.Remote
	var pinger handlers.Pinger

	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err == nil {
		err = database.Migrate(db, cfg.DatabaseDriver)
	}
	if err != nil {
		logger.Warn("Database unavailable, running on local cache only", "driver", cfg.DatabaseDriver, "error", err)
	} else {
		defer db.Close()
		repo := database.NewRepository(db, cfg.DatabaseDriver)
		remote = repo
		pinger = repo
	}

	var cache persistence.Cache = persistence.NewFileCache(cfg.CachePath)
	if cfg.RedisURL != "" {
		redisCache, err := persistence.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, using file cache", "path", cfg.CachePath, "error", err)
		} else {
			defer redisCache.Close()
			cache = redisCache
		}
	}

	mirror := persistence.NewMirror(remote, cache, persistence.Options{
		QueueSize:  cfg.PersistQueueSize,
		MaxRetries: cfg.PersistMaxRetries,
	})

	emailService := email.NewService(cfg)
	if emailService.IsEnabled() {
		logger.Info("Email service enabled with Mailgun")
	} else {
		logger.Info("Email service disabled - Mailgun not configured")
	}

	engine := milestones.New(mirror, milestones.WithNotifier(emailService))

	snap, err := mirror.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load persisted state, starting empty", "error", err)
	}
	engine.Restore(snap)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	handlers.SetupRoutes(r, cfg, engine, pinger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	if err := mirror.Close(shutdownCtx); err != nil {
		logger.Error("Persistence flush incomplete", "error", err)
	}
	if err := emailService.Close(shutdownCtx); err != nil {
		logger.Error("Pending emails not sent", "error", err)
	}
}

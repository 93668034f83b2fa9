package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecobank/internal/config"
	"ecobank/internal/logger"
	"ecobank/internal/middleware"
	"ecobank/internal/milestones"
	"ecobank/internal/receipt"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRoutes registers the JSON API. db may be nil when the service runs
// on the local cache only.
func SetupRoutes(r *gin.Engine, cfg *config.Config, engine *milestones.Engine, db Pinger) {
	blocker := middleware.NewIPBlocker(cfg)

	r.Use(middleware.LogRequests())
	r.Use(middleware.SecurityHeaders(cfg))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(blocker.Block(), blocker.Track404())
	r.Use(addEngineContext(engine))

	r.GET("/healthz", handleHealth(db))

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg))
	{
		api.GET("/items", handleItems)
		api.POST("/items", handleCreateItem)
		api.GET("/stats", handleStats)
		api.GET("/categories", handleCategories)
		api.GET("/recommendations", handleRecommendations)
		api.POST("/scan", middleware.ScanRateLimit(cfg), handleScan)

		api.GET("/badges", handleEarnedBadges)
		api.GET("/badges/available", handleAvailableBadges)
		api.GET("/badges/continuing", handleContinuingBadges)
		api.POST("/badges/start", handleStartBadge)
		api.POST("/badges/status", handleBadgeStatus)
		api.GET("/milestones", handleMilestones)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AdminRateLimit(cfg))
	admin.Use(middleware.AdminRequired(cfg))
	{
		admin.GET("/items/pending", handlePendingItems)
		admin.POST("/approve", handleApprove)
	}
}

func addEngineContext(engine *milestones.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("engine", engine)
		c.Next()
	}
}

func engineFrom(c *gin.Context) *milestones.Engine {
	return c.MustGet("engine").(*milestones.Engine)
}

func handleHealth(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "disabled"
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			status = "ok"
			if err := db.Ping(ctx); err != nil {
				status = "unavailable"
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": status})
	}
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, milestones.ErrValidation),
		errors.Is(err, receipt.ErrInvalidURL),
		errors.Is(err, receipt.ErrUnsupportedProvider):
		status = http.StatusBadRequest
	case errors.Is(err, milestones.ErrNotFound),
		errors.Is(err, milestones.ErrUnknownBadge):
		status = http.StatusNotFound
	case errors.Is(err, milestones.ErrAlreadyEarned):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

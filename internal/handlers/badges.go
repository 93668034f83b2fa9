package handlers

import (
	"net/http"

	"ecobank/internal/milestones"
	"ecobank/internal/models"

	"github.com/gin-gonic/gin"
)

type badgeRequest struct {
	BadgeID string `json:"badgeId" binding:"required"`
}

func handleEarnedBadges(c *gin.Context) {
	badges := engineFrom(c).EarnedBadges()
	if badges == nil {
		badges = []models.Badge{}
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func handleAvailableBadges(c *gin.Context) {
	badges := engineFrom(c).AvailableBadges()
	if badges == nil {
		badges = []models.BadgeTemplate{}
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func handleContinuingBadges(c *gin.Context) {
	badges := engineFrom(c).ContinuingBadges()
	if badges == nil {
		badges = []milestones.ContinuingBadge{}
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func handleStartBadge(c *gin.Context) {
	var req badgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Badge ID is required"})
		return
	}

	engine := engineFrom(c)
	started, err := engine.StartBadge(req.BadgeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !started {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Badge is already active"})
		return
	}

	progress, _ := engine.BadgeProgress(req.BadgeID)
	c.JSON(http.StatusOK, gin.H{"success": true, "progress": progress})
}

func handleBadgeStatus(c *gin.Context) {
	var req badgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Badge ID is required"})
		return
	}

	engine := engineFrom(c)
	progress, ok := engine.BadgeProgress(req.BadgeID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Badge not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"isActive": engine.IsBadgeActive(req.BadgeID),
		"progress": progress,
		"percent":  progress.Percent(),
	})
}

func handleMilestones(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"milestones": engineFrom(c).Milestones()})
}

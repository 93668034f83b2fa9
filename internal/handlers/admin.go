package handlers

import (
	"net/http"

	"ecobank/internal/emission"
	"ecobank/internal/models"

	"github.com/gin-gonic/gin"
)

type approveRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}

func handlePendingItems(c *gin.Context) {
	items := engineFrom(c).PendingItems()
	if items == nil {
		items = []models.ScannedItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func handleApprove(c *gin.Context) {
	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item ID is required"})
		return
	}

	engine := engineFrom(c)
	item, err := engine.Item(req.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}

	co2 := emission.Approval.Estimate(item.Category, item.Quantity, item.Price)
	updated, err := engine.Approve(req.ItemID, co2)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "item": updated})
}

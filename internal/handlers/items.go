package handlers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"ecobank/internal/emission"
	"ecobank/internal/logger"
	"ecobank/internal/milestones"
	"ecobank/internal/models"
	"ecobank/internal/receipt"

	"github.com/gin-gonic/gin"
)

type createItemRequest struct {
	milestones.NewItem
	Review bool `json:"review"`
}

type scanRequest struct {
	QRCode string `json:"qrCode"`
}

func handleItems(c *gin.Context) {
	items := engineFrom(c).Items()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ScannedAt.After(items[j].ScannedAt)
	})
	if items == nil {
		items = []models.ScannedItem{}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func handleCreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	engine := engineFrom(c)

	var (
		item models.ScannedItem
		err  error
	)
	if req.Review {
		item, err = engine.Submit(req.NewItem)
	} else {
		item, err = engine.Insert(req.NewItem)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
}

func handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stats": engineFrom(c).Stats()})
}

func handleCategories(c *gin.Context) {
	categories := make([]gin.H, 0, len(emission.Categories()))
	for _, name := range emission.Categories() {
		categories = append(categories, gin.H{
			"name":           name,
			"approvalFactor": emission.Approval.Factor(name),
			"autoFactor":     emission.AutoApproval.Factor(name),
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func handleScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.QRCode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "QR code is required"})
		return
	}

	rec, err := receipt.Parse(req.QRCode, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	engine := engineFrom(c)
	items := make([]models.ScannedItem, 0, len(rec.Items))
	totalCO2 := 0.0
	for _, line := range rec.Items {
		item, err := engine.Insert(milestones.NewItem{
			QRCode:    req.QRCode,
			Name:      line.Name,
			Category:  emission.Food,
			Quantity:  line.Quantity,
			Price:     line.Total,
			StoreName: rec.StoreName,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		if item.CO2 != nil {
			totalCO2 += *item.CO2
		}
		items = append(items, item)
	}

	logger.Info("Receipt scanned", "receipt_url", req.QRCode, "items", len(items))

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"receipt":  rec,
		"items":    items,
		"totalCO2": totalCO2,
	})
}

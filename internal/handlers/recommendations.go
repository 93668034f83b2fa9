package handlers

import (
	"net/http"

	"ecobank/internal/recommend"

	"github.com/gin-gonic/gin"
)

func handleRecommendations(c *gin.Context) {
	c.JSON(http.StatusOK, recommend.For(engineFrom(c).Items()))
}

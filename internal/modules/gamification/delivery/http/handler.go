package handler

import (
	"net/http"

	gamDto "github.com/askup-dev/askup-backend/internal/modules/gamification/dto"
	gamification "github.com/askup-dev/askup-backend/internal/modules/gamification/service"
	"github.com/askup-dev/askup-backend/pkg/response"
	"github.com/askup-dev/askup-backend/pkg/validator"
	"github.com/gin-gonic/gin"
)

type GamificationHandler struct {
	service gamification.GamificationService
}

func NewGamificationHandler(service gamification.GamificationService) *GamificationHandler {
	return &GamificationHandler{service: service}
}

func (h *GamificationHandler) GetMyStats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	stats, err := h.service.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *GamificationHandler) GetMyPoints(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	ledger, err := h.service.EnsureLedger(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ledger)
}

func (h *GamificationHandler) GetLeaderboard(c *gin.Context) {
	var filter gamDto.LeaderboardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if filter.Limit == 0 {
		filter.Limit = 10
	}
	if filter.Category == "" {
		filter.Category = "total"
	}

	entries, err := h.service.GetLeaderboard(c.Request.Context(), filter.Limit, filter.Category)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/middleware"
	"github.com/noah-isme/pulse-api/internal/models"
	"github.com/noah-isme/pulse-api/pkg/response"
)

type leaderboardService interface {
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, bool, error)
	RankOf(ctx context.Context, participantCode string) (*dto.RankResponse, error)
}

// LeaderboardHandler serves rankings.
type LeaderboardHandler struct {
	service leaderboardService
}

// NewLeaderboardHandler constructs the handler.
func NewLeaderboardHandler(service leaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// Top godoc
// @Summary Leaderboard
// @Tags Leaderboard
// @Produce json
// @Param limit query int false "Entries to return (default 10, max 100)"
// @Success 200 {object} response.Envelope
// @Router /leaderboard [get]
func (h *LeaderboardHandler) Top(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	entries, cacheHit, err := h.service.Top(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMeta(c, "count", len(entries))
	meta := middleware.ExtractMeta(c)
	if _, ok := meta["processing_time_ms"]; !ok {
		meta["processing_time_ms"] = time.Since(start).Milliseconds()
	}
	response.JSON(c, http.StatusOK, entries, meta)
}

// Rank godoc
// @Summary Current participant rank
// @Tags Leaderboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /me/rank [get]
func (h *LeaderboardHandler) Rank(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	rank, err := h.service.RankOf(c.Request.Context(), claims.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rank)
}

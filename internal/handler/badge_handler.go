package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	"github.com/noah-isme/pulse-api/pkg/response"
)

type badgeProgressService interface {
	Progress(ctx context.Context, participantCode string) ([]dto.BadgeProgress, error)
}

// BadgeHandler serves the badge catalog and progress.
type BadgeHandler struct {
	catalog  func() []models.Badge
	progress badgeProgressService
}

// NewBadgeHandler constructs the handler.
func NewBadgeHandler(catalog func() []models.Badge, progress badgeProgressService) *BadgeHandler {
	return &BadgeHandler{catalog: catalog, progress: progress}
}

// Catalog godoc
// @Summary Badge catalog
// @Tags Badges
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /badges [get]
func (h *BadgeHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.catalog())
}

// Progress godoc
// @Summary Badge progress
// @Description Counters behind the countable badges of the current participant
// @Tags Badges
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/badges/progress [get]
func (h *BadgeHandler) Progress(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	progress, err := h.progress.Progress(c.Request.Context(), claims.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress)
}

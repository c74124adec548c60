package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
	"github.com/noah-isme/pulse-api/pkg/response"
)

type participantService interface {
	Register(ctx context.Context, req dto.RegisterParticipantRequest) (*models.Participant, error)
	Get(ctx context.Context, code string) (*models.Participant, error)
	History(ctx context.Context, code string, limit int) ([]models.PointsHistoryEntry, error)
}

type dashboardService interface {
	Participant(ctx context.Context, participantCode string) (*dto.Dashboard, error)
}

// ParticipantHandler serves registration and the authenticated participant's own resources.
type ParticipantHandler struct {
	participants participantService
	dashboard    dashboardService
}

// NewParticipantHandler constructs the handler.
func NewParticipantHandler(participants participantService, dashboard dashboardService) *ParticipantHandler {
	return &ParticipantHandler{participants: participants, dashboard: dashboard}
}

// Register godoc
// @Summary Register participant
// @Description Creates a participant and allocates an AF-NNNN code unless a free one is supplied
// @Tags Participants
// @Accept json
// @Produce json
// @Param payload body dto.RegisterParticipantRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /participants [post]
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req dto.RegisterParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	participant, err := h.participants.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, participant)
}

// Me godoc
// @Summary Current participant
// @Tags Participants
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *ParticipantHandler) Me(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	participant, err := h.participants.Get(c.Request.Context(), claims.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participant)
}

// History godoc
// @Summary Points history
// @Description Points awards of the current participant, newest first
// @Tags Participants
// @Produce json
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {object} response.Envelope
// @Router /me/points-history [get]
func (h *ParticipantHandler) History(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.participants.History(c.Request.Context(), claims.Code, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, map[string]interface{}{"count": len(entries)})
}

// Dashboard godoc
// @Summary Participant dashboard
// @Description Profile, rank and evaluation progress
// @Tags Participants
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me/dashboard [get]
func (h *ParticipantHandler) Dashboard(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	dashboard, err := h.dashboard.Participant(c.Request.Context(), claims.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard)
}

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pulse-api/internal/models"
	"github.com/noah-isme/pulse-api/pkg/response"
)

type programService interface {
	List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error)
	Main(ctx context.Context, day int) ([]models.Activity, error)
	Get(ctx context.Context, id string) (*models.Activity, error)
}

// ProgramHandler exposes the conference program.
type ProgramHandler struct {
	service programService
}

// NewProgramHandler constructs the handler.
func NewProgramHandler(service programService) *ProgramHandler {
	return &ProgramHandler{service: service}
}

// List godoc
// @Summary Conference program
// @Tags Program
// @Produce json
// @Param day query int false "Conference day (1-3)"
// @Param type query string false "Activity type (plenary, panel, workshop, break)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /program [get]
func (h *ProgramHandler) List(c *gin.Context) {
	day, err := queryInt(c, "day")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.ActivityFilter{Day: day, Type: models.ActivityType(strings.TrimSpace(c.Query("type")))}
	activities, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities, map[string]interface{}{"count": len(activities)})
}

// Main godoc
// @Summary Main program
// @Description Program without breaks
// @Tags Program
// @Produce json
// @Param day query int false "Conference day (1-3)"
// @Success 200 {object} response.Envelope
// @Router /program/main [get]
func (h *ProgramHandler) Main(c *gin.Context) {
	day, err := queryInt(c, "day")
	if err != nil {
		response.Error(c, err)
		return
	}
	activities, err := h.service.Main(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activities, map[string]interface{}{"count": len(activities)})
}

// Get godoc
// @Summary Activity detail
// @Tags Program
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /program/{id} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	activity, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity)
}

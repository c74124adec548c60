package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	"github.com/noah-isme/pulse-api/internal/service"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
	"github.com/noah-isme/pulse-api/pkg/jobs"
	"github.com/noah-isme/pulse-api/pkg/response"
)

type evaluationAdminService interface {
	Open(ctx context.Context, rawType string) (*models.EvaluationWindow, error)
	Close(ctx context.Context, rawType string) (*models.EvaluationWindow, error)
	Stats(ctx context.Context, rawType string) (*dto.EvaluationStats, error)
}

type activityCompleter interface {
	Complete(ctx context.Context, id string, actualEnd *time.Time) (*models.Activity, error)
}

type exportService interface {
	Leaderboard(ctx context.Context, rawFormat string) (*service.ExportFile, error)
	Evaluations(ctx context.Context, rawType, rawFormat string) (*service.ExportFile, error)
}

type badgeSweeper interface {
	Sweep(ctx context.Context) (*service.BadgeSweepResult, error)
	Stats() jobs.Stats
}

type metricsSnapshotter interface {
	Snapshot() models.SystemMetrics
}

// AdminHandlerParams groups the organizer-facing services.
type AdminHandlerParams struct {
	Evaluations evaluationAdminService
	Activities  activityCompleter
	Exports     exportService
	Sweeper     badgeSweeper
	Metrics     metricsSnapshotter
}

// AdminHandler serves organizer endpoints.
type AdminHandler struct {
	evaluations evaluationAdminService
	activities  activityCompleter
	exports     exportService
	sweeper     badgeSweeper
	metrics     metricsSnapshotter
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{
		evaluations: params.Evaluations,
		activities:  params.Activities,
		exports:     params.Exports,
		sweeper:     params.Sweeper,
		metrics:     params.Metrics,
	}
}

// OpenEvaluation godoc
// @Summary Open evaluation window
// @Tags Admin
// @Produce json
// @Param type path string true "Evaluation type (day1, day2, final)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/evaluations/{type}/open [post]
func (h *AdminHandler) OpenEvaluation(c *gin.Context) {
	window, err := h.evaluations.Open(c.Request.Context(), c.Param("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, window)
}

// CloseEvaluation godoc
// @Summary Close evaluation window
// @Tags Admin
// @Produce json
// @Param type path string true "Evaluation type (day1, day2, final)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/evaluations/{type}/close [post]
func (h *AdminHandler) CloseEvaluation(c *gin.Context) {
	window, err := h.evaluations.Close(c.Request.Context(), c.Param("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, window)
}

// EvaluationStats godoc
// @Summary Evaluation responses
// @Tags Admin
// @Produce json
// @Param type path string true "Evaluation type (day1, day2, final)"
// @Success 200 {object} response.Envelope
// @Router /admin/evaluations/{type}/stats [get]
func (h *AdminHandler) EvaluationStats(c *gin.Context) {
	stats, err := h.evaluations.Stats(c.Request.Context(), c.Param("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// CompleteActivity godoc
// @Summary Mark activity completed
// @Description Records the actual end time used for the early-bird window; defaults to now
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Activity ID"
// @Param payload body dto.CompleteActivityRequest false "Actual end"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/activities/{id}/complete [post]
func (h *AdminHandler) CompleteActivity(c *gin.Context) {
	var req dto.CompleteActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid completion payload"))
		return
	}
	activity, err := h.activities.Complete(c.Request.Context(), c.Param("id"), req.ActualEnd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity)
}

// ExportLeaderboard godoc
// @Summary Export leaderboard
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /admin/exports/leaderboard [get]
func (h *AdminHandler) ExportLeaderboard(c *gin.Context) {
	file, err := h.exports.Leaderboard(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}

// ExportEvaluations godoc
// @Summary Export evaluation responses
// @Tags Admin
// @Produce text/csv
// @Produce application/pdf
// @Param type path string true "Evaluation type (day1, day2, final)"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /admin/exports/evaluations/{type} [get]
func (h *AdminHandler) ExportEvaluations(c *gin.Context) {
	file, err := h.exports.Evaluations(c.Request.Context(), c.Param("type"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}

// SweepBadges godoc
// @Summary Re-check badges for every participant
// @Description Enqueues a background badge check per participant
// @Tags Admin
// @Produce json
// @Success 202 {object} response.Envelope
// @Router /admin/badges/sweep [post]
func (h *AdminHandler) SweepBadges(c *gin.Context) {
	result, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, result)
}

// SweepStatus godoc
// @Summary Badge sweep queue counters
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/badges/sweep [get]
func (h *AdminHandler) SweepStatus(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.sweeper.Stats())
}

// SystemMetrics godoc
// @Summary System metrics snapshot
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/metrics [get]
func (h *AdminHandler) SystemMetrics(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot())
}

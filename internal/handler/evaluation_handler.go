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

type evaluationStatusService interface {
	Status(ctx context.Context) (models.EvaluationStatus, error)
}

type eligibilityService interface {
	CanSubmit(ctx context.Context, participantCode string, evalType models.EvaluationType) (dto.Eligibility, error)
}

type scoringService interface {
	MicroStatus(ctx context.Context, participantCode, activityID string) (*dto.MicroEvaluationCheck, error)
	SubmitMicroEvaluation(ctx context.Context, participantCode, participantID, activityID string, responses models.Responses) (*dto.MicroEvaluationResult, error)
	SubmitEvaluation(ctx context.Context, participantCode, participantID string, evalType models.EvaluationType, responses models.Responses) (*dto.EvaluationResult, error)
}

// EvaluationHandler serves gated evaluations and per-activity micro-evaluations.
type EvaluationHandler struct {
	windows     evaluationStatusService
	eligibility eligibilityService
	scoring     scoringService
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(windows evaluationStatusService, eligibility eligibilityService, scoring scoringService) *EvaluationHandler {
	return &EvaluationHandler{windows: windows, eligibility: eligibility, scoring: scoring}
}

// Status godoc
// @Summary Evaluation windows
// @Description Open/closed state of the day1, day2 and final evaluations
// @Tags Evaluations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /evaluations/status [get]
func (h *EvaluationHandler) Status(c *gin.Context) {
	status, err := h.windows.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// Eligibility godoc
// @Summary Evaluation eligibility
// @Description Whether the current participant may submit the evaluation and why not
// @Tags Evaluations
// @Produce json
// @Param type path string true "Evaluation type (day1, day2, final)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /evaluations/{type}/eligibility [get]
func (h *EvaluationHandler) Eligibility(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	result, err := h.eligibility.CanSubmit(c.Request.Context(), claims.Code, models.EvaluationType(c.Param("type")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Submit godoc
// @Summary Submit evaluation
// @Description Stores a gated evaluation; rejections carry the reason as error code
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param type path string true "Evaluation type (day1, day2, final)"
// @Param payload body dto.SubmitResponsesRequest true "Answers"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /evaluations/{type} [post]
func (h *EvaluationHandler) Submit(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.SubmitResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid evaluation payload"))
		return
	}
	result, err := h.scoring.SubmitEvaluation(c.Request.Context(), claims.Code, claims.ParticipantID, models.EvaluationType(c.Param("type")), req.Responses)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// MicroStatus godoc
// @Summary Micro-evaluation status
// @Description Whether the current participant already rated the activity and which questions are required
// @Tags Evaluations
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /activities/{id}/micro-evaluation [get]
func (h *EvaluationHandler) MicroStatus(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	status, err := h.scoring.MicroStatus(c.Request.Context(), claims.Code, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// SubmitMicro godoc
// @Summary Rate an activity
// @Description Scores a micro-evaluation with comment and early-bird bonuses
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param id path string true "Activity ID"
// @Param payload body dto.SubmitResponsesRequest true "Answers"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /activities/{id}/micro-evaluation [post]
func (h *EvaluationHandler) SubmitMicro(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.SubmitResponsesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid micro evaluation payload"))
		return
	}
	result, err := h.scoring.SubmitMicroEvaluation(c.Request.Context(), claims.Code, claims.ParticipantID, c.Param("id"), req.Responses)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

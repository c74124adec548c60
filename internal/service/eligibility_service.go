package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
)

// Eligibility reasons that are not rejection codes.
const (
	ReasonOK    = "ok"
	ReasonError = "error"
)

type evaluationWindowReader interface {
	Status(ctx context.Context) (models.EvaluationStatus, error)
}

type completedEvaluationReader interface {
	CompletedTypes(ctx context.Context, participantCode string) ([]models.EvaluationType, error)
}

// EligibilityService decides whether a participant may submit a gated evaluation.
type EligibilityService struct {
	windows     evaluationWindowReader
	evaluations completedEvaluationReader
	logger      *zap.Logger
}

// NewEligibilityService constructs an EligibilityService.
func NewEligibilityService(windows evaluationWindowReader, evaluations completedEvaluationReader, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{windows: windows, evaluations: evaluations, logger: logger}
}

// CanSubmit reports eligibility for display. Storage failures are logged and reported with reason "error".
func (s *EligibilityService) CanSubmit(ctx context.Context, participantCode string, evalType models.EvaluationType) (dto.Eligibility, error) {
	if _, err := models.ParseEvaluationType(string(evalType)); err != nil {
		return dto.Eligibility{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation type")
	}
	result, err := s.Check(ctx, participantCode, evalType)
	if err != nil {
		s.logger.Error("eligibility check failed",
			zap.String("participant_code", participantCode),
			zap.String("evaluation_type", string(evalType)),
			zap.Error(err))
		return dto.Eligibility{CanSubmit: false, Reason: ReasonError}, nil
	}
	return result, nil
}

// Check evaluates eligibility and returns storage failures to the caller.
func (s *EligibilityService) Check(ctx context.Context, participantCode string, evalType models.EvaluationType) (dto.Eligibility, error) {
	status, err := s.windows.Status(ctx)
	if err != nil {
		return dto.Eligibility{}, err
	}
	completedTypes, err := s.evaluations.CompletedTypes(ctx, participantCode)
	if err != nil {
		return dto.Eligibility{}, err
	}
	return DecideEligibility(status.Window(evalType), completedSet(completedTypes), evalType), nil
}

// DecideEligibility applies the gating rules in priority order: closed window, already completed, prerequisites.
func DecideEligibility(window models.EvaluationWindow, completed map[models.EvaluationType]bool, evalType models.EvaluationType) dto.Eligibility {
	if !window.IsOpen {
		return rejected(appErrors.ErrEvaluationClosed)
	}
	if completed[evalType] {
		return rejected(appErrors.ErrAlreadyCompleted)
	}
	switch evalType {
	case models.EvaluationDay2:
		if !completed[models.EvaluationDay1] {
			return rejected(appErrors.ErrRequiresDay1)
		}
	case models.EvaluationFinal:
		if !completed[models.EvaluationDay1] || !completed[models.EvaluationDay2] {
			return rejected(appErrors.ErrRequiresDay1AndDay2)
		}
	}
	return dto.Eligibility{CanSubmit: true, Reason: ReasonOK}
}

func rejected(reason *appErrors.Error) dto.Eligibility {
	return dto.Eligibility{CanSubmit: false, Reason: reason.Code}
}

func completedSet(types []models.EvaluationType) map[models.EvaluationType]bool {
	set := make(map[models.EvaluationType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
)

// Dashboard icons for evaluation entries.
const (
	IconCompleted = "✅"
	IconAvailable = "🔴"
	IconLocked    = "🔒"
)

// BuildEvaluationSummary derives the dashboard state of the three gated evaluations.
func BuildEvaluationSummary(status models.EvaluationStatus, completedTypes []models.EvaluationType) dto.EvaluationSummary {
	completed := completedSet(completedTypes)
	entry := func(t models.EvaluationType, canStart bool) dto.EvaluationSummaryEntry {
		e := dto.EvaluationSummaryEntry{
			IsCompleted: completed[t],
			IsOpen:      status.Window(t).IsOpen,
			CanStart:    canStart,
		}
		switch {
		case e.IsCompleted:
			e.Icon = IconCompleted
		case e.IsOpen && e.CanStart:
			e.Icon = IconAvailable
		default:
			e.Icon = IconLocked
		}
		return e
	}

	total := 0
	for _, t := range models.EvaluationTypes {
		if completed[t] {
			total++
		}
	}
	required := len(models.EvaluationTypes)

	return dto.EvaluationSummary{
		Day1:           entry(models.EvaluationDay1, true),
		Day2:           entry(models.EvaluationDay2, completed[models.EvaluationDay1]),
		Final:          entry(models.EvaluationFinal, completed[models.EvaluationDay1] && completed[models.EvaluationDay2]),
		TotalCompleted: total,
		TotalRequired:  required,
		Progress:       int(math.Round(float64(total) * 100 / float64(required))),
	}
}

type evaluationWindowStore interface {
	Status(ctx context.Context) (models.EvaluationStatus, error)
	Open(ctx context.Context, evalType models.EvaluationType, at time.Time) (*models.EvaluationWindow, error)
	Close(ctx context.Context, evalType models.EvaluationType, at time.Time) (*models.EvaluationWindow, error)
}

type evaluationReader interface {
	CompletedTypes(ctx context.Context, participantCode string) ([]models.EvaluationType, error)
	ListByType(ctx context.Context, evalType models.EvaluationType) ([]models.Evaluation, error)
}

// EvaluationService manages evaluation windows and reports evaluation progress.
type EvaluationService struct {
	windows     evaluationWindowStore
	evaluations evaluationReader
	logger      *zap.Logger
	now         func() time.Time
}

// NewEvaluationService constructs an EvaluationService.
func NewEvaluationService(windows evaluationWindowStore, evaluations evaluationReader, logger *zap.Logger) *EvaluationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{windows: windows, evaluations: evaluations, logger: logger, now: time.Now}
}

// Status returns every evaluation window, closed for types never configured.
func (s *EvaluationService) Status(ctx context.Context) (models.EvaluationStatus, error) {
	stored, err := s.windows.Status(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation windows")
	}
	status := make(models.EvaluationStatus, len(models.EvaluationTypes))
	for _, t := range models.EvaluationTypes {
		status[t] = stored.Window(t)
	}
	return status, nil
}

// Open opens the window for an evaluation type.
func (s *EvaluationService) Open(ctx context.Context, rawType string) (*models.EvaluationWindow, error) {
	return s.setWindow(ctx, rawType, true)
}

// Close closes the window for an evaluation type.
func (s *EvaluationService) Close(ctx context.Context, rawType string) (*models.EvaluationWindow, error) {
	return s.setWindow(ctx, rawType, false)
}

func (s *EvaluationService) setWindow(ctx context.Context, rawType string, open bool) (*models.EvaluationWindow, error) {
	evalType, err := parseEvaluationType(rawType)
	if err != nil {
		return nil, err
	}
	at := s.now().UTC()
	var window *models.EvaluationWindow
	if open {
		window, err = s.windows.Open(ctx, evalType, at)
	} else {
		window, err = s.windows.Close(ctx, evalType, at)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update evaluation window")
	}
	s.logger.Info("evaluation window updated", zap.String("evaluation_type", string(evalType)), zap.Bool("open", open))
	return window, nil
}

// Summary builds the dashboard evaluation summary for a participant.
func (s *EvaluationService) Summary(ctx context.Context, participantCode string) (dto.EvaluationSummary, error) {
	status, err := s.windows.Status(ctx)
	if err != nil {
		return dto.EvaluationSummary{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluation windows")
	}
	completed, err := s.evaluations.CompletedTypes(ctx, participantCode)
	if err != nil {
		return dto.EvaluationSummary{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load completed evaluations")
	}
	return BuildEvaluationSummary(status, completed), nil
}

// Stats returns every response collected for an evaluation type.
func (s *EvaluationService) Stats(ctx context.Context, rawType string) (*dto.EvaluationStats, error) {
	evalType, err := parseEvaluationType(rawType)
	if err != nil {
		return nil, err
	}
	evaluations, err := s.evaluations.ListByType(ctx, evalType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load evaluations")
	}
	if evaluations == nil {
		evaluations = []models.Evaluation{}
	}
	return &dto.EvaluationStats{EvaluationType: evalType, TotalResponses: len(evaluations), Responses: evaluations}, nil
}

func parseEvaluationType(raw string) (models.EvaluationType, error) {
	evalType, err := models.ParseEvaluationType(raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation type")
	}
	return evalType, nil
}

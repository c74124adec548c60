package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/models"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
)

const maxConferenceDay = 3

type activityStore interface {
	FindByID(ctx context.Context, id string) (*models.Activity, error)
	List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error)
	MarkCompleted(ctx context.Context, id string, actualEnd time.Time) (*models.Activity, error)
}

// ProgramService serves the conference program.
type ProgramService struct {
	repo   activityStore
	logger *zap.Logger
	now    func() time.Time
}

// NewProgramService constructs a ProgramService.
func NewProgramService(repo activityStore, logger *zap.Logger) *ProgramService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, logger: logger, now: time.Now}
}

// List returns activities ordered by day and start time.
func (s *ProgramService) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	if filter.Day < 0 || filter.Day > maxConferenceDay {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day must be between 1 and 3")
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown activity type")
	}
	activities, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

// Main returns the program without breaks.
func (s *ProgramService) Main(ctx context.Context, day int) ([]models.Activity, error) {
	return s.List(ctx, models.ActivityFilter{Day: day, ExcludeType: models.ActivityBreak})
}

// Get returns a single activity.
func (s *ProgramService) Get(ctx context.Context, id string) (*models.Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrActivityNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	return activity, nil
}

// Complete marks an activity finished. Without an explicit end the current time is recorded.
func (s *ProgramService) Complete(ctx context.Context, id string, actualEnd *time.Time) (*models.Activity, error) {
	end := s.now().UTC()
	if actualEnd != nil && !actualEnd.IsZero() {
		end = actualEnd.UTC()
	}
	activity, err := s.repo.MarkCompleted(ctx, id, end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrActivityNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete activity")
	}
	s.logger.Info("activity completed", zap.String("activity_id", id), zap.Time("actual_end", end))
	return activity, nil
}

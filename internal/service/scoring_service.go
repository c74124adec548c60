package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	"github.com/noah-isme/pulse-api/internal/repository"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
)

// Bonus descriptor types attached to micro-evaluation results.
const (
	BonusComment   = "comment"
	BonusEarlyBird = "early_bird"
)

// ScoringRules is the points table applied by the scoring engine.
type ScoringRules struct {
	MicroEval       int
	OptionalComment int
	EarlyBird       int
	EarlyBirdWindow time.Duration
	DayEval         int
	FinalEval       int
}

// DefaultScoringRules returns the standard conference points table.
func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		MicroEval:       10,
		OptionalComment: 5,
		EarlyBird:       15,
		EarlyBirdWindow: 10 * time.Minute,
		DayEval:         0,
		FinalEval:       50,
	}
}

type microEvaluationStore interface {
	MicroExists(ctx context.Context, participantCode, activityID string) (bool, error)
	RecordMicroEvaluation(ctx context.Context, eval *models.MicroEvaluation) error
}

type gatedEvaluationStore interface {
	RecordEvaluation(ctx context.Context, eval *models.Evaluation) error
}

type activityFinder interface {
	FindByID(ctx context.Context, id string) (*models.Activity, error)
}

type eligibilityChecker interface {
	Check(ctx context.Context, participantCode string, evalType models.EvaluationType) (dto.Eligibility, error)
}

type badgeUnlocker interface {
	CheckAndUnlock(ctx context.Context, participantCode string) ([]models.Badge, error)
}

type leaderboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// ScoringParams groups the collaborators of the scoring engine.
type ScoringParams struct {
	Micro       microEvaluationStore
	Evaluations gatedEvaluationStore
	Activities  activityFinder
	Eligibility eligibilityChecker
	Badges      badgeUnlocker
	Leaderboard leaderboardInvalidator
	Metrics     *MetricsService
	Rules       ScoringRules
	Logger      *zap.Logger
}

// ScoringService awards points for micro-evaluations and gated evaluations.
type ScoringService struct {
	micro       microEvaluationStore
	evaluations gatedEvaluationStore
	activities  activityFinder
	eligibility eligibilityChecker
	badges      badgeUnlocker
	leaderboard leaderboardInvalidator
	metrics     *MetricsService
	rules       ScoringRules
	logger      *zap.Logger
	now         func() time.Time
}

// NewScoringService constructs the scoring engine.
func NewScoringService(params ScoringParams) *ScoringService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringService{
		micro:       params.Micro,
		evaluations: params.Evaluations,
		activities:  params.Activities,
		eligibility: params.Eligibility,
		badges:      params.Badges,
		leaderboard: params.Leaderboard,
		metrics:     params.Metrics,
		rules:       params.Rules,
		logger:      logger,
		now:         time.Now,
	}
}

// MicroStatus reports whether the participant already rated an activity and which answers it requires.
func (s *ScoringService) MicroStatus(ctx context.Context, participantCode, activityID string) (*dto.MicroEvaluationCheck, error) {
	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrActivityNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}
	answered, err := s.micro.MicroExists(ctx, participantCode, activityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check micro evaluation")
	}
	return &dto.MicroEvaluationCheck{
		ActivityID: activity.ID,
		Answered:   answered,
		Required:   RequiredMicroQuestions(activity.Type),
	}, nil
}

// SubmitMicroEvaluation scores and stores a participant's rating of one activity.
func (s *ScoringService) SubmitMicroEvaluation(ctx context.Context, participantCode, participantID, activityID string, responses models.Responses) (*dto.MicroEvaluationResult, error) {
	answered, err := s.micro.MicroExists(ctx, participantCode, activityID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check micro evaluation")
	}
	if answered {
		s.metrics.RecordSubmission("micro", appErrors.ErrAlreadyAnswered.Code)
		return nil, appErrors.Clone(appErrors.ErrAlreadyAnswered, "")
	}

	activity, err := s.activities.FindByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordSubmission("micro", appErrors.ErrActivityNotFound.Code)
			return nil, appErrors.Clone(appErrors.ErrActivityNotFound, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load activity")
	}

	if field, missing := firstMissing(responses, RequiredMicroQuestions(activity.Type)); missing {
		s.metrics.RecordSubmission("micro", "missing_required_field")
		return nil, appErrors.MissingRequiredField(field)
	}

	now := s.now().UTC()
	points, bonuses, commented, earlyBird := s.scoreMicro(activity, responses, now)

	eval := &models.MicroEvaluation{
		ParticipantID:   participantID,
		ParticipantCode: participantCode,
		ActivityID:      activity.ID,
		Responses:       responses,
		HasComment:      commented,
		PointsEarned:    points,
		IsEarlyBird:     earlyBird,
		CreatedAt:       now,
	}
	if err := s.micro.RecordMicroEvaluation(ctx, eval); err != nil {
		if errors.Is(err, repository.ErrAlreadyRecorded) {
			s.metrics.RecordSubmission("micro", appErrors.ErrAlreadyAnswered.Code)
			return nil, appErrors.Clone(appErrors.ErrAlreadyAnswered, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record micro evaluation")
	}

	s.metrics.RecordSubmission("micro", ReasonOK)
	s.metrics.RecordPoints(models.PointsReasonMicroEval, points)
	s.logger.Info("micro evaluation recorded",
		zap.String("participant_code", participantCode),
		zap.String("activity_id", activity.ID),
		zap.Int("points", points),
		zap.Bool("early_bird", earlyBird))

	s.invalidateLeaderboard(ctx)
	return &dto.MicroEvaluationResult{
		MicroEvaluationID: eval.ID,
		PointsEarned:      points,
		IsEarlyBird:       earlyBird,
		BonusDetails:      bonuses,
		UnlockedBadges:    s.unlockBadges(ctx, participantCode),
	}, nil
}

func (s *ScoringService) scoreMicro(activity *models.Activity, responses models.Responses, now time.Time) (int, []dto.BonusDetail, bool, bool) {
	points := s.rules.MicroEval
	bonuses := []dto.BonusDetail{}

	commented := hasComment(responses)
	if commented {
		points += s.rules.OptionalComment
		bonuses = append(bonuses, dto.BonusDetail{Type: BonusComment, Points: s.rules.OptionalComment})
	}

	earlyBird := now.Sub(activity.EndTime()) <= s.rules.EarlyBirdWindow
	if earlyBird {
		points += s.rules.EarlyBird
		bonuses = append(bonuses, dto.BonusDetail{Type: BonusEarlyBird, Points: s.rules.EarlyBird})
	}
	return points, bonuses, commented, earlyBird
}

// SubmitEvaluation stores a gated day or final evaluation after re-checking eligibility.
func (s *ScoringService) SubmitEvaluation(ctx context.Context, participantCode, participantID string, evalType models.EvaluationType, responses models.Responses) (*dto.EvaluationResult, error) {
	if _, err := models.ParseEvaluationType(string(evalType)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid evaluation type")
	}

	eligibility, err := s.eligibility.Check(ctx, participantCode, evalType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check eligibility")
	}
	if !eligibility.CanSubmit {
		s.metrics.RecordSubmission(string(evalType), eligibility.Reason)
		if rejection, ok := appErrors.Rejection(eligibility.Reason); ok {
			return nil, rejection
		}
		return nil, appErrors.Clone(appErrors.ErrConflict, eligibility.Reason)
	}

	if field, missing := firstMissing(responses, RequiredEvaluationFields(evalType)); missing {
		s.metrics.RecordSubmission(string(evalType), "missing_required_field")
		return nil, appErrors.MissingRequiredField(field)
	}

	points := s.rules.DayEval
	reason := models.PointsReasonDayEval
	if evalType == models.EvaluationFinal {
		points = s.rules.FinalEval
		reason = models.PointsReasonFinalEval
	}

	now := s.now().UTC()
	eval := &models.Evaluation{
		ParticipantID:   participantID,
		ParticipantCode: participantCode,
		EvaluationType:  evalType,
		Responses:       responses,
		PointsEarned:    points,
		CompletedAt:     now,
		CreatedAt:       now,
	}
	if err := s.evaluations.RecordEvaluation(ctx, eval); err != nil {
		if errors.Is(err, repository.ErrAlreadyRecorded) {
			s.metrics.RecordSubmission(string(evalType), appErrors.ErrAlreadyCompleted.Code)
			return nil, appErrors.Clone(appErrors.ErrAlreadyCompleted, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record evaluation")
	}

	s.metrics.RecordSubmission(string(evalType), ReasonOK)
	s.logger.Info("evaluation recorded",
		zap.String("participant_code", participantCode),
		zap.String("evaluation_type", string(evalType)),
		zap.Int("points", points))

	if points > 0 {
		s.metrics.RecordPoints(reason, points)
		s.invalidateLeaderboard(ctx)
	}
	return &dto.EvaluationResult{
		EvaluationID:   eval.ID,
		PointsEarned:   points,
		UnlockedBadges: s.unlockBadges(ctx, participantCode),
	}, nil
}

// unlockBadges runs the badge engine after a committed submission. Failures are logged because the submission stands.
func (s *ScoringService) unlockBadges(ctx context.Context, participantCode string) []models.Badge {
	if s.badges == nil {
		return []models.Badge{}
	}
	unlocked, err := s.badges.CheckAndUnlock(ctx, participantCode)
	if err != nil {
		s.logger.Warn("badge check after submission failed", zap.String("participant_code", participantCode), zap.Error(err))
		return []models.Badge{}
	}
	return unlocked
}

func (s *ScoringService) invalidateLeaderboard(ctx context.Context) {
	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx)
	}
}

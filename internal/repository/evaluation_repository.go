package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pulse-api/internal/models"
)

// ErrAlreadyRecorded is returned when the uniqueness constraint of an evaluation rejects the insert.
var ErrAlreadyRecorded = errors.New("evaluation already recorded")

// EvaluationRepository persists micro-evaluations and gated day/final evaluations.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs the repository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// MicroExists reports whether the participant already rated the activity.
func (r *EvaluationRepository) MicroExists(ctx context.Context, participantCode, activityID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM micro_evaluations WHERE participant_code = $1 AND activity_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, participantCode, activityID); err != nil {
		return false, fmt.Errorf("check micro evaluation: %w", err)
	}
	return exists, nil
}

// MicroStats aggregates the counters read by badge predicates.
func (r *EvaluationRepository) MicroStats(ctx context.Context, participantCode string) (models.MicroEvaluationStats, error) {
	const query = `SELECT
	COUNT(*) AS total,
	COUNT(*) FILTER (WHERE is_early_bird) AS early_bird,
	COUNT(*) FILTER (WHERE has_comment) AS with_comment
FROM micro_evaluations WHERE participant_code = $1`
	var stats models.MicroEvaluationStats
	if err := r.db.GetContext(ctx, &stats, query, participantCode); err != nil {
		return models.MicroEvaluationStats{}, fmt.Errorf("micro evaluation stats: %w", err)
	}
	return stats, nil
}

// RecordMicroEvaluation stores the evaluation, credits its points and appends the ledger in one transaction.
// The insert runs first so nothing is written when the participant already rated the activity.
func (r *EvaluationRepository) RecordMicroEvaluation(ctx context.Context, eval *models.MicroEvaluation) (err error) {
	if eval.ID == "" {
		eval.ID = uuid.NewString()
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin micro evaluation transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertQuery = `INSERT INTO micro_evaluations (id, participant_id, participant_code, activity_id, responses, has_comment, points_earned, is_early_bird, created_at)
VALUES (:id, :participant_id, :participant_code, :activity_id, :responses, :has_comment, :points_earned, :is_early_bird, :created_at)
ON CONFLICT (participant_code, activity_id) DO NOTHING`
	if err = namedInsertOnce(ctx, tx, insertQuery, eval, "insert micro evaluation"); err != nil {
		return err
	}

	if err = addPoints(ctx, tx, eval.ParticipantID, eval.PointsEarned, eval.CreatedAt); err != nil {
		return err
	}

	activityID := eval.ActivityID
	if err = insertPointsHistory(ctx, tx, &models.PointsHistoryEntry{
		ParticipantID:   eval.ParticipantID,
		ParticipantCode: eval.ParticipantCode,
		Amount:          eval.PointsEarned,
		Reason:          models.PointsReasonMicroEval,
		ActivityID:      &activityID,
		CreatedAt:       eval.CreatedAt,
	}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit micro evaluation: %w", err)
	}
	return nil
}

// CompletedTypes lists the gated evaluations a participant has submitted.
func (r *EvaluationRepository) CompletedTypes(ctx context.Context, participantCode string) ([]models.EvaluationType, error) {
	const query = `SELECT evaluation_type FROM evaluations WHERE participant_code = $1`
	var types []models.EvaluationType
	if err := r.db.SelectContext(ctx, &types, query, participantCode); err != nil {
		return nil, fmt.Errorf("list completed evaluations: %w", err)
	}
	return types, nil
}

// HasEvaluation reports whether the participant submitted the given evaluation.
func (r *EvaluationRepository) HasEvaluation(ctx context.Context, participantCode string, evalType models.EvaluationType) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM evaluations WHERE participant_code = $1 AND evaluation_type = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, participantCode, string(evalType)); err != nil {
		return false, fmt.Errorf("check evaluation: %w", err)
	}
	return exists, nil
}

// RecordEvaluation stores a gated evaluation and, when it carries points, credits them in the same transaction.
func (r *EvaluationRepository) RecordEvaluation(ctx context.Context, eval *models.Evaluation) (err error) {
	if eval.ID == "" {
		eval.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if eval.CompletedAt.IsZero() {
		eval.CompletedAt = now
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = eval.CompletedAt
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin evaluation transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertQuery = `INSERT INTO evaluations (id, participant_id, participant_code, evaluation_type, responses, points_earned, completed_at, created_at)
VALUES (:id, :participant_id, :participant_code, :evaluation_type, :responses, :points_earned, :completed_at, :created_at)
ON CONFLICT (participant_code, evaluation_type) DO NOTHING`
	if err = namedInsertOnce(ctx, tx, insertQuery, eval, "insert evaluation"); err != nil {
		return err
	}

	if eval.PointsEarned > 0 {
		if err = addPoints(ctx, tx, eval.ParticipantID, eval.PointsEarned, eval.CompletedAt); err != nil {
			return err
		}
		reason := models.PointsReasonDayEval
		if eval.EvaluationType == models.EvaluationFinal {
			reason = models.PointsReasonFinalEval
		}
		evalType := string(eval.EvaluationType)
		if err = insertPointsHistory(ctx, tx, &models.PointsHistoryEntry{
			ParticipantID:   eval.ParticipantID,
			ParticipantCode: eval.ParticipantCode,
			Amount:          eval.PointsEarned,
			Reason:          reason,
			EvaluationType:  &evalType,
			CreatedAt:       eval.CompletedAt,
		}); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit evaluation: %w", err)
	}
	return nil
}

// ListByType returns every submitted evaluation of a type, oldest first.
func (r *EvaluationRepository) ListByType(ctx context.Context, evalType models.EvaluationType) ([]models.Evaluation, error) {
	const query = `SELECT id, participant_id, participant_code, evaluation_type, responses, points_earned, completed_at, created_at
FROM evaluations WHERE evaluation_type = $1 ORDER BY completed_at ASC`
	var evaluations []models.Evaluation
	if err := r.db.SelectContext(ctx, &evaluations, query, string(evalType)); err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return evaluations, nil
}

func namedInsertOnce(ctx context.Context, tx *sqlx.Tx, query string, arg interface{}, op string) error {
	res, err := tx.NamedExecContext(ctx, query, arg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return ErrAlreadyRecorded
	}
	return nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pulse-api/internal/models"
)

// PointsRepository owns the points ledger and badge unlocks.
type PointsRepository struct {
	db *sqlx.DB
}

// NewPointsRepository constructs the repository.
func NewPointsRepository(db *sqlx.DB) *PointsRepository {
	return &PointsRepository{db: db}
}

// ListHistory returns the newest points awards for a participant first.
func (r *PointsRepository) ListHistory(ctx context.Context, participantCode string, limit int) ([]models.PointsHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `SELECT id, participant_id, participant_code, amount, reason, activity_id, badge_id, evaluation_type, created_at
FROM points_history WHERE participant_code = $1 ORDER BY created_at DESC, id DESC LIMIT $2`
	var entries []models.PointsHistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, participantCode, limit); err != nil {
		return nil, fmt.Errorf("list points history: %w", err)
	}
	return entries, nil
}

// UnlockBadge grants a badge and its bonus at most once. It returns false when the badge was already held.
func (r *PointsRepository) UnlockBadge(ctx context.Context, participant *models.Participant, badgeID string, bonus int) (unlocked bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin badge transaction: %w", err)
	}
	defer func() {
		if err != nil || !unlocked {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const grantQuery = `UPDATE participants SET badges = array_append(badges, $1), total_points = total_points + $2, updated_at = $3
WHERE id = $4 AND NOT ($1 = ANY(badges))`
	res, err := tx.ExecContext(ctx, grantQuery, badgeID, bonus, now, participant.ID)
	if err != nil {
		return false, fmt.Errorf("grant badge: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("grant badge rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	const unlockQuery = `INSERT INTO participant_badges (id, participant_code, badge_id, unlocked_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (participant_code, badge_id) DO NOTHING`
	if _, err = tx.ExecContext(ctx, unlockQuery, uuid.NewString(), participant.Code, badgeID, now); err != nil {
		return false, fmt.Errorf("record badge unlock: %w", err)
	}

	badge := badgeID
	if err = insertPointsHistory(ctx, tx, &models.PointsHistoryEntry{
		ParticipantID:   participant.ID,
		ParticipantCode: participant.Code,
		Amount:          bonus,
		Reason:          models.PointsReasonBadgeUnlock,
		BadgeID:         &badge,
		CreatedAt:       now,
	}); err != nil {
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit badge unlock: %w", err)
	}
	return true, nil
}

func addPoints(ctx context.Context, tx *sqlx.Tx, participantID string, amount int, at time.Time) error {
	const query = `UPDATE participants SET total_points = total_points + $1, updated_at = $2 WHERE id = $3`
	res, err := tx.ExecContext(ctx, query, amount, at, participantID)
	if err != nil {
		return fmt.Errorf("increment participant points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment participant points rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("increment participant points: participant %s not found", participantID)
	}
	return nil
}

func insertPointsHistory(ctx context.Context, tx *sqlx.Tx, entry *models.PointsHistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO points_history (id, participant_id, participant_code, amount, reason, activity_id, badge_id, evaluation_type, created_at)
VALUES (:id, :participant_id, :participant_code, :amount, :reason, :activity_id, :badge_id, :evaluation_type, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("append points history: %w", err)
	}
	return nil
}

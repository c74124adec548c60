package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pulse-api/internal/models"
)

// EvaluationWindowRepository stores the admin controlled open/closed state of gated evaluations.
type EvaluationWindowRepository struct {
	db *sqlx.DB
}

// NewEvaluationWindowRepository constructs the repository.
func NewEvaluationWindowRepository(db *sqlx.DB) *EvaluationWindowRepository {
	return &EvaluationWindowRepository{db: db}
}

// Status returns the configured windows. Types without a row are absent and read as closed.
func (r *EvaluationWindowRepository) Status(ctx context.Context) (models.EvaluationStatus, error) {
	const query = `SELECT evaluation_type, is_open, opened_at, closed_at FROM evaluation_windows`
	var windows []models.EvaluationWindow
	if err := r.db.SelectContext(ctx, &windows, query); err != nil {
		return nil, fmt.Errorf("list evaluation windows: %w", err)
	}
	status := make(models.EvaluationStatus, len(windows))
	for _, w := range windows {
		status[w.EvaluationType] = w
	}
	return status, nil
}

// Open marks the evaluation as open from the given instant.
func (r *EvaluationWindowRepository) Open(ctx context.Context, evalType models.EvaluationType, at time.Time) (*models.EvaluationWindow, error) {
	const query = `INSERT INTO evaluation_windows (evaluation_type, is_open, opened_at) VALUES ($1, TRUE, $2)
ON CONFLICT (evaluation_type) DO UPDATE SET is_open = TRUE, opened_at = EXCLUDED.opened_at
RETURNING evaluation_type, is_open, opened_at, closed_at`
	var window models.EvaluationWindow
	if err := r.db.GetContext(ctx, &window, query, string(evalType), at); err != nil {
		return nil, fmt.Errorf("open evaluation window: %w", err)
	}
	return &window, nil
}

// Close marks the evaluation as closed from the given instant.
func (r *EvaluationWindowRepository) Close(ctx context.Context, evalType models.EvaluationType, at time.Time) (*models.EvaluationWindow, error) {
	const query = `INSERT INTO evaluation_windows (evaluation_type, is_open, closed_at) VALUES ($1, FALSE, $2)
ON CONFLICT (evaluation_type) DO UPDATE SET is_open = FALSE, closed_at = EXCLUDED.closed_at
RETURNING evaluation_type, is_open, opened_at, closed_at`
	var window models.EvaluationWindow
	if err := r.db.GetContext(ctx, &window, query, string(evalType), at); err != nil {
		return nil, fmt.Errorf("close evaluation window: %w", err)
	}
	return &window, nil
}

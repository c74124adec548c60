package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pulse-api/internal/models"
)

const activityColumns = `id, type, day, title, description, speakers, start_time, scheduled_end, actual_end, is_completed`

// ActivityRepository reads the conference program.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// FindByID fetches a single activity.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, id); err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}
	return &activity, nil
}

// List returns activities ordered by day then start time.
func (r *ActivityRepository) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Day > 0 {
		args = append(args, filter.Day)
		conditions = append(conditions, fmt.Sprintf("day = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.ExcludeType != "" {
		args = append(args, filter.ExcludeType)
		conditions = append(conditions, fmt.Sprintf("type <> $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM activities WHERE %s ORDER BY day ASC, start_time ASC`, activityColumns, strings.Join(conditions, " AND "))
	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// Count returns the total number of activities in the program.
func (r *ActivityRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM activities`); err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return total, nil
}

// MarkCompleted flags an activity as finished and records its actual end.
func (r *ActivityRepository) MarkCompleted(ctx context.Context, id string, actualEnd time.Time) (*models.Activity, error) {
	query := `UPDATE activities SET is_completed = TRUE, actual_end = $2 WHERE id = $1 RETURNING ` + activityColumns
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, id, actualEnd); err != nil {
		return nil, fmt.Errorf("complete activity: %w", err)
	}
	return &activity, nil
}

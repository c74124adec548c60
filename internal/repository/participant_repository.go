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

// ErrDuplicateCode is returned when a participant code is already registered.
var ErrDuplicateCode = errors.New("participant code already exists")

const participantColumns = `id, code, email, language, name, institution, total_points, badges, created_at, updated_at`

// ParticipantRepository persists conference participants.
type ParticipantRepository struct {
	db *sqlx.DB
}

// NewParticipantRepository constructs the repository.
func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// FindByCode fetches a participant by conference code.
func (r *ParticipantRepository) FindByCode(ctx context.Context, code string) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE code = $1`
	var participant models.Participant
	if err := r.db.GetContext(ctx, &participant, query, code); err != nil {
		return nil, fmt.Errorf("find participant by code: %w", err)
	}
	return &participant, nil
}

// Create inserts a participant. A taken code yields ErrDuplicateCode.
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant.ID == "" {
		participant.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = now
	}
	participant.UpdatedAt = now
	if participant.Badges == nil {
		participant.Badges = []string{}
	}

	const query = `INSERT INTO participants (id, code, email, language, name, institution, total_points, badges, created_at, updated_at)
VALUES (:id, :code, :email, :language, :name, :institution, :total_points, :badges, :created_at, :updated_at)
ON CONFLICT (code) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, participant)
	if err != nil {
		return fmt.Errorf("create participant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create participant rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDuplicateCode
	}
	return nil
}

// ListForRanking returns every participant in registration order, the tie-break order of the leaderboard.
func (r *ParticipantRepository) ListForRanking(ctx context.Context) ([]models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants ORDER BY created_at ASC, id ASC`
	var participants []models.Participant
	if err := r.db.SelectContext(ctx, &participants, query); err != nil {
		return nil, fmt.Errorf("list participants for ranking: %w", err)
	}
	return participants, nil
}

// ListCodes returns all participant codes in registration order.
func (r *ParticipantRepository) ListCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, `SELECT code FROM participants ORDER BY created_at ASC, id ASC`); err != nil {
		return nil, fmt.Errorf("list participant codes: %w", err)
	}
	return codes, nil
}


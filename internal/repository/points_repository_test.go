package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pulse-api/internal/models"
)

func TestPointsRepositoryUnlockBadge(t *testing.T) {
	db, mock, cleanup := newPulseRepoMock(t)
	defer cleanup()
	repo := NewPointsRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE participants SET badges = array_append(badges, $1)")).
		WithArgs("network_builder", 10, sqlmock.AnyArg(), "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO participant_badges")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO points_history")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	unlocked, err := repo.UnlockBadge(context.Background(), &models.Participant{ID: "p-1", Code: "AF-1234"}, "network_builder", 10)
	require.NoError(t, err)
	assert.True(t, unlocked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPointsRepositoryUnlockBadgeAlreadyHeld(t *testing.T) {
	db, mock, cleanup := newPulseRepoMock(t)
	defer cleanup()
	repo := NewPointsRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE participants SET badges = array_append(badges, $1)")).
		WithArgs("network_builder", 10, sqlmock.AnyArg(), "p-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	unlocked, err := repo.UnlockBadge(context.Background(), &models.Participant{ID: "p-1", Code: "AF-1234"}, "network_builder", 10)
	require.NoError(t, err)
	assert.False(t, unlocked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPointsRepositoryListHistory(t *testing.T) {
	db, mock, cleanup := newPulseRepoMock(t)
	defer cleanup()
	repo := NewPointsRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM points_history WHERE participant_code = $1")).
		WithArgs("AF-1234", 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "participant_id", "participant_code", "amount", "reason", "activity_id", "badge_id", "evaluation_type", "created_at"}).
			AddRow("h-2", "p-1", "AF-1234", 10, "badge_unlock", nil, "network_builder", nil, now).
			AddRow("h-1", "p-1", "AF-1234", 30, "micro_eval", "act-1", nil, nil, now.Add(-time.Minute)))

	entries, err := repo.ListHistory(context.Background(), "AF-1234", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.PointsReasonBadgeUnlock, entries[0].Reason)
	require.NotNil(t, entries[0].BadgeID)
	assert.Equal(t, "network_builder", *entries[0].BadgeID)
	require.NotNil(t, entries[1].ActivityID)
}

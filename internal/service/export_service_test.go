package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pulse-api/internal/models"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
	"github.com/noah-isme/pulse-api/pkg/export"
)

type renderStub struct {
	last *export.Dataset
}

func (r *renderStub) Render(data *export.Dataset) ([]byte, error) {
	r.last = data
	return []byte("rendered"), nil
}

func TestExportLeaderboardCSV(t *testing.T) {
	store := rankedParticipants(10, 30)
	store.byCode["AF-0000"].Badges = []string{BadgeNetworkBuilder}
	leaderboard := NewLeaderboardService(store, nil, LeaderboardConfig{}, nil)
	svc := NewExportService(leaderboard, newEvaluationStoreStub(), nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC) }

	file, err := svc.Leaderboard(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "leaderboard-20260312-093000.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	body := strings.TrimPrefix(string(file.Body), "\ufeff")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,code,name,points,badges", strings.TrimSpace(lines[0]))
	assert.True(t, strings.HasPrefix(lines[1], "1,BF-0000"))
	assert.Contains(t, lines[2], BadgeNetworkBuilder)
}

func TestExportEvaluationsColumns(t *testing.T) {
	evaluations := newEvaluationStoreStub()
	completed := time.Date(2026, 3, 12, 16, 0, 0, 0, time.UTC)
	evaluations.evaluations = []*models.Evaluation{
		{ParticipantCode: "AF-1000", EvaluationType: models.EvaluationFinal, PointsEarned: 50, CompletedAt: completed,
			Responses: models.Responses{"overall_rating": float64(5), "network_feeling": "strong"}},
		{ParticipantCode: "AF-2000", EvaluationType: models.EvaluationFinal, PointsEarned: 50, CompletedAt: completed,
			Responses: models.Responses{"overall_rating": float64(4), "most_impactful_thing": "panels", "topics": []interface{}{"ai", "data"}}},
	}
	pdf := &renderStub{}
	svc := NewExportService(nil, evaluations, nil, nil, pdf)

	file, err := svc.Evaluations(context.Background(), "final", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))

	require.NotNil(t, pdf.last)
	assert.Equal(t, []string{"code", "completed_at", "points", "most_impactful_thing", "network_feeling", "overall_rating", "topics"}, pdf.last.Headers)
	require.Len(t, pdf.last.Rows, 2)
	assert.Equal(t, []string{"AF-2000", "2026-03-12T16:00:00Z", "50", "panels", "", "4", "ai; data"}, pdf.last.Rows[1])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(nil, newEvaluationStoreStub(), nil, nil, nil)
	_, err := svc.Evaluations(context.Background(), "day1", "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Evaluations(context.Background(), "day5", "csv")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

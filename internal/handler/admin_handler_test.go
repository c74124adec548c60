package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	"github.com/noah-isme/pulse-api/internal/service"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
	"github.com/noah-isme/pulse-api/pkg/jobs"
)

type fakeEvaluationAdmin struct {
	opened []string
	closed []string
}

func (f *fakeEvaluationAdmin) Open(ctx context.Context, rawType string) (*models.EvaluationWindow, error) {
	if rawType == "day9" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid evaluation type")
	}
	f.opened = append(f.opened, rawType)
	return &models.EvaluationWindow{EvaluationType: models.EvaluationType(rawType), IsOpen: true}, nil
}

func (f *fakeEvaluationAdmin) Close(ctx context.Context, rawType string) (*models.EvaluationWindow, error) {
	f.closed = append(f.closed, rawType)
	return &models.EvaluationWindow{EvaluationType: models.EvaluationType(rawType)}, nil
}

func (f *fakeEvaluationAdmin) Stats(ctx context.Context, rawType string) (*dto.EvaluationStats, error) {
	return &dto.EvaluationStats{EvaluationType: models.EvaluationType(rawType), TotalResponses: 2}, nil
}

type fakeCompleter struct {
	lastEnd *time.Time
	calls   int
}

func (f *fakeCompleter) Complete(ctx context.Context, id string, actualEnd *time.Time) (*models.Activity, error) {
	f.calls++
	f.lastEnd = actualEnd
	if id == "missing" {
		return nil, appErrors.Clone(appErrors.ErrActivityNotFound, "")
	}
	return &models.Activity{ID: id, IsCompleted: true}, nil
}

type fakeExports struct{}

func (fakeExports) Leaderboard(ctx context.Context, rawFormat string) (*service.ExportFile, error) {
	return &service.ExportFile{Filename: "leaderboard.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("rank,code\n")}, nil
}

func (fakeExports) Evaluations(ctx context.Context, rawType, rawFormat string) (*service.ExportFile, error) {
	return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}

type fakeSweeper struct{}

func (fakeSweeper) Sweep(ctx context.Context) (*service.BadgeSweepResult, error) {
	return &service.BadgeSweepResult{Enqueued: 4, Skipped: 1}, nil
}

func (fakeSweeper) Stats() jobs.Stats { return jobs.Stats{Processed: 3} }

type fakeSnapshot struct{}

func (fakeSnapshot) Snapshot() models.SystemMetrics { return models.SystemMetrics{RequestsTotal: 7} }

func newAdminHandler() (*AdminHandler, *fakeEvaluationAdmin, *fakeCompleter) {
	evaluations := &fakeEvaluationAdmin{}
	activities := &fakeCompleter{}
	return NewAdminHandler(AdminHandlerParams{
		Evaluations: evaluations,
		Activities:  activities,
		Exports:     fakeExports{},
		Sweeper:     fakeSweeper{},
		Metrics:     fakeSnapshot{},
	}), evaluations, activities
}

func TestAdminOpenCloseEvaluation(t *testing.T) {
	h, evaluations, _ := newAdminHandler()

	c, rec := newContext(http.MethodPost, "/admin/evaluations/final/open", nil)
	c.Params = gin.Params{{Key: "type", Value: "final"}}
	h.OpenEvaluation(c)
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodPost, "/admin/evaluations/day1/close", nil)
	c.Params = gin.Params{{Key: "type", Value: "day1"}}
	h.CloseEvaluation(c)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"final"}, evaluations.opened)
	assert.Equal(t, []string{"day1"}, evaluations.closed)

	c, rec = newContext(http.MethodPost, "/admin/evaluations/day9/open", nil)
	c.Params = gin.Params{{Key: "type", Value: "day9"}}
	h.OpenEvaluation(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminCompleteActivity(t *testing.T) {
	h, _, activities := newAdminHandler()

	c, rec := newContext(http.MethodPost, "/admin/activities/a-1/complete", nil)
	c.Params = gin.Params{{Key: "id", Value: "a-1"}}
	h.CompleteActivity(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, activities.lastEnd)

	c, rec = newContext(http.MethodPost, "/admin/activities/a-1/complete", `{"actualEnd":"2026-03-10T10:45:00Z"}`)
	c.Params = gin.Params{{Key: "id", Value: "a-1"}}
	h.CompleteActivity(c)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, activities.lastEnd)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 45, 0, 0, time.UTC), activities.lastEnd.UTC())

	c, rec = newContext(http.MethodPost, "/admin/activities/a-1/complete", `{"actualEnd":"yesterday"}`)
	h.CompleteActivity(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 2, activities.calls)

	c, rec = newContext(http.MethodPost, "/admin/activities/missing/complete", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.CompleteActivity(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "activity_not_found", decode(t, rec).Error.Code)
}

func TestAdminExports(t *testing.T) {
	h, _, _ := newAdminHandler()

	c, rec := newContext(http.MethodGet, "/admin/exports/leaderboard", nil)
	h.ExportLeaderboard(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="leaderboard.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "rank,code\n", rec.Body.String())

	c, rec = newContext(http.MethodGet, "/admin/exports/evaluations/day1?format=xlsx", nil)
	c.Params = gin.Params{{Key: "type", Value: "day1"}}
	h.ExportEvaluations(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminSweepAndMetrics(t *testing.T) {
	h, _, _ := newAdminHandler()

	c, rec := newContext(http.MethodPost, "/admin/badges/sweep", nil)
	h.SweepBadges(c)
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"enqueued":4,"skipped":1}`, string(decode(t, rec).Data))

	c, rec = newContext(http.MethodGet, "/admin/badges/sweep", nil)
	h.SweepStatus(c)
	assert.JSONEq(t, `{"pending":0,"processed":3,"failed":0}`, string(decode(t, rec).Data))

	c, rec = newContext(http.MethodGet, "/admin/metrics", nil)
	h.SystemMetrics(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decode(t, rec).Data), `"requests_total":7`)
}

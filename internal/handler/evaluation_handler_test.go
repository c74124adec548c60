package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
)

type fakeScoring struct {
	microResult *dto.MicroEvaluationResult
	evalResult  *dto.EvaluationResult
	err         error
	lastCode    string
	lastID      string
	lastTarget  string
	lastAnswers models.Responses
}

func (f *fakeScoring) MicroStatus(ctx context.Context, participantCode, activityID string) (*dto.MicroEvaluationCheck, error) {
	f.lastCode, f.lastTarget = participantCode, activityID
	return &dto.MicroEvaluationCheck{ActivityID: activityID, Answered: true, Required: []string{"relevance"}}, f.err
}

func (f *fakeScoring) SubmitMicroEvaluation(ctx context.Context, participantCode, participantID, activityID string, responses models.Responses) (*dto.MicroEvaluationResult, error) {
	f.lastCode, f.lastID, f.lastTarget, f.lastAnswers = participantCode, participantID, activityID, responses
	return f.microResult, f.err
}

func (f *fakeScoring) SubmitEvaluation(ctx context.Context, participantCode, participantID string, evalType models.EvaluationType, responses models.Responses) (*dto.EvaluationResult, error) {
	f.lastCode, f.lastID, f.lastTarget, f.lastAnswers = participantCode, participantID, string(evalType), responses
	return f.evalResult, f.err
}

type fakeEligibility struct {
	result dto.Eligibility
	err    error
}

func (f fakeEligibility) CanSubmit(ctx context.Context, participantCode string, evalType models.EvaluationType) (dto.Eligibility, error) {
	return f.result, f.err
}

type fakeWindows struct{}

func (fakeWindows) Status(ctx context.Context) (models.EvaluationStatus, error) {
	return models.EvaluationStatus{models.EvaluationDay1: {EvaluationType: models.EvaluationDay1, IsOpen: true}}, nil
}

func TestSubmitMicroCreated(t *testing.T) {
	scoring := &fakeScoring{microResult: &dto.MicroEvaluationResult{
		PointsEarned: 30,
		IsEarlyBird:  true,
		BonusDetails: []dto.BonusDetail{{Type: "comment", Points: 5}, {Type: "early_bird", Points: 15}},
	}}
	h := NewEvaluationHandler(fakeWindows{}, fakeEligibility{}, scoring)

	c, rec := newContext(http.MethodPost, "/activities/plenary-1/micro-evaluation", map[string]interface{}{
		"responses": map[string]interface{}{"relevance": 5, "key_takeaway": "data sharing"},
	})
	c.Params = gin.Params{{Key: "id", Value: "plenary-1"}}
	withParticipant(c, "AF-1000", models.RoleParticipant)

	h.SubmitMicro(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "AF-1000", scoring.lastCode)
	assert.Equal(t, "p-AF-1000", scoring.lastID)
	assert.Equal(t, "plenary-1", scoring.lastTarget)
	assert.Equal(t, "data sharing", scoring.lastAnswers["key_takeaway"])

	var result dto.MicroEvaluationResult
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.Equal(t, 30, result.PointsEarned)
	assert.Len(t, result.BonusDetails, 2)
}

func TestSubmitMicroRejectionCarriesReason(t *testing.T) {
	h := NewEvaluationHandler(fakeWindows{}, fakeEligibility{}, &fakeScoring{err: appErrors.Clone(appErrors.ErrAlreadyAnswered, "")})
	c, rec := newContext(http.MethodPost, "/activities/a/micro-evaluation", map[string]interface{}{"responses": map[string]interface{}{}})
	withParticipant(c, "AF-1000", models.RoleParticipant)

	h.SubmitMicro(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_answered", decode(t, rec).Error.Code)
}

func TestSubmitMicroRequiresIdentity(t *testing.T) {
	h := NewEvaluationHandler(fakeWindows{}, fakeEligibility{}, &fakeScoring{})
	c, rec := newContext(http.MethodPost, "/activities/a/micro-evaluation", map[string]interface{}{"responses": map[string]interface{}{}})

	h.SubmitMicro(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitEvaluationMissingField(t *testing.T) {
	scoring := &fakeScoring{err: appErrors.MissingRequiredField("overall_rating")}
	h := NewEvaluationHandler(fakeWindows{}, fakeEligibility{}, scoring)
	c, rec := newContext(http.MethodPost, "/evaluations/final", map[string]interface{}{"responses": map[string]interface{}{"network_feeling": "good"}})
	c.Params = gin.Params{{Key: "type", Value: "final"}}
	withParticipant(c, "AF-1000", models.RoleParticipant)

	h.Submit(c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "missing_required_field:overall_rating", decode(t, rec).Error.Code)
	assert.Equal(t, "final", scoring.lastTarget)
}

func TestSubmitEvaluationBadJSON(t *testing.T) {
	h := NewEvaluationHandler(fakeWindows{}, fakeEligibility{}, &fakeScoring{})
	c, rec := newContext(http.MethodPost, "/evaluations/day1", "{not json")
	withParticipant(c, "AF-1000", models.RoleParticipant)

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decode(t, rec).Error.Code)
}

func TestEligibilityReportsReason(t *testing.T) {
	h := NewEvaluationHandler(fakeWindows{}, fakeEligibility{result: dto.Eligibility{Reason: "requires_day1"}}, &fakeScoring{})
	c, rec := newContext(http.MethodGet, "/evaluations/day2/eligibility", nil)
	c.Params = gin.Params{{Key: "type", Value: "day2"}}
	withParticipant(c, "AF-1000", models.RoleParticipant)

	h.Eligibility(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var result dto.Eligibility
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.False(t, result.CanSubmit)
	assert.Equal(t, "requires_day1", result.Reason)
}

func TestEvaluationStatus(t *testing.T) {
	h := NewEvaluationHandler(fakeWindows{}, fakeEligibility{}, &fakeScoring{})
	c, rec := newContext(http.MethodGet, "/evaluations/status", nil)

	h.Status(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decode(t, rec).Data), `"day1"`)
}

func TestMicroStatus(t *testing.T) {
	scoring := &fakeScoring{}
	h := NewEvaluationHandler(fakeWindows{}, fakeEligibility{}, scoring)
	c, rec := newContext(http.MethodGet, "/activities/x/micro-evaluation", nil)
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	withParticipant(c, "AF-1000", models.RoleParticipant)

	h.MicroStatus(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decode(t, rec).Data), `"answered":true`)
}

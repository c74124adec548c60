package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	"github.com/noah-isme/pulse-api/internal/repository"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
)

func sequenceGenerator(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i%len(codes)]
		i++
		return code, nil
	}
}

func TestRegisterGeneratesCode(t *testing.T) {
	store := newParticipantStoreStub()
	svc := NewParticipantService(store, store, nil, nil)
	svc.generate = sequenceGenerator("AF-4821")

	participant, err := svc.Register(context.Background(), dto.RegisterParticipantRequest{Email: " ada@example.org "})
	require.NoError(t, err)
	assert.Equal(t, "AF-4821", participant.Code)
	assert.Equal(t, "ada@example.org", participant.Email)
	assert.Equal(t, models.LanguageFR, participant.Language)
	assert.Equal(t, 0, participant.TotalPoints)
	assert.Empty(t, participant.Badges)
}

func TestRegisterRetriesOnCollision(t *testing.T) {
	store := newParticipantStoreStub(&models.Participant{Code: "AF-1111"})
	svc := NewParticipantService(store, store, nil, nil)
	svc.generate = sequenceGenerator("AF-1111", "AF-1111", "AF-2222")

	participant, err := svc.Register(context.Background(), dto.RegisterParticipantRequest{Email: "bo@example.org", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "AF-2222", participant.Code)
	assert.Equal(t, "en", participant.Language)
}

func TestRegisterGivesUpAfterAttempts(t *testing.T) {
	store := newParticipantStoreStub(&models.Participant{Code: "AF-1111"})
	svc := NewParticipantService(store, store, nil, nil)
	svc.generate = sequenceGenerator("AF-1111")

	_, err := svc.Register(context.Background(), dto.RegisterParticipantRequest{Email: "bo@example.org"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Empty(t, store.created)
}

func TestRegisterWithProvidedCode(t *testing.T) {
	store := newParticipantStoreStub(&models.Participant{Code: "AF-1111"})
	svc := NewParticipantService(store, store, nil, nil)

	participant, err := svc.Register(context.Background(), dto.RegisterParticipantRequest{Email: "cy@example.org", Code: "af-3333"})
	require.NoError(t, err)
	assert.Equal(t, "AF-3333", participant.Code)

	_, err = svc.Register(context.Background(), dto.RegisterParticipantRequest{Email: "cy@example.org", Code: "AF-1111"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.Register(context.Background(), dto.RegisterParticipantRequest{Email: "cy@example.org", Code: "XX-12"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRegisterValidation(t *testing.T) {
	store := newParticipantStoreStub()
	svc := NewParticipantService(store, store, nil, nil)

	_, err := svc.Register(context.Background(), dto.RegisterParticipantRequest{Email: "not-an-email"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Register(context.Background(), dto.RegisterParticipantRequest{Email: "ok@example.org", Language: "de"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRegisterStoreFailure(t *testing.T) {
	store := newParticipantStoreStub()
	store.createErr = []error{errors.New("disk full")}
	svc := NewParticipantService(store, store, nil, nil)

	_, err := svc.Register(context.Background(), dto.RegisterParticipantRequest{Email: "ok@example.org"})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestParticipantGetAndHistory(t *testing.T) {
	store := newParticipantStoreStub(&models.Participant{ID: "p-1", Code: "AF-1000", TotalPoints: 25})
	svc := NewParticipantService(store, store, nil, nil)

	participant, err := svc.Get(context.Background(), "AF-1000")
	require.NoError(t, err)
	assert.Equal(t, 25, participant.TotalPoints)

	_, err = svc.Get(context.Background(), "AF-9999")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	history, err := svc.History(context.Background(), "AF-1000", 10)
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)

	store.history = []models.PointsHistoryEntry{{Amount: 10, Reason: models.PointsReasonMicroEval}}
	history, err = svc.History(context.Background(), "AF-1000", 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRegisterProvidedCodeLosesRace(t *testing.T) {
	store := newParticipantStoreStub()
	store.createErr = []error{repository.ErrDuplicateCode}
	svc := NewParticipantService(store, store, nil, nil)

	_, err := svc.Register(context.Background(), dto.RegisterParticipantRequest{Email: "dee@example.org", Code: "AF-5555"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/pulse-api/internal/models"
	"github.com/noah-isme/pulse-api/internal/repository"
)

type windowStoreStub struct {
	status models.EvaluationStatus
	err    error
	opened []models.EvaluationType
	closed []models.EvaluationType
}

func (s *windowStoreStub) Status(ctx context.Context) (models.EvaluationStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.status == nil {
		return models.EvaluationStatus{}, nil
	}
	return s.status, nil
}

func (s *windowStoreStub) Open(ctx context.Context, evalType models.EvaluationType, at time.Time) (*models.EvaluationWindow, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.opened = append(s.opened, evalType)
	return &models.EvaluationWindow{EvaluationType: evalType, IsOpen: true, OpenedAt: &at}, nil
}

func (s *windowStoreStub) Close(ctx context.Context, evalType models.EvaluationType, at time.Time) (*models.EvaluationWindow, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.closed = append(s.closed, evalType)
	return &models.EvaluationWindow{EvaluationType: evalType, IsOpen: false, ClosedAt: &at}, nil
}

func openWindows(types ...models.EvaluationType) *windowStoreStub {
	status := models.EvaluationStatus{}
	for _, t := range types {
		status[t] = models.EvaluationWindow{EvaluationType: t, IsOpen: true}
	}
	return &windowStoreStub{status: status}
}

// evaluationStoreStub keeps micro-evaluations and gated evaluations in memory and enforces the
// same uniqueness the database constraints do.
type evaluationStoreStub struct {
	completed      map[string][]models.EvaluationType
	completedErr   error
	microExistsErr error
	recordMicroErr error
	recordEvalErr  error
	statsErr       error
	micro          []*models.MicroEvaluation
	evaluations    []*models.Evaluation
	recordCalls    int
}

func newEvaluationStoreStub() *evaluationStoreStub {
	return &evaluationStoreStub{completed: map[string][]models.EvaluationType{}}
}

func (s *evaluationStoreStub) CompletedTypes(ctx context.Context, participantCode string) ([]models.EvaluationType, error) {
	if s.completedErr != nil {
		return nil, s.completedErr
	}
	types := append([]models.EvaluationType(nil), s.completed[participantCode]...)
	for _, eval := range s.evaluations {
		if eval.ParticipantCode == participantCode {
			types = append(types, eval.EvaluationType)
		}
	}
	return types, nil
}

func (s *evaluationStoreStub) MicroExists(ctx context.Context, participantCode, activityID string) (bool, error) {
	if s.microExistsErr != nil {
		return false, s.microExistsErr
	}
	for _, eval := range s.micro {
		if eval.ParticipantCode == participantCode && eval.ActivityID == activityID {
			return true, nil
		}
	}
	return false, nil
}

func (s *evaluationStoreStub) RecordMicroEvaluation(ctx context.Context, eval *models.MicroEvaluation) error {
	s.recordCalls++
	if s.recordMicroErr != nil {
		return s.recordMicroErr
	}
	if exists, _ := s.MicroExists(ctx, eval.ParticipantCode, eval.ActivityID); exists {
		return repository.ErrAlreadyRecorded
	}
	if eval.ID == "" {
		eval.ID = "micro-" + eval.ActivityID
	}
	s.micro = append(s.micro, eval)
	return nil
}

func (s *evaluationStoreStub) RecordEvaluation(ctx context.Context, eval *models.Evaluation) error {
	s.recordCalls++
	if s.recordEvalErr != nil {
		return s.recordEvalErr
	}
	for _, existing := range s.evaluations {
		if existing.ParticipantCode == eval.ParticipantCode && existing.EvaluationType == eval.EvaluationType {
			return repository.ErrAlreadyRecorded
		}
	}
	if eval.ID == "" {
		eval.ID = "eval-" + string(eval.EvaluationType)
	}
	s.evaluations = append(s.evaluations, eval)
	return nil
}

func (s *evaluationStoreStub) MicroStats(ctx context.Context, participantCode string) (models.MicroEvaluationStats, error) {
	if s.statsErr != nil {
		return models.MicroEvaluationStats{}, s.statsErr
	}
	var stats models.MicroEvaluationStats
	for _, eval := range s.micro {
		if eval.ParticipantCode != participantCode {
			continue
		}
		stats.Total++
		if eval.IsEarlyBird {
			stats.EarlyBird++
		}
		if eval.HasComment {
			stats.WithComment++
		}
	}
	return stats, nil
}

func (s *evaluationStoreStub) HasEvaluation(ctx context.Context, participantCode string, evalType models.EvaluationType) (bool, error) {
	types, err := s.CompletedTypes(ctx, participantCode)
	if err != nil {
		return false, err
	}
	for _, t := range types {
		if t == evalType {
			return true, nil
		}
	}
	return false, nil
}

func (s *evaluationStoreStub) ListByType(ctx context.Context, evalType models.EvaluationType) ([]models.Evaluation, error) {
	var out []models.Evaluation
	for _, eval := range s.evaluations {
		if eval.EvaluationType == evalType {
			out = append(out, *eval)
		}
	}
	return out, nil
}

func (s *evaluationStoreStub) addMicro(code string, n int, earlyBird, comment bool) {
	for i := 0; i < n; i++ {
		s.micro = append(s.micro, &models.MicroEvaluation{
			ParticipantCode: code,
			ActivityID:      fmt.Sprintf("%s-act-%d", code, len(s.micro)),
			IsEarlyBird:     earlyBird,
			HasComment:      comment,
		})
	}
}

type activityStoreStub struct {
	activities map[string]*models.Activity
	err        error
	lastFilter models.ActivityFilter
	completed  map[string]time.Time
}

func newActivityStoreStub(activities ...*models.Activity) *activityStoreStub {
	stub := &activityStoreStub{activities: map[string]*models.Activity{}, completed: map[string]time.Time{}}
	for _, a := range activities {
		stub.activities[a.ID] = a
	}
	return stub
}

func (s *activityStoreStub) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	if s.err != nil {
		return nil, s.err
	}
	activity, ok := s.activities[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return activity, nil
}

func (s *activityStoreStub) List(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	s.lastFilter = filter
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Activity
	for _, a := range s.activities {
		out = append(out, *a)
	}
	return out, nil
}

func (s *activityStoreStub) Count(ctx context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return len(s.activities), nil
}

func (s *activityStoreStub) MarkCompleted(ctx context.Context, id string, actualEnd time.Time) (*models.Activity, error) {
	activity, ok := s.activities[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	s.completed[id] = actualEnd
	activity.IsCompleted = true
	activity.ActualEnd = &actualEnd
	return activity, nil
}

// participantStoreStub mirrors the conditional badge grant of the participants table.
type participantStoreStub struct {
	byCode    map[string]*models.Participant
	order     []string
	findErr   error
	createErr []error
	created   []models.Participant
	history   []models.PointsHistoryEntry
}

func newParticipantStoreStub(participants ...*models.Participant) *participantStoreStub {
	stub := &participantStoreStub{byCode: map[string]*models.Participant{}}
	for _, p := range participants {
		stub.byCode[p.Code] = p
		stub.order = append(stub.order, p.Code)
	}
	return stub
}

func (s *participantStoreStub) FindByCode(ctx context.Context, code string) (*models.Participant, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	p, ok := s.byCode[code]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *p
	clone.Badges = append([]string(nil), p.Badges...)
	return &clone, nil
}

func (s *participantStoreStub) ListForRanking(ctx context.Context) ([]models.Participant, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	out := make([]models.Participant, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, *s.byCode[code])
	}
	return out, nil
}

func (s *participantStoreStub) ListCodes(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.order...), nil
}

func (s *participantStoreStub) Create(ctx context.Context, participant *models.Participant) error {
	if len(s.createErr) > 0 {
		err := s.createErr[0]
		s.createErr = s.createErr[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := s.byCode[participant.Code]; ok {
		return repository.ErrDuplicateCode
	}
	participant.ID = "p-" + participant.Code
	stored := *participant
	s.byCode[participant.Code] = &stored
	s.order = append(s.order, participant.Code)
	s.created = append(s.created, stored)
	return nil
}

func (s *participantStoreStub) ListHistory(ctx context.Context, participantCode string, limit int) ([]models.PointsHistoryEntry, error) {
	return s.history, nil
}

func (s *participantStoreStub) UnlockBadge(ctx context.Context, participant *models.Participant, badgeID string, bonus int) (bool, error) {
	stored := s.byCode[participant.Code]
	if stored.HasBadge(badgeID) {
		return false, nil
	}
	stored.Badges = append(stored.Badges, badgeID)
	stored.TotalPoints += bonus
	return true, nil
}

type invalidatorStub struct {
	calls int
}

func (s *invalidatorStub) Invalidate(ctx context.Context) {
	s.calls++
}

type badgeUnlockerStub struct {
	mu       sync.Mutex
	unlocked []models.Badge
	err      error
	codes    []string
}

func (s *badgeUnlockerStub) CheckAndUnlock(ctx context.Context, participantCode string) ([]models.Badge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, participantCode)
	return s.unlocked, s.err
}

func (s *badgeUnlockerStub) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.codes...)
}

package models

import (
	"fmt"
	"time"
)

// EvaluationType identifies one of the gated day/final surveys.
type EvaluationType string

const (
	EvaluationDay1  EvaluationType = "day1"
	EvaluationDay2  EvaluationType = "day2"
	EvaluationFinal EvaluationType = "final"
)

// EvaluationTypes lists the gated surveys in their required completion order.
var EvaluationTypes = []EvaluationType{EvaluationDay1, EvaluationDay2, EvaluationFinal}

// ParseEvaluationType validates a raw evaluation type.
func ParseEvaluationType(raw string) (EvaluationType, error) {
	switch t := EvaluationType(raw); t {
	case EvaluationDay1, EvaluationDay2, EvaluationFinal:
		return t, nil
	}
	return "", fmt.Errorf("unknown evaluation type %q", raw)
}

// MicroEvaluation is the pulse feedback a participant leaves for a single activity.
type MicroEvaluation struct {
	ID              string    `db:"id" json:"id"`
	ParticipantID   string    `db:"participant_id" json:"participant_id"`
	ParticipantCode string    `db:"participant_code" json:"participant_code"`
	ActivityID      string    `db:"activity_id" json:"activity_id"`
	Responses       Responses `db:"responses" json:"responses"`
	HasComment      bool      `db:"has_comment" json:"has_comment"`
	PointsEarned    int       `db:"points_earned" json:"points_earned"`
	IsEarlyBird     bool      `db:"is_early_bird" json:"is_early_bird"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Evaluation is a completed day or final survey.
type Evaluation struct {
	ID              string         `db:"id" json:"id"`
	ParticipantID   string         `db:"participant_id" json:"participant_id"`
	ParticipantCode string         `db:"participant_code" json:"participant_code"`
	EvaluationType  EvaluationType `db:"evaluation_type" json:"evaluation_type"`
	Responses       Responses      `db:"responses" json:"responses"`
	PointsEarned    int            `db:"points_earned" json:"points_earned"`
	CompletedAt     time.Time      `db:"completed_at" json:"completed_at"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// EvaluationWindow is the admin controlled open/closed flag for one evaluation type.
type EvaluationWindow struct {
	EvaluationType EvaluationType `db:"evaluation_type" json:"evaluation_type"`
	IsOpen         bool           `db:"is_open" json:"is_open"`
	OpenedAt       *time.Time     `db:"opened_at" json:"opened_at,omitempty"`
	ClosedAt       *time.Time     `db:"closed_at" json:"closed_at,omitempty"`
}

// EvaluationStatus holds the window of every evaluation type.
type EvaluationStatus map[EvaluationType]EvaluationWindow

// Window returns the window for t; types never configured are closed.
func (s EvaluationStatus) Window(t EvaluationType) EvaluationWindow {
	if w, ok := s[t]; ok {
		return w
	}
	return EvaluationWindow{EvaluationType: t}
}

// MicroEvaluationStats aggregates a participant's micro-evaluations for badge predicates.
type MicroEvaluationStats struct {
	Total       int `db:"total"`
	EarlyBird   int `db:"early_bird"`
	WithComment int `db:"with_comment"`
}

package dto

import (
	"time"

	"github.com/noah-isme/pulse-api/internal/models"
)

// SubmitResponsesRequest carries free-form survey answers.
type SubmitResponsesRequest struct {
	Responses map[string]interface{} `json:"responses" validate:"required"`
}

// Eligibility is the outcome of a gated evaluation check.
type Eligibility struct {
	CanSubmit bool   `json:"canSubmit"`
	Reason    string `json:"reason"`
}

// BonusDetail describes one bonus folded into a micro-evaluation award.
type BonusDetail struct {
	Type   string `json:"type"`
	Points int    `json:"points"`
}

// MicroEvaluationResult is returned after a successful micro-evaluation.
type MicroEvaluationResult struct {
	MicroEvaluationID string         `json:"microEvaluationId"`
	PointsEarned      int            `json:"pointsEarned"`
	IsEarlyBird       bool           `json:"isEarlyBird"`
	BonusDetails      []BonusDetail  `json:"bonusDetails"`
	UnlockedBadges    []models.Badge `json:"unlockedBadges"`
}

// EvaluationResult is returned after a day or final evaluation is stored.
type EvaluationResult struct {
	EvaluationID   string         `json:"evaluationId"`
	PointsEarned   int            `json:"pointsEarned"`
	UnlockedBadges []models.Badge `json:"unlockedBadges"`
}

// MicroEvaluationCheck tells the client whether an activity was already rated.
type MicroEvaluationCheck struct {
	ActivityID string   `json:"activityId"`
	Answered   bool     `json:"answered"`
	Required   []string `json:"requiredQuestions"`
}

// EvaluationSummaryEntry is the dashboard state of one evaluation type.
type EvaluationSummaryEntry struct {
	IsCompleted bool   `json:"isCompleted"`
	IsOpen      bool   `json:"isOpen"`
	CanStart    bool   `json:"canStart"`
	Icon        string `json:"icon"`
}

// EvaluationSummary aggregates the three gated evaluations for the dashboard.
type EvaluationSummary struct {
	Day1           EvaluationSummaryEntry `json:"day1"`
	Day2           EvaluationSummaryEntry `json:"day2"`
	Final          EvaluationSummaryEntry `json:"final"`
	TotalCompleted int                    `json:"totalCompleted"`
	TotalRequired  int                    `json:"totalRequired"`
	Progress       int                    `json:"progress"`
}

// Dashboard is the participant landing payload.
type Dashboard struct {
	Participant *models.Participant `json:"participant"`
	Rank        RankResponse        `json:"rank"`
	Evaluations EvaluationSummary   `json:"evaluations"`
}

// EvaluationStats reports responses collected for one evaluation type.
type EvaluationStats struct {
	EvaluationType models.EvaluationType `json:"evaluationType"`
	TotalResponses int                   `json:"totalResponses"`
	Responses      []models.Evaluation   `json:"responses"`
}

// CompleteActivityRequest lets an admin record when an activity actually ended.
type CompleteActivityRequest struct {
	ActualEnd *time.Time `json:"actualEnd"`
}

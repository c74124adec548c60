package models

import "time"

// PointsReason tags why points were awarded.
type PointsReason string

const (
	PointsReasonMicroEval   PointsReason = "micro_eval"
	PointsReasonDayEval     PointsReason = "day_eval"
	PointsReasonFinalEval   PointsReason = "final_eval"
	PointsReasonBadgeUnlock PointsReason = "badge_unlock"
)

// PointsHistoryEntry is an append-only audit record of a points award.
type PointsHistoryEntry struct {
	ID              string       `db:"id" json:"id"`
	ParticipantID   string       `db:"participant_id" json:"participant_id"`
	ParticipantCode string       `db:"participant_code" json:"participant_code"`
	Amount          int          `db:"amount" json:"amount"`
	Reason          PointsReason `db:"reason" json:"reason"`
	ActivityID      *string      `db:"activity_id" json:"activity_id,omitempty"`
	BadgeID         *string      `db:"badge_id" json:"badge_id,omitempty"`
	EvaluationType  *string      `db:"evaluation_type" json:"evaluation_type,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
}

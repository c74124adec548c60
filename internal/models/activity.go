package models

import (
	"time"

	"github.com/lib/pq"
)

// ActivityType classifies sessions in the program.
type ActivityType string

const (
	ActivityPlenary  ActivityType = "plenary"
	ActivityPanel    ActivityType = "panel"
	ActivityWorkshop ActivityType = "workshop"
	ActivityBreak    ActivityType = "break"
)

// Valid reports whether the type is one of the known session kinds.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityPlenary, ActivityPanel, ActivityWorkshop, ActivityBreak:
		return true
	}
	return false
}

// Activity is a scheduled conference session.
type Activity struct {
	ID           string         `db:"id" json:"id"`
	Type         ActivityType   `db:"type" json:"type"`
	Day          int            `db:"day" json:"day"`
	Title        LocalizedText  `db:"title" json:"title"`
	Description  LocalizedText  `db:"description" json:"description"`
	Speakers     pq.StringArray `db:"speakers" json:"speakers,omitempty"`
	StartTime    time.Time      `db:"start_time" json:"start_time"`
	ScheduledEnd time.Time      `db:"scheduled_end" json:"scheduled_end"`
	ActualEnd    *time.Time     `db:"actual_end" json:"actual_end,omitempty"`
	IsCompleted  bool           `db:"is_completed" json:"is_completed"`
}

// EndTime is the actual end when organizers recorded one, otherwise the scheduled end.
func (a *Activity) EndTime() time.Time {
	if a.ActualEnd != nil && !a.ActualEnd.IsZero() {
		return *a.ActualEnd
	}
	return a.ScheduledEnd
}

// ActivityFilter narrows program listings.
type ActivityFilter struct {
	Day         int
	Type        ActivityType
	ExcludeType ActivityType
}

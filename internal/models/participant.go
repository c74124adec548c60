package models

import (
	"time"

	"github.com/lib/pq"
)

// Supported participant languages.
const (
	LanguageEN = "en"
	LanguageFR = "fr"
)

// Participant is a registered conference attendee.
type Participant struct {
	ID          string         `db:"id" json:"id"`
	Code        string         `db:"code" json:"code"`
	Email       string         `db:"email" json:"email"`
	Language    string         `db:"language" json:"language"`
	Name        *string        `db:"name" json:"name,omitempty"`
	Institution *string        `db:"institution" json:"institution,omitempty"`
	TotalPoints int            `db:"total_points" json:"total_points"`
	Badges      pq.StringArray `db:"badges" json:"badges"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// HasBadge reports whether the badge id is already in the participant's set.
func (p *Participant) HasBadge(id string) bool {
	for _, held := range p.Badges {
		if held == id {
			return true
		}
	}
	return false
}

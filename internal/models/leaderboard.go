package models

// LeaderboardEntry is a ranked participant. Ranks are 1-based and never persisted.
type LeaderboardEntry struct {
	Rank          int      `json:"rank"`
	ParticipantID string   `json:"-"`
	Code          string   `json:"code"`
	Name          string   `json:"name,omitempty"`
	Points        int      `json:"points"`
	Badges        []string `json:"badges"`
}

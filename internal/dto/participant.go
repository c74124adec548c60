package dto

// RegisterParticipantRequest captures the fields accepted on registration.
type RegisterParticipantRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Language    string  `json:"language" validate:"omitempty,oneof=en fr"`
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Institution *string `json:"institution" validate:"omitempty,max=200"`
	Code        string  `json:"code" validate:"omitempty"`
}

// LoginRequest identifies a participant by their conference code.
type LoginRequest struct {
	Code string `json:"code" validate:"required"`
}

// LoginResponse wraps the issued access token.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
	Code        string `json:"code"`
	Role        string `json:"role"`
}

// RankResponse reports where a participant sits on the leaderboard.
type RankResponse struct {
	Code            string `json:"code"`
	Rank            int    `json:"rank"`
	Total           int    `json:"total"`
	Points          int    `json:"points"`
	IsTopTenPercent bool   `json:"isTopTenPercent"`
}

// BadgeProgress shows how close a participant is to a countable badge.
type BadgeProgress struct {
	BadgeID  string `json:"badgeId"`
	Current  int    `json:"current"`
	Target   int    `json:"target"`
	Unlocked bool   `json:"unlocked"`
}

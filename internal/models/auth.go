package models

import "github.com/golang-jwt/jwt/v5"

// Role determines which routes a token may call.
type Role string

const (
	RoleParticipant Role = "PARTICIPANT"
	RoleAdmin       Role = "ADMIN"
)

// JWTClaims represents the access token payload issued after a code lookup.
type JWTClaims struct {
	ParticipantID string `json:"participant_id"`
	Code          string `json:"code"`
	Role          Role   `json:"role"`
	jwt.RegisteredClaims
}

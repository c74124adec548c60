package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
	"github.com/noah-isme/pulse-api/pkg/participantcode"
)

type participantLookup interface {
	FindByCode(ctx context.Context, code string) (*models.Participant, error)
}

// AuthConfig defines configuration for token issuance.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
	AdminCodes        []string
}

// AuthService exchanges a participant code for an access token.
type AuthService struct {
	repo      participantLookup
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	admins    map[string]struct{}
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo participantLookup, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 72 * time.Hour
	}
	admins := make(map[string]struct{}, len(config.AdminCodes))
	for _, code := range config.AdminCodes {
		admins[participantcode.Normalize(code)] = struct{}{}
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config, admins: admins, now: time.Now}
}

// Login looks the code up and issues an access token for the participant.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	code := participantcode.Normalize(req.Code)
	if !participantcode.Valid(code) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "participant code must match AF-NNNN")
	}

	participant, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown participant code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch participant")
	}

	role := models.RoleParticipant
	if _, ok := s.admins[participant.Code]; ok {
		role = models.RoleAdmin
	}

	token, err := s.generateAccessToken(participant, role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}
	s.logger.Info("participant logged in", zap.String("participant_code", participant.Code), zap.String("role", string(role)))

	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		Code:        participant.Code,
		Role:        string(role),
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.Code == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(participant *models.Participant, role models.Role) (string, error) {
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		ParticipantID: participant.ID,
		Code:          participant.Code,
		Role:          role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   participant.ID,
			Issuer:    s.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	"github.com/noah-isme/pulse-api/internal/repository"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
	"github.com/noah-isme/pulse-api/pkg/participantcode"
)

const maxCodeAttempts = 5

type participantStore interface {
	FindByCode(ctx context.Context, code string) (*models.Participant, error)
	Create(ctx context.Context, participant *models.Participant) error
}

type pointsHistoryReader interface {
	ListHistory(ctx context.Context, participantCode string, limit int) ([]models.PointsHistoryEntry, error)
}

// ParticipantService registers participants and serves their profile data.
type ParticipantService struct {
	repo      participantStore
	history   pointsHistoryReader
	validator *validator.Validate
	logger    *zap.Logger
	generate  func() (string, error)
}

// NewParticipantService constructs a ParticipantService.
func NewParticipantService(repo participantStore, history pointsHistoryReader, validate *validator.Validate, logger *zap.Logger) *ParticipantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParticipantService{
		repo:      repo,
		history:   history,
		validator: validate,
		logger:    logger,
		generate:  participantcode.Generate,
	}
}

// Register creates a participant. A client supplied code is kept when free, otherwise a code is generated.
func (s *ParticipantService) Register(ctx context.Context, req dto.RegisterParticipantRequest) (*models.Participant, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	participant := &models.Participant{
		Email:       req.Email,
		Language:    req.Language,
		Name:        req.Name,
		Institution: req.Institution,
		Badges:      []string{},
	}
	if participant.Language == "" {
		participant.Language = models.LanguageFR
	}

	if req.Code != "" {
		participant.Code = participantcode.Normalize(req.Code)
		if !participantcode.Valid(participant.Code) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "participant code must match AF-NNNN")
		}
		if err := s.repo.Create(ctx, participant); err != nil {
			if errors.Is(err, repository.ErrDuplicateCode) {
				return nil, appErrors.Clone(appErrors.ErrConflict, "participant code already registered")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register participant")
		}
		s.logger.Info("participant registered", zap.String("participant_code", participant.Code))
		return participant, nil
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate participant code")
		}
		participant.Code = code
		participant.ID = ""
		err = s.repo.Create(ctx, participant)
		if err == nil {
			s.logger.Info("participant registered", zap.String("participant_code", code), zap.Int("attempt", attempt))
			return participant, nil
		}
		if !errors.Is(err, repository.ErrDuplicateCode) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register participant")
		}
		s.logger.Debug("participant code collision", zap.String("participant_code", code), zap.Int("attempt", attempt))
	}
	return nil, appErrors.Clone(appErrors.ErrConflict, "could not allocate a unique participant code")
}

// Get returns a participant by code.
func (s *ParticipantService) Get(ctx context.Context, code string) (*models.Participant, error) {
	participant, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "participant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}
	return participant, nil
}

// History lists the points awards of a participant, newest first.
func (s *ParticipantService) History(ctx context.Context, code string, limit int) ([]models.PointsHistoryEntry, error) {
	entries, err := s.history.ListHistory(ctx, code, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load points history")
	}
	if entries == nil {
		entries = []models.PointsHistoryEntry{}
	}
	return entries, nil
}

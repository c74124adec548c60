package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
)

type dashboardParticipantReader interface {
	Get(ctx context.Context, code string) (*models.Participant, error)
}

type dashboardSummaryProvider interface {
	Summary(ctx context.Context, participantCode string) (dto.EvaluationSummary, error)
}

type dashboardRankProvider interface {
	RankOf(ctx context.Context, participantCode string) (*dto.RankResponse, error)
}

// DashboardServiceParams groups dashboard dependencies.
type DashboardServiceParams struct {
	Participants dashboardParticipantReader
	Evaluations  dashboardSummaryProvider
	Leaderboard  dashboardRankProvider
	Logger       *zap.Logger
}

// DashboardService composes the participant landing payload.
type DashboardService struct {
	participants dashboardParticipantReader
	evaluations  dashboardSummaryProvider
	leaderboard  dashboardRankProvider
	logger       *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		participants: params.Participants,
		evaluations:  params.Evaluations,
		leaderboard:  params.Leaderboard,
		logger:       logger,
	}
}

// Participant returns the profile, rank and evaluation progress of a participant.
func (s *DashboardService) Participant(ctx context.Context, participantCode string) (*dto.Dashboard, error) {
	participant, err := s.participants.Get(ctx, participantCode)
	if err != nil {
		return nil, err
	}
	summary, err := s.evaluations.Summary(ctx, participant.Code)
	if err != nil {
		return nil, err
	}
	rank, err := s.leaderboard.RankOf(ctx, participant.Code)
	if err != nil {
		return nil, err
	}
	return &dto.Dashboard{Participant: participant, Rank: *rank, Evaluations: summary}, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
)

// Badge identifiers in catalog order.
const (
	BadgeNetworkBuilder     = "network_builder"
	BadgeSpeedThinker       = "speed_thinker"
	BadgeInsightMaster      = "insight_master"
	BadgeConferenceChampion = "conference_champion"
	BadgeAfretecAmbassador  = "afretec_ambassador"
)

var badgeCatalog = []models.Badge{
	{
		ID:          BadgeNetworkBuilder,
		Name:        models.LocalizedText{"en": "Network Builder", "fr": "Bâtisseur de réseau"},
		Icon:        "🤝",
		Description: models.LocalizedText{"en": "Rate 5 activities", "fr": "Évaluer 5 activités"},
		Requirement: models.BadgeRequirement{Type: models.RequirementMicroEvalCount, Value: 5},
		Bonus:       10,
	},
	{
		ID:          BadgeSpeedThinker,
		Name:        models.LocalizedText{"en": "Speed Thinker", "fr": "Penseur rapide"},
		Icon:        "⚡",
		Description: models.LocalizedText{"en": "Rate 3 activities within 10 minutes of their end", "fr": "Évaluer 3 activités dans les 10 minutes suivant leur fin"},
		Requirement: models.BadgeRequirement{Type: models.RequirementEarlyBirdCount, Value: 3},
		Bonus:       15,
	},
	{
		ID:          BadgeInsightMaster,
		Name:        models.LocalizedText{"en": "Insight Master", "fr": "Maître des idées"},
		Icon:        "💡",
		Description: models.LocalizedText{"en": "Leave 5 key takeaways", "fr": "Partager 5 idées clés"},
		Requirement: models.BadgeRequirement{Type: models.RequirementCommentsCount, Value: 5},
		Bonus:       10,
	},
	{
		ID:          BadgeConferenceChampion,
		Name:        models.LocalizedText{"en": "Conference Champion", "fr": "Champion de la conférence"},
		Icon:        "🏆",
		Description: models.LocalizedText{"en": "Rate every activity and complete the final evaluation", "fr": "Évaluer toutes les activités et compléter l'évaluation finale"},
		Requirement: models.BadgeRequirement{Type: models.RequirementAllDone, Value: 1},
		Bonus:       30,
	},
	{
		ID:          BadgeAfretecAmbassador,
		Name:        models.LocalizedText{"en": "AFRETEC Ambassador", "fr": "Ambassadeur AFRETEC"},
		Icon:        "🌍",
		Description: models.LocalizedText{"en": "Reach the top 10% of the leaderboard", "fr": "Atteindre le top 10 % du classement"},
		Requirement: models.BadgeRequirement{Type: models.RequirementLeaderboardTop10, Value: 10},
		Bonus:       50,
	},
}

// BadgeCatalog returns a copy of the badge catalog in evaluation order.
func BadgeCatalog() []models.Badge {
	return append([]models.Badge(nil), badgeCatalog...)
}

type badgeParticipantReader interface {
	FindByCode(ctx context.Context, code string) (*models.Participant, error)
	ListForRanking(ctx context.Context) ([]models.Participant, error)
}

type badgeStatsReader interface {
	MicroStats(ctx context.Context, participantCode string) (models.MicroEvaluationStats, error)
	HasEvaluation(ctx context.Context, participantCode string, evalType models.EvaluationType) (bool, error)
}

type activityCounter interface {
	Count(ctx context.Context) (int, error)
}

type badgeGranter interface {
	UnlockBadge(ctx context.Context, participant *models.Participant, badgeID string, bonus int) (bool, error)
}

// BadgeService evaluates badge predicates against fresh store statistics and grants each badge once.
type BadgeService struct {
	participants badgeParticipantReader
	stats        badgeStatsReader
	activities   activityCounter
	granter      badgeGranter
	leaderboard  leaderboardInvalidator
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewBadgeService constructs a BadgeService.
func NewBadgeService(participants badgeParticipantReader, stats badgeStatsReader, activities activityCounter, granter badgeGranter, leaderboard leaderboardInvalidator, metrics *MetricsService, logger *zap.Logger) *BadgeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BadgeService{
		participants: participants,
		stats:        stats,
		activities:   activities,
		granter:      granter,
		leaderboard:  leaderboard,
		metrics:      metrics,
		logger:       logger,
	}
}

// badgeFacts holds the statistics a pass reads, loaded lazily and at most once.
type badgeFacts struct {
	micro         models.MicroEvaluationStats
	activityCount *int
	hasFinal      *bool
}

// CheckAndUnlock grants every newly satisfied badge in catalog order and returns the ones unlocked by this call.
func (s *BadgeService) CheckAndUnlock(ctx context.Context, participantCode string) ([]models.Badge, error) {
	participant, err := s.loadParticipant(ctx, participantCode)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.MicroStats(ctx, participant.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load micro evaluation stats")
	}
	facts := &badgeFacts{micro: stats}

	unlocked := []models.Badge{}
	for _, badge := range badgeCatalog {
		if participant.HasBadge(badge.ID) {
			continue
		}
		ok, err := s.qualifies(ctx, participant, badge, facts)
		if err != nil {
			return unlocked, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to evaluate badge "+badge.ID)
		}
		if !ok {
			continue
		}
		granted, err := s.granter.UnlockBadge(ctx, participant, badge.ID, badge.Bonus)
		if err != nil {
			return unlocked, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unlock badge "+badge.ID)
		}
		if !granted {
			continue
		}
		participant.Badges = append(participant.Badges, badge.ID)
		participant.TotalPoints += badge.Bonus
		unlocked = append(unlocked, badge)

		s.metrics.RecordBadgeUnlock(badge.ID)
		s.metrics.RecordPoints(models.PointsReasonBadgeUnlock, badge.Bonus)
		s.logger.Info("badge unlocked",
			zap.String("participant_code", participant.Code),
			zap.String("badge_id", badge.ID),
			zap.Int("bonus", badge.Bonus))
		if s.leaderboard != nil {
			s.leaderboard.Invalidate(ctx)
		}
	}
	return unlocked, nil
}

func (s *BadgeService) qualifies(ctx context.Context, participant *models.Participant, badge models.Badge, facts *badgeFacts) (bool, error) {
	req := badge.Requirement
	switch req.Type {
	case models.RequirementMicroEvalCount:
		return facts.micro.Total >= req.Value, nil
	case models.RequirementEarlyBirdCount:
		return facts.micro.EarlyBird >= req.Value, nil
	case models.RequirementCommentsCount:
		return facts.micro.WithComment >= req.Value, nil
	case models.RequirementAllDone:
		total, err := s.activityCount(ctx, facts)
		if err != nil {
			return false, err
		}
		if facts.micro.Total < total {
			return false, nil
		}
		if facts.hasFinal == nil {
			hasFinal, err := s.stats.HasEvaluation(ctx, participant.Code, models.EvaluationFinal)
			if err != nil {
				return false, err
			}
			facts.hasFinal = &hasFinal
		}
		return *facts.hasFinal, nil
	case models.RequirementLeaderboardTop10:
		// Ranking is read at this point of the pass so earlier unlocks count.
		participants, err := s.participants.ListForRanking(ctx)
		if err != nil {
			return false, err
		}
		rank, total := rankOf(Rank(participants), participant.Code)
		if rank == 0 {
			return false, nil
		}
		return rank <= topPercentCutoff(total, req.Value), nil
	default:
		return false, nil
	}
}

func (s *BadgeService) activityCount(ctx context.Context, facts *badgeFacts) (int, error) {
	if facts.activityCount != nil {
		return *facts.activityCount, nil
	}
	total, err := s.activities.Count(ctx)
	if err != nil {
		return 0, err
	}
	facts.activityCount = &total
	return total, nil
}

// Progress reports the counters behind the countable badges.
func (s *BadgeService) Progress(ctx context.Context, participantCode string) ([]dto.BadgeProgress, error) {
	participant, err := s.loadParticipant(ctx, participantCode)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.MicroStats(ctx, participant.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load micro evaluation stats")
	}
	total, err := s.activities.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count activities")
	}

	progress := func(id string, current, target int) dto.BadgeProgress {
		return dto.BadgeProgress{BadgeID: id, Current: current, Target: target, Unlocked: participant.HasBadge(id)}
	}
	return []dto.BadgeProgress{
		progress(BadgeNetworkBuilder, stats.Total, requirementValue(BadgeNetworkBuilder)),
		progress(BadgeSpeedThinker, stats.EarlyBird, requirementValue(BadgeSpeedThinker)),
		progress(BadgeInsightMaster, stats.WithComment, requirementValue(BadgeInsightMaster)),
		progress(BadgeConferenceChampion, stats.Total, total),
	}, nil
}

func (s *BadgeService) loadParticipant(ctx context.Context, code string) (*models.Participant, error) {
	participant, err := s.participants.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "participant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participant")
	}
	return participant, nil
}

func requirementValue(badgeID string) int {
	for _, badge := range badgeCatalog {
		if badge.ID == badgeID {
			return badge.Requirement.Value
		}
	}
	return 0
}

// topPercentCutoff is the last rank inside the top percent of total participants, rounded up.
func topPercentCutoff(total, percent int) int {
	return (total*percent + 99) / 100
}

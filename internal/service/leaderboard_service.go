package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/dto"
	"github.com/noah-isme/pulse-api/internal/models"
	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
)

const (
	leaderboardCachePattern = "leaderboard:*"
	leaderboardMaxLimit     = 100
	leaderboardTopPercent   = 10
)

// Rank orders participants by points, highest first. Ties keep their input order and ranks start at 1.
func Rank(participants []models.Participant) []models.LeaderboardEntry {
	ordered := make([]models.Participant, len(participants))
	copy(ordered, participants)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TotalPoints > ordered[j].TotalPoints
	})

	entries := make([]models.LeaderboardEntry, len(ordered))
	for i, p := range ordered {
		entry := models.LeaderboardEntry{
			Rank:          i + 1,
			ParticipantID: p.ID,
			Code:          p.Code,
			Points:        p.TotalPoints,
			Badges:        append([]string{}, p.Badges...),
		}
		if p.Name != nil {
			entry.Name = *p.Name
		}
		entries[i] = entry
	}
	return entries
}

// rankOf returns the 1-based rank of code and the number of ranked entries. Rank 0 means absent.
func rankOf(entries []models.LeaderboardEntry, code string) (int, int) {
	for _, entry := range entries {
		if entry.Code == code {
			return entry.Rank, len(entries)
		}
	}
	return 0, len(entries)
}

type rankingSource interface {
	ListForRanking(ctx context.Context) ([]models.Participant, error)
}

type leaderboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// LeaderboardConfig tunes leaderboard reads.
type LeaderboardConfig struct {
	DefaultLimit int
	CacheTTL     time.Duration
}

// LeaderboardService ranks participants on every read, optionally serving the top list from a display cache.
type LeaderboardService struct {
	// generation moves on every Invalidate so a page computed before an award is never written back.
	generation   uint64
	participants rankingSource
	cache        leaderboardCache
	cfg          LeaderboardConfig
	logger       *zap.Logger
}

// NewLeaderboardService constructs a LeaderboardService. cache may be nil.
func NewLeaderboardService(participants rankingSource, cache leaderboardCache, cfg LeaderboardConfig, logger *zap.Logger) *LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 30 * time.Second
	}
	return &LeaderboardService{participants: participants, cache: cache, cfg: cfg, logger: logger}
}

// Top returns the first limit ranked entries and whether they came from the cache.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, bool, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > leaderboardMaxLimit {
		limit = leaderboardMaxLimit
	}

	key := fmt.Sprintf("leaderboard:top:%d", limit)
	if s.cache != nil {
		var cached []models.LeaderboardEntry
		hit, err := s.cache.Get(ctx, key, &cached)
		if err == nil && hit {
			return cached, true, nil
		}
	}

	generation := atomic.LoadUint64(&s.generation)
	entries, err := s.All(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}

	// Awards committed by another instance between the read and this write stay hidden for at most CacheTTL.
	if s.cache != nil && atomic.LoadUint64(&s.generation) == generation {
		_ = s.cache.Set(ctx, key, entries, s.cfg.CacheTTL)
	}
	return entries, false, nil
}

// All ranks every participant straight from the store.
func (s *LeaderboardService) All(ctx context.Context) ([]models.LeaderboardEntry, error) {
	participants, err := s.participants.ListForRanking(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leaderboard")
	}
	return Rank(participants), nil
}

// RankOf reports a participant's position. It never reads the cache.
func (s *LeaderboardService) RankOf(ctx context.Context, participantCode string) (*dto.RankResponse, error) {
	entries, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Code != participantCode {
			continue
		}
		return &dto.RankResponse{
			Code:            entry.Code,
			Rank:            entry.Rank,
			Total:           len(entries),
			Points:          entry.Points,
			IsTopTenPercent: entry.Rank <= topPercentCutoff(len(entries), leaderboardTopPercent),
		}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "participant not ranked")
}

// Invalidate drops cached leaderboard pages after any points award.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	atomic.AddUint64(&s.generation, 1)
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, leaderboardCachePattern); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
	"github.com/noah-isme/pulse-api/pkg/jobs"
)

const (
	badgeSweepJobType = "badge_check"

	// defaultSweepEnqueueTimeout bounds how long a sweep request waits for buffer space.
	defaultSweepEnqueueTimeout = 5 * time.Second
)

type participantCodeLister interface {
	ListCodes(ctx context.Context) ([]string, error)
}

// BadgeSweepResult reports how many participants were queued for a badge re-check. Deferred participants
// did not fit in the queue before the request deadline; they are picked up by the next sweep.
type BadgeSweepResult struct {
	Enqueued int `json:"enqueued"`
	Skipped  int `json:"skipped"`
	Deferred int `json:"deferred"`
}

// BadgeSweeperConfig tunes the sweep worker pool.
type BadgeSweeperConfig struct {
	Workers        int
	MaxRetries     int
	EnqueueTimeout time.Duration
}

// BadgeSweeper re-runs the badge engine for every participant in the background, picking up rank based
// badges whose predicate changed without the participant submitting anything.
type BadgeSweeper struct {
	participants participantCodeLister
	badges       badgeUnlocker
	queue        *jobs.Queue
	timeout      time.Duration
	logger       *zap.Logger
}

// NewBadgeSweeper constructs a sweeper with its own worker pool.
func NewBadgeSweeper(participants participantCodeLister, badges badgeUnlocker, cfg BadgeSweeperConfig, logger *zap.Logger) *BadgeSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = defaultSweepEnqueueTimeout
	}
	s := &BadgeSweeper{participants: participants, badges: badges, timeout: cfg.EnqueueTimeout, logger: logger}
	s.queue = jobs.NewQueue("badge-sweep", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool.
func (s *BadgeSweeper) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *BadgeSweeper) Stop() {
	s.queue.Stop()
}

// Stats exposes the queue counters.
func (s *BadgeSweeper) Stats() jobs.Stats {
	return s.queue.Stats()
}

// Sweep enqueues a badge check for every registered participant. It never waits longer than the enqueue
// timeout or ctx for queue space.
func (s *BadgeSweeper) Sweep(ctx context.Context) (*BadgeSweepResult, error) {
	codes, err := s.participants.ListCodes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list participants")
	}

	enqueueCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result := &BadgeSweepResult{}
	for i, code := range codes {
		err := s.queue.EnqueueContext(enqueueCtx, jobs.Job{ID: uuid.NewString(), Key: code, Type: badgeSweepJobType})
		switch {
		case err == nil:
			result.Enqueued++
		case errors.Is(err, jobs.ErrDuplicate):
			result.Skipped++
		case enqueueCtx.Err() != nil && errors.Is(err, enqueueCtx.Err()):
			result.Deferred = len(codes) - i
			s.logger.Warn("badge sweep cut short", zap.Int("enqueued", result.Enqueued), zap.Int("deferred", result.Deferred), zap.Error(err))
			return result, nil
		default:
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue badge check")
		}
	}
	s.logger.Info("badge sweep enqueued", zap.Int("enqueued", result.Enqueued), zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *BadgeSweeper) handle(ctx context.Context, job jobs.Job) error {
	unlocked, err := s.badges.CheckAndUnlock(ctx, job.Key)
	if err != nil {
		return fmt.Errorf("badge check %s: %w", job.Key, err)
	}
	if len(unlocked) > 0 {
		s.logger.Info("badge sweep unlocked badges", zap.String("participant_code", job.Key), zap.Int("count", len(unlocked)))
	}
	return nil
}

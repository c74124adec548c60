package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pulse-api/internal/models"
	"github.com/noah-isme/pulse-api/pkg/jobs"
)

func TestBadgeSweeperChecksEveryParticipant(t *testing.T) {
	store := newParticipantStoreStub(
		&models.Participant{Code: "AF-1000"},
		&models.Participant{Code: "AF-2000"},
		&models.Participant{Code: "AF-3000"},
	)
	badges := &badgeUnlockerStub{}
	sweeper := NewBadgeSweeper(store, badges, BadgeSweeperConfig{Workers: 2}, nil)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	result, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Enqueued)
	assert.Equal(t, 0, result.Skipped)

	require.Eventually(t, func() bool {
		return sweeper.Stats().Processed == 3
	}, 2*time.Second, 10*time.Millisecond)

	seen := badges.seen()
	sort.Strings(seen)
	assert.Equal(t, []string{"AF-1000", "AF-2000", "AF-3000"}, seen)
	assert.Equal(t, 0, sweeper.Stats().Pending)
}

func TestBadgeSweeperRequiresStart(t *testing.T) {
	store := newParticipantStoreStub(&models.Participant{Code: "AF-1000"})
	sweeper := NewBadgeSweeper(store, &badgeUnlockerStub{}, BadgeSweeperConfig{}, nil)

	_, err := sweeper.Sweep(context.Background())
	assert.Error(t, err)
}

type blockingUnlocker struct {
	release chan struct{}
}

func (b blockingUnlocker) CheckAndUnlock(ctx context.Context, participantCode string) ([]models.Badge, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return nil, nil
}

func TestBadgeSweepBoundedByRequestContext(t *testing.T) {
	participants := make([]*models.Participant, 300)
	for i := range participants {
		participants[i] = &models.Participant{Code: fmt.Sprintf("AF-%04d", 1000+i)}
	}
	store := newParticipantStoreStub(participants...)
	unlocker := blockingUnlocker{release: make(chan struct{})}
	defer close(unlocker.release)

	sweeper := NewBadgeSweeper(store, unlocker, BadgeSweeperConfig{Workers: 2}, nil)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Positive(t, result.Deferred)
	assert.Equal(t, 300, result.Enqueued+result.Skipped+result.Deferred)
	assert.LessOrEqual(t, result.Enqueued, 2+2*64)
}

func TestBadgeSweepEnqueueTimeout(t *testing.T) {
	participants := make([]*models.Participant, 10)
	for i := range participants {
		participants[i] = &models.Participant{Code: fmt.Sprintf("AF-%04d", 2000+i)}
	}
	unlocker := blockingUnlocker{release: make(chan struct{})}
	defer close(unlocker.release)

	sweeper := NewBadgeSweeper(newParticipantStoreStub(participants...), unlocker, BadgeSweeperConfig{Workers: 1, EnqueueTimeout: 100 * time.Millisecond}, nil)
	sweeper.queue = jobs.NewQueue("badge-sweep", sweeper.handle, jobs.QueueConfig{Workers: 1, BufferSize: 2})
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	result, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Enqueued)
	assert.Equal(t, 7, result.Deferred)
}

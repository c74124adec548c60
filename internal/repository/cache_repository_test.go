package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/pulse-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "pulse:", nil)
	ctx := context.Background()

	var dest []string
	assert.ErrorIs(t, repo.Get(ctx, "leaderboard:10", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "leaderboard:10", []string{"AF-1000"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "leaderboard:*"))
	assert.NoError(t, repo.Close())
	assert.Equal(t, "pulse:leaderboard:10", repo.key("leaderboard:10"))
}

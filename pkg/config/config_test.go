package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 10, cfg.Scoring.MicroEvalPoints)
	assert.Equal(t, 5, cfg.Scoring.OptionalCommentPoints)
	assert.Equal(t, 15, cfg.Scoring.EarlyBirdPoints)
	assert.Equal(t, 10*time.Minute, cfg.Scoring.EarlyBirdWindow)
	assert.Equal(t, 50, cfg.Scoring.FinalEvalPoints)
	assert.Equal(t, 10, cfg.Leaderboard.DefaultLimit)
	assert.Equal(t, 5*time.Second, cfg.Badges.SweepEnqueueTimeout)
	assert.Empty(t, cfg.Auth.AdminCodes)
}

func TestLoadReadsEnvironment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ADMIN_CODES", "AF-1000, AF-2000 ,")
	t.Setenv("EARLY_BIRD_WINDOW", "5m")
	t.Setenv("POINTS_FINAL_EVAL", "70")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"AF-1000", "AF-2000"}, cfg.Auth.AdminCodes)
	assert.Equal(t, 5*time.Minute, cfg.Scoring.EarlyBirdWindow)
	assert.Equal(t, 70, cfg.Scoring.FinalEvalPoints)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "fantasy-cricket-api", cfg.ServiceName)
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 15*time.Minute, cfg.JobMatchSyncInterval)
	require.Equal(t, time.Minute, cfg.JobLiveSyncInterval)
	require.Equal(t, 4, cfg.JobRecomputeWorkers)
	require.Equal(t, logging.LevelInfo, cfg.LogLevel)
	require.True(t, cfg.CricketDataCircuitEnabled)
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_CricketDataRequiresTokenWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CRICKETDATA_ENABLED", "true")
	t.Setenv("CRICKETDATA_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_JobIntervalParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JOB_MATCH_SYNC_INTERVAL", "30m")
	t.Setenv("JOB_LIVE_SYNC_INTERVAL", "45s")
	t.Setenv("JOB_RECOMPUTE_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 30*time.Minute, cfg.JobMatchSyncInterval)
	require.Equal(t, 45*time.Second, cfg.JobLiveSyncInterval)
	require.Equal(t, 8, cfg.JobRecomputeWorkers)
}

func TestLoad_RejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("JOB_LIVE_SYNC_INTERVAL", "-1m")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, logging.LevelWarn, cfg.LogLevel)
}

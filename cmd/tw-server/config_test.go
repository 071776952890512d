package main

import (
	"os"
	"path/filepath"
	"testing"
	"trackwrestling-backend/lib/configutil"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"
	"trackwrestling-backend/services/matchwatch"

	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path, []byte(`{
		port: 9000,
		watch: {
			tournaments: [{ type: "open", id: 42 }],
			webhook_url: "http://localhost/hook",
		},
	}`), 0600)
	require.NoError(t, err)

	cfg, err := configutil.ReadConfigWithDefaults(path, defaultConfig)
	require.NoError(t, err)

	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, defaultConfig.BaseUrl, cfg.BaseUrl)
	require.Equal(t, float64(2), cfg.RequestsPerSecond)
	require.Equal(t, matchwatch.DefaultSchedule, cfg.Watch.Schedule)
	require.Equal(t, []matchwatch.Target{{EventType: tw.EventOpen, ID: 42}}, cfg.Watch.Tournaments)
	require.Len(t, cfg.Watch.notifier(), 1)
}

func TestMissingConfigUsesDefaults(t *testing.T) {
	cfg, err := configutil.ReadConfigWithDefaults(filepath.Join(t.TempDir(), "config.json5"), defaultConfig)
	require.NoError(t, err)
	require.Equal(t, defaultConfig.Port, cfg.Port)
	require.Empty(t, cfg.Watch.notifier())
}

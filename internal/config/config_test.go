package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/history-events/internal/config"
	"github.com/pfrederiksen/history-events/internal/crawler"
)

func TestLoadCrawlDefaults(t *testing.T) {
	t.Setenv("HISTORY_EVENTS_FILE", "")
	t.Setenv("HISTORY_EVENTS_DELAY", "")
	t.Setenv("HISTORY_EVENTS_PACING", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := config.LoadCrawl()
	require.NoError(t, err)

	require.Equal(t, "historical_events.json", cfg.OutputPath)
	require.Equal(t, time.Second, cfg.Delay)
	require.Equal(t, config.PacingConstant, cfg.Pacing)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadCrawlOverrides(t *testing.T) {
	t.Setenv("HISTORY_EVENTS_FILE", "/tmp/out.json")
	t.Setenv("HISTORY_EVENTS_DELAY", "250ms")
	t.Setenv("HISTORY_EVENTS_PACING", "Interval")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.LoadCrawl()
	require.NoError(t, err)

	require.Equal(t, "/tmp/out.json", cfg.OutputPath)
	require.Equal(t, 250*time.Millisecond, cfg.Delay)
	require.Equal(t, config.PacingInterval, cfg.Pacing)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadCrawlInvalidDelayFallsBack(t *testing.T) {
	t.Setenv("HISTORY_EVENTS_DELAY", "soon")
	t.Setenv("HISTORY_EVENTS_PACING", "")

	cfg, err := config.LoadCrawl()
	require.NoError(t, err)
	require.Equal(t, time.Second, cfg.Delay)
}

func TestLoadCrawlValidation(t *testing.T) {
	t.Run("unknown pacing", func(t *testing.T) {
		t.Setenv("HISTORY_EVENTS_PACING", "adaptive")
		_, err := config.LoadCrawl()
		require.Error(t, err)
	})

	t.Run("negative delay", func(t *testing.T) {
		t.Setenv("HISTORY_EVENTS_PACING", "")
		t.Setenv("HISTORY_EVENTS_DELAY", "-1s")
		_, err := config.LoadCrawl()
		require.Error(t, err)
	})
}

func TestLoadServe(t *testing.T) {
	t.Setenv("HISTORY_EVENTS_FILE", "")
	t.Setenv("HISTORY_EVENTS_ADDR", "")
	t.Setenv("PORT", "")

	cfg, err := config.LoadServe()
	require.NoError(t, err)
	require.Equal(t, "historical_events.json", cfg.DataPath)
	require.Equal(t, ":3000", cfg.BindAddr)

	t.Setenv("PORT", "8081")
	cfg, err = config.LoadServe()
	require.NoError(t, err)
	require.Equal(t, ":8081", cfg.BindAddr)

	t.Setenv("HISTORY_EVENTS_ADDR", "127.0.0.1:9000")
	cfg, err = config.LoadServe()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.BindAddr)
}

func TestNewPacer(t *testing.T) {
	p, err := config.NewPacer(config.PacingConstant, time.Second)
	require.NoError(t, err)
	require.Equal(t, crawler.ConstantDelay(time.Second), p)

	p, err = config.NewPacer(config.PacingInterval, time.Second)
	require.NoError(t, err)
	require.NotNil(t, p)

	p, err = config.NewPacer(config.PacingInterval, 0)
	require.NoError(t, err)
	require.Equal(t, crawler.NoDelay(), p)

	_, err = config.NewPacer("jitter", time.Second)
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HISTORY_EVENTS_TEST_VALUE=from-file\n"), 0644))

	t.Setenv("HISTORY_EVENTS_TEST_VALUE", "")
	os.Unsetenv("HISTORY_EVENTS_TEST_VALUE")

	require.NoError(t, config.LoadDotEnv(path))
	require.Equal(t, "from-file", os.Getenv("HISTORY_EVENTS_TEST_VALUE"))

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env")))
}

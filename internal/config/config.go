// Package config resolves runtime defaults from the environment.
//
// Values set on the command line always win; the environment only changes the
// defaults the CLI starts from. A .env file in the working directory is read
// first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pfrederiksen/history-events/internal/crawler"
	"github.com/pfrederiksen/history-events/internal/storage"
)

const (
	PacingConstant = "constant"
	PacingInterval = "interval"

	defaultPort = 3000
)

// Crawl holds defaults for the crawl command. LogLevel also applies to serve.
type Crawl struct {
	OutputPath string
	Delay      time.Duration
	Pacing     string
	LogLevel   string
}

// Serve holds defaults for the serve command.
type Serve struct {
	DataPath string
	BindAddr string
}

// LoadDotEnv reads .env into the process environment if the file exists.
// Variables already set are left alone.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// LoadCrawl builds crawl defaults from environment variables.
func LoadCrawl() (*Crawl, error) {
	c := &Crawl{
		OutputPath: getEnv("HISTORY_EVENTS_FILE", storage.DefaultPath),
		Delay:      getDuration("HISTORY_EVENTS_DELAY", crawler.DefaultDelay.String()),
		Pacing:     strings.ToLower(getEnv("HISTORY_EVENTS_PACING", PacingConstant)),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	if err := ValidatePacing(c.Pacing); err != nil {
		return nil, fmt.Errorf("HISTORY_EVENTS_PACING: %w", err)
	}
	if c.Delay < 0 {
		return nil, fmt.Errorf("HISTORY_EVENTS_DELAY cannot be negative")
	}

	return c, nil
}

// LoadServe builds serve defaults from environment variables.
func LoadServe() (*Serve, error) {
	c := &Serve{
		DataPath: getEnv("HISTORY_EVENTS_FILE", storage.DefaultPath),
		BindAddr: getEnv("HISTORY_EVENTS_ADDR", fmt.Sprintf(":%d", getInt("PORT", defaultPort))),
	}

	if strings.TrimSpace(c.BindAddr) == "" {
		return nil, fmt.Errorf("HISTORY_EVENTS_ADDR cannot be blank")
	}

	return c, nil
}

// ValidatePacing checks a pacing strategy name.
func ValidatePacing(pacing string) error {
	switch pacing {
	case PacingConstant, PacingInterval:
		return nil
	default:
		return fmt.Errorf("invalid pacing %q (must be %q or %q)", pacing, PacingConstant, PacingInterval)
	}
}

// NewPacer returns the crawler pacer for a strategy name and delay.
func NewPacer(pacing string, delay time.Duration) (crawler.Pacer, error) {
	if err := ValidatePacing(pacing); err != nil {
		return nil, err
	}
	if delay <= 0 {
		return crawler.NoDelay(), nil
	}
	if pacing == PacingInterval {
		return crawler.IntervalPacer(delay), nil
	}
	return crawler.ConstantDelay(delay), nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

package testsupport

import (
	"path/filepath"
	"testing"

	"cinefill/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp paths per test. It
// defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TMDB.BearerToken = "test-token"
	cfg.Paths.CatalogPath = filepath.Join(base, "movie_data.json")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.RunLogPath = filepath.Join(base, "logs", "runs.db")
	cfg.Scraper.MinRequestIntervalMS = 0
	cfg.Scraper.BackoffBaseMS = 1
	cfg.Scraper.BackoffMaxMS = 5

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBearerToken sets the TMDB bearer token on the test config.
func WithBearerToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.TMDB.BearerToken = token
	}
}

// WithRatingsBaseURL points the ratings scraper at a test server.
func WithRatingsBaseURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ratings.BaseURL = url
	}
}

// WithTrailerSearchURL points the trailer search at a test server.
func WithTrailerSearchURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Trailers.SearchURL = url
	}
}

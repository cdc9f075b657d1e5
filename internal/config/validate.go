package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScraper(); err != nil {
		return err
	}
	if err := c.validateRatings(); err != nil {
		return err
	}
	if err := c.validateTrailers(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateScraper() error {
	s := c.Scraper
	if s.RequestTimeoutSeconds <= 0 {
		return errors.New("scraper.request_timeout must be positive")
	}
	if s.MinRequestIntervalMS < 0 {
		return errors.New("scraper.min_request_interval_ms must not be negative")
	}
	if s.ThrottleRetries < 1 {
		return errors.New("scraper.throttle_retries must be at least 1")
	}
	if s.TransientRetries < 1 {
		return errors.New("scraper.transient_retries must be at least 1")
	}
	if s.BackoffBaseMS <= 0 {
		return errors.New("scraper.backoff_base_ms must be positive")
	}
	if s.BackoffMaxMS < s.BackoffBaseMS {
		return errors.New("scraper.backoff_max_ms must not be below scraper.backoff_base_ms")
	}
	return nil
}

func (c *Config) validateRatings() error {
	if c.Ratings.BaseURL == "" {
		return errors.New("ratings.base_url must be set")
	}
	if c.Ratings.Workers < 1 {
		c.Ratings.Workers = defaultRatingsWorkers
	}
	return nil
}

func (c *Config) validateTrailers() error {
	if c.Trailers.SearchURL == "" {
		return errors.New("trailers.search_url must be set")
	}
	if c.Trailers.Workers < 1 {
		c.Trailers.Workers = defaultTrailerWorkers
	}
	if c.Trailers.MaxResults < 1 {
		c.Trailers.MaxResults = defaultTrailerMaxResults
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.BaseURL == "" {
		return errors.New("tmdb.base_url must be set")
	}
	if c.TMDB.Workers < 1 {
		c.TMDB.Workers = defaultTMDBWorkers
	}
	return nil
}

// RequireTMDBToken reports an actionable error when the TMDB bearer token is
// missing. Only the sync path calls this; scraping commands run without it.
func (c *Config) RequireTMDBToken() error {
	if c.TMDB.BearerToken != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/cinefill/config.toml"
	}
	return fmt.Errorf("tmdb.bearer_token is required for sync. Set TMDB_BEARER_TOKEN (a .env file works) or edit %s (create with 'cinefill config init')", defaultPath)
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory configuration.
type Paths struct {
	CatalogPath string `toml:"catalog_path"`
	LogDir      string `toml:"log_dir"`
	RunLogPath  string `toml:"run_log_path"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	BearerToken string `toml:"bearer_token"`
	BaseURL     string `toml:"base_url"`
	Language    string `toml:"language"`
	Region      string `toml:"region"`
	Workers     int    `toml:"workers"`
}

// Scraper contains the shared fetch policy for scraped sources.
type Scraper struct {
	RequestTimeoutSeconds int `toml:"request_timeout"`
	MinRequestIntervalMS  int `toml:"min_request_interval_ms"`
	ThrottleRetries       int `toml:"throttle_retries"`
	TransientRetries      int `toml:"transient_retries"`
	BackoffBaseMS         int `toml:"backoff_base_ms"`
	BackoffMaxMS          int `toml:"backoff_max_ms"`
}

// RequestTimeout returns the per-request timeout as a duration.
func (s Scraper) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// MinRequestInterval returns the process-wide request spacing as a duration.
func (s Scraper) MinRequestInterval() time.Duration {
	return time.Duration(s.MinRequestIntervalMS) * time.Millisecond
}

// BackoffBase returns the base backoff delay as a duration.
func (s Scraper) BackoffBase() time.Duration {
	return time.Duration(s.BackoffBaseMS) * time.Millisecond
}

// BackoffMax returns the backoff cap as a duration.
func (s Scraper) BackoffMax() time.Duration {
	return time.Duration(s.BackoffMaxMS) * time.Millisecond
}

// Ratings contains configuration for the review-aggregator scraper.
type Ratings struct {
	BaseURL string `toml:"base_url"`
	Workers int    `toml:"workers"`
}

// Trailers contains configuration for the trailer search scraper.
type Trailers struct {
	SearchURL       string  `toml:"search_url"`
	Workers         int     `toml:"workers"`
	MaxResults      int     `toml:"max_results"`
	AcceptThreshold float64 `toml:"accept_threshold"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cinefill.
//
// Configuration sections by subsystem:
//   - Paths: catalog file, log directory, run-log database
//   - TMDB: upstream catalog API (sync command)
//   - Scraper: shared fetch/retry/backoff policy for scraped sources
//   - Ratings: review-aggregator scraping
//   - Trailers: trailer search scraping
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	TMDB     TMDB     `toml:"tmdb"`
	Scraper  Scraper  `toml:"scraper"`
	Ratings  Ratings  `toml:"ratings"`
	Trailers Trailers `toml:"trailers"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cinefill/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was found; defaults are used when it is absent.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cinefill.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.CatalogPath, err = expandPath(valueOr(c.Paths.CatalogPath, defaultCatalogPath)); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(valueOr(c.Paths.LogDir, defaultLogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if trimmed := strings.TrimSpace(c.Paths.RunLogPath); trimmed != "" {
		if c.Paths.RunLogPath, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("paths.run_log_path: %w", err)
		}
	} else {
		c.Paths.RunLogPath = ""
	}

	if c.TMDB.BearerToken == "" {
		c.TMDB.BearerToken = strings.TrimSpace(os.Getenv("TMDB_BEARER_TOKEN"))
	}
	c.TMDB.BaseURL = strings.TrimRight(valueOr(c.TMDB.BaseURL, defaultTMDBBaseURL), "/")
	c.TMDB.Language = valueOr(c.TMDB.Language, defaultTMDBLanguage)
	c.TMDB.Region = valueOr(c.TMDB.Region, defaultTMDBRegion)

	c.Ratings.BaseURL = valueOr(c.Ratings.BaseURL, defaultRatingsBaseURL)
	c.Trailers.SearchURL = valueOr(c.Trailers.SearchURL, defaultTrailerSearchURL)

	c.Logging.Format = strings.ToLower(valueOr(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(valueOr(c.Logging.Level, defaultLogLevel))
	return nil
}

// EnsureDirectories creates the directories cinefill writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.CatalogPath)}
	if c.Paths.RunLogPath != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.RunLogPath))
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

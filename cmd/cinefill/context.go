package main

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"cinefill/internal/config"
	"cinefill/internal/logging"
)

// commandContext carries lazily loaded configuration and the shared logger
// across subcommands.
type commandContext struct {
	configFlag *string
	cfg        *config.Config
	configPath string
	fromFile   bool
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads configuration once per invocation. A .env file in the
// working directory is honored before the config reads environment values.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	// Missing .env is the normal case; only report real read failures.
	_ = godotenv.Load()

	flagPath := ""
	if c.configFlag != nil {
		flagPath = *c.configFlag
	}
	cfg, path, fromFile, err := config.Load(flagPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.configPath = path
	c.fromFile = fromFile
	return cfg, nil
}

// ensureLogger builds the shared logger from the loaded configuration.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, err
	}
	c.logger = logger
	return logger, nil
}

// runLogPath returns the ledger location, defaulting next to the logs.
func (c *commandContext) runLogPath() (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.Paths.RunLogPath != "" {
		return cfg.Paths.RunLogPath, nil
	}
	if cfg.Paths.LogDir == "" {
		return "", errors.New("paths.log_dir required for the run log")
	}
	return filepath.Join(cfg.Paths.LogDir, "runs.db"), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for current := cmd; current != nil; current = current.Parent() {
		if current.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// Package config loads, normalizes, and validates cinefill configuration.
//
// Configuration lives in a TOML file (~/.config/cinefill/config.toml by
// default, or ./cinefill.toml for project-local runs). Every scraping knob the
// engine honors (worker counts, retry caps, backoff bounds, the minimum
// inter-request interval) flows through this package so heuristics stay data
// rather than inline literals.
//
// The TMDB bearer token may come from the environment (TMDB_BEARER_TOKEN,
// optionally via a .env file) instead of the config file; only the sync
// command requires it.
package config

// Package logging assembles the structured slog loggers used across cinefill.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers so engine code tags log lines with
// the same keys everywhere (component, run id, record id, candidate). The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging

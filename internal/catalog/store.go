package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"cinefill/internal/logging"
)

// Store reads and writes the catalog document at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
	lock   *flock.Flock
}

// NewStore creates a store for the catalog file at path.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("catalog path required")
	}
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "catalog"),
		lock:   flock.New(path + ".lock"),
	}, nil
}

// Path returns the catalog file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the catalog document. A missing file yields an empty document
// rather than an error so first runs can start from nothing.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("catalog file absent, starting empty", logging.String("path", s.path))
			return &Document{}, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &doc, nil
}

// Save writes the document atomically, stamping total_count and last_updated.
// An advisory lock serializes writers across processes.
func (s *Store) Save(doc *Document) error {
	if doc == nil {
		return errors.New("nil catalog document")
	}
	doc.TotalCount = len(doc.Movies)
	doc.LastUpdated = time.Now().Format(TimestampLayout)

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock catalog: %w", err)
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release catalog lock", logging.Error(err))
		}
	}()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp catalog: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace catalog: %w", err)
	}

	s.logger.Info("catalog saved",
		logging.String("path", s.path),
		logging.Int("movies", len(doc.Movies)))
	return nil
}

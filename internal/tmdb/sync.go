package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"cinefill/internal/catalog"
	"cinefill/internal/logging"
)

// SyncConfig holds the sync pass knobs.
type SyncConfig struct {
	Workers int
	// MaxPagesPerProvider bounds discovery depth; TMDB orders pages by
	// popularity so the tail adds little.
	MaxPagesPerProvider int
	Region              string
	Logger              *slog.Logger
	// Progress receives the running detail-fetch count, from worker
	// goroutines.
	Progress func(done, total int)
}

// SyncStats summarizes one sync pass.
type SyncStats struct {
	Discovered int
	Added      int
	Updated    int
	Failed     int
}

// Syncer pulls provider catalogs from TMDB and merges them into the local
// catalog document.
type Syncer struct {
	client   *Client
	cfg      SyncConfig
	logger   *slog.Logger
	progress func(done, total int)
}

// NewSyncer creates a syncer over client.
func NewSyncer(client *Client, cfg SyncConfig) *Syncer {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxPagesPerProvider < 1 {
		cfg.MaxPagesPerProvider = 5
	}
	if cfg.Region == "" {
		cfg.Region = "US"
	}
	return &Syncer{
		client:   client,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(cfg.Logger, "tmdb"),
		progress: cfg.Progress,
	}
}

// discovered tracks one movie across providers, keeping first-seen order so
// the merged catalog is deterministic for a given API state.
type discovered struct {
	id        int64
	order     int
	providers []Provider
}

// Sync discovers every provider's catalog and merges it into doc. New movies
// get full detail records; known movies get refreshed popularity and any
// missing streaming entries. Per-movie detail failures are logged and
// counted, not fatal; the pass only aborts on context cancellation.
func (s *Syncer) Sync(ctx context.Context, doc *catalog.Document) (SyncStats, error) {
	var stats SyncStats

	seen := make(map[int64]*discovered)
	var ordered []*discovered
	for _, provider := range Providers {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		count, err := s.discoverProvider(ctx, provider, seen, &ordered)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			s.logger.Warn("provider discovery failed",
				logging.String("provider", provider.Name),
				logging.Error(err))
			stats.Failed++
			continue
		}
		s.logger.Info("provider discovered",
			logging.String("provider", provider.Name),
			logging.Int("movies", count))
	}
	stats.Discovered = len(ordered)

	existing := doc.ByID()
	var missing []*discovered
	for _, d := range ordered {
		if record, ok := existing[d.id]; ok {
			if s.refresh(record, d) {
				stats.Updated++
			}
			continue
		}
		missing = append(missing, d)
	}

	added, failed := s.fetchDetails(ctx, doc, missing)
	stats.Added = added
	stats.Failed += failed
	if ctx.Err() != nil {
		return stats, ctx.Err()
	}
	return stats, nil
}

func (s *Syncer) discoverProvider(ctx context.Context, provider Provider, seen map[int64]*discovered, ordered *[]*discovered) (int, error) {
	count := 0
	for page := 1; page <= s.cfg.MaxPagesPerProvider; page++ {
		resp, err := s.client.DiscoverByProvider(ctx, provider.ID, page)
		if err != nil {
			return count, err
		}
		if len(resp.Results) == 0 {
			break
		}
		for _, result := range resp.Results {
			count++
			if d, ok := seen[result.ID]; ok {
				d.providers = append(d.providers, provider)
				continue
			}
			d := &discovered{id: result.ID, order: len(*ordered), providers: []Provider{provider}}
			seen[result.ID] = d
			*ordered = append(*ordered, d)
		}
		if page >= resp.TotalPages {
			break
		}
	}
	return count, nil
}

// refresh updates a known record in place: streaming entries for newly seen
// providers are appended; everything already resolved is left alone.
func (s *Syncer) refresh(record *catalog.Record, d *discovered) bool {
	changed := false
	for _, provider := range d.providers {
		if hasService(record.Streaming, provider.Name) {
			continue
		}
		record.Streaming = append(record.Streaming, streamingEntry(record.ID, provider, s.cfg.Region))
		changed = true
	}
	return changed
}

func (s *Syncer) fetchDetails(ctx context.Context, doc *catalog.Document, missing []*discovered) (added, failed int) {
	if len(missing) == 0 {
		return 0, 0
	}

	records := make([]*catalog.Record, len(missing))
	jobs := make(chan int)
	var done sync.WaitGroup
	var failures, finished atomic.Int64
	for i := 0; i < s.cfg.Workers; i++ {
		done.Add(1)
		go func() {
			defer done.Done()
			for idx := range jobs {
				d := missing[idx]
				movie, err := s.client.MovieDetails(ctx, d.id)
				if err != nil {
					failures.Add(1)
					s.logger.Warn("detail fetch failed",
						logging.Int64(logging.FieldRecordID, d.id),
						logging.Error(err))
				} else {
					record := BuildRecord(movie, s.cfg.Region)
					for _, provider := range d.providers {
						record.Streaming = append(record.Streaming, streamingEntry(record.ID, provider, s.cfg.Region))
					}
					records[idx] = record
				}
				if s.progress != nil {
					s.progress(int(finished.Add(1)), len(missing))
				}
			}
		}()
	}

dispatch:
	for idx := range missing {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- idx:
		}
	}
	close(jobs)
	done.Wait()

	// Slots keep discovery order; failed or undispatched slots stay nil.
	for _, record := range records {
		if record != nil {
			doc.Movies = append(doc.Movies, record)
			added++
		}
	}
	return added, int(failures.Load())
}

func streamingEntry(movieID int64, provider Provider, region string) catalog.Streaming {
	return catalog.Streaming{
		Service: provider.Name,
		Region:  region,
		Link:    fmt.Sprintf("https://www.themoviedb.org/movie/%d/watch?locale=%s", movieID, region),
	}
}

func hasService(entries []catalog.Streaming, service string) bool {
	for _, entry := range entries {
		if entry.Service == service {
			return true
		}
	}
	return false
}

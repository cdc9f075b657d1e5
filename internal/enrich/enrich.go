package enrich

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"cinefill/internal/catalog"
	"cinefill/internal/logging"
	"cinefill/internal/ratings"
)

// Status is the terminal state of one record in a pass.
type Status string

const (
	// StatusResolved means the source produced a value for the record. The
	// record may still be unchanged if the merge found nothing to upgrade.
	StatusResolved Status = "resolved"
	// StatusUnresolved means every candidate or query missed.
	StatusUnresolved Status = "unresolved"
	// StatusSkipped means the record had no usable title and year, or was
	// already fully enriched for this pass.
	StatusSkipped Status = "skipped"
)

// RecordOutcome is emitted once per record for ledger observers.
type RecordOutcome struct {
	RecordID int64
	Title    string
	Status   Status
	Changed  bool
}

// ScoreSource resolves review scores; *ratings.Resolver satisfies it.
type ScoreSource interface {
	Resolve(ctx context.Context, title string, year int) (ratings.Scores, bool)
}

// TrailerSource resolves a trailer link; *trailers.Resolver satisfies it.
type TrailerSource interface {
	Resolve(ctx context.Context, title string, year int) (string, bool)
}

// Stats summarizes one pass.
type Stats struct {
	Total      int
	Processed  int
	Enriched   int
	Unresolved int
	Skipped    int
}

// Config holds pool sizing and the optional hooks.
type Config struct {
	Workers int
	Logger  *slog.Logger
	// Observer receives one outcome per record, from worker goroutines.
	Observer func(RecordOutcome)
	// Progress receives the running done count out of total, from worker
	// goroutines.
	Progress func(done, total int)
}

// Enricher runs enrichment passes over a catalog.
type Enricher struct {
	workers  int
	logger   *slog.Logger
	observer func(RecordOutcome)
	progress func(done, total int)
}

// New creates an enricher. Workers below one fall back to a single worker.
func New(cfg Config) *Enricher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Enricher{
		workers:  cfg.Workers,
		logger:   logging.NewComponentLogger(cfg.Logger, "enrich"),
		observer: cfg.Observer,
		progress: cfg.Progress,
	}
}

// EnrichRatings resolves review scores for every record missing them.
func (e *Enricher) EnrichRatings(ctx context.Context, doc *catalog.Document, source ScoreSource) Stats {
	return e.run(ctx, doc, func(ctx context.Context, record *catalog.Record) (Status, bool) {
		if record.HasScores() {
			return StatusSkipped, false
		}
		title, year := record.Title, record.Year()
		if title == "" || year == 0 {
			return StatusSkipped, false
		}
		scores, ok := source.Resolve(ctx, title, year)
		if !ok {
			return StatusUnresolved, false
		}
		return StatusResolved, record.ApplyScores(scores.Tomatometer, scores.Audience)
	})
}

// EnrichTrailers resolves trailer links for every record missing one.
func (e *Enricher) EnrichTrailers(ctx context.Context, doc *catalog.Document, source TrailerSource) Stats {
	return e.run(ctx, doc, func(ctx context.Context, record *catalog.Record) (Status, bool) {
		if record.HasTrailer() {
			return StatusSkipped, false
		}
		title, year := record.Title, record.Year()
		if title == "" || year == 0 {
			return StatusSkipped, false
		}
		url, ok := source.Resolve(ctx, title, year)
		if !ok {
			return StatusUnresolved, false
		}
		return StatusResolved, record.ApplyTrailer(url)
	})
}

type task func(ctx context.Context, record *catalog.Record) (Status, bool)

// run dispatches every record to the pool and waits for the pool to drain.
// Each record reaches exactly one worker, so record mutation needs no lock;
// only the counters are shared.
func (e *Enricher) run(ctx context.Context, doc *catalog.Document, work task) Stats {
	total := len(doc.Movies)
	jobs := make(chan *catalog.Record)

	var done, processed, enriched, unresolved, skipped atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				status, changed := work(ctx, record)
				switch status {
				case StatusSkipped:
					skipped.Add(1)
				case StatusUnresolved:
					processed.Add(1)
					unresolved.Add(1)
				case StatusResolved:
					processed.Add(1)
					if changed {
						enriched.Add(1)
					}
				}
				if e.observer != nil {
					e.observer(RecordOutcome{
						RecordID: record.ID,
						Title:    record.Title,
						Status:   status,
						Changed:  changed,
					})
				}
				if e.progress != nil {
					e.progress(int(done.Add(1)), total)
				}
			}
		}()
	}

dispatch:
	for _, record := range doc.Movies {
		if record == nil {
			skipped.Add(1)
			done.Add(1)
			continue
		}
		select {
		case <-ctx.Done():
			e.logger.Info("pass cancelled, draining workers",
				logging.Int("dispatched", int(done.Load())))
			break dispatch
		case jobs <- record:
		}
	}
	close(jobs)
	wg.Wait()

	stats := Stats{
		Total:      total,
		Processed:  int(processed.Load()),
		Enriched:   int(enriched.Load()),
		Unresolved: int(unresolved.Load()),
		Skipped:    int(skipped.Load()),
	}
	e.logger.Info("pass complete",
		logging.Int("total", stats.Total),
		logging.Int("processed", stats.Processed),
		logging.Int("enriched", stats.Enriched),
		logging.Int("unresolved", stats.Unresolved),
		logging.Int("skipped", stats.Skipped))
	return stats
}

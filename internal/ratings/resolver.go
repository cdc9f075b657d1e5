package ratings

import (
	"context"
	"log/slog"
	"strings"

	"cinefill/internal/logging"
	"cinefill/internal/scrape"
)

// Fetcher is the fetch surface the resolver needs; *scrape.Client satisfies
// it.
type Fetcher interface {
	FetchWithRetry(ctx context.Context, target string) scrape.Outcome
}

// Resolver walks a record's candidate slugs until one page yields scores.
type Resolver struct {
	fetcher Fetcher
	gen     Generator
	baseURL string
	logger  *slog.Logger
}

// NewResolver creates a resolver rooted at baseURL, typically the
// aggregator's /m/ prefix.
func NewResolver(fetcher Fetcher, gen Generator, baseURL string, logger *slog.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		gen:     gen,
		baseURL: strings.TrimRight(baseURL, "/") + "/",
		logger:  logging.NewComponentLogger(logger, "ratings"),
	}
}

// Resolve tries each candidate in rank order and returns the first non-empty
// score pair. Not-found candidates fall through to the next guess; fetch
// failures are absorbed the same way so one bad candidate never sinks the
// record. The boolean reports whether anything was found.
func (r *Resolver) Resolve(ctx context.Context, title string, year int) (Scores, bool) {
	for _, candidate := range r.gen.Generate(title, year) {
		if ctx.Err() != nil {
			return Scores{}, false
		}
		target := r.baseURL + candidate.Slug
		outcome := r.fetcher.FetchWithRetry(ctx, target)
		if !outcome.OK() {
			r.logger.Debug("candidate miss",
				logging.String(logging.FieldCandidate, candidate.Slug),
				logging.String(logging.FieldOutcome, string(outcome.Kind)))
			continue
		}
		if scores := Extract(outcome.Body); !scores.Empty() {
			r.logger.Debug("scores resolved",
				logging.String(logging.FieldCandidate, candidate.Slug),
				logging.Int("tomatometer", scores.Tomatometer),
				logging.Int("audience", scores.Audience))
			return scores, true
		}
	}
	return Scores{}, false
}

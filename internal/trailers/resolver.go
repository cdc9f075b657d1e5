package trailers

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"cinefill/internal/logging"
	"cinefill/internal/scrape"
)

// Fetcher is the fetch surface the resolver needs; *scrape.Client satisfies
// it.
type Fetcher interface {
	FetchWithRetry(ctx context.Context, target string) scrape.Outcome
}

// Resolver turns a (title, year) pair into an accepted trailer link.
type Resolver struct {
	fetcher    Fetcher
	searchURL  string
	maxResults int
	rules      ScoringRules
	threshold  float64
	logger     *slog.Logger
}

// NewResolver creates a resolver against searchURL, typically the video
// site's /results endpoint. maxResults bounds how many hits are ranked per
// page; threshold is the minimum winning score.
func NewResolver(fetcher Fetcher, searchURL string, maxResults int, threshold float64, logger *slog.Logger) *Resolver {
	if maxResults <= 0 {
		maxResults = 10
	}
	return &Resolver{
		fetcher:    fetcher,
		searchURL:  strings.TrimRight(searchURL, "/"),
		maxResults: maxResults,
		rules:      DefaultScoringRules(),
		threshold:  threshold,
		logger:     logging.NewComponentLogger(logger, "trailers"),
	}
}

// SearchTarget builds the search URL for a record. One record maps to exactly
// one query.
func (r *Resolver) SearchTarget(title string, year int) string {
	query := title + " " + strconv.Itoa(year) + " official trailer"
	return r.searchURL + "?search_query=" + url.QueryEscape(query)
}

// Resolve fetches the search page and returns the accepted trailer URL. A
// miss at any stage, fetch failure, no extractable hits, or no hit clearing
// the threshold, reports false.
func (r *Resolver) Resolve(ctx context.Context, title string, year int) (string, bool) {
	title = strings.TrimSpace(title)
	if title == "" || year <= 0 {
		return "", false
	}
	outcome := r.fetcher.FetchWithRetry(ctx, r.SearchTarget(title, year))
	if !outcome.OK() {
		r.logger.Debug("search fetch miss",
			logging.String("title", title),
			logging.String(logging.FieldOutcome, string(outcome.Kind)))
		return "", false
	}
	results := Extract(outcome.Body, r.maxResults)
	if len(results) == 0 {
		r.logger.Debug("no hits on search page", logging.String("title", title))
		return "", false
	}
	best, ok := Rank(results, title, r.rules, r.threshold)
	if !ok {
		r.logger.Debug("no hit cleared threshold",
			logging.String("title", title),
			logging.Int("hits", len(results)))
		return "", false
	}
	r.logger.Debug("trailer resolved",
		logging.String("title", title),
		logging.String("video_id", best.VideoID))
	return best.URL(), true
}

package ratings_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"cinefill/internal/logging"
	"cinefill/internal/ratings"
	"cinefill/internal/scrape"
)

func testClient() *scrape.Client {
	policy := scrape.Policy{
		RequestTimeout:   2 * time.Second,
		ThrottleRetries:  2,
		TransientRetries: 1,
		BackoffBase:      time.Millisecond,
		BackoffMax:       2 * time.Millisecond,
	}
	return scrape.NewClient(policy, scrape.NewPacer(0), logging.NewNop())
}

const scoredPage = `<html><body>
	<rt-text slot="criticsScore">88%</rt-text>
	<rt-text slot="audienceScore">85%</rt-text>
</body></html>`

func TestResolveFallsThroughToLaterCandidate(t *testing.T) {
	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/m/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/m/matrix" {
			_, _ = w.Write([]byte(scoredPage))
			return
		}
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	resolver := ratings.NewResolver(testClient(), ratings.NewGenerator(ratings.GeneratorConfig{}),
		server.URL+"/m/", logging.NewNop())

	scores, ok := resolver.Resolve(context.Background(), "The Matrix", 1999)
	if !ok {
		t.Fatal("expected scores from the article-stripped candidate")
	}
	if scores.Tomatometer != 88 || scores.Audience != 85 {
		t.Fatalf("scores = %+v, want 88/85", scores)
	}
	// the_matrix and the_matrix_1999 both 404 before matrix resolves.
	if got := hits.Load(); got != 3 {
		t.Fatalf("server saw %d fetches, want 3", got)
	}
}

func TestResolveAbsorbsBlockedCandidates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/m/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/m/heat_1995" {
			_, _ = w.Write([]byte(scoredPage))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	resolver := ratings.NewResolver(testClient(), ratings.NewGenerator(ratings.GeneratorConfig{}),
		server.URL+"/m/", logging.NewNop())

	if _, ok := resolver.Resolve(context.Background(), "Heat", 1995); !ok {
		t.Fatal("blocked first candidate must not sink the record")
	}
}

func TestResolveReportsMissWhenNothingMatches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	resolver := ratings.NewResolver(testClient(), ratings.NewGenerator(ratings.GeneratorConfig{}),
		server.URL+"/m/", logging.NewNop())

	if scores, ok := resolver.Resolve(context.Background(), "Obscurity", 1931); ok || !scores.Empty() {
		t.Fatalf("Resolve = %+v, %v; want empty miss", scores, ok)
	}
}

func TestResolveSkipsRecordsWithoutCandidates(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(server.Close)

	resolver := ratings.NewResolver(testClient(), ratings.NewGenerator(ratings.GeneratorConfig{}),
		server.URL+"/m/", logging.NewNop())

	if _, ok := resolver.Resolve(context.Background(), "", 2020); ok {
		t.Fatal("empty title must resolve to nothing")
	}
	if _, ok := resolver.Resolve(context.Background(), "Heat", 0); ok {
		t.Fatal("unknown year must resolve to nothing")
	}
	if hits.Load() != 0 {
		t.Fatalf("server saw %d fetches, want none", hits.Load())
	}
}

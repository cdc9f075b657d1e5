package trailers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinefill/internal/logging"
	"cinefill/internal/scrape"
	"cinefill/internal/trailers"
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

const resultsPage = `<html><body><script>var ytInitialData = {"contents":[
	{"videoId":"aaaaaaaaaa1","title":{"runs":[{"text":"Heat Reaction"}]}},
	{"videoId":"dQw4w9WgXcQ","title":{"runs":[{"text":"Heat (1995) Official Trailer"}]},"lengthText":{"accessibility":{"accessibilityData":{"label":"2 minutes, 31 seconds"}}}}
]};</script></body></html>`

func TestResolveReturnsAcceptedTrailer(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("search_query")
		_, _ = w.Write([]byte(resultsPage))
	}))
	t.Cleanup(server.Close)

	resolver := trailers.NewResolver(testClient(), server.URL+"/results", 10, 5, logging.NewNop())
	url, ok := resolver.Resolve(context.Background(), "Heat", 1995)
	if !ok {
		t.Fatal("expected an accepted trailer")
	}
	if url != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("url = %q", url)
	}
	if query != "Heat 1995 official trailer" {
		t.Fatalf("search query = %q", query)
	}
}

func TestResolveRejectsLowConfidencePages(t *testing.T) {
	page := `<html><body><script>var ytInitialData = {"contents":[
		{"videoId":"aaaaaaaaaa1","title":{"runs":[{"text":"random vlog reaction review"}]}}
	]};</script></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	t.Cleanup(server.Close)

	resolver := trailers.NewResolver(testClient(), server.URL+"/results", 10, 5, logging.NewNop())
	if url, ok := resolver.Resolve(context.Background(), "Heat", 1995); ok {
		t.Fatalf("url = %q, want rejection", url)
	}
}

func TestResolveAbsorbsFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	resolver := trailers.NewResolver(testClient(), server.URL+"/results", 10, 5, logging.NewNop())
	if _, ok := resolver.Resolve(context.Background(), "Heat", 1995); ok {
		t.Fatal("blocked fetch must resolve to nothing")
	}
}

func TestResolveSkipsIncompleteRecords(t *testing.T) {
	resolver := trailers.NewResolver(testClient(), "http://unused.invalid/results", 10, 5, logging.NewNop())
	if _, ok := resolver.Resolve(context.Background(), "", 1995); ok {
		t.Fatal("empty title must resolve to nothing")
	}
	if _, ok := resolver.Resolve(context.Background(), "Heat", 0); ok {
		t.Fatal("unknown year must resolve to nothing")
	}
}

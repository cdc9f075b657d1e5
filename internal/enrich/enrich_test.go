package enrich_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"cinefill/internal/catalog"
	"cinefill/internal/enrich"
	"cinefill/internal/logging"
	"cinefill/internal/ratings"
)

type scoreFunc func(ctx context.Context, title string, year int) (ratings.Scores, bool)

func (f scoreFunc) Resolve(ctx context.Context, title string, year int) (ratings.Scores, bool) {
	return f(ctx, title, year)
}

type trailerFunc func(ctx context.Context, title string, year int) (string, bool)

func (f trailerFunc) Resolve(ctx context.Context, title string, year int) (string, bool) {
	return f(ctx, title, year)
}

func testDoc() *catalog.Document {
	return &catalog.Document{Movies: []*catalog.Record{
		{ID: 1, Title: "Heat", ReleaseYear: 1995},
		{ID: 2, Title: "Alien", ReleaseYear: 1979},
		{ID: 3, Title: "", ReleaseYear: 2001},
		{ID: 4, Title: "Complete", ReleaseYear: 2010,
			Ratings: catalog.Ratings{RTTomatometer: 90, RTAudience: 85}},
	}}
}

func newEnricher(workers int, opts ...func(*enrich.Config)) *enrich.Enricher {
	cfg := enrich.Config{Workers: workers, Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return enrich.New(cfg)
}

func TestEnrichRatingsFillsMissingScores(t *testing.T) {
	doc := testDoc()
	source := scoreFunc(func(_ context.Context, title string, _ int) (ratings.Scores, bool) {
		if title == "Alien" {
			return ratings.Scores{}, false
		}
		return ratings.Scores{Tomatometer: 80, Audience: 75}, true
	})

	stats := newEnricher(3).EnrichRatings(context.Background(), doc, source)

	if stats.Total != 4 || stats.Processed != 2 || stats.Enriched != 1 ||
		stats.Unresolved != 1 || stats.Skipped != 2 {
		t.Fatalf("stats = %+v", stats)
	}
	byID := doc.ByID()
	if got := byID[1].Ratings; got.RTTomatometer != 80 || got.RTAudience != 75 {
		t.Fatalf("record 1 ratings = %+v", got)
	}
	if got := byID[2].Ratings; got.RTTomatometer != 0 {
		t.Fatalf("unresolved record mutated: %+v", got)
	}
	if got := byID[4].Ratings; got.RTTomatometer != 90 || got.RTAudience != 85 {
		t.Fatalf("complete record mutated: %+v", got)
	}
}

func TestEnrichIsUpgradeOnly(t *testing.T) {
	doc := &catalog.Document{Movies: []*catalog.Record{
		{ID: 1, Title: "Heat", ReleaseYear: 1995,
			Ratings: catalog.Ratings{RTTomatometer: 90}},
	}}
	source := scoreFunc(func(context.Context, string, int) (ratings.Scores, bool) {
		return ratings.Scores{Tomatometer: 10, Audience: 70}, true
	})

	stats := newEnricher(1).EnrichRatings(context.Background(), doc, source)
	if stats.Enriched != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	got := doc.Movies[0].Ratings
	if got.RTTomatometer != 90 {
		t.Fatalf("populated tomatometer downgraded to %d", got.RTTomatometer)
	}
	if got.RTAudience != 70 {
		t.Fatalf("audience not filled: %+v", got)
	}
}

func TestFailingPassLeavesCatalogUntouched(t *testing.T) {
	doc := testDoc()
	doc.Movies[0].ApplyScores(88, 82)
	before, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	alwaysFail := scoreFunc(func(context.Context, string, int) (ratings.Scores, bool) {
		return ratings.Scores{}, false
	})
	for i := 0; i < 2; i++ {
		newEnricher(4).EnrichRatings(context.Background(), doc, alwaysFail)
	}

	after, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Fatalf("catalog changed across failing passes:\nbefore %s\nafter  %s", before, after)
	}
}

func TestEnrichTrailersSkipsRecordsWithLinks(t *testing.T) {
	doc := &catalog.Document{Movies: []*catalog.Record{
		{ID: 1, Title: "Heat", ReleaseYear: 1995},
		{ID: 2, Title: "Alien", ReleaseYear: 1979,
			Media: catalog.Media{TrailerYouTube: "https://www.youtube.com/watch?v=existing0000"}},
	}}
	var calls atomic.Int64
	source := trailerFunc(func(_ context.Context, _ string, _ int) (string, bool) {
		calls.Add(1)
		return "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true
	})

	stats := newEnricher(2).EnrichTrailers(context.Background(), doc, source)
	if stats.Enriched != 1 || stats.Skipped != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if calls.Load() != 1 {
		t.Fatalf("source called %d times, want 1", calls.Load())
	}
	if doc.Movies[1].Media.TrailerYouTube != "https://www.youtube.com/watch?v=existing0000" {
		t.Fatal("existing trailer link replaced")
	}
}

func TestCancellationStopsDispatch(t *testing.T) {
	var records []*catalog.Record
	for i := 0; i < 100; i++ {
		records = append(records, &catalog.Record{ID: int64(i + 1), Title: "Movie", ReleaseYear: 2000})
	}
	doc := &catalog.Document{Movies: records}

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int64
	source := scoreFunc(func(ctx context.Context, _ string, _ int) (ratings.Scores, bool) {
		// Both workers block here until the second call cancels the pass.
		if calls.Add(1) == 2 {
			cancel()
		}
		<-ctx.Done()
		return ratings.Scores{}, false
	})

	done := make(chan enrich.Stats, 1)
	go func() {
		done <- newEnricher(2).EnrichRatings(ctx, doc, source)
	}()

	select {
	case stats := <-done:
		if stats.Processed >= stats.Total {
			t.Fatalf("cancellation did not stop dispatch: %+v", stats)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("pass did not drain after cancellation")
	}
}

func TestObserverSeesEveryRecord(t *testing.T) {
	doc := testDoc()
	var mu sync.Mutex
	outcomes := map[int64]enrich.RecordOutcome{}
	var progressCalls atomic.Int64

	enricher := newEnricher(3, func(cfg *enrich.Config) {
		cfg.Observer = func(o enrich.RecordOutcome) {
			mu.Lock()
			outcomes[o.RecordID] = o
			mu.Unlock()
		}
		cfg.Progress = func(done, total int) {
			progressCalls.Add(1)
			if done < 1 || done > total {
				t.Errorf("progress reported %d of %d", done, total)
			}
		}
	})
	source := scoreFunc(func(context.Context, string, int) (ratings.Scores, bool) {
		return ratings.Scores{Tomatometer: 70, Audience: 60}, true
	})
	enricher.EnrichRatings(context.Background(), doc, source)

	if len(outcomes) != 4 {
		t.Fatalf("observer saw %d records, want 4", len(outcomes))
	}
	if outcomes[1].Status != enrich.StatusResolved || !outcomes[1].Changed {
		t.Fatalf("record 1 outcome = %+v", outcomes[1])
	}
	if outcomes[3].Status != enrich.StatusSkipped {
		t.Fatalf("record 3 outcome = %+v", outcomes[3])
	}
	if outcomes[4].Status != enrich.StatusSkipped {
		t.Fatalf("record 4 outcome = %+v", outcomes[4])
	}
	if progressCalls.Load() != 4 {
		t.Fatalf("progress called %d times, want 4", progressCalls.Load())
	}
}

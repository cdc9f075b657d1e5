package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cinefill/internal/catalog"
)

// SampleDocument returns a small catalog with one fully enriched record and
// one untouched record.
func SampleDocument() *catalog.Document {
	return &catalog.Document{Movies: []*catalog.Record{
		{
			ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31", ReleaseYear: 1999,
			Genres:   []string{"Action", "Science Fiction"},
			Director: "Lana Wachowski",
			Ratings:  catalog.Ratings{TMDBPopularity: 85.3, TMDBVote: 8.2, RTTomatometer: 83, RTAudience: 85},
			Media:    catalog.Media{TrailerYouTube: "https://www.youtube.com/watch?v=vKQi3bBA1y8"},
		},
		{
			ID: 949, Title: "Heat", ReleaseDate: "1995-12-15", ReleaseYear: 1995,
			Genres:   []string{"Crime", "Drama"},
			Director: "Michael Mann",
			Ratings:  catalog.Ratings{TMDBPopularity: 41.9, TMDBVote: 7.9},
		},
	}}
}

// WriteCatalog marshals a document to path, creating parent directories.
func WriteCatalog(t testing.TB, path string, doc *catalog.Document) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create catalog dir: %v", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("marshal catalog: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
}

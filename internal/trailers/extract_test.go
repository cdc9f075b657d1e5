package trailers

import (
	"fmt"
	"strings"
	"testing"
)

func searchPage(entries ...string) []byte {
	return []byte(`<html><body><script>var ytInitialData = {"contents":[` +
		strings.Join(entries, ",") + `]};</script></body></html>`)
}

func entry(id, title, length string) string {
	e := fmt.Sprintf(`{"videoId":%q,"title":{"runs":[{"text":%q}]}`, id, title)
	if length != "" {
		e += fmt.Sprintf(`,"lengthText":{"accessibility":{"accessibilityData":{"label":%q}}}`, length)
	}
	return e + "}"
}

func TestExtractReadsInitialDataBlob(t *testing.T) {
	body := searchPage(
		entry("dQw4w9WgXcQ", "Heat (1995) Official Trailer", "2 minutes, 31 seconds"),
		entry("aaaaaaaaaa1", "Heat Reaction", "12 minutes"),
	)
	got := Extract(body, 10)
	if len(got) != 2 {
		t.Fatalf("extracted %d results, want 2", len(got))
	}
	first := got[0]
	if first.VideoID != "dQw4w9WgXcQ" || first.Title != "Heat (1995) Official Trailer" {
		t.Fatalf("first result = %+v", first)
	}
	if first.Duration != "2 minutes, 31 seconds" {
		t.Fatalf("duration = %q", first.Duration)
	}
	if first.URL() != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Fatalf("url = %q", first.URL())
	}
	if got[1].Position != 1 {
		t.Fatalf("second result position = %d, want 1", got[1].Position)
	}
}

func TestExtractBoundsAndDeduplicates(t *testing.T) {
	body := searchPage(
		entry("aaaaaaaaaa1", "One", ""),
		entry("aaaaaaaaaa1", "One again", ""),
		entry("aaaaaaaaaa2", "Two", ""),
		entry("aaaaaaaaaa3", "Three", ""),
	)
	got := Extract(body, 2)
	if len(got) != 2 {
		t.Fatalf("extracted %d results, want 2", len(got))
	}
	if got[0].VideoID != "aaaaaaaaaa1" || got[1].VideoID != "aaaaaaaaaa2" {
		t.Fatalf("results = %+v", got)
	}
}

func TestExtractFallsBackToAnchors(t *testing.T) {
	body := []byte(`<html><body>
		<a href="/watch?v=dQw4w9WgXcQ" title="Movie Official Trailer">Movie Official Trailer</a>
		<a href="/watch?v=dQw4w9WgXcQ">duplicate</a>
		<a href="/playlist?list=xyz">not a watch link</a>
		<a href="/watch?v=aaaaaaaaaa2" aria-label="Second hit"></a>
	</body></html>`)
	got := Extract(body, 10)
	if len(got) != 2 {
		t.Fatalf("extracted %d results, want 2: %+v", len(got), got)
	}
	if got[0].VideoID != "dQw4w9WgXcQ" || got[0].Title != "Movie Official Trailer" {
		t.Fatalf("first result = %+v", got[0])
	}
	if got[1].VideoID != "aaaaaaaaaa2" || got[1].Title != "Second hit" {
		t.Fatalf("second result = %+v", got[1])
	}
}

func TestExtractEmptyInputs(t *testing.T) {
	if got := Extract(nil, 10); got != nil {
		t.Fatalf("Extract(nil) = %+v", got)
	}
	if got := Extract([]byte("<html><body>no videos</body></html>"), 10); got != nil {
		t.Fatalf("Extract(no videos) = %+v", got)
	}
	if got := Extract(searchPage(entry("aaaaaaaaaa1", "One", "")), 0); got != nil {
		t.Fatalf("Extract(max=0) = %+v", got)
	}
}

func TestIsShortVideo(t *testing.T) {
	cases := []struct {
		label string
		want  bool
	}{
		{"2 minutes, 31 seconds", false},
		{"1 minute, 2 seconds", false},
		{"1 hour, 3 minutes", false},
		{"29 seconds", true},
		{"15 seconds", true},
		{"30 seconds", false},
		{"45 seconds", false},
		{"", false},
		{"live", false},
	}
	for _, tc := range cases {
		if got := isShortVideo(tc.label); got != tc.want {
			t.Fatalf("isShortVideo(%q) = %v, want %v", tc.label, got, tc.want)
		}
	}
}

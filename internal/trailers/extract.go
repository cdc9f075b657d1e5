package trailers

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Result is one search hit before ranking.
type Result struct {
	VideoID  string
	Title    string
	Duration string // human label, e.g. "2 minutes, 31 seconds"
	Position int
}

// URL returns the watch link for the hit.
func (r Result) URL() string {
	return "https://www.youtube.com/watch?v=" + r.VideoID
}

var (
	initialData   = regexp.MustCompile(`var ytInitialData\s*=\s*`)
	videoIDRe     = regexp.MustCompile(`"videoId":"([A-Za-z0-9_-]{11})"`)
	titleRunRe    = regexp.MustCompile(`"title":\{"runs":\[\{"text":"((?:[^"\\]|\\.)*)"`)
	lengthLabelRe = regexp.MustCompile(`"lengthText":\{"accessibility":\{"accessibilityData":\{"label":"((?:[^"\\]|\\.)*)"`)
	watchHrefRe   = regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`)
)

// Extract pulls up to max results from a search page body. The embedded JSON
// blob is authoritative when present; titles and durations are aligned by
// position, matching how the page interleaves them. Pages without the blob
// fall back to an anchor scan, which yields ids and titles but no durations.
func Extract(body []byte, max int) []Result {
	if max <= 0 {
		return nil
	}
	if results := extractInitialData(body, max); len(results) > 0 {
		return results
	}
	return extractAnchors(body, max)
}

func extractInitialData(body []byte, max int) []Result {
	loc := initialData.FindIndex(body)
	if loc == nil {
		return nil
	}
	blob := body[loc[1]:]
	if end := bytes.Index(blob, []byte("</script>")); end >= 0 {
		blob = blob[:end]
	}

	ids := videoIDRe.FindAllSubmatch(blob, -1)
	titles := titleRunRe.FindAllSubmatch(blob, -1)
	lengths := lengthLabelRe.FindAllSubmatch(blob, -1)

	var results []Result
	seen := make(map[string]struct{})
	for i, m := range ids {
		if len(results) >= max {
			break
		}
		id := string(m[1])
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result := Result{VideoID: id, Position: len(results)}
		if i < len(titles) {
			result.Title = unescapeJSON(string(titles[i][1]))
		}
		if i < len(lengths) {
			result.Duration = unescapeJSON(string(lengths[i][1]))
		}
		results = append(results, result)
	}
	return results
}

func extractAnchors(body []byte, max int) []Result {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var results []Result
	seen := make(map[string]struct{})
	doc.Find(`a[href*="/watch?"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := sel.AttrOr("href", "")
		m := watchHrefRe.FindStringSubmatch(href)
		if m == nil {
			return true
		}
		id := m[1]
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}
		title := strings.TrimSpace(sel.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(sel.AttrOr("aria-label", ""))
		}
		if title == "" {
			title = strings.TrimSpace(sel.Text())
		}
		results = append(results, Result{VideoID: id, Title: title, Position: len(results)})
		return len(results) < max
	})
	return results
}

// unescapeJSON resolves the escapes that appear inside the blob's string
// literals without parsing the whole document.
func unescapeJSON(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	unquoted, err := strconv.Unquote(`"` + s + `"`)
	if err != nil {
		return s
	}
	return unquoted
}

var secondsRe = regexp.MustCompile(`(\d+)\s*second`)

// isShortVideo reports whether a duration label describes a clip under 30
// seconds. Labels mentioning minutes are never short; a missing label is
// treated as unknown, not short.
func isShortVideo(label string) bool {
	label = strings.ToLower(label)
	if label == "" || strings.Contains(label, "minute") || strings.Contains(label, "hour") {
		return false
	}
	m := secondsRe.FindStringSubmatch(label)
	if m == nil {
		return false
	}
	seconds, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	return seconds < 30
}

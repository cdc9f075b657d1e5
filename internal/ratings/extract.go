package ratings

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Scores carries the two review percentages. Zero means not found.
type Scores struct {
	Tomatometer int
	Audience    int
}

// Empty reports whether neither score was recovered.
func (s Scores) Empty() bool {
	return s.Tomatometer == 0 && s.Audience == 0
}

func (s Scores) merge(other Scores) Scores {
	if s.Tomatometer == 0 {
		s.Tomatometer = other.Tomatometer
	}
	if s.Audience == 0 {
		s.Audience = other.Audience
	}
	return s
}

// strategy extracts whatever scores it recognizes from the document. A
// strategy returning a partial result is fine; the chain fills the gaps.
type strategy struct {
	name    string
	extract func(doc *goquery.Document) Scores
}

// extractorChain runs strategies in order of historical reliability. Each
// field falls through independently so a page where one markup generation
// carries only the critic score still yields the audience score from a
// later strategy.
var extractorChain = []strategy{
	{name: "slot-text", extract: extractSlotText},
	{name: "score-board-attrs", extract: extractScoreBoardAttrs},
	{name: "labeled-percent", extract: extractLabeledPercent},
	{name: "relaxed-hints", extract: extractRelaxedHints},
}

// Extract recovers review scores from a fetched page body. Unparseable input
// yields empty scores, never an error; a missing score is indistinguishable
// from a page that simply has none.
func Extract(body []byte) Scores {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Scores{}
	}
	var scores Scores
	for _, s := range extractorChain {
		scores = scores.merge(s.extract(doc))
		if scores.Tomatometer > 0 && scores.Audience > 0 {
			break
		}
	}
	return scores
}

// extractSlotText reads the modern slotted text elements.
func extractSlotText(doc *goquery.Document) Scores {
	var scores Scores
	scores.Tomatometer = percentFromText(doc.Find(`rt-text[slot="criticsScore"]`).First().Text())
	scores.Audience = percentFromText(doc.Find(`rt-text[slot="audienceScore"]`).First().Text())
	return scores
}

// extractScoreBoardAttrs reads the score-board custom element attributes
// served by the previous markup generation.
func extractScoreBoardAttrs(doc *goquery.Document) Scores {
	var scores Scores
	board := doc.Find("score-board, score-board-deprecated").First()
	if board.Length() == 0 {
		return scores
	}
	for _, attr := range []string{"tomatometerscore", "criticsscore"} {
		if v, ok := board.Attr(attr); ok {
			if scores.Tomatometer = percentFromText(v); scores.Tomatometer > 0 {
				break
			}
		}
	}
	for _, attr := range []string{"audiencescore", "popcornmeterscore", "popcornmeter"} {
		if v, ok := board.Attr(attr); ok {
			if scores.Audience = percentFromText(v); scores.Audience > 0 {
				break
			}
		}
	}
	return scores
}

var (
	criticPercent   = regexp.MustCompile(`(?is)(?:tomatometer|critics?\s*score)\D{0,80}?(\d{1,3})\s*%`)
	audiencePercent = regexp.MustCompile(`(?is)(?:audience\s*score|popcornmeter)\D{0,80}?(\d{1,3})\s*%`)
)

// extractLabeledPercent scans the page text for a percentage near a score
// keyword. Last-ditch before the relaxed hint pass; survives full markup
// rewrites as long as the words are still on the page.
func extractLabeledPercent(doc *goquery.Document) Scores {
	text := doc.Text()
	var scores Scores
	if m := criticPercent.FindStringSubmatch(text); m != nil {
		scores.Tomatometer = percentFromText(m[1])
	}
	if m := audiencePercent.FindStringSubmatch(text); m != nil {
		scores.Audience = percentFromText(m[1])
	}
	return scores
}

// extractRelaxedHints matches any element whose class or data-qa attribute
// hints at a score slot and takes the first percentage inside it.
func extractRelaxedHints(doc *goquery.Document) Scores {
	var scores Scores
	doc.Find("[class],[data-qa]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		hint := strings.ToLower(sel.AttrOr("class", "") + " " + sel.AttrOr("data-qa", ""))
		switch {
		case scores.Tomatometer == 0 && strings.Contains(hint, "critic") && strings.Contains(hint, "score"):
			scores.Tomatometer = percentFromText(sel.Text())
		case scores.Audience == 0 && strings.Contains(hint, "audience") && strings.Contains(hint, "score"):
			scores.Audience = percentFromText(sel.Text())
		}
		return scores.Tomatometer == 0 || scores.Audience == 0
	})
	return scores
}

var firstInt = regexp.MustCompile(`\d{1,3}`)

// percentFromText pulls the first integer out of text and clamps it to the
// valid percentage range. Out-of-range or absent numbers map to zero.
func percentFromText(text string) int {
	m := firstInt.FindString(text)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 || n > 100 {
		return 0
	}
	return n
}

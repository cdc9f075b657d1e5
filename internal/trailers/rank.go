package trailers

import (
	"regexp"
	"sort"
	"strings"
)

// ScoringRules is the keyword weight table used to rank search hits. Weights
// are data so the heuristics can be tuned against recorded search pages
// without touching the ranking loop.
type ScoringRules struct {
	// TitleMatchBonus applies when the hit title contains the movie title.
	TitleMatchBonus float64
	// OfficialKeywords each add OfficialBonus; the movie title itself is
	// treated as one of them.
	OfficialKeywords []string
	OfficialBonus    float64
	// TrailerKeywords each add TrailerBonus.
	TrailerKeywords []string
	TrailerBonus    float64
	// ExactPhraseBonus applies to titles containing "official trailer".
	ExactPhrase      string
	ExactPhraseBonus float64
	// BadKeywords each subtract BadPenalty; these mark reactions, reviews,
	// fan edits and other lookalikes.
	BadKeywords []string
	BadPenalty  float64
	// LongTitlePenalty applies past LongTitleWords words.
	LongTitleWords   int
	LongTitlePenalty float64
	// NumberedPenalty applies to titles carrying a parenthesised number,
	// usually a re-upload counter.
	NumberedPenalty float64
	// ShortVideoPenalty applies to clips under the short-video cutoff.
	ShortVideoPenalty float64
	// PositionBonus is granted as max(0, PositionWeight - position), keeping
	// the search engine's own relevance as a weak signal.
	PositionWeight float64
}

// DefaultScoringRules returns the tuned production weights.
func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		TitleMatchBonus:   15,
		OfficialKeywords:  []string{"official", "studio"},
		OfficialBonus:     10,
		TrailerKeywords:   []string{"trailer", "official", "teaser", "preview"},
		TrailerBonus:      8,
		ExactPhrase:       "official trailer",
		ExactPhraseBonus:  20,
		BadKeywords: []string{
			"reaction", "review", "breakdown", "explained", "recap",
			"fan made", "fanmade", "concept", "parody", "clip",
			"behind the scenes", "interview", "scene",
		},
		BadPenalty:        25,
		LongTitleWords:    8,
		LongTitlePenalty:  5,
		NumberedPenalty:   10,
		ShortVideoPenalty: 30,
		PositionWeight:    15,
	}
}

var parenNumber = regexp.MustCompile(`\(\d+\)`)

// Score rates one hit for a movie title. Exported for tuning tests; ranking
// callers use Rank.
func (rules ScoringRules) Score(result Result, movieTitle string) float64 {
	title := strings.ToLower(result.Title)
	movie := strings.ToLower(strings.TrimSpace(movieTitle))

	var score float64
	if movie != "" && strings.Contains(title, movie) {
		score += rules.TitleMatchBonus
	}
	for _, kw := range rules.OfficialKeywords {
		if strings.Contains(title, kw) {
			score += rules.OfficialBonus
		}
	}
	if movie != "" && strings.Contains(title, movie) {
		score += rules.OfficialBonus
	}
	for _, kw := range rules.TrailerKeywords {
		if strings.Contains(title, kw) {
			score += rules.TrailerBonus
		}
	}
	for _, kw := range rules.BadKeywords {
		if strings.Contains(title, kw) {
			score -= rules.BadPenalty
		}
	}
	if len(strings.Fields(title)) > rules.LongTitleWords {
		score -= rules.LongTitlePenalty
	}
	if position := float64(result.Position); position < rules.PositionWeight {
		score += rules.PositionWeight - position
	}
	if rules.ExactPhrase != "" && strings.Contains(title, rules.ExactPhrase) {
		score += rules.ExactPhraseBonus
	}
	if parenNumber.MatchString(result.Title) {
		score -= rules.NumberedPenalty
	}
	if isShortVideo(result.Duration) {
		score -= rules.ShortVideoPenalty
	}
	return score
}

// Rank scores every hit and returns the best one when it clears threshold.
// Sorting is stable, so equal scores keep search order and the result is
// deterministic for a given page.
func Rank(results []Result, movieTitle string, rules ScoringRules, threshold float64) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	type scored struct {
		result Result
		score  float64
	}
	ranked := make([]scored, len(results))
	for i, r := range results {
		ranked[i] = scored{result: r, score: rules.Score(r, movieTitle)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if ranked[0].score <= threshold {
		return Result{}, false
	}
	return ranked[0].result, true
}

package ratings

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Candidate is one slug guess for a title, ordered by rank (lower tries
// first). Candidates are values; workers never share them mutably.
type Candidate struct {
	Rank            int
	Slug            string
	ArticleStripped bool
}

// GeneratorConfig holds the tunable candidate heuristics.
type GeneratorConfig struct {
	// Denylist rejects titles containing any of these runes outright; the
	// source's own search chokes on them.
	Denylist string
	// Articles are leading words dropped for the article-stripped variants.
	Articles []string
	// StopWords are dropped for the stop-word-filtered variant of long titles.
	StopWords []string
	// LongTitleWords is the word count beyond which truncated variants are
	// emitted, keeping TruncateWords words.
	LongTitleWords int
	TruncateWords  int
	// Substitutions spells out a leading marker symbol ("#" as "number") for
	// the word-substituted variant.
	Substitutions map[rune]string
}

// DefaultGeneratorConfig returns the superset heuristics observed to work
// against the source.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Denylist:       `/\|<>`,
		Articles:       []string{"the", "a", "an"},
		StopWords:      []string{"the", "a", "an", "of", "and", "in", "on", "at", "to", "for"},
		LongTitleWords: 6,
		TruncateWords:  4,
		Substitutions: map[rune]string{
			'#': "number",
			'&': "and",
			'+': "plus",
			'@': "at",
			'$': "dollar",
		},
	}
}

// Generator produces ordered, de-duplicated slug candidates for a title.
type Generator struct {
	cfg GeneratorConfig
}

// NewGenerator creates a generator; zero-value config fields fall back to the
// defaults.
func NewGenerator(cfg GeneratorConfig) Generator {
	def := DefaultGeneratorConfig()
	if cfg.Denylist == "" {
		cfg.Denylist = def.Denylist
	}
	if len(cfg.Articles) == 0 {
		cfg.Articles = def.Articles
	}
	if len(cfg.StopWords) == 0 {
		cfg.StopWords = def.StopWords
	}
	if cfg.LongTitleWords <= 0 {
		cfg.LongTitleWords = def.LongTitleWords
	}
	if cfg.TruncateWords <= 0 {
		cfg.TruncateWords = def.TruncateWords
	}
	if cfg.Substitutions == nil {
		cfg.Substitutions = def.Substitutions
	}
	return Generator{cfg: cfg}
}

var yearSuffix = regexp.MustCompile(`\s*\(\d{4}\)\s*$`)

var asciiFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Generate returns the ordered candidate slugs for (title, year).
// The sequence is deterministic, duplicate-free, and empty when the title is
// blank, the year unknown, or the title carries denylisted characters.
func (g Generator) Generate(title string, year int) []Candidate {
	title = strings.TrimSpace(title)
	if title == "" || year <= 0 {
		return nil
	}
	if strings.ContainsAny(title, g.cfg.Denylist) {
		return nil
	}

	stripped := yearSuffix.ReplaceAllString(title, "")

	var substituted string
	if sub, rest, ok := g.leadingSymbol(stripped); ok {
		substituted = sub + " " + rest
	}

	words := slugWords(stripped)
	if len(words) == 0 {
		return nil
	}

	var slugs []string
	emit := func(ws []string, sep string, withYear bool) {
		if len(ws) == 0 {
			return
		}
		s := strings.Join(ws, sep)
		if withYear {
			s += "_" + strconv.Itoa(year)
		}
		slugs = append(slugs, s)
	}

	// Priority order mirrors how often each form resolves in practice.
	emit(words, "_", false)
	emit(words, "_", true)

	noArticle := g.stripArticle(words)
	articleIdx := len(slugs)
	articleForms := 0
	if noArticle != nil {
		emit(noArticle, "_", false)
		emit(noArticle, "_", true)
		articleForms = 2
	}

	if substituted != "" {
		emit(slugWords(substituted), "_", false)
		emit(slugWords(substituted), "_", true)
	}

	if len(words) > 1 {
		emit(words, "", false)
	}
	if len(words) > g.cfg.LongTitleWords {
		emit(words[:g.cfg.TruncateWords], "_", false)
	}
	if filtered := g.stripStopWords(words); filtered != nil {
		emit(filtered, "_", false)
	}

	seen := make(map[string]struct{}, len(slugs))
	candidates := make([]Candidate, 0, len(slugs))
	for i, slug := range slugs {
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		candidates = append(candidates, Candidate{
			Rank:            len(candidates),
			Slug:            slug,
			ArticleStripped: articleForms > 0 && i >= articleIdx && i < articleIdx+articleForms,
		})
	}
	return candidates
}

// leadingSymbol reports the spelled-out form of a leading marker character.
func (g Generator) leadingSymbol(title string) (word, rest string, ok bool) {
	runesIn := []rune(strings.TrimSpace(title))
	if len(runesIn) == 0 {
		return "", "", false
	}
	first := runesIn[0]
	if unicode.IsLetter(first) || unicode.IsDigit(first) {
		return "", "", false
	}
	sub, known := g.cfg.Substitutions[first]
	if !known {
		return "", "", false
	}
	return sub, string(runesIn[1:]), true
}

func (g Generator) stripArticle(words []string) []string {
	if len(words) < 2 {
		return nil
	}
	for _, article := range g.cfg.Articles {
		if words[0] == article {
			return words[1:]
		}
	}
	return nil
}

func (g Generator) stripStopWords(words []string) []string {
	if len(words) < 3 {
		return nil
	}
	kept := make([]string, 0, len(words))
	for _, w := range words {
		stop := false
		for _, s := range g.cfg.StopWords {
			if w == s {
				stop = true
				break
			}
		}
		if !stop {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 || len(kept) == len(words) {
		return nil
	}
	return kept
}

// slugWords canonicalizes a title into lowercase alphanumeric words: fold
// diacritics to ASCII, replace punctuation with spaces, collapse runs.
func slugWords(title string) []string {
	folded, _, err := transform.String(asciiFold, title)
	if err != nil {
		folded = title
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}

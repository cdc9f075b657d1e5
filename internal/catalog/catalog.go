package catalog

import (
	"strconv"
	"strings"
)

// TimestampLayout is the format used for the document's last_updated field.
const TimestampLayout = "2006-01-02 15:04:05"

// Streaming records one service offering for a movie.
type Streaming struct {
	Service string `json:"service"`
	Region  string `json:"region"`
	Link    string `json:"link"`
}

// Ratings holds per-source score fields. Zero means unresolved.
type Ratings struct {
	TMDBPopularity float64 `json:"tmdb_popularity"`
	TMDBVote       float64 `json:"tmdb_vote"`
	RTTomatometer  int     `json:"rt_tomatometer"`
	RTAudience     int     `json:"rt_audience"`
}

// Media holds artwork and trailer references.
type Media struct {
	Poster         string `json:"poster"`
	Backdrop       string `json:"backdrop"`
	TrailerYouTube string `json:"trailer_youtube"`
}

// Record is one movie entry in the catalog.
type Record struct {
	ID                  int64       `json:"id"`
	Title               string      `json:"title"`
	OriginalTitle       string      `json:"original_title"`
	OriginalLanguage    string      `json:"original_language"`
	ReleaseDate         string      `json:"release_date"`
	ReleaseYear         int         `json:"release_year"`
	Genres              []string    `json:"genres"`
	MPARating           string      `json:"mpa_rating"`
	Overview            string      `json:"overview"`
	RuntimeMin          int         `json:"runtime_min"`
	BudgetUSD           int64       `json:"budget_usd"`
	RevenueUSD          int64       `json:"revenue_usd"`
	Cast                []string    `json:"cast"`
	Director            string      `json:"director"`
	ProductionCompanies []string    `json:"production_companies"`
	Streaming           []Streaming `json:"streaming"`
	Ratings             Ratings     `json:"ratings"`
	Media               Media       `json:"media"`
	Keywords            []string    `json:"keywords"`
}

// Document is the on-disk catalog shape.
type Document struct {
	Movies      []*Record `json:"movies"`
	TotalCount  int       `json:"total_count"`
	LastUpdated string    `json:"last_updated"`
}

// Year returns the best-known release year: release_year when set, otherwise
// the leading year of release_date. Zero means unknown.
func (r *Record) Year() int {
	if r.ReleaseYear > 0 {
		return r.ReleaseYear
	}
	date := strings.TrimSpace(r.ReleaseDate)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

// ApplyScores upgrades the record's review scores. Zero inputs and already
// populated fields are left untouched; the return reports whether anything
// changed.
func (r *Record) ApplyScores(tomatometer, audience int) bool {
	changed := false
	if tomatometer > 0 && r.Ratings.RTTomatometer == 0 {
		r.Ratings.RTTomatometer = tomatometer
		changed = true
	}
	if audience > 0 && r.Ratings.RTAudience == 0 {
		r.Ratings.RTAudience = audience
		changed = true
	}
	return changed
}

// ApplyTrailer upgrades the record's trailer link when it is still empty.
func (r *Record) ApplyTrailer(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" || r.Media.TrailerYouTube != "" {
		return false
	}
	r.Media.TrailerYouTube = url
	return true
}

// HasScores reports whether both review scores are populated.
func (r *Record) HasScores() bool {
	return r.Ratings.RTTomatometer > 0 && r.Ratings.RTAudience > 0
}

// HasTrailer reports whether a trailer link is populated.
func (r *Record) HasTrailer() bool {
	return strings.TrimSpace(r.Media.TrailerYouTube) != ""
}

// ByID builds an index from record id to record. Later duplicates are ignored.
func (d *Document) ByID() map[int64]*Record {
	index := make(map[int64]*Record, len(d.Movies))
	for _, record := range d.Movies {
		if record == nil {
			continue
		}
		if _, ok := index[record.ID]; !ok {
			index[record.ID] = record
		}
	}
	return index
}

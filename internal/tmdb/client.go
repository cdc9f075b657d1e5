package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Provider is one streaming service watchable in the configured region.
type Provider struct {
	Name string
	ID   int
}

// Providers is the sync roster in catalog order. IDs are TMDB watch-provider
// identifiers for the US region.
var Providers = []Provider{
	{Name: "Netflix", ID: 8},
	{Name: "Amazon Prime", ID: 9},
	{Name: "Hulu", ID: 15},
	{Name: "Disney+", ID: 337},
	{Name: "Apple TV+", ID: 350},
	{Name: "Peacock", ID: 386},
	{Name: "Paramount+", ID: 531},
	{Name: "HBO Max", ID: 1899},
}

// DiscoverResult is one movie row from a discover page.
type DiscoverResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
}

// DiscoverResponse models the paginated discover payload.
type DiscoverResponse struct {
	Page         int              `json:"page"`
	Results      []DiscoverResult `json:"results"`
	TotalPages   int              `json:"total_pages"`
	TotalResults int              `json:"total_results"`
}

// Movie is the full details payload with the appended sub-resources.
type Movie struct {
	ID                  int64        `json:"id"`
	Title               string       `json:"title"`
	OriginalTitle       string       `json:"original_title"`
	OriginalLanguage    string       `json:"original_language"`
	ReleaseDate         string       `json:"release_date"`
	Overview            string       `json:"overview"`
	Runtime             int          `json:"runtime"`
	Budget              int64        `json:"budget"`
	Revenue             int64        `json:"revenue"`
	Popularity          float64      `json:"popularity"`
	VoteAverage         float64      `json:"vote_average"`
	PosterPath          string       `json:"poster_path"`
	BackdropPath        string       `json:"backdrop_path"`
	Genres              []Named      `json:"genres"`
	ProductionCompanies []Named      `json:"production_companies"`
	Credits             Credits      `json:"credits"`
	Keywords            KeywordList  `json:"keywords"`
	Images              ImageList    `json:"images"`
	ReleaseDates        ReleaseDates `json:"release_dates"`
}

// Named is the ubiquitous {id, name} shape.
type Named struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Credits carries cast and crew rosters.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is one billed actor, ordered by billing.
type CastMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CrewMember is one crew credit.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// KeywordList wraps the keywords sub-resource.
type KeywordList struct {
	Keywords []Named `json:"keywords"`
}

// ImageList wraps the images sub-resource.
type ImageList struct {
	Posters   []Image `json:"posters"`
	Backdrops []Image `json:"backdrops"`
}

// Image is one artwork entry.
type Image struct {
	FilePath string  `json:"file_path"`
	Language string  `json:"iso_639_1"`
	Votes    float64 `json:"vote_average"`
}

// ReleaseDates wraps the per-country certification entries.
type ReleaseDates struct {
	Results []CountryRelease `json:"results"`
}

// CountryRelease carries one country's release entries.
type CountryRelease struct {
	Country  string         `json:"iso_3166_1"`
	Releases []Certification `json:"release_dates"`
}

// Certification is one rating entry within a country's releases.
type Certification struct {
	Certification string `json:"certification"`
}

// Client provides access to the TMDB API.
type Client struct {
	token      string
	baseURL    string
	language   string
	region     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a TMDB client authenticated by a v4 bearer token.
func New(token, baseURL, language, region string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("tmdb bearer token required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		token:      token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		region:     strings.TrimSpace(region),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// DiscoverByProvider fetches one page of the provider's catalog, most
// popular first. Callers paginate until an empty page or past TotalPages.
func (c *Client) DiscoverByProvider(ctx context.Context, providerID, page int) (*DiscoverResponse, error) {
	if providerID <= 0 {
		return nil, errors.New("provider id must be positive")
	}
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("with_watch_providers", strconv.Itoa(providerID))
	params.Set("watch_region", c.region)
	params.Set("sort_by", "popularity.desc")
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(page))
	if c.language != "" {
		params.Set("language", c.language)
	}

	var payload DiscoverResponse
	if err := c.get(ctx, "/discover/movie", params, &payload); err != nil {
		return nil, fmt.Errorf("discover provider %d page %d: %w", providerID, page, err)
	}
	return &payload, nil
}

// MovieDetails fetches full movie details with credits, keywords, images and
// certifications in one round trip.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*Movie, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	params := url.Values{}
	params.Set("append_to_response", "credits,keywords,images,release_dates")
	if c.language != "" {
		params.Set("language", c.language)
		// Keep artwork for other languages in scope so the poster fallback
		// has something to pick from.
		params.Set("include_image_language", c.language+",en,null")
	}

	var payload Movie
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), params, &payload); err != nil {
		return nil, fmt.Errorf("movie details %d: %w", movieID, err)
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb returned %d (latency=%v)", resp.StatusCode, latency)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}

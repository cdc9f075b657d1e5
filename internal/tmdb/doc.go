// Package tmdb wraps the TMDB v3 API surface the catalog sync needs:
// provider-filtered discovery and full movie details with credits, keywords,
// images and certifications appended. Authentication uses a v4 bearer token.
package tmdb

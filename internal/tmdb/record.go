package tmdb

import (
	"strings"

	"cinefill/internal/catalog"
)

const (
	imageBaseURL = "https://image.tmdb.org/t/p/w500"
	maxCast      = 10
)

// BuildRecord flattens a details payload into a catalog record. Streaming
// entries are appended separately by the sync pass, which knows the provider.
func BuildRecord(movie *Movie, region string) *catalog.Record {
	record := &catalog.Record{
		ID:               movie.ID,
		Title:            movie.Title,
		OriginalTitle:    movie.OriginalTitle,
		OriginalLanguage: movie.OriginalLanguage,
		ReleaseDate:      movie.ReleaseDate,
		Overview:         movie.Overview,
		RuntimeMin:       movie.Runtime,
		BudgetUSD:        movie.Budget,
		RevenueUSD:       movie.Revenue,
		MPARating:        certification(movie.ReleaseDates, region),
		Genres:           names(movie.Genres),
		Keywords:         names(movie.Keywords.Keywords),
		Director:         director(movie.Credits.Crew),
		Cast:             topCast(movie.Credits.Cast),
		Ratings: catalog.Ratings{
			TMDBPopularity: movie.Popularity,
			TMDBVote:       movie.VoteAverage,
		},
		Media: catalog.Media{
			Poster:   imageURL(pickImage(movie.Images.Posters, movie.PosterPath)),
			Backdrop: imageURL(pickImage(movie.Images.Backdrops, movie.BackdropPath)),
		},
	}
	if len(movie.ReleaseDate) >= 4 {
		record.ReleaseYear = yearOf(movie.ReleaseDate)
	}
	return record
}

func yearOf(date string) int {
	year := 0
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}

func names(items []Named) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if name := strings.TrimSpace(item.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func director(crew []CrewMember) string {
	for _, member := range crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

func topCast(cast []CastMember) []string {
	if len(cast) == 0 {
		return nil
	}
	out := make([]string, 0, maxCast)
	for _, member := range cast {
		if len(out) >= maxCast {
			break
		}
		if name := strings.TrimSpace(member.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// pickImage prefers an English-tagged image, then a language-neutral one,
// then whatever the details payload carried at the top level.
func pickImage(images []Image, fallback string) string {
	var neutral string
	for _, image := range images {
		switch image.Language {
		case "en":
			return image.FilePath
		case "":
			if neutral == "" {
				neutral = image.FilePath
			}
		}
	}
	if neutral != "" {
		return neutral
	}
	return fallback
}

func imageURL(path string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return imageBaseURL + path
}

// certification returns the region's first non-empty certification entry.
func certification(dates ReleaseDates, region string) string {
	for _, country := range dates.Results {
		if country.Country != region {
			continue
		}
		for _, release := range country.Releases {
			if cert := strings.TrimSpace(release.Certification); cert != "" {
				return cert
			}
		}
	}
	return ""
}

package config

const (
	defaultCatalogPath        = "~/.local/share/cinefill/movie_data.json"
	defaultLogDir             = "~/.local/share/cinefill/logs"
	defaultTMDBBaseURL        = "https://api.themoviedb.org/3"
	defaultTMDBLanguage       = "en-US"
	defaultTMDBRegion         = "US"
	defaultTMDBWorkers        = 15
	defaultRatingsBaseURL     = "https://www.rottentomatoes.com/m/"
	defaultRatingsWorkers     = 50
	defaultTrailerSearchURL   = "https://www.youtube.com/results"
	defaultTrailerWorkers     = 20
	defaultTrailerMaxResults  = 10
	defaultTrailerThreshold   = 5.0
	defaultRequestTimeoutSecs = 10
	defaultMinIntervalMS      = 50
	defaultThrottleRetries    = 3
	defaultTransientRetries   = 2
	defaultBackoffBaseMS      = 500
	defaultBackoffMaxMS       = 5000
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogPath: defaultCatalogPath,
			LogDir:      defaultLogDir,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
			Region:   defaultTMDBRegion,
			Workers:  defaultTMDBWorkers,
		},
		Scraper: Scraper{
			RequestTimeoutSeconds: defaultRequestTimeoutSecs,
			MinRequestIntervalMS:  defaultMinIntervalMS,
			ThrottleRetries:       defaultThrottleRetries,
			TransientRetries:      defaultTransientRetries,
			BackoffBaseMS:         defaultBackoffBaseMS,
			BackoffMaxMS:          defaultBackoffMaxMS,
		},
		Ratings: Ratings{
			BaseURL: defaultRatingsBaseURL,
			Workers: defaultRatingsWorkers,
		},
		Trailers: Trailers{
			SearchURL:       defaultTrailerSearchURL,
			Workers:         defaultTrailerWorkers,
			MaxResults:      defaultTrailerMaxResults,
			AcceptThreshold: defaultTrailerThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

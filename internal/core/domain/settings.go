package domain

import "time"

// DefaultIndexURL is the NixHub resolve endpoint.
const DefaultIndexURL = "https://search.devbox.sh/v2/resolve"

// DefaultHTTPTimeout bounds a single package index request.
const DefaultHTTPTimeout = 30 * time.Second

// DefaultHTTPRetries is how often a failed package index request is retried.
const DefaultHTTPRetries = 3

// Settings holds tool-level configuration that is independent of any manifest.
type Settings struct {
	// CacheDir is the root of the on-disk caches.
	CacheDir string

	// IndexURL is the package index endpoint.
	IndexURL string

	// HTTPTimeout bounds package index requests.
	HTTPTimeout time.Duration

	// HTTPRetries is the number of retries for failed package index requests.
	HTTPRetries int

	// JSONLogs switches the logger to JSON output.
	JSONLogs bool
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		CacheDir:    DefaultCachePath(),
		IndexURL:    DefaultIndexURL,
		HTTPTimeout: DefaultHTTPTimeout,
		HTTPRetries: DefaultHTTPRetries,
	}
}

package fetcher

import (
	"fmt"
	"net/http"

	"github.com/newsfold/newsfold/app/sources"
)

type constructor func(config *sources.Config, client *http.Client, userAgent string) (Fetcher, error)

// providers maps provider identifiers to fetcher constructors. The mapping
// is fixed at compile time; adding a provider means adding an entry here.
var providers = map[string]constructor{
	"newsapi":  newNewsAPIFetcher,
	"guardian": newGuardianFetcher,
	"nytimes":  newNYTimesFetcher,
	"rss":      newRSSFetcher,
}

// New resolves the fetcher for a source configuration.
func New(config *sources.Config, client *http.Client, userAgent string) (Fetcher, error) {
	construct, ok := providers[config.Provider]
	if !ok {
		return nil, fmt.Errorf("no fetcher for provider '%s'", config.Provider)
	}
	return construct(config, client, userAgent)
}

// apiKey resolves the provider API key from the environment variable named
// in the source configuration.
func apiKey(config *sources.Config, getenv func(string) string) (string, error) {
	if config.Options.APIKeyEnv == "" {
		return "", fmt.Errorf("api_key_env not configured for source '%s'", config.Slug)
	}
	key := getenv(config.Options.APIKeyEnv)
	if key == "" {
		return "", fmt.Errorf("environment variable %s is empty", config.Options.APIKeyEnv)
	}
	return key, nil
}

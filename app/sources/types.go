package sources

// Configuration types for ingestion sources. One YAML file per source; the
// source slug is derived from the filename.

type Config struct {
	Slug     string          // Derived from filename (without .yml extension)
	Name     string          `yaml:"name"`
	Provider string          `yaml:"provider"`
	Settings ConfigSettings  `yaml:"settings"`
	Options  ProviderOptions `yaml:"options"`
}

type ConfigSettings struct {
	Enabled         bool   `yaml:"enabled"`
	RefreshInterval int    `yaml:"refresh_interval"` // seconds
	Timeout         int    `yaml:"timeout"`          // seconds
	PageSize        int    `yaml:"page_size"`        // articles per fetch
	Language        string `yaml:"language"`
	ExtractContent  bool   `yaml:"extract_content"` // fill empty bodies from the article page
}

// ProviderOptions carries the provider-specific configuration blob. Which
// fields matter depends on the provider; unknown fields are simply unused.
type ProviderOptions struct {
	Endpoint  string `yaml:"endpoint"`
	APIKeyEnv string `yaml:"api_key_env"` // environment variable holding the API key
	Section   string `yaml:"section"`
	Query     string `yaml:"query"`
	Country   string `yaml:"country"`
	Category  string `yaml:"category"` // fixed category assigned to fetched articles
	FeedURL   string `yaml:"feed_url"` // rss provider only
}

package database

import (
	"time"
)

type Source struct {
	ID            int64
	Slug          string
	Name          string
	Provider      string
	Active        bool
	Config        []byte // provider-specific configuration blob (JSON)
	LastFetchedAt *time.Time
	NextFetchAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Category struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}

type Author struct {
	ID        int64
	Name      string
	Slug      string // canonical slug derived from name
	CreatedAt time.Time
}

type Article struct {
	ID              int64
	SourceID        int64
	SourceArticleID string // provider-native identifier
	Title           string
	Slug            string
	Excerpt         string
	Content         string
	URL             string
	ImageURL        string
	Language        string
	AuthorID        *int64
	CategoryID      *int64
	PublishedAt     time.Time
	ScrapedAt       time.Time
	RawPayload      []byte
	CreatedAt       time.Time

	// Relation fields, populated by queries that join sources, categories
	// and authors.
	SourceSlug   string
	SourceName   string
	CategorySlug string
	CategoryName string
	AuthorName   string
	AuthorSlug   string

	// SavedAt is set only on saved-article listings.
	SavedAt *time.Time
}

type Preferences struct {
	UserID     int64
	Sources    []string // preferred source slugs
	Categories []string // preferred category slugs
	Authors    []string // preferred author slugs
	UpdatedAt  time.Time
}

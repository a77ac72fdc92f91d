package fetcher

import (
	"context"
	"time"
)

// ArticleData is a normalized article record as returned by a provider
// fetcher, before ingestion assigns it relational identity.
type ArticleData struct {
	SourceArticleID string // provider-native identifier
	Title           string
	Excerpt         string
	Content         string
	URL             string
	ImageURL        string
	Author          string
	Category        string
	Language        string
	PublishedAt     time.Time
	RawPayload      []byte // provider item as received
}

// Fetcher retrieves the current batch of articles from one upstream
// provider.
type Fetcher interface {
	Provider() string
	Fetch(ctx context.Context) ([]ArticleData, error)
}

package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/newsfold/newsfold/app/sources"
)

var _ Fetcher = (*RSSFetcher)(nil)

// RSSFetcher pulls articles from an RSS or Atom feed. The item GUID serves
// as the provider-native id, falling back to the item link when a feed
// omits GUIDs.
type RSSFetcher struct {
	config *sources.Config
	parser *gofeed.Parser
}

func newRSSFetcher(config *sources.Config, client *http.Client, userAgent string) (Fetcher, error) {
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &RSSFetcher{config: config, parser: parser}, nil
}

func (f *RSSFetcher) Provider() string {
	return "rss"
}

func (f *RSSFetcher) Fetch(ctx context.Context) ([]ArticleData, error) {
	feed, err := f.parser.ParseURLWithContext(f.config.Options.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	limit := f.config.Settings.PageSize
	articles := make([]ArticleData, 0, limit)
	for _, item := range feed.Items {
		if len(articles) >= limit {
			break
		}

		id := item.GUID
		if id == "" {
			id = item.Link
		}
		if id == "" || item.Title == "" {
			continue
		}

		publishedAt := time.Now().UTC()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		author := ""
		if len(item.Authors) > 0 {
			author = item.Authors[0].Name
		}

		category := f.config.Options.Category
		if category == "" && len(item.Categories) > 0 {
			category = item.Categories[0]
		}

		imageURL := ""
		if item.Image != nil {
			imageURL = item.Image.URL
		}

		raw, _ := json.Marshal(item)

		articles = append(articles, ArticleData{
			SourceArticleID: id,
			Title:           item.Title,
			Excerpt:         stripTags(item.Description),
			Content:         sanitizeHTML(item.Content),
			URL:             item.Link,
			ImageURL:        imageURL,
			Author:          author,
			Category:        category,
			Language:        f.config.Settings.Language,
			PublishedAt:     publishedAt,
			RawPayload:      raw,
		})
	}

	return articles, nil
}

package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/newsfold/newsfold/app/sources"
)

const newsAPIEndpoint = "https://newsapi.org/v2/top-headlines"

var _ Fetcher = (*NewsAPIFetcher)(nil)

// NewsAPIFetcher pulls top headlines from newsapi.org. NewsAPI exposes no
// stable article identifier, so the canonical URL serves as the
// provider-native id.
type NewsAPIFetcher struct {
	config    *sources.Config
	client    *http.Client
	userAgent string
	key       string
}

func newNewsAPIFetcher(config *sources.Config, client *http.Client, userAgent string) (Fetcher, error) {
	key, err := apiKey(config, os.Getenv)
	if err != nil {
		return nil, err
	}
	return &NewsAPIFetcher{config: config, client: client, userAgent: userAgent, key: key}, nil
}

func (f *NewsAPIFetcher) Provider() string {
	return "newsapi"
}

type newsAPIResponse struct {
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	Articles []json.RawMessage `json:"articles"`
}

type newsAPIArticle struct {
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (f *NewsAPIFetcher) Fetch(ctx context.Context) ([]ArticleData, error) {
	endpoint := f.config.Options.Endpoint
	if endpoint == "" {
		endpoint = newsAPIEndpoint
	}

	params := url.Values{}
	params.Set("apiKey", f.key)
	params.Set("pageSize", strconv.Itoa(f.config.Settings.PageSize))
	if f.config.Options.Country != "" {
		params.Set("country", f.config.Options.Country)
	}
	if f.config.Options.Section != "" {
		params.Set("category", f.config.Options.Section)
	}
	if f.config.Options.Query != "" {
		params.Set("q", f.config.Options.Query)
	}

	var response newsAPIResponse
	if err := fetchJSON(ctx, f.client, endpoint+"?"+params.Encode(), f.userAgent, &response); err != nil {
		return nil, err
	}
	if response.Status != "ok" {
		return nil, fmt.Errorf("newsapi error: %s", response.Message)
	}

	articles := make([]ArticleData, 0, len(response.Articles))
	for _, raw := range response.Articles {
		var item newsAPIArticle
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to decode newsapi article: %w", err)
		}
		if item.URL == "" || item.Title == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.PublishedAt)
		if err != nil {
			publishedAt = time.Now().UTC()
		}

		articles = append(articles, ArticleData{
			SourceArticleID: item.URL,
			Title:           item.Title,
			Excerpt:         item.Description,
			Content:         item.Content,
			URL:             item.URL,
			ImageURL:        item.URLToImage,
			Author:          item.Author,
			Category:        f.config.Options.Category,
			Language:        f.config.Settings.Language,
			PublishedAt:     publishedAt,
			RawPayload:      raw,
		})
	}

	return articles, nil
}

package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/newsfold/newsfold/app/sources"
)

const nytimesEndpoint = "https://api.nytimes.com/svc/topstories/v2"

var _ Fetcher = (*NYTimesFetcher)(nil)

// NYTimesFetcher pulls articles from the NYTimes Top Stories API. The item
// uri ("nyt://article/...") is stable and serves as the provider-native id.
type NYTimesFetcher struct {
	config    *sources.Config
	client    *http.Client
	userAgent string
	key       string
	titler    cases.Caser
}

func newNYTimesFetcher(config *sources.Config, client *http.Client, userAgent string) (Fetcher, error) {
	key, err := apiKey(config, os.Getenv)
	if err != nil {
		return nil, err
	}
	return &NYTimesFetcher{
		config:    config,
		client:    client,
		userAgent: userAgent,
		key:       key,
		titler:    cases.Title(language.English),
	}, nil
}

func (f *NYTimesFetcher) Provider() string {
	return "nytimes"
}

type nytimesResponse struct {
	Status  string            `json:"status"`
	Results []json.RawMessage `json:"results"`
}

type nytimesItem struct {
	URI           string `json:"uri"`
	Title         string `json:"title"`
	Abstract      string `json:"abstract"`
	URL           string `json:"url"`
	Section       string `json:"section"`
	Byline        string `json:"byline"`
	PublishedDate string `json:"published_date"`
	Multimedia    []struct {
		URL    string `json:"url"`
		Format string `json:"format"`
	} `json:"multimedia"`
}

func (f *NYTimesFetcher) Fetch(ctx context.Context) ([]ArticleData, error) {
	section := f.config.Options.Section
	if section == "" {
		section = "home"
	}

	endpoint := f.config.Options.Endpoint
	if endpoint == "" {
		endpoint = nytimesEndpoint
	}

	params := url.Values{}
	params.Set("api-key", f.key)
	requestURL := fmt.Sprintf("%s/%s.json?%s", endpoint, section, params.Encode())

	var response nytimesResponse
	if err := fetchJSON(ctx, f.client, requestURL, f.userAgent, &response); err != nil {
		return nil, err
	}
	if response.Status != "OK" {
		return nil, fmt.Errorf("nytimes error: status %s", response.Status)
	}

	articles := make([]ArticleData, 0, len(response.Results))
	for _, raw := range response.Results {
		var item nytimesItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.URI == "" || item.Title == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.PublishedDate)
		if err != nil {
			publishedAt = time.Now().UTC()
		}

		imageURL := ""
		if len(item.Multimedia) > 0 {
			imageURL = item.Multimedia[0].URL
		}

		articles = append(articles, ArticleData{
			SourceArticleID: item.URI,
			Title:           item.Title,
			Excerpt:         item.Abstract,
			URL:             item.URL,
			ImageURL:        imageURL,
			Author:          strings.TrimPrefix(item.Byline, "By "),
			Category:        f.titler.String(item.Section),
			Language:        f.config.Settings.Language,
			PublishedAt:     publishedAt,
			RawPayload:      raw,
		})
	}

	return articles, nil
}

package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/newsfold/newsfold/app/sources"
)

const guardianEndpoint = "https://content.guardianapis.com/search"

var _ Fetcher = (*GuardianFetcher)(nil)

// GuardianFetcher pulls articles from the Guardian content API. The item id
// ("world/2024/..." paths) is stable and serves as the provider-native id.
type GuardianFetcher struct {
	config    *sources.Config
	client    *http.Client
	userAgent string
	key       string
}

func newGuardianFetcher(config *sources.Config, client *http.Client, userAgent string) (Fetcher, error) {
	key, err := apiKey(config, os.Getenv)
	if err != nil {
		return nil, err
	}
	return &GuardianFetcher{config: config, client: client, userAgent: userAgent, key: key}, nil
}

func (f *GuardianFetcher) Provider() string {
	return "guardian"
}

type guardianResponse struct {
	Response struct {
		Status  string            `json:"status"`
		Results []json.RawMessage `json:"results"`
	} `json:"response"`
}

type guardianItem struct {
	ID                  string `json:"id"`
	SectionName         string `json:"sectionName"`
	WebPublicationDate  string `json:"webPublicationDate"`
	WebTitle            string `json:"webTitle"`
	WebURL              string `json:"webUrl"`
	Fields              struct {
		TrailText string `json:"trailText"`
		Body      string `json:"body"`
		Byline    string `json:"byline"`
		Thumbnail string `json:"thumbnail"`
	} `json:"fields"`
}

func (f *GuardianFetcher) Fetch(ctx context.Context) ([]ArticleData, error) {
	endpoint := f.config.Options.Endpoint
	if endpoint == "" {
		endpoint = guardianEndpoint
	}

	params := url.Values{}
	params.Set("api-key", f.key)
	params.Set("page-size", strconv.Itoa(f.config.Settings.PageSize))
	params.Set("show-fields", "trailText,body,byline,thumbnail")
	params.Set("order-by", "newest")
	if f.config.Options.Section != "" {
		params.Set("section", f.config.Options.Section)
	}
	if f.config.Options.Query != "" {
		params.Set("q", f.config.Options.Query)
	}

	var response guardianResponse
	if err := fetchJSON(ctx, f.client, endpoint+"?"+params.Encode(), f.userAgent, &response); err != nil {
		return nil, err
	}

	articles := make([]ArticleData, 0, len(response.Response.Results))
	for _, raw := range response.Response.Results {
		var item guardianItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		if item.ID == "" || item.WebTitle == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, item.WebPublicationDate)
		if err != nil {
			publishedAt = time.Now().UTC()
		}

		articles = append(articles, ArticleData{
			SourceArticleID: item.ID,
			Title:           item.WebTitle,
			Excerpt:         stripTags(item.Fields.TrailText),
			Content:         sanitizeHTML(item.Fields.Body),
			URL:             item.WebURL,
			ImageURL:        item.Fields.Thumbnail,
			Author:          item.Fields.Byline,
			Category:        item.SectionName,
			Language:        f.config.Settings.Language,
			PublishedAt:     publishedAt,
			RawPayload:      raw,
		})
	}

	return articles, nil
}

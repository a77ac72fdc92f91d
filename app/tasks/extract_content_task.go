package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/newsfold/newsfold/app/database"
	"github.com/newsfold/newsfold/app/fetcher"
	"github.com/newsfold/newsfold/app/search"
	"github.com/newsfold/newsfold/app/sources"
)

type ExtractContentTask struct {
	Task
	SourceConfig     *sources.Config
	httpClient       *http.Client
	contentExtractor *fetcher.ContentExtractor
	sourceRepo       database.SourceRepository
	articleRepo      database.ArticleRepository
	index            *search.Index
	userAgent        string
}

func NewExtractContentTask(sourceSlug string, sourceConfig *sources.Config, httpClient *http.Client,
	contentExtractor *fetcher.ContentExtractor, sourceRepo database.SourceRepository,
	articleRepo database.ArticleRepository, index *search.Index, userAgent string) *ExtractContentTask {
	return &ExtractContentTask{
		Task:             NewTask(TaskTypeExtractContent, sourceSlug),
		SourceConfig:     sourceConfig,
		httpClient:       httpClient,
		contentExtractor: contentExtractor,
		sourceRepo:       sourceRepo,
		articleRepo:      articleRepo,
		index:            index,
		userAgent:        userAgent,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.ExtractContent {
		slog.Debug("Content extraction disabled for source", "source", t.SourceSlug)
		return nil
	}

	source, err := t.sourceRepo.GetSourceBySlug(t.SourceSlug)
	if err != nil {
		return fmt.Errorf("failed to get source: %w", err)
	}
	if source == nil {
		return fmt.Errorf("source '%s' not synced to database yet", t.SourceSlug)
	}

	articles, err := t.articleRepo.GetArticlesWithoutContent(source.ID, t.SourceConfig.Settings.PageSize)
	if err != nil {
		return fmt.Errorf("failed to get articles for content extraction: %w", err)
	}

	if len(articles) == 0 {
		slog.Debug("No articles need content extraction", "source", t.SourceSlug)
		return nil
	}

	successCount := 0
	errorCount := 0

	for i := range articles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		extractCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)

		err := t.extractContentForArticle(extractCtx, &articles[i])
		cancel()

		if err != nil {
			slog.Error("Failed to extract content for article", "article_id", articles[i].ID, "url", articles[i].URL, "error", err)
			errorCount++
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceSlug,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractContentTask) extractContentForArticle(ctx context.Context, article *database.Article) error {
	if article.URL == "" {
		return fmt.Errorf("article has no URL")
	}

	data, err := t.fetchArticlePage(ctx, article.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch article page: %w", err)
	}

	extractedContent, err := t.contentExtractor.Run(data, article.URL)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}

	if err := t.articleRepo.UpdateArticleContent(article.ID, extractedContent); err != nil {
		return fmt.Errorf("failed to update article content: %w", err)
	}

	article.Content = extractedContent
	if err := t.index.Add(indexDocument(article)); err != nil {
		return fmt.Errorf("failed to reindex article: %w", err)
	}

	slog.Debug("Content extracted successfully", "article_id", article.ID, "url", article.URL, "content_length", len(extractedContent))
	return nil
}

func (t *ExtractContentTask) fetchArticlePage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, fmt.Errorf("content type is not HTML: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/newsfold/newsfold/app/database"
	"github.com/newsfold/newsfold/app/fetcher"
	"github.com/newsfold/newsfold/app/search"
	"github.com/newsfold/newsfold/app/slug"
	"github.com/newsfold/newsfold/app/sources"
)

type FetchSourceTask struct {
	Task
	SourceConfig *sources.Config
	httpClient   *http.Client
	sourceRepo   database.SourceRepository
	categoryRepo database.CategoryRepository
	authorRepo   database.AuthorRepository
	articleRepo  database.ArticleRepository
	index        *search.Index
	userAgent    string
}

func NewFetchSourceTask(sourceSlug string, sourceConfig *sources.Config, httpClient *http.Client,
	sourceRepo database.SourceRepository, categoryRepo database.CategoryRepository,
	authorRepo database.AuthorRepository, articleRepo database.ArticleRepository,
	index *search.Index, userAgent string) *FetchSourceTask {
	return &FetchSourceTask{
		Task:         NewTask(TaskTypeFetchSource, sourceSlug),
		SourceConfig: sourceConfig,
		httpClient:   httpClient,
		sourceRepo:   sourceRepo,
		categoryRepo: categoryRepo,
		authorRepo:   authorRepo,
		articleRepo:  articleRepo,
		index:        index,
		userAgent:    userAgent,
	}
}

func (t *FetchSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceSlug)
		return nil
	}

	source, err := t.sourceRepo.GetSourceBySlug(t.SourceSlug)
	if err != nil {
		return fmt.Errorf("failed to get source: %w", err)
	}
	if source == nil {
		return fmt.Errorf("source '%s' not synced to database yet", t.SourceSlug)
	}

	providerFetcher, err := fetcher.New(t.SourceConfig, t.httpClient, t.userAgent)
	if err != nil {
		return fmt.Errorf("failed to resolve fetcher: %w", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(t.SourceConfig.Settings.Timeout)*time.Second)
	defer cancel()

	items, err := providerFetcher.Fetch(fetchCtx)
	if err != nil {
		return fmt.Errorf("failed to fetch articles: %w", err)
	}

	newCount := 0
	skippedCount := 0

	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		existing, err := t.articleRepo.FindBySourceArticleID(source.ID, item.SourceArticleID)
		if err != nil {
			return fmt.Errorf("failed to check for existing article: %w", err)
		}
		if existing != nil {
			skippedCount++
			continue
		}

		if err := t.ingestArticle(source, item); err != nil {
			slog.Error("Failed to ingest article", "source", t.SourceSlug, "source_article_id", item.SourceArticleID, "error", err)
			continue
		}
		newCount++
	}

	now := time.Now().UTC()
	nextFetch := now.Add(time.Duration(t.SourceConfig.Settings.RefreshInterval) * time.Second)
	if err := t.sourceRepo.UpdateFetchStatus(source.ID, now, nextFetch); err != nil {
		return fmt.Errorf("failed to update fetch status: %w", err)
	}

	slog.Info("Task completed",
		"type", "FetchSource",
		"source", t.SourceSlug,
		"duration", t.GetDuration(),
		"total", len(items),
		"skipped", skippedCount,
		"new", newCount)

	return nil
}

// ingestArticle writes one fetched article to the relational store and
// mirrors it into the search index.
func (t *FetchSourceTask) ingestArticle(source *database.Source, item fetcher.ArticleData) error {
	article := &database.Article{
		SourceID:        source.ID,
		SourceArticleID: item.SourceArticleID,
		Title:           item.Title,
		Slug:            slug.Make(item.Title),
		Excerpt:         item.Excerpt,
		Content:         item.Content,
		URL:             item.URL,
		ImageURL:        item.ImageURL,
		Language:        item.Language,
		PublishedAt:     item.PublishedAt.UTC(),
		ScrapedAt:       time.Now().UTC(),
		RawPayload:      item.RawPayload,
		SourceSlug:      source.Slug,
		SourceName:      source.Name,
	}

	if item.Category != "" {
		category, err := t.categoryRepo.FirstOrCreateCategory(item.Category, slug.Make(item.Category))
		if err != nil {
			return fmt.Errorf("failed to resolve category: %w", err)
		}
		article.CategoryID = &category.ID
		article.CategorySlug = category.Slug
		article.CategoryName = category.Name
	}

	if item.Author != "" {
		author, err := t.authorRepo.FirstOrCreateAuthor(item.Author, slug.Make(item.Author))
		if err != nil {
			return fmt.Errorf("failed to resolve author: %w", err)
		}
		article.AuthorID = &author.ID
		article.AuthorName = author.Name
		article.AuthorSlug = author.Slug
	}

	id, err := t.articleRepo.CreateArticle(article)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}

	article.ID = id
	if err := t.index.Add(indexDocument(article)); err != nil {
		return fmt.Errorf("failed to index article: %w", err)
	}

	return nil
}

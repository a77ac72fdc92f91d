package tasks

import (
	"time"

	"github.com/newsfold/newsfold/app/database"
	"github.com/newsfold/newsfold/app/search"
)

// indexDocument projects an article with populated relations into its
// index-resident shape.
func indexDocument(article *database.Article) search.Document {
	return search.Document{
		ID:            article.ID,
		Title:         article.Title,
		Excerpt:       article.Excerpt,
		Content:       article.Content,
		URL:           article.URL,
		ImageURL:      article.ImageURL,
		Language:      article.Language,
		SourceSlug:    article.SourceSlug,
		SourceName:    article.SourceName,
		CategorySlug:  article.CategorySlug,
		CategoryName:  article.CategoryName,
		AuthorName:    article.AuthorName,
		PublishedAt:   article.PublishedAt.Format(time.RFC3339),
		PublishedAtTS: article.PublishedAt.Unix(),
	}
}

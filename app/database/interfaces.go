package database

import (
	"time"
)

type SourceRepository interface {
	UpsertSource(slug, name, provider string, active bool, config []byte) (int64, error)
	GetSourceBySlug(slug string) (*Source, error)
	GetSourceCount() (int, error)
	UpdateFetchStatus(sourceID int64, fetchedAt time.Time, nextFetchAt time.Time) error
}

type CategoryRepository interface {
	FirstOrCreateCategory(name, slug string) (*Category, error)
	GetCategoryBySlug(slug string) (*Category, error)
}

type AuthorRepository interface {
	FirstOrCreateAuthor(name, slug string) (*Author, error)
	GetAuthorBySlug(slug string) (*Author, error)
}

type ArticleRepository interface {
	CreateArticle(article *Article) (int64, error)
	FindBySourceArticleID(sourceID int64, sourceArticleID string) (*Article, error)
	GetArticleWithRelations(id int64) (*Article, error)
	GetArticleCount() (int, error)

	// GetArticlesForIndexing streams all articles with relations, in id
	// batches, for index rebuilds.
	GetArticlesForIndexing(afterID int64, limit int) ([]Article, error)

	// GetArticlesWithoutContent returns articles whose body is empty, for
	// the content extraction task.
	GetArticlesWithoutContent(sourceID int64, limit int) ([]Article, error)
	UpdateArticleContent(id int64, content string) error
}

type SavedArticleRepository interface {
	SaveArticle(userID, articleID int64) error
	UnsaveArticle(userID, articleID int64) error
	IsArticleSaved(userID, articleID int64) (bool, error)
	GetSavedArticles(userID int64, page, perPage int) ([]Article, int, error)
	GetSavedArticleIDs(userID int64) (map[int64]bool, error)
}

type PreferenceRepository interface {
	GetPreferences(userID int64) (*Preferences, error)
	UpdatePreferences(prefs *Preferences) error
	GetPersonalizedFeed(userID int64, page, perPage int) ([]Article, int, error)
}

package database

import (
	"database/sql"
	"fmt"
)

var _ ArticleRepository = (*ArticleRepo)(nil)

// ArticleRepo handles database operations for articles.
type ArticleRepo struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

// articleColumns is the shared select list for article queries with
// relations; scanArticle must stay in sync with it.
const articleColumns = `
	a.id, a.source_id, a.source_article_id, a.title, a.slug,
	COALESCE(a.excerpt, ''), COALESCE(a.content, ''), a.url,
	COALESCE(a.image_url, ''), COALESCE(a.language, ''),
	a.author_id, a.category_id, a.published_at, a.scraped_at, a.created_at,
	s.slug, s.name,
	COALESCE(c.slug, ''), COALESCE(c.name, ''),
	COALESCE(au.name, ''), COALESCE(au.slug, '')`

const articleJoins = `
	FROM articles a
	JOIN sources s ON s.id = a.source_id
	LEFT JOIN categories c ON c.id = a.category_id
	LEFT JOIN authors au ON au.id = a.author_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func articleScanDest(a *Article) []interface{} {
	return []interface{}{
		&a.ID, &a.SourceID, &a.SourceArticleID, &a.Title, &a.Slug,
		&a.Excerpt, &a.Content, &a.URL, &a.ImageURL, &a.Language,
		&a.AuthorID, &a.CategoryID, &a.PublishedAt, &a.ScrapedAt, &a.CreatedAt,
		&a.SourceSlug, &a.SourceName, &a.CategorySlug, &a.CategoryName,
		&a.AuthorName, &a.AuthorSlug,
	}
}

func scanArticle(row rowScanner) (*Article, error) {
	var article Article
	if err := row.Scan(articleScanDest(&article)...); err != nil {
		return nil, err
	}
	return &article, nil
}

// CreateArticle inserts a new article. The (source_id, source_article_id)
// unique constraint makes repeated ingestion of the same provider item
// fail here; callers check FindBySourceArticleID first.
func (r *ArticleRepo) CreateArticle(article *Article) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO articles (
			source_id, source_article_id, title, slug, excerpt, content,
			url, image_url, language, author_id, category_id,
			published_at, scraped_at, raw_payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, article.SourceID, article.SourceArticleID, article.Title, article.Slug,
		article.Excerpt, article.Content, article.URL, article.ImageURL,
		article.Language, article.AuthorID, article.CategoryID,
		article.PublishedAt, article.ScrapedAt, string(article.RawPayload))
	if err != nil {
		return 0, fmt.Errorf("failed to create article: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get article id: %w", err)
	}
	article.ID = id

	return id, nil
}

// FindBySourceArticleID looks up an article by its provider-native
// identity. Returns nil without error when no article exists.
func (r *ArticleRepo) FindBySourceArticleID(sourceID int64, sourceArticleID string) (*Article, error) {
	row := r.db.QueryRow(`
		SELECT `+articleColumns+articleJoins+`
		WHERE a.source_id = ? AND a.source_article_id = ?
	`, sourceID, sourceArticleID)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find article: %w", err)
	}

	return article, nil
}

func (r *ArticleRepo) GetArticleWithRelations(id int64) (*Article, error) {
	row := r.db.QueryRow(`
		SELECT `+articleColumns+articleJoins+`
		WHERE a.id = ?
	`, id)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return article, nil
}

func (r *ArticleRepo) GetArticleCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

// GetArticlesForIndexing returns a batch of articles with relations,
// ordered by id, starting after afterID. Used to rebuild the search index
// without loading the whole table at once.
func (r *ArticleRepo) GetArticlesForIndexing(afterID int64, limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+articleJoins+`
		WHERE a.id > ?
		ORDER BY a.id
		LIMIT ?
	`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles for indexing: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (r *ArticleRepo) GetArticlesWithoutContent(sourceID int64, limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT `+articleColumns+articleJoins+`
		WHERE a.source_id = ? AND COALESCE(a.content, '') = ''
		ORDER BY a.published_at DESC
		LIMIT ?
	`, sourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles without content: %w", err)
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (r *ArticleRepo) UpdateArticleContent(id int64, content string) error {
	_, err := r.db.Exec("UPDATE articles SET content = ? WHERE id = ?", content, id)
	if err != nil {
		return fmt.Errorf("failed to update article content: %w", err)
	}
	return nil
}

func collectArticles(rows *sql.Rows) ([]Article, error) {
	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

package database

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var _ SavedArticleRepository = (*SavedArticleRepo)(nil)

// SavedArticleRepo handles the per-user saved article list.
type SavedArticleRepo struct {
	db *DB
}

func NewSavedArticleRepository(db *DB) *SavedArticleRepo {
	return &SavedArticleRepo{db: db}
}

// SaveArticle records a saved article. Saving an already-saved article is
// a no-op rather than an error.
func (r *SavedArticleRepo) SaveArticle(userID, articleID int64) error {
	_, err := r.db.Exec(`
		INSERT INTO user_saved_articles (user_id, article_id)
		VALUES (?, ?)
		ON CONFLICT (user_id, article_id) DO NOTHING
	`, userID, articleID)
	if err != nil {
		return fmt.Errorf("failed to save article: %w", err)
	}
	return nil
}

func (r *SavedArticleRepo) UnsaveArticle(userID, articleID int64) error {
	_, err := r.db.Exec(`
		DELETE FROM user_saved_articles WHERE user_id = ? AND article_id = ?
	`, userID, articleID)
	if err != nil {
		return fmt.Errorf("failed to unsave article: %w", err)
	}
	return nil
}

func (r *SavedArticleRepo) IsArticleSaved(userID, articleID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM user_saved_articles WHERE user_id = ? AND article_id = ?
	`, userID, articleID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check saved state: %w", err)
	}
	return count > 0, nil
}

// GetSavedArticles returns one page of the user's saved articles, most
// recently saved first, plus the total saved count for pagination.
func (r *SavedArticleRepo) GetSavedArticles(userID int64, page, perPage int) ([]Article, int, error) {
	if page < 1 {
		page = 1
	}

	query, args, err := sq.Select("COUNT(*)").
		From("user_saved_articles").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build saved count query: %w", err)
	}

	var total int
	if err := r.db.QueryRow(query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count saved articles: %w", err)
	}

	query, args, err = sq.Select("usa.saved_at", articleColumns).
		From("user_saved_articles usa").
		Join("articles a ON a.id = usa.article_id").
		Join("sources s ON s.id = a.source_id").
		LeftJoin("categories c ON c.id = a.category_id").
		LeftJoin("authors au ON au.id = a.author_id").
		Where(sq.Eq{"usa.user_id": userID}).
		OrderBy("usa.saved_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build saved articles query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get saved articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var article Article
		dest := append([]interface{}{&article.SavedAt}, articleScanDest(&article)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan saved article row: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating saved article rows: %w", err)
	}

	return articles, total, nil
}

// GetSavedArticleIDs returns the set of article ids the user has saved,
// used to annotate search results.
func (r *SavedArticleRepo) GetSavedArticleIDs(userID int64) (map[int64]bool, error) {
	rows, err := r.db.Query(`
		SELECT article_id FROM user_saved_articles WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get saved article ids: %w", err)
	}
	defer rows.Close()

	saved := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan saved article id: %w", err)
		}
		saved[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved article ids: %w", err)
	}

	return saved, nil
}

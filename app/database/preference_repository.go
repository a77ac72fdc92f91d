package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var _ PreferenceRepository = (*PreferenceRepo)(nil)

// PreferenceRepo handles per-user feed preferences. Preference lists are
// stored as JSON arrays of slugs.
type PreferenceRepo struct {
	db *DB
}

func NewPreferenceRepository(db *DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

// GetPreferences returns the user's preferences, or an empty set when none
// have been stored yet.
func (r *PreferenceRepo) GetPreferences(userID int64) (*Preferences, error) {
	prefs := &Preferences{UserID: userID}

	var sourcesJSON, categoriesJSON, authorsJSON string
	err := r.db.QueryRow(`
		SELECT preferred_sources, preferred_categories, preferred_authors, updated_at
		FROM user_preferences
		WHERE user_id = ?
	`, userID).Scan(&sourcesJSON, &categoriesJSON, &authorsJSON, &prefs.UpdatedAt)
	if err == sql.ErrNoRows {
		return prefs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	for _, pair := range []struct {
		raw  string
		dest *[]string
	}{
		{sourcesJSON, &prefs.Sources},
		{categoriesJSON, &prefs.Categories},
		{authorsJSON, &prefs.Authors},
	} {
		if err := json.Unmarshal([]byte(pair.raw), pair.dest); err != nil {
			return nil, fmt.Errorf("failed to decode preference list: %w", err)
		}
	}

	return prefs, nil
}

func (r *PreferenceRepo) UpdatePreferences(prefs *Preferences) error {
	sourcesJSON, err := json.Marshal(emptyIfNil(prefs.Sources))
	if err != nil {
		return fmt.Errorf("failed to encode preferred sources: %w", err)
	}
	categoriesJSON, err := json.Marshal(emptyIfNil(prefs.Categories))
	if err != nil {
		return fmt.Errorf("failed to encode preferred categories: %w", err)
	}
	authorsJSON, err := json.Marshal(emptyIfNil(prefs.Authors))
	if err != nil {
		return fmt.Errorf("failed to encode preferred authors: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO user_preferences (user_id, preferred_sources, preferred_categories, preferred_authors)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			preferred_sources = excluded.preferred_sources,
			preferred_categories = excluded.preferred_categories,
			preferred_authors = excluded.preferred_authors,
			updated_at = CURRENT_TIMESTAMP
	`, prefs.UserID, string(sourcesJSON), string(categoriesJSON), string(authorsJSON))
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	return nil
}

// GetPersonalizedFeed returns articles matching any of the user's
// preferred sources, categories or authors, newest first. A user without
// preferences gets the unrestricted newest-first list.
func (r *PreferenceRepo) GetPersonalizedFeed(userID int64, page, perPage int) ([]Article, int, error) {
	if page < 1 {
		page = 1
	}

	prefs, err := r.GetPreferences(userID)
	if err != nil {
		return nil, 0, err
	}

	var conditions sq.Or
	if len(prefs.Sources) > 0 {
		conditions = append(conditions, sq.Eq{"s.slug": prefs.Sources})
	}
	if len(prefs.Categories) > 0 {
		conditions = append(conditions, sq.Eq{"c.slug": prefs.Categories})
	}
	if len(prefs.Authors) > 0 {
		conditions = append(conditions, sq.Eq{"au.slug": prefs.Authors})
	}

	baseQuery := func(columns string) sq.SelectBuilder {
		b := sq.Select(columns).
			From("articles a").
			Join("sources s ON s.id = a.source_id").
			LeftJoin("categories c ON c.id = a.category_id").
			LeftJoin("authors au ON au.id = a.author_id")
		if len(conditions) > 0 {
			b = b.Where(conditions)
		}
		return b
	}

	query, args, err := baseQuery("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build feed count query: %w", err)
	}

	var total int
	if err := r.db.QueryRow(query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count feed articles: %w", err)
	}

	query, args, err = baseQuery(articleColumns).
		OrderBy("a.published_at DESC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build feed query: %w", err)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get personalized feed: %w", err)
	}
	defer rows.Close()

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}

	return articles, total, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

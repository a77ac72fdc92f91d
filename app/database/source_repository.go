package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ SourceRepository = (*SourceRepo)(nil)

// SourceRepo handles database operations for ingestion sources.
type SourceRepo struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepo {
	return &SourceRepo{db: db}
}

// UpsertSource registers a source from its configuration file, updating
// name, provider, active flag and config blob on change.
func (r *SourceRepo) UpsertSource(slug, name, provider string, active bool, config []byte) (int64, error) {
	_, err := r.db.Exec(`
		INSERT INTO sources (slug, name, provider, active, config)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (slug) DO UPDATE SET
			name = excluded.name,
			provider = excluded.provider,
			active = excluded.active,
			config = excluded.config,
			updated_at = CURRENT_TIMESTAMP
	`, slug, name, provider, active, string(config))
	if err != nil {
		return 0, fmt.Errorf("failed to upsert source: %w", err)
	}

	var id int64
	err = r.db.QueryRow("SELECT id FROM sources WHERE slug = ?", slug).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to get source id: %w", err)
	}

	return id, nil
}

// GetSourceBySlug returns nil without error when the source is unknown.
func (r *SourceRepo) GetSourceBySlug(slug string) (*Source, error) {
	var source Source
	var config sql.NullString
	err := r.db.QueryRow(`
		SELECT id, slug, name, provider, active, COALESCE(config, ''),
		       last_fetched_at, next_fetch_at, created_at, updated_at
		FROM sources
		WHERE slug = ?
	`, slug).Scan(
		&source.ID, &source.Slug, &source.Name, &source.Provider,
		&source.Active, &config, &source.LastFetchedAt, &source.NextFetchAt,
		&source.CreatedAt, &source.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	source.Config = []byte(config.String)
	return &source, nil
}

func (r *SourceRepo) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sources").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

func (r *SourceRepo) UpdateFetchStatus(sourceID int64, fetchedAt time.Time, nextFetchAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET last_fetched_at = ?, next_fetch_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, fetchedAt, nextFetchAt, sourceID)
	if err != nil {
		return fmt.Errorf("failed to update fetch status: %w", err)
	}
	return nil
}

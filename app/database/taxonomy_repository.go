package database

import (
	"database/sql"
	"fmt"
)

var (
	_ CategoryRepository = (*TaxonomyRepo)(nil)
	_ AuthorRepository   = (*TaxonomyRepo)(nil)
)

// TaxonomyRepo handles categories and authors, both created lazily when
// first seen in ingested data.
type TaxonomyRepo struct {
	db *DB
}

func NewTaxonomyRepository(db *DB) *TaxonomyRepo {
	return &TaxonomyRepo{db: db}
}

// FirstOrCreateCategory returns the category with the given slug, creating
// it when missing. The insert ignores conflicts so concurrent workers
// ingesting the same category race safely.
func (r *TaxonomyRepo) FirstOrCreateCategory(name, slug string) (*Category, error) {
	_, err := r.db.Exec(`
		INSERT INTO categories (name, slug) VALUES (?, ?)
		ON CONFLICT (slug) DO NOTHING
	`, name, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	category, err := r.GetCategoryBySlug(slug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("category '%s' missing after upsert", slug)
	}
	return category, nil
}

func (r *TaxonomyRepo) GetCategoryBySlug(slug string) (*Category, error) {
	var category Category
	err := r.db.QueryRow(`
		SELECT id, name, slug, created_at FROM categories WHERE slug = ?
	`, slug).Scan(&category.ID, &category.Name, &category.Slug, &category.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// FirstOrCreateAuthor mirrors FirstOrCreateCategory for authors, keyed on
// the canonical slug of the author name.
func (r *TaxonomyRepo) FirstOrCreateAuthor(name, slug string) (*Author, error) {
	_, err := r.db.Exec(`
		INSERT INTO authors (name, slug) VALUES (?, ?)
		ON CONFLICT (slug) DO NOTHING
	`, name, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	author, err := r.GetAuthorBySlug(slug)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, fmt.Errorf("author '%s' missing after upsert", slug)
	}
	return author, nil
}

func (r *TaxonomyRepo) GetAuthorBySlug(slug string) (*Author, error) {
	var author Author
	err := r.db.QueryRow(`
		SELECT id, name, slug, created_at FROM authors WHERE slug = ?
	`, slug).Scan(&author.ID, &author.Name, &author.Slug, &author.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return &author, nil
}

package search

import (
	"context"
	"fmt"
	"sync"
)

// sortNewestFirst keeps document lookups deterministic and matches the
// listing's own sort contract.
var sortNewestFirst = []string{"-published_at_ts"}

// Service answers article searches and filtered-metadata requests against
// an Engine. It holds no per-request state; every method is safe for
// concurrent use.
type Service struct {
	engine Engine
}

func NewService(engine Engine) *Service {
	return &Service{engine: engine}
}

// FilteredMetadata returns the category and author facet options available
// under the current selection, plus the cross-filter validation outcome.
//
// Each facet query deliberately excludes its own dimension: the category
// facet filters by source and author only, the author facet by source and
// category only. Otherwise each list would collapse to just the currently
// selected value. Both dimensions share the source-only base filter and are
// queried concurrently; validation runs last against the full selection.
func (s *Service) FilteredMetadata(ctx context.Context, query, sourceSlug, categorySlug, authorName string) (*Metadata, error) {
	var base []Clause
	if sourceSlug != "" {
		base = append(base, Eq("source_slug", sourceSlug))
	}

	categoryClauses := base
	if authorName != "" {
		categoryClauses = append(categoryClauses[:len(categoryClauses):len(categoryClauses)], Eq("author_name", authorName))
	}

	authorClauses := base
	if categorySlug != "" {
		authorClauses = append(authorClauses[:len(authorClauses):len(authorClauses)], Eq("category_slug", categorySlug))
	}

	var (
		wg          sync.WaitGroup
		categories  []Option
		authors     []Option
		categoryErr error
		authorErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		categories, categoryErr = s.categoryOptions(ctx, query, categoryClauses)
	}()
	go func() {
		defer wg.Done()
		authors, authorErr = s.authorOptions(ctx, query, authorClauses)
	}()
	wg.Wait()

	if categoryErr != nil {
		return nil, fmt.Errorf("category facets: %w", categoryErr)
	}
	if authorErr != nil {
		return nil, fmt.Errorf("author facets: %w", authorErr)
	}

	validation, err := s.validateSelection(ctx, query, sourceSlug, categorySlug, authorName)
	if err != nil {
		return nil, fmt.Errorf("filter validation: %w", err)
	}

	return &Metadata{
		Categories: categories,
		Authors:    authors,
		Validation: validation,
	}, nil
}

func (s *Service) categoryOptions(ctx context.Context, query string, clauses []Clause) ([]Option, error) {
	result, err := s.search(ctx, query, clauses, []string{"category_slug"}, 0)
	if err != nil {
		return nil, err
	}
	return s.extractCategories(ctx, result.FacetDistribution["category_slug"])
}

func (s *Service) authorOptions(ctx context.Context, query string, clauses []Clause) ([]Option, error) {
	result, err := s.search(ctx, query, clauses, []string{"author_name"}, 0)
	if err != nil {
		return nil, err
	}
	return extractAuthors(result.FacetDistribution["author_name"]), nil
}

// search is the shared query path: one round trip with optional facet
// aggregation. Document rows are only requested when limit > 0, and are
// then returned newest first.
func (s *Service) search(ctx context.Context, query string, clauses []Clause, facets []string, limit int) (*Result, error) {
	req := Request{
		Query:   query,
		Clauses: clauses,
		Facets:  facets,
		Limit:   limit,
	}
	if limit > 0 {
		req.Sort = sortNewestFirst
	}
	return s.engine.Search(ctx, req)
}

package search

import (
	"context"
)

// validateSelection checks whether the selected category and author values
// are still satisfiable under the other active filters. A dimension is only
// checked when at least one co-filter is active; a selection that is the
// sole filter is taken as valid without a query. The free-text query is
// part of each existence check but may be empty.
func (s *Service) validateSelection(ctx context.Context, query, sourceSlug, categorySlug, authorName string) (Validation, error) {
	validation := Validation{CategoryExists: true, AuthorExists: true}

	if categorySlug != "" && (sourceSlug != "" || authorName != "") {
		exists, err := s.exists(ctx, query, filterClauses(map[string]string{
			"category_slug": categorySlug,
			"source_slug":   sourceSlug,
			"author_name":   authorName,
		}))
		if err != nil {
			return validation, err
		}
		validation.CategoryExists = exists
	}

	if authorName != "" && (sourceSlug != "" || categorySlug != "") {
		exists, err := s.exists(ctx, query, filterClauses(map[string]string{
			"author_name":   authorName,
			"source_slug":   sourceSlug,
			"category_slug": categorySlug,
		}))
		if err != nil {
			return validation, err
		}
		validation.AuthorExists = exists
	}

	return validation, nil
}

// exists runs a 1-result existence query.
func (s *Service) exists(ctx context.Context, query string, clauses []Clause) (bool, error) {
	result, err := s.search(ctx, query, clauses, nil, 1)
	if err != nil {
		return false, err
	}
	return len(result.Hits) > 0, nil
}

// filterClauses builds equality clauses from field/value pairs, skipping
// unset values.
func filterClauses(filters map[string]string) []Clause {
	clauses := make([]Clause, 0, len(filters))
	for _, field := range []string{"source_slug", "category_slug", "author_name"} {
		if value := filters[field]; value != "" {
			clauses = append(clauses, Eq(field, value))
		}
	}
	return clauses
}

package search

import (
	"context"
	"fmt"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// SearchArticles runs the main article listing query: free text combined
// with the selection's filter clauses, newest first, paginated.
func (s *Service) SearchArticles(ctx context.Context, sel Selection, page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	req := Request{
		Query:   sel.Query,
		Clauses: BuildClauses(sel),
		Sort:    sortNewestFirst,
		Limit:   perPage,
		Offset:  (page - 1) * perPage,
	}

	result, err := s.engine.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("article search: %w", err)
	}

	return &Page{
		Items:   result.Hits,
		Total:   result.Total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

package search

import (
	"context"
	"errors"
)

// ErrUnavailable signals that the search index could not be reached or
// failed at the transport level. Callers must not confuse it with an empty
// result set.
var ErrUnavailable = errors.New("search index unavailable")

// Request is a single query against the index. An empty Query matches all
// documents. Clauses are ANDed together; an empty clause list means no
// filtering. Limit 0 requests facet counts only, without document rows.
type Request struct {
	Query   string
	Clauses []Clause
	Facets  []string
	Sort    []string
	Limit   int
	Offset  int
}

// Result carries the matching documents and, when facets were requested,
// the per-field distribution of observed values to document counts.
type Result struct {
	Hits              []Document
	Total             uint64
	FacetDistribution map[string]map[string]int
}

// Engine is the query primitive of the search index. The index itself is a
// black box: implementations only have to support filtered full-text
// queries with facet aggregation and field sorting.
type Engine interface {
	Search(ctx context.Context, req Request) (*Result, error)
}

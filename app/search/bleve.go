package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// maxFacetValues caps the number of distinct values returned per facet
// field, matching the default the previous search backend applied.
const maxFacetValues = 100

var _ Engine = (*Index)(nil)

// Index is the in-process search index backed by bleve. Slug and name
// fields are indexed verbatim (keyword analyzer) so equality clauses and
// facet values operate on whole values, not tokens.
type Index struct {
	idx bleve.Index
}

// Open opens the index at path, creating it when it does not exist yet.
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, indexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// OpenMemory creates a transient in-memory index, used in tests.
func OpenMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(indexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory index: %w", err)
	}
	return &Index{idx: idx}, nil
}

func indexMapping() mapping.IndexMapping {
	doc := bleve.NewDocumentMapping()

	exact := bleve.NewTextFieldMapping()
	exact.Analyzer = keyword.Name
	for _, field := range []string{
		"source_slug", "source_name", "category_slug", "category_name",
		"author_name", "language", "url", "image_url", "published_at",
	} {
		doc.AddFieldMappingsAt(field, exact)
	}

	text := bleve.NewTextFieldMapping()
	for _, field := range []string{"title", "excerpt", "content"} {
		doc.AddFieldMappingsAt(field, text)
	}

	numeric := bleve.NewNumericFieldMapping()
	doc.AddFieldMappingsAt("id", numeric)
	doc.AddFieldMappingsAt("published_at_ts", numeric)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Add indexes a document, replacing any previous version of the same
// article.
func (i *Index) Add(doc Document) error {
	if err := i.idx.Index(strconv.FormatInt(doc.ID, 10), doc.fields()); err != nil {
		return fmt.Errorf("failed to index document %d: %w", doc.ID, err)
	}
	return nil
}

// Remove deletes a document from the index.
func (i *Index) Remove(id int64) error {
	if err := i.idx.Delete(strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("failed to remove document %d: %w", id, err)
	}
	return nil
}

// DocCount returns the number of indexed documents.
func (i *Index) DocCount() (uint64, error) {
	count, err := i.idx.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

func (i *Index) Close() error {
	return i.idx.Close()
}

// Search executes one query against the index: full text combined with the
// clause list, optional facet aggregations and field sorting. Engine
// failures are reported as ErrUnavailable so callers can tell them apart
// from an empty result set.
func (i *Index) Search(ctx context.Context, req Request) (*Result, error) {
	var q query.Query
	if strings.TrimSpace(req.Query) == "" {
		q = bleve.NewMatchAllQuery()
	} else {
		q = bleve.NewMatchQuery(req.Query)
	}

	if len(req.Clauses) > 0 {
		parts := make([]query.Query, 0, len(req.Clauses)+1)
		parts = append(parts, q)
		for _, c := range req.Clauses {
			parts = append(parts, clauseQuery(c))
		}
		q = bleve.NewConjunctionQuery(parts...)
	}

	searchRequest := bleve.NewSearchRequestOptions(q, req.Limit, req.Offset, false)
	searchRequest.Fields = []string{"*"}
	if len(req.Sort) > 0 {
		searchRequest.SortBy(req.Sort)
	}
	for _, field := range req.Facets {
		searchRequest.AddFacet(field, bleve.NewFacetRequest(field, maxFacetValues))
	}

	searchResult, err := i.idx.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	result := &Result{Total: searchResult.Total}

	for _, hit := range searchResult.Hits {
		result.Hits = append(result.Hits, documentFromFields(hit.ID, hit.Fields))
	}

	if len(searchResult.Facets) > 0 {
		result.FacetDistribution = make(map[string]map[string]int, len(searchResult.Facets))
		for name, facet := range searchResult.Facets {
			values := make(map[string]int, len(facet.Terms.Terms()))
			for _, term := range facet.Terms.Terms() {
				values[term.Term] = term.Count
			}
			result.FacetDistribution[name] = values
		}
	}

	return result, nil
}

func clauseQuery(c Clause) query.Query {
	switch c.Op {
	case OpGTE:
		min := float64(c.Num)
		inclusive := true
		q := bleve.NewNumericRangeInclusiveQuery(&min, nil, &inclusive, nil)
		q.SetField(c.Field)
		return q
	case OpLTE:
		max := float64(c.Num)
		inclusive := true
		q := bleve.NewNumericRangeInclusiveQuery(nil, &max, nil, &inclusive)
		q.SetField(c.Field)
		return q
	default:
		q := bleve.NewTermQuery(c.Str)
		q.SetField(c.Field)
		return q
	}
}

func (d Document) fields() map[string]interface{} {
	return map[string]interface{}{
		"id":              d.ID,
		"title":           d.Title,
		"excerpt":         d.Excerpt,
		"content":         d.Content,
		"url":             d.URL,
		"image_url":       d.ImageURL,
		"language":        d.Language,
		"source_slug":     d.SourceSlug,
		"source_name":     d.SourceName,
		"category_slug":   d.CategorySlug,
		"category_name":   d.CategoryName,
		"author_name":     d.AuthorName,
		"published_at":    d.PublishedAt,
		"published_at_ts": d.PublishedAtTS,
	}
}

func documentFromFields(id string, fields map[string]interface{}) Document {
	doc := Document{}
	doc.ID, _ = strconv.ParseInt(id, 10, 64)
	doc.Title = stringField(fields, "title")
	doc.Excerpt = stringField(fields, "excerpt")
	doc.Content = stringField(fields, "content")
	doc.URL = stringField(fields, "url")
	doc.ImageURL = stringField(fields, "image_url")
	doc.Language = stringField(fields, "language")
	doc.SourceSlug = stringField(fields, "source_slug")
	doc.SourceName = stringField(fields, "source_name")
	doc.CategorySlug = stringField(fields, "category_slug")
	doc.CategoryName = stringField(fields, "category_name")
	doc.AuthorName = stringField(fields, "author_name")
	doc.PublishedAt = stringField(fields, "published_at")
	if ts, ok := fields["published_at_ts"].(float64); ok {
		doc.PublishedAtTS = int64(ts)
	}
	return doc
}

func stringField(fields map[string]interface{}, name string) string {
	if v, ok := fields[name].(string); ok {
		return v
	}
	return ""
}

package search

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeEngine records every request and answers from a canned response
// function, so tests can assert on the exact queries a service method
// issues without a real index.
type fakeEngine struct {
	mu       sync.Mutex
	requests []Request
	respond  func(Request) (*Result, error)
}

func (f *fakeEngine) Search(ctx context.Context, req Request) (*Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.respond(req)
}

func (f *fakeEngine) recorded() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

func emptyResult(Request) (*Result, error) {
	return &Result{}, nil
}

func hasClause(clauses []Clause, field string) bool {
	for _, c := range clauses {
		if c.Field == field {
			return true
		}
	}
	return false
}

func TestFilteredMetadataExcludesOwnDimension(t *testing.T) {
	engine := &fakeEngine{respond: emptyResult}
	service := NewService(engine)

	_, err := service.FilteredMetadata(context.Background(), "", "guardian", "tech", "Jane Doe")
	if err != nil {
		t.Fatal(err)
	}

	requests := engine.recorded()
	var categoryReq, authorReq *Request
	for i := range requests {
		for _, facet := range requests[i].Facets {
			if facet == "category_slug" {
				categoryReq = &requests[i]
			}
			if facet == "author_name" {
				authorReq = &requests[i]
			}
		}
	}

	if categoryReq == nil {
		t.Fatal("No category facet request issued")
	}
	if hasClause(categoryReq.Clauses, "category_slug") {
		t.Errorf("Category facet request must not filter by category, got clauses %+v", categoryReq.Clauses)
	}
	if !hasClause(categoryReq.Clauses, "source_slug") || !hasClause(categoryReq.Clauses, "author_name") {
		t.Errorf("Category facet request should keep source and author filters, got %+v", categoryReq.Clauses)
	}

	if authorReq == nil {
		t.Fatal("No author facet request issued")
	}
	if hasClause(authorReq.Clauses, "author_name") {
		t.Errorf("Author facet request must not filter by author, got clauses %+v", authorReq.Clauses)
	}
	if !hasClause(authorReq.Clauses, "source_slug") || !hasClause(authorReq.Clauses, "category_slug") {
		t.Errorf("Author facet request should keep source and category filters, got %+v", authorReq.Clauses)
	}
}

func TestFilteredMetadataEngineErrorPropagates(t *testing.T) {
	engineErr := errors.New("connection refused")
	engine := &fakeEngine{respond: func(Request) (*Result, error) {
		return nil, engineErr
	}}
	service := NewService(engine)

	metadata, err := service.FilteredMetadata(context.Background(), "", "", "", "")
	if err == nil {
		t.Fatal("Expected error when the engine fails")
	}
	if !errors.Is(err, engineErr) {
		t.Errorf("Expected wrapped engine error, got %v", err)
	}
	if metadata != nil {
		t.Errorf("Expected no partial metadata on failure, got %+v", metadata)
	}
}

func seedIndex(t *testing.T, docs []Document) *Index {
	t.Helper()

	index, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { index.Close() })

	for _, doc := range docs {
		if err := index.Add(doc); err != nil {
			t.Fatal(err)
		}
	}
	return index
}

func testCorpus() []Document {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Document{
		{
			ID: 1, Title: "Chip shortage easing", SourceSlug: "guardian", SourceName: "The Guardian",
			CategorySlug: "tech", CategoryName: "Technology", AuthorName: "Jane Doe",
			PublishedAt: ts.Format(time.RFC3339), PublishedAtTS: ts.Unix(),
		},
		{
			ID: 2, Title: "Cup final recap", SourceSlug: "guardian", SourceName: "The Guardian",
			CategorySlug: "sports", CategoryName: "Sports", AuthorName: "John Roe",
			PublishedAt: ts.Add(time.Hour).Format(time.RFC3339), PublishedAtTS: ts.Add(time.Hour).Unix(),
		},
		{
			ID: 3, Title: "Transfer window news", SourceSlug: "source-1", SourceName: "Source One",
			CategorySlug: "sports", CategoryName: "Sports", AuthorName: "Jane Doe",
			PublishedAt: ts.Add(2 * time.Hour).Format(time.RFC3339), PublishedAtTS: ts.Add(2 * time.Hour).Unix(),
		},
	}
}

func TestFilteredMetadataUnfilteredCorpus(t *testing.T) {
	service := NewService(seedIndex(t, testCorpus()))

	metadata, err := service.FilteredMetadata(context.Background(), "", "", "", "")
	if err != nil {
		t.Fatal(err)
	}

	wantCategories := []Option{
		{Value: "sports", Label: "Sports", Count: 2},
		{Value: "tech", Label: "Technology", Count: 1},
	}
	if !reflect.DeepEqual(metadata.Categories, wantCategories) {
		t.Errorf("Expected categories %+v, got %+v", wantCategories, metadata.Categories)
	}

	wantAuthors := []Option{
		{Value: "Jane Doe", Label: "Jane Doe", Count: 2},
		{Value: "John Roe", Label: "John Roe", Count: 1},
	}
	if !reflect.DeepEqual(metadata.Authors, wantAuthors) {
		t.Errorf("Expected authors %+v, got %+v", wantAuthors, metadata.Authors)
	}

	if !metadata.Validation.CategoryExists || !metadata.Validation.AuthorExists {
		t.Errorf("Validation should default to true with no co-filters, got %+v", metadata.Validation)
	}
}

func TestFilteredMetadataSourceFilterNarrowsFacets(t *testing.T) {
	service := NewService(seedIndex(t, testCorpus()))

	metadata, err := service.FilteredMetadata(context.Background(), "", "guardian", "", "")
	if err != nil {
		t.Fatal(err)
	}

	wantCategories := []Option{
		{Value: "sports", Label: "Sports", Count: 1},
		{Value: "tech", Label: "Technology", Count: 1},
	}
	if !reflect.DeepEqual(metadata.Categories, wantCategories) {
		t.Errorf("Expected categories %+v, got %+v", wantCategories, metadata.Categories)
	}
}

func TestFilteredMetadataDetectsStaleCategory(t *testing.T) {
	service := NewService(seedIndex(t, testCorpus()))

	// source-1 only has a sports article, so a selected tech category is
	// no longer satisfiable under that source.
	metadata, err := service.FilteredMetadata(context.Background(), "", "source-1", "tech", "")
	if err != nil {
		t.Fatal(err)
	}

	if metadata.Validation.CategoryExists {
		t.Error("Expected category_exists=false for source-1 + tech")
	}
	if !metadata.Validation.AuthorExists {
		t.Error("Author validation should stay true when no author is selected")
	}
}

func TestFilteredMetadataIdempotent(t *testing.T) {
	service := NewService(seedIndex(t, testCorpus()))

	first, err := service.FilteredMetadata(context.Background(), "", "guardian", "tech", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := service.FilteredMetadata(context.Background(), "", "guardian", "tech", "")
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results for identical arguments, got %+v and %+v", first, second)
	}
}

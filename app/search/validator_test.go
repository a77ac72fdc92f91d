package search

import (
	"context"
	"testing"
)

func TestValidateSelectionSkipsSoleFilter(t *testing.T) {
	engine := &fakeEngine{respond: emptyResult}
	service := NewService(engine)

	// A category with zero matching articles, but no co-filter active:
	// the check is skipped and the selection reported valid.
	validation, err := service.validateSelection(context.Background(), "", "", "tech", "")
	if err != nil {
		t.Fatal(err)
	}

	if !validation.CategoryExists {
		t.Error("Category validation should be skipped when category is the sole filter")
	}
	if len(engine.recorded()) != 0 {
		t.Errorf("Expected no existence queries, got %d", len(engine.recorded()))
	}
}

func TestValidateSelectionChecksWithCoFilter(t *testing.T) {
	engine := &fakeEngine{respond: emptyResult}
	service := NewService(engine)

	validation, err := service.validateSelection(context.Background(), "", "source-1", "tech", "")
	if err != nil {
		t.Fatal(err)
	}

	if validation.CategoryExists {
		t.Error("Expected category_exists=false when the existence query finds nothing")
	}
	if !validation.AuthorExists {
		t.Error("Author validation should stay true when no author is selected")
	}

	requests := engine.recorded()
	if len(requests) != 1 {
		t.Fatalf("Expected exactly one existence query, got %d", len(requests))
	}
	if !hasClause(requests[0].Clauses, "category_slug") || !hasClause(requests[0].Clauses, "source_slug") {
		t.Errorf("Existence query should combine category and source, got %+v", requests[0].Clauses)
	}
	if requests[0].Limit != 1 {
		t.Errorf("Existence query should use limit=1, got %d", requests[0].Limit)
	}
}

func TestValidateSelectionAuthorWithCoFilter(t *testing.T) {
	engine := &fakeEngine{respond: func(req Request) (*Result, error) {
		return &Result{Hits: []Document{{ID: 1}}, Total: 1}, nil
	}}
	service := NewService(engine)

	validation, err := service.validateSelection(context.Background(), "", "guardian", "", "Jane Doe")
	if err != nil {
		t.Fatal(err)
	}

	if !validation.AuthorExists {
		t.Error("Expected author_exists=true when the existence query matches")
	}
	if !validation.CategoryExists {
		t.Error("Category validation should stay true when no category is selected")
	}

	requests := engine.recorded()
	if len(requests) != 1 {
		t.Fatalf("Expected exactly one existence query, got %d", len(requests))
	}
	if !hasClause(requests[0].Clauses, "author_name") || !hasClause(requests[0].Clauses, "source_slug") {
		t.Errorf("Existence query should combine author and source, got %+v", requests[0].Clauses)
	}
}

package search

import (
	"testing"
	"time"
)

func TestBuildClausesEmptySelection(t *testing.T) {
	clauses := BuildClauses(Selection{})

	if len(clauses) != 0 {
		t.Errorf("Expected no clauses for empty selection, got %d", len(clauses))
	}
}

func TestBuildClausesStringFilters(t *testing.T) {
	clauses := BuildClauses(Selection{
		SourceSlug:   "guardian",
		CategorySlug: "politics",
		AuthorName:   "Jane Doe",
	})

	if len(clauses) != 3 {
		t.Fatalf("Expected 3 clauses, got %d", len(clauses))
	}

	expected := []Clause{
		Eq("source_slug", "guardian"),
		Eq("category_slug", "politics"),
		Eq("author_name", "Jane Doe"),
	}
	for i, want := range expected {
		if clauses[i] != want {
			t.Errorf("Clause %d: expected %+v, got %+v", i, want, clauses[i])
		}
	}
}

func TestBuildClausesDateRangeBounds(t *testing.T) {
	clauses := BuildClauses(Selection{
		DateFrom: "2024-03-10",
		DateTo:   "2024-03-12",
	})

	if len(clauses) != 2 {
		t.Fatalf("Expected 2 clauses, got %d", len(clauses))
	}

	wantFrom := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local).Unix()
	wantTo := time.Date(2024, 3, 12, 23, 59, 59, 0, time.Local).Unix()

	if clauses[0].Op != OpGTE || clauses[0].Field != "published_at_ts" || clauses[0].Num != wantFrom {
		t.Errorf("Expected lower bound %d at day start, got %+v", wantFrom, clauses[0])
	}
	if clauses[1].Op != OpLTE || clauses[1].Field != "published_at_ts" || clauses[1].Num != wantTo {
		t.Errorf("Expected upper bound %d at day end, got %+v", wantTo, clauses[1])
	}
}

func TestBuildClausesReversedRangeSwapped(t *testing.T) {
	reversed := BuildClauses(Selection{
		DateFrom: "2024-03-12",
		DateTo:   "2024-03-10",
	})
	ordered := BuildClauses(Selection{
		DateFrom: "2024-03-10",
		DateTo:   "2024-03-12",
	})

	if len(reversed) != len(ordered) {
		t.Fatalf("Expected same clause count, got %d and %d", len(reversed), len(ordered))
	}
	for i := range ordered {
		if reversed[i] != ordered[i] {
			t.Errorf("Clause %d: reversed range should produce %+v, got %+v", i, ordered[i], reversed[i])
		}
	}

	// The effective range always satisfies from <= to.
	if reversed[0].Num > reversed[1].Num {
		t.Errorf("Effective range has from > to: %d > %d", reversed[0].Num, reversed[1].Num)
	}
}

func TestBuildClausesInvalidDatesIgnored(t *testing.T) {
	clauses := BuildClauses(Selection{
		SourceSlug: "guardian",
		DateFrom:   "not-a-date",
		DateTo:     "2024-13-45",
	})

	if len(clauses) != 1 {
		t.Fatalf("Expected only the source clause, got %d clauses", len(clauses))
	}
	if clauses[0].Field != "source_slug" {
		t.Errorf("Expected source_slug clause, got %+v", clauses[0])
	}
}

func TestBuildClausesSingleSidedRange(t *testing.T) {
	clauses := BuildClauses(Selection{DateFrom: "2024-03-10"})

	if len(clauses) != 1 {
		t.Fatalf("Expected 1 clause, got %d", len(clauses))
	}
	if clauses[0].Op != OpGTE {
		t.Errorf("Expected GTE clause for date_from only, got %+v", clauses[0])
	}

	clauses = BuildClauses(Selection{DateTo: "2024-03-10"})

	if len(clauses) != 1 {
		t.Fatalf("Expected 1 clause, got %d", len(clauses))
	}
	if clauses[0].Op != OpLTE {
		t.Errorf("Expected LTE clause for date_to only, got %+v", clauses[0])
	}
}

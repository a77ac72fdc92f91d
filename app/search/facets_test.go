package search

import (
	"context"
	"reflect"
	"testing"
)

func TestExtractAuthorsSkipsEmptyAndZeroCount(t *testing.T) {
	options := extractAuthors(map[string]int{
		"Jane Doe": 3,
		"":         5,
		"John Roe": 0,
		"Ann Lee":  -1,
	})

	want := []Option{{Value: "Jane Doe", Label: "Jane Doe", Count: 3}}
	if !reflect.DeepEqual(options, want) {
		t.Errorf("Expected %+v, got %+v", want, options)
	}
}

func TestExtractAuthorsSortedByLabel(t *testing.T) {
	options := extractAuthors(map[string]int{
		"Zoe Park": 1,
		"Ann Lee":  2,
		"Mia Chen": 3,
	})

	want := []string{"Ann Lee", "Mia Chen", "Zoe Park"}
	if len(options) != len(want) {
		t.Fatalf("Expected %d options, got %d", len(want), len(options))
	}
	for i, label := range want {
		if options[i].Label != label {
			t.Errorf("Position %d: expected label %q, got %q", i, label, options[i].Label)
		}
	}
}

func TestSortOptionsOrdinalWithValueTiebreak(t *testing.T) {
	options := []Option{
		{Value: "b", Label: "Same"},
		{Value: "a", Label: "Same"},
		{Value: "z", Label: "apple"},
		{Value: "y", Label: "Banana"},
	}

	sortOptions(options)

	// Ordinal comparison puts uppercase before lowercase.
	wantValues := []string{"y", "a", "b", "z"}
	for i, value := range wantValues {
		if options[i].Value != value {
			t.Errorf("Position %d: expected value %q, got %q", i, value, options[i].Value)
		}
	}
}

func TestExtractCategoriesDropsDriftedSlug(t *testing.T) {
	engine := &fakeEngine{respond: func(req Request) (*Result, error) {
		// Facet query: report a slug whose documents have since vanished.
		if len(req.Facets) > 0 {
			return &Result{FacetDistribution: map[string]map[string]int{
				"category_slug": {"tech": 2, "ghost": 1},
			}}, nil
		}

		// Sample lookups resolve tech but not ghost.
		for _, c := range req.Clauses {
			if c.Field == "category_slug" && c.Str == "tech" {
				return &Result{Hits: []Document{{CategorySlug: "tech", CategoryName: "Technology"}}, Total: 1}, nil
			}
		}
		return &Result{}, nil
	}}
	service := NewService(engine)

	options, err := service.categoryOptions(context.Background(), "", nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []Option{{Value: "tech", Label: "Technology", Count: 2}}
	if !reflect.DeepEqual(options, want) {
		t.Errorf("Drifted slug should be dropped silently, expected %+v, got %+v", want, options)
	}
}

func TestExtractCategoriesDropsSampleWithoutLabel(t *testing.T) {
	engine := &fakeEngine{respond: func(req Request) (*Result, error) {
		if len(req.Facets) > 0 {
			return &Result{FacetDistribution: map[string]map[string]int{
				"category_slug": {"tech": 1},
			}}, nil
		}
		// Sample document exists but carries no display name.
		return &Result{Hits: []Document{{CategorySlug: "tech"}}, Total: 1}, nil
	}}
	service := NewService(engine)

	options, err := service.categoryOptions(context.Background(), "", nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(options) != 0 {
		t.Errorf("Expected no options when the label cannot be resolved, got %+v", options)
	}
}

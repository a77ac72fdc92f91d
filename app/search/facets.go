package search

import (
	"context"
	"sort"
	"strings"
)

// extractCategories turns a raw category_slug facet distribution into
// labeled options. The index only holds slugs and per-document names, so
// the display label is read off a sample document per slug. A slug the
// distribution claims is non-empty but that no sample document resolves
// (index drift) is dropped rather than emitted with a broken label.
func (s *Service) extractCategories(ctx context.Context, distribution map[string]int) ([]Option, error) {
	options := make([]Option, 0, len(distribution))

	for slug, count := range distribution {
		if count <= 0 || slug == "" {
			continue
		}

		sample, err := s.search(ctx, "", []Clause{Eq("category_slug", slug)}, nil, 1)
		if err != nil {
			return nil, err
		}
		if len(sample.Hits) == 0 || sample.Hits[0].CategoryName == "" {
			continue
		}

		options = append(options, Option{
			Value: slug,
			Label: sample.Hits[0].CategoryName,
			Count: count,
		})
	}

	sortOptions(options)
	return options, nil
}

// extractAuthors builds author options straight from the distribution: the
// indexed author_name doubles as both value and label.
func extractAuthors(distribution map[string]int) []Option {
	options := make([]Option, 0, len(distribution))

	for name, count := range distribution {
		if count <= 0 || name == "" {
			continue
		}
		options = append(options, Option{Value: name, Label: name, Count: count})
	}

	sortOptions(options)
	return options
}

// sortOptions orders options ascending by label using ordinal comparison,
// independent of the index's internal ordering. Value breaks label ties to
// keep the result fully deterministic.
func sortOptions(options []Option) {
	sort.Slice(options, func(i, j int) bool {
		if c := strings.Compare(options[i].Label, options[j].Label); c != 0 {
			return c < 0
		}
		return options[i].Value < options[j].Value
	})
}

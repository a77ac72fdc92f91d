package search

// Search types shared between the engine, the metadata service and the API layer.

// Selection holds the filter values of a single request. All fields are
// optional; empty string means "not set".
type Selection struct {
	Query        string
	SourceSlug   string
	CategorySlug string
	AuthorName   string
	DateFrom     string // calendar day, YYYY-MM-DD
	DateTo       string // calendar day, YYYY-MM-DD
}

// Document is the denormalized, index-resident projection of an article.
// It is the only shape the search side ever sees; the ingestion pipeline
// keeps it in sync with the relational store.
type Document struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	URL           string `json:"url"`
	ImageURL      string `json:"image_url"`
	Language      string `json:"language"`
	SourceSlug    string `json:"source_slug"`
	SourceName    string `json:"source_name"`
	CategorySlug  string `json:"category_slug"`
	CategoryName  string `json:"category_name"`
	AuthorName    string `json:"author_name"`
	PublishedAt   string `json:"published_at"`
	PublishedAtTS int64  `json:"published_at_ts"`
}

// Option is a single facet entry: the filterable value, its display label
// and how many documents match it under the other active filters.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Validation reports whether the currently selected category and author
// still describe a non-empty result set under the other active filters.
// A false field means the caller should clear that selection.
type Validation struct {
	CategoryExists bool `json:"categoryExists"`
	AuthorExists   bool `json:"authorExists"`
}

// Metadata is the aggregated response of the filtered-metadata operation.
type Metadata struct {
	Categories []Option   `json:"categories"`
	Authors    []Option   `json:"authors"`
	Validation Validation `json:"validation"`
}

// Page is a single page of article search results.
type Page struct {
	Items   []Document `json:"articles"`
	Total   uint64     `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
}

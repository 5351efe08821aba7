package stores

import (
	"context"
	"time"
)

// Quote represents a single catalog entry with its associated tag names.
type Quote struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	Source    *string   `json:"source,omitempty"`
	Year      *int      `json:"year,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Tags is always sorted lexicographically by name.
	Tags []string `json:"tags"`
}

// Tag represents a named label. Names are unique and case-sensitive.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagCount pairs a tag name with its live association count.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Statistics summarizes the catalog. MostQuotedAuthor and MostCommonTag are
// formatted as "name (N quotes)", or "N/A" when the store is empty.
type Statistics struct {
	TotalQuotes      int    `json:"total_quotes"`
	TotalAuthors     int    `json:"total_authors"`
	TotalTags        int    `json:"total_tags"`
	MostQuotedAuthor string `json:"most_quoted_author"`
	MostCommonTag    string `json:"most_common_tag"`
}

// NewQuote carries the fields for AddQuote. Text and Author are required and
// stored trimmed; blank tag names are dropped, duplicates collapsed.
type NewQuote struct {
	Text   string
	Author string
	Source *string
	Year   *int
	Tags   []string
}

// Optional marks a partial-update field as present or absent. A zero
// Optional means "leave unchanged"; Some(v) means "set to v". This keeps
// "clear this field" (Some of a zero value) distinguishable from "don't
// touch it" without sentinel values.
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some wraps a value as a present Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// QuoteUpdate describes a partial update. Tags, when set, fully replaces the
// quote's tag associations; Some of an empty slice removes all tags.
type QuoteUpdate struct {
	Text   Optional[string]
	Author Optional[string]
	Source Optional[*string]
	Year   Optional[*int]
	Tags   Optional[[]string]
}

// IsZero reports whether no field is present.
func (u QuoteUpdate) IsZero() bool {
	return !u.Text.Set && !u.Author.Set && !u.Source.Set && !u.Year.Set && !u.Tags.Set
}

// SearchFilter holds the optional search criteria. All supplied filters
// combine with AND; an empty filter matches everything.
type SearchFilter struct {
	// Query is matched case-insensitively as a substring of text or author.
	Query string

	// Author is a case-insensitive exact match.
	Author string

	// Tags requires the quote to carry every listed tag (AND semantics).
	Tags []string
}

// IsZero reports whether no criterion is supplied.
func (f SearchFilter) IsZero() bool {
	return f.Query == "" && f.Author == "" && len(f.Tags) == 0
}

// Store defines the persistence layer contract. Absence is reported as a
// nil pointer or false, never an error; validation failures wrap
// ErrInvalidInput; everything else is a storage fault.
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Schema bookkeeping
	IsSeeded(ctx context.Context) (bool, error)
	SchemaVersion(ctx context.Context) (int, error)
	MigrateSchema(ctx context.Context, from, to int) error

	// Quote operations
	AddQuote(ctx context.Context, q NewQuote) (*Quote, error)
	GetQuoteByID(ctx context.Context, id int64) (*Quote, error)
	ListQuotes(ctx context.Context) ([]*Quote, error)
	ListQuotesByAuthor(ctx context.Context, author string) ([]*Quote, error)
	ListQuotesByTag(ctx context.Context, tag string) ([]*Quote, error)
	SearchQuotes(ctx context.Context, filter SearchFilter) ([]*Quote, error)
	RandomQuote(ctx context.Context, tag string) (*Quote, error)
	UpdateQuote(ctx context.Context, id int64, update QuoteUpdate) (bool, error)
	DeleteQuote(ctx context.Context, id int64) (bool, error)

	// Tag operations
	AddTagToQuote(ctx context.Context, quoteID int64, tag string) (bool, error)
	ListTags(ctx context.Context) ([]TagCount, error)

	// Aggregation
	GetStatistics(ctx context.Context) (*Statistics, error)

	// Utility
	HealthCheck(ctx context.Context) error
}

package detect

import (
	"context"
	"strings"

	"shelfmark/internal/catalog"
)

// Book is the external book record detection consumes. It carries no identity
// beyond what the source collaborator provides.
type Book struct {
	Title    string
	Author   string
	Category string
	// Series is a pre-existing series assignment, trusted unconditionally.
	Series string
	// Volume is a pre-existing volume number, zero when unset.
	Volume int
}

// Method tags which strategy produced a detection result.
type Method string

const (
	MethodExplicitField    Method = "explicit_field"
	MethodVariationMatch   Method = "variation_match"
	MethodKeywordMatch     Method = "keyword_match"
	MethodNumberingPattern Method = "numbering_pattern"
	MethodNone             Method = "none"
)

// Result is the single classification produced for one book.
type Result struct {
	// Belongs is true only when Confidence reached the mask threshold.
	Belongs    bool
	SeriesName string
	// Confidence is an integer score in [0, 100]. 100 is reserved for the
	// explicit field method.
	Confidence int
	Method     Method
	// Reasons lists every signal that contributed to the winning candidate.
	Reasons []string
}

// Candidate is one strategy's proposal for a book.
type Candidate struct {
	SeriesName string
	Confidence int
	Method     Method
	Reasons    []string
}

// Strategy turns a (book, catalog) pair into zero or one candidate.
type Strategy interface {
	Name() string
	Evaluate(book Book, cat *catalog.Catalog) (Candidate, bool)
}

// RemoteSearcher is the optional discovery collaborator. It serves the
// report/discovery surface only; failures surface to the caller and never
// touch the in-memory catalog used for masking.
type RemoteSearcher interface {
	Search(ctx context.Context, query string) ([]catalog.Series, error)
}

func hasExplicitSeries(book Book) bool {
	return strings.TrimSpace(book.Series) != ""
}

package grouping

import (
	"math"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"shelfmark/internal/catalog"
	"shelfmark/internal/detect"
	"shelfmark/internal/textnorm"
)

// Classifier is the detection entry point grouping depends on. Satisfied by
// *detect.Detector.
type Classifier interface {
	Detect(book detect.Book) detect.Result
	Catalog() *catalog.Catalog
}

// ReadStateFunc reports whether the external read-state collaborator marks a
// book as completed. A nil func leaves every read count at zero.
type ReadStateFunc func(book detect.Book) bool

// BookResult pairs one input book with its detection outcome.
type BookResult struct {
	Book   detect.Book
	Result detect.Result
	// Index is the book's position in the input, the stable secondary sort.
	Index int
	// Hidden marks books masked from the default view because they were
	// grouped under a series entity.
	Hidden bool
}

// SeriesGroup is the derived series entity shown in place of its members.
type SeriesGroup struct {
	Key         string
	DisplayName string
	Members     []string
	ReadCount   int
	TotalCount  int
	// CompletionPercent is read progress in [0, 100], integer rounded.
	CompletionPercent int
}

// Partition is the two-way split of a collection.
type Partition struct {
	Groups     []SeriesGroup
	Standalone []BookResult
	// Results holds the per-book outcomes in input order, grouped books
	// flagged Hidden.
	Results []BookResult
}

// Run classifies every book and partitions the collection into series groups
// and standalone books. Recomputed from scratch on every call; nothing is
// mutated incrementally.
func Run(books []detect.Book, classifier Classifier, readState ReadStateFunc) Partition {
	results := make([]BookResult, 0, len(books))
	for i, book := range books {
		res := classifier.Detect(book)
		results = append(results, BookResult{Book: book, Result: res, Index: i})
	}
	return partitionResults(results, classifier.Catalog(), readState)
}

func partitionResults(results []BookResult, cat *catalog.Catalog, readState ReadStateFunc) Partition {
	groups := make(map[string]*SeriesGroup)
	members := make(map[string][]BookResult)
	var keys []string

	out := Partition{Results: make([]BookResult, 0, len(results))}
	for _, r := range results {
		if !r.Result.Belongs {
			out.Results = append(out.Results, r)
			out.Standalone = append(out.Standalone, r)
			continue
		}
		key := textnorm.Key(r.Result.SeriesName)
		group, ok := groups[key]
		if !ok {
			group = &SeriesGroup{Key: key, DisplayName: displayName(cat, r.Result.SeriesName)}
			groups[key] = group
			keys = append(keys, key)
		}
		r.Hidden = true
		members[key] = append(members[key], r)
		out.Results = append(out.Results, r)
	}

	sort.Strings(keys)
	out.Groups = make([]SeriesGroup, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		// Input order within the group is already stable: members were
		// appended in input order.
		for _, m := range members[key] {
			group.Members = append(group.Members, m.Book.Title)
			if readState != nil && readState(m.Book) {
				group.ReadCount++
			}
		}
		group.TotalCount = len(group.Members)
		group.CompletionPercent = completionPercent(group.ReadCount, group.TotalCount)
		out.Groups = append(out.Groups, *group)
	}
	return out
}

var titleCaser = cases.Title(language.Und, cases.NoLower)

// displayName prefers the canonical catalog spelling; derived names keep the
// detected literal, title-cased.
func displayName(cat *catalog.Catalog, detected string) string {
	if series, ok := cat.FindByName(detected); ok {
		return series.Name
	}
	return titleCaser.String(detected)
}

func completionPercent(read, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(read) / float64(total)))
}

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"shelfmark/internal/textnorm"
)

// minVariationLength is the smallest normalized variation that may match by
// containment. Shorter variations only participate through keyword overlap.
const minVariationLength = 4

type variation struct {
	display    string
	normalized string
}

type entry struct {
	series     Series
	key        string
	variations []variation
	keywords   []string
}

// Catalog is an immutable set of known series.
type Catalog struct {
	entries []entry
}

// New builds a catalog from the provided series. Entries whose name or
// variations collide on normalized keys are rejected.
func New(series ...Series) (*Catalog, error) {
	c := &Catalog{entries: make([]entry, 0, len(series))}
	seen := make(map[string]string, len(series))
	for i := range series {
		s := series[i]
		if err := (&s).validate(); err != nil {
			return nil, err
		}

		e := entry{series: s, key: textnorm.Key(s.Name)}
		if e.key == "" {
			return nil, fmt.Errorf("series %q: name normalizes to nothing", s.Name)
		}

		names := append([]string{s.Name}, s.Variations...)
		for _, t := range s.Translations {
			names = append(names, t)
		}
		dedup := make(map[string]struct{}, len(names))
		for _, name := range names {
			normalized := textnorm.Normalize(name)
			if normalized == "" {
				continue
			}
			key := strings.ReplaceAll(normalized, " ", "")
			if owner, ok := seen[key]; ok && owner != e.key {
				return nil, fmt.Errorf("variation %q of series %q collides with series %q", name, s.Name, owner)
			}
			seen[key] = e.key
			if _, ok := dedup[normalized]; ok {
				continue
			}
			dedup[normalized] = struct{}{}
			e.variations = append(e.variations, variation{display: name, normalized: normalized})
		}

		for _, kw := range s.Keywords {
			for _, token := range textnorm.Tokens(kw) {
				e.keywords = append(e.keywords, token)
			}
		}

		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Load reads a JSON array of series from path and builds a catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var series []Series
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	c, err := New(series...)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Len reports the number of series in the catalog. A zero-length catalog puts
// detection in degraded mode; callers can surface that as a warning.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns the catalog contents in load order.
func (c *Catalog) Entries() []Series {
	if c == nil {
		return nil
	}
	out := make([]Series, len(c.entries))
	for i := range c.entries {
		out[i] = c.entries[i].series
	}
	return out
}

// VariationMatch reports a series whose name variation appears inside a
// normalized title (or contains it).
type VariationMatch struct {
	Series    Series
	Variation string
	// Length is the normalized length of the matched variation.
	Length int
	// Coverage is the matched length relative to the title length, in (0, 1].
	Coverage float64
}

// FindByVariation scans for the longest catalog variation contained in the
// normalized title. A title that is itself contained in a longer variation
// also matches, with full coverage. Variations shorter than four normalized
// characters never match.
func (c *Catalog) FindByVariation(normalizedTitle string) (VariationMatch, bool) {
	if c == nil {
		return VariationMatch{}, false
	}
	title := strings.TrimSpace(normalizedTitle)
	if title == "" {
		return VariationMatch{}, false
	}

	var best VariationMatch
	found := false
	for i := range c.entries {
		e := &c.entries[i]
		for _, v := range e.variations {
			if len(v.normalized) < minVariationLength {
				continue
			}
			var matched int
			var coverage float64
			switch {
			case strings.Contains(title, v.normalized):
				matched = len(v.normalized)
				coverage = float64(matched) / float64(len(title))
			case len(title) >= minVariationLength && strings.Contains(v.normalized, title):
				matched = len(v.normalized)
				coverage = 1.0
			default:
				continue
			}
			if !found || matched > best.Length {
				best = VariationMatch{
					Series:    e.series,
					Variation: v.display,
					Length:    matched,
					Coverage:  coverage,
				}
				found = true
			}
		}
	}
	return best, found
}

// KeywordMatch reports how many of a series' keywords occur in a title.
type KeywordMatch struct {
	Series  Series
	Matched []string
	// Total is the series' keyword count, for proportional scoring.
	Total int
}

// FindByKeywords ranks series by keyword overlap with the provided token set.
// Series with no overlap are omitted; ties rank by name for determinism.
func (c *Catalog) FindByKeywords(tokens map[string]struct{}) []KeywordMatch {
	if c == nil || len(tokens) == 0 {
		return nil
	}
	matches := make([]KeywordMatch, 0, 4)
	for i := range c.entries {
		e := &c.entries[i]
		if len(e.keywords) == 0 {
			continue
		}
		var matched []string
		for _, kw := range e.keywords {
			if _, ok := tokens[kw]; ok {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		sort.Strings(matched)
		matches = append(matches, KeywordMatch{Series: e.series, Matched: matched, Total: len(e.keywords)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if len(matches[i].Matched) != len(matches[j].Matched) {
			return len(matches[i].Matched) > len(matches[j].Matched)
		}
		return matches[i].Series.Name < matches[j].Series.Name
	})
	return matches
}

// FindByName resolves a normalized name or variation key to its series.
func (c *Catalog) FindByName(name string) (Series, bool) {
	if c == nil {
		return Series{}, false
	}
	key := textnorm.Key(name)
	if key == "" {
		return Series{}, false
	}
	for i := range c.entries {
		e := &c.entries[i]
		if e.key == key {
			return e.series, true
		}
		for _, v := range e.variations {
			if strings.ReplaceAll(v.normalized, " ", "") == key {
				return e.series, true
			}
		}
	}
	return Series{}, false
}

// Search returns series whose name, authors, or keywords contain the query.
// Used by the discovery/report surface, not by the masking path.
func (c *Catalog) Search(query string) []Series {
	if c == nil {
		return nil
	}
	q := textnorm.Normalize(query)
	if q == "" {
		return nil
	}
	var out []Series
	for i := range c.entries {
		e := &c.entries[i]
		if c.entryMatchesQuery(e, q) {
			out = append(out, e.series)
		}
	}
	return out
}

func (c *Catalog) entryMatchesQuery(e *entry, q string) bool {
	for _, v := range e.variations {
		if strings.Contains(v.normalized, q) {
			return true
		}
	}
	for _, author := range e.series.Authors {
		if strings.Contains(textnorm.Normalize(author), q) {
			return true
		}
	}
	for _, kw := range e.keywords {
		if strings.Contains(kw, q) {
			return true
		}
	}
	return false
}

// ByCategory returns all series in the given category, in load order.
func (c *Catalog) ByCategory(category Category) []Series {
	if c == nil {
		return nil
	}
	var out []Series
	for i := range c.entries {
		if c.entries[i].series.Category == category {
			out = append(out, c.entries[i].series)
		}
	}
	return out
}

// ByAuthor returns all series with an author containing the fragment.
func (c *Catalog) ByAuthor(fragment string) []Series {
	if c == nil {
		return nil
	}
	q := textnorm.Normalize(fragment)
	if q == "" {
		return nil
	}
	var out []Series
	for i := range c.entries {
		for _, author := range c.entries[i].series.Authors {
			if strings.Contains(textnorm.Normalize(author), q) {
				out = append(out, c.entries[i].series)
				break
			}
		}
	}
	return out
}

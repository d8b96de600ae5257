package detect

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"shelfmark/internal/catalog"
	"shelfmark/internal/textnorm"
)

// Confidence bands per strategy. The numbering penalty applies when the
// numbering prefix is unknown to the catalog.
const (
	explicitConfidence       = 100
	variationConfidenceFloor = 80
	variationConfidenceCap   = 95
	keywordConfidenceFloor   = 60
	keywordConfidenceCap     = 75
	numberingKnownConfidence = 85
	numberingUnknownPenalty  = 10
	minKeywordOverlap        = 2
	minNumberingPrefix       = 4
)

// numberingPattern matches "tome N", "volume N", "vol. N", and "#N" markers.
var numberingPattern = regexp.MustCompile(`(?i)(?:\b(?:tome|volume|vol\.?)\s*|#)(\d+)`)

// explicitFieldStrategy trusts a pre-existing series assignment on the book.
type explicitFieldStrategy struct{}

func (explicitFieldStrategy) Name() string { return "explicit_field" }

func (explicitFieldStrategy) Evaluate(book Book, _ *catalog.Catalog) (Candidate, bool) {
	if !hasExplicitSeries(book) {
		return Candidate{}, false
	}
	name := strings.TrimSpace(book.Series)
	return Candidate{
		SeriesName: name,
		Confidence: explicitConfidence,
		Method:     MethodExplicitField,
		Reasons:    []string{fmt.Sprintf("explicit series field %q", name)},
	}, true
}

// variationStrategy matches the normalized title against catalog name
// variations, scaling confidence by how much of the title the variation covers.
type variationStrategy struct{}

func (variationStrategy) Name() string { return "variation_match" }

func (variationStrategy) Evaluate(book Book, cat *catalog.Catalog) (Candidate, bool) {
	normalized := textnorm.Normalize(book.Title)
	if normalized == "" {
		return Candidate{}, false
	}
	match, ok := cat.FindByVariation(normalized)
	if !ok {
		return Candidate{}, false
	}
	span := variationConfidenceCap - variationConfidenceFloor
	confidence := variationConfidenceFloor + int(math.Round(float64(span)*match.Coverage))
	if confidence > variationConfidenceCap {
		confidence = variationConfidenceCap
	}
	return Candidate{
		SeriesName: match.Series.Name,
		Confidence: confidence,
		Method:     MethodVariationMatch,
		Reasons: []string{
			fmt.Sprintf("variation %q matched title (coverage %.0f%%)", match.Variation, match.Coverage*100),
		},
	}, true
}

// keywordStrategy requires at least two catalog keywords to appear as whole
// tokens in the title, scaling confidence by the proportion matched.
type keywordStrategy struct{}

func (keywordStrategy) Name() string { return "keyword_match" }

func (keywordStrategy) Evaluate(book Book, cat *catalog.Catalog) (Candidate, bool) {
	tokens := textnorm.TokenSet(book.Title)
	if len(tokens) == 0 {
		return Candidate{}, false
	}
	matches := cat.FindByKeywords(tokens)
	if len(matches) == 0 {
		return Candidate{}, false
	}
	best := matches[0]
	if len(best.Matched) < minKeywordOverlap {
		return Candidate{}, false
	}
	proportion := float64(len(best.Matched)) / float64(best.Total)
	span := keywordConfidenceCap - keywordConfidenceFloor
	confidence := keywordConfidenceFloor + int(math.Round(float64(span)*proportion))
	if confidence > keywordConfidenceCap {
		confidence = keywordConfidenceCap
	}
	return Candidate{
		SeriesName: best.Series.Name,
		Confidence: confidence,
		Method:     MethodKeywordMatch,
		Reasons: []string{
			fmt.Sprintf("keywords %s matched (%d of %d)", strings.Join(best.Matched, ", "), len(best.Matched), best.Total),
		},
	}, true
}

// numberingStrategy infers a series from "tome N" style markers, taking the
// trimmed prefix before the marker as the series name.
type numberingStrategy struct{}

func (numberingStrategy) Name() string { return "numbering_pattern" }

func (numberingStrategy) Evaluate(book Book, cat *catalog.Catalog) (Candidate, bool) {
	title := strings.TrimSpace(book.Title)
	if title == "" {
		return Candidate{}, false
	}
	loc := numberingPattern.FindStringSubmatchIndex(title)
	if loc == nil {
		return Candidate{}, false
	}
	marker := title[loc[0]:loc[1]]
	prefix := textnorm.Normalize(title[:loc[0]])
	if len(prefix) < minNumberingPrefix {
		return Candidate{}, false
	}

	confidence := numberingKnownConfidence
	reasons := []string{fmt.Sprintf("numbering marker %q with prefix %q", marker, prefix)}
	seriesName := strings.TrimSpace(title[:loc[0]])
	seriesName = strings.TrimRight(seriesName, " -:,;")
	if known, ok := cat.FindByName(prefix); ok {
		seriesName = known.Name
		reasons = append(reasons, fmt.Sprintf("prefix matches catalog series %q", known.Name))
	} else {
		confidence -= numberingUnknownPenalty
		reasons = append(reasons, "prefix not present in catalog")
	}
	return Candidate{
		SeriesName: seriesName,
		Confidence: confidence,
		Method:     MethodNumberingPattern,
		Reasons:    reasons,
	}, true
}

// Strategies returns the evaluation order the arbiter runs. The order is part
// of the determinism contract and doubles as the tie-break priority.
func Strategies() []Strategy {
	return []Strategy{
		explicitFieldStrategy{},
		variationStrategy{},
		keywordStrategy{},
		numberingStrategy{},
	}
}

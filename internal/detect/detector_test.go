package detect

import (
	"strings"
	"testing"

	"shelfmark/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		catalog.Series{
			Name:       "Harry Potter",
			Authors:    []string{"J.K. Rowling"},
			Category:   catalog.CategoryNovel,
			Volumes:    7,
			Keywords:   []string{"harry", "potter", "hogwarts"},
			Variations: []string{"Harry Potter à l'école"},
		},
		catalog.Series{
			Name:       "Astérix",
			Category:   catalog.CategoryComic,
			Keywords:   []string{"asterix", "obelix"},
			Variations: []string{"Asterix"},
		},
		catalog.Series{
			Name:     "The Wheel of Time",
			Category: catalog.CategoryNovel,
			Keywords: []string{"wheel", "time", "aes", "sedai"},
		},
		catalog.Series{
			Name:     "Gaul Adventures",
			Category: catalog.CategoryComic,
			Keywords: []string{"gaul", "adventures"},
		},
	)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func TestDetectVariationMatch(t *testing.T) {
	d := NewDetector(testCatalog(t))

	result := d.Detect(Book{Title: "Harry Potter and the Goblet of Fire"})
	if !result.Belongs {
		t.Fatalf("expected HP volume to belong, got %+v", result)
	}
	if result.SeriesName != "Harry Potter" {
		t.Fatalf("unexpected series %q", result.SeriesName)
	}
	if result.Method != MethodVariationMatch {
		t.Fatalf("unexpected method %q", result.Method)
	}
	if result.Confidence < 80 || result.Confidence > 95 {
		t.Fatalf("variation confidence out of band: %d", result.Confidence)
	}
}

func TestDetectAccentInsensitive(t *testing.T) {
	d := NewDetector(testCatalog(t))

	plain := d.Detect(Book{Title: "Asterix le Gaulois"})
	accented := d.Detect(Book{Title: "Astérix le Gaulois"})
	if plain.SeriesName != "Astérix" || accented.SeriesName != "Astérix" {
		t.Fatalf("accent variants diverged: %+v vs %+v", plain, accented)
	}
	if plain.Confidence != accented.Confidence {
		t.Fatalf("confidence diverged: %d vs %d", plain.Confidence, accented.Confidence)
	}
}

func TestDetectExplicitFieldShortCircuits(t *testing.T) {
	d := NewDetector(testCatalog(t))

	result := d.Detect(Book{Title: "Completely Unrelated", Series: "My Private Series"})
	if !result.Belongs || result.Confidence != 100 {
		t.Fatalf("explicit field should be trusted fully, got %+v", result)
	}
	if result.Method != MethodExplicitField {
		t.Fatalf("unexpected method %q", result.Method)
	}
	if result.SeriesName != "My Private Series" {
		t.Fatalf("unexpected series %q", result.SeriesName)
	}
}

func TestDetectExplicitFieldWithEmptyCatalog(t *testing.T) {
	empty, err := catalog.New()
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	d := NewDetector(empty)

	result := d.Detect(Book{Title: "Anything", Series: "Known Upfront"})
	if !result.Belongs || result.Method != MethodExplicitField {
		t.Fatalf("explicit field must not need the catalog, got %+v", result)
	}
}

func TestDetectEmptyTitle(t *testing.T) {
	d := NewDetector(testCatalog(t))

	result := d.Detect(Book{Title: "   "})
	if result.Belongs || result.Method != MethodNone || result.Confidence != 0 {
		t.Fatalf("empty title must yield none, got %+v", result)
	}
}

func TestDetectEmptyCatalogDegradedMode(t *testing.T) {
	empty, err := catalog.New()
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	d := NewDetector(empty)

	result := d.Detect(Book{Title: "Harry Potter and the Goblet of Fire"})
	if result.Belongs || result.Method != MethodNone {
		t.Fatalf("empty catalog must yield none, got %+v", result)
	}
}

func TestDetectKeywordMatch(t *testing.T) {
	d := NewDetector(testCatalog(t))

	// Three of four keywords, no variation containment.
	result := d.Detect(Book{Title: "Aes of Time and Wheel"})
	if result.Method != MethodKeywordMatch {
		t.Fatalf("expected keyword match, got %+v", result)
	}
	if result.SeriesName != "The Wheel of Time" {
		t.Fatalf("unexpected series %q", result.SeriesName)
	}
	if !result.Belongs {
		t.Fatalf("expected confidence above threshold, got %d", result.Confidence)
	}
}

func TestDetectBelowThresholdKeepsScore(t *testing.T) {
	d := NewDetector(testCatalog(t))

	// Two of four keywords: 60 + round(15*0.5) = 68, below the default 70.
	result := d.Detect(Book{Title: "A Memory of Wheel and Time"})
	if result.Belongs {
		t.Fatalf("expected standalone, got %+v", result)
	}
	if result.Confidence != 68 {
		t.Fatalf("expected confidence 68, got %d", result.Confidence)
	}
	last := result.Reasons[len(result.Reasons)-1]
	if !strings.Contains(last, "below threshold") {
		t.Fatalf("expected below-threshold reason, got %v", result.Reasons)
	}
}

func TestDetectNumberingUnknownPrefix(t *testing.T) {
	d := NewDetector(testCatalog(t))

	result := d.Detect(Book{Title: "Malazan Tome 3"})
	if result.Method != MethodNumberingPattern {
		t.Fatalf("expected numbering match, got %+v", result)
	}
	if result.Confidence != 75 {
		t.Fatalf("unknown prefix should score 75, got %d", result.Confidence)
	}
	if result.SeriesName != "Malazan" {
		t.Fatalf("unexpected series %q", result.SeriesName)
	}
	if !result.Belongs {
		t.Fatalf("expected 75 to clear the default threshold")
	}
}

func TestDetectNumberingWithoutPrefixDoesNotFire(t *testing.T) {
	d := NewDetector(testCatalog(t))

	result := d.Detect(Book{Title: "Tome 3: The Return"})
	if result.Method != MethodNone || result.Belongs {
		t.Fatalf("marker without a series prefix must not match, got %+v", result)
	}
}

func TestDetectTieBreakPrefersEarlierStrategy(t *testing.T) {
	d := NewDetector(testCatalog(t))

	// Keyword match (2 of 2 keywords = 75) ties the unknown-prefix numbering
	// score (75); the earlier strategy must win.
	result := d.Detect(Book{Title: "Adventures of Gaul, Tome 3"})
	if result.Method != MethodKeywordMatch {
		t.Fatalf("expected keyword strategy on tie, got %+v", result)
	}
	if result.Confidence != 75 {
		t.Fatalf("expected confidence 75, got %d", result.Confidence)
	}
}

func TestDetectUnknownTitleIsStandalone(t *testing.T) {
	d := NewDetector(testCatalog(t))

	result := d.Detect(Book{Title: "Dune"})
	if result.Belongs || result.Method != MethodNone {
		t.Fatalf("unknown title must stay standalone, got %+v", result)
	}
}

func TestDetectDeterministic(t *testing.T) {
	d := NewDetector(testCatalog(t))
	book := Book{Title: "Harry Potter and the Goblet of Fire"}

	first := d.Detect(book)
	for i := 0; i < 10; i++ {
		if got := d.Detect(book); got.Confidence != first.Confidence || got.SeriesName != first.SeriesName || got.Method != first.Method {
			t.Fatalf("detection not deterministic: %+v vs %+v", first, got)
		}
	}
}

func TestWithThresholdBounds(t *testing.T) {
	d := NewDetector(testCatalog(t), WithThreshold(150))
	if d.Threshold() != DefaultMaskThreshold {
		t.Fatalf("out-of-range threshold must keep default, got %d", d.Threshold())
	}

	d = NewDetector(testCatalog(t), WithThreshold(90))
	if d.Threshold() != 90 {
		t.Fatalf("expected threshold 90, got %d", d.Threshold())
	}
}

func TestWithMinConfidenceClones(t *testing.T) {
	base := NewDetector(testCatalog(t))
	strict := base.WithMinConfidence(90)

	if base.Threshold() != DefaultMaskThreshold {
		t.Fatalf("base threshold mutated to %d", base.Threshold())
	}
	if strict.Threshold() != 90 {
		t.Fatalf("clone threshold not applied: %d", strict.Threshold())
	}

	// 85 belongs at the default threshold but not at 90.
	book := Book{Title: "Harry Potter and the Goblet of Fire"}
	if !base.Detect(book).Belongs {
		t.Fatal("expected base detector to accept")
	}
	if strict.Detect(book).Belongs {
		t.Fatal("expected strict detector to reject")
	}
}

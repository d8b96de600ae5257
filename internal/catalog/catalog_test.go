package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"shelfmark/internal/textnorm"
)

func testSeries(t *testing.T) []Series {
	t.Helper()
	return []Series{
		{
			Name:         "Harry Potter",
			Authors:      []string{"J.K. Rowling"},
			Category:     CategoryNovel,
			Volumes:      7,
			Keywords:     []string{"harry", "potter", "hogwarts"},
			Variations:   []string{"Harry Potter à l'école"},
			Status:       StatusCompleted,
			Translations: map[string]string{"fr": "Harry Potter (fr)"},
		},
		{
			Name:       "Astérix",
			Authors:    []string{"René Goscinny", "Albert Uderzo"},
			Category:   CategoryComic,
			Volumes:    40,
			Keywords:   []string{"asterix", "obelix", "gaulois"},
			Variations: []string{"Asterix", "Astérix le Gaulois"},
			Status:     StatusOngoing,
		},
		{
			Name:     "The Wheel of Time",
			Authors:  []string{"Robert Jordan"},
			Category: CategoryNovel,
			Volumes:  14,
			Keywords: []string{"wheel", "time", "aes", "sedai"},
			Status:   StatusCompleted,
		},
	}
}

func mustCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(testSeries(t)...)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func TestNewRejectsInvalidCategory(t *testing.T) {
	_, err := New(Series{Name: "Broken", Category: "magazine"})
	if err == nil {
		t.Fatal("expected category validation error")
	}
}

func TestNewRejectsCrossSeriesCollision(t *testing.T) {
	_, err := New(
		Series{Name: "Dark Tower", Category: CategoryNovel},
		Series{Name: "Second", Category: CategoryNovel, Variations: []string{"The Dark Tower"}},
	)
	if err == nil {
		t.Fatal("expected collision error for shared normalized key")
	}
}

func TestNewAllowsCollisionWithinOneSeries(t *testing.T) {
	_, err := New(Series{
		Name:       "Astérix",
		Category:   CategoryComic,
		Variations: []string{"ASTERIX", "astérix!"},
	})
	if err != nil {
		t.Fatalf("same-series variations should not collide: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `[{"name":"One Piece","category":"manga","volumes":100}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 series, got %d", c.Len())
	}
	if _, ok := c.FindByName("one piece"); !ok {
		t.Fatal("expected One Piece to resolve by name")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFindByVariationForwardContainment(t *testing.T) {
	c := mustCatalog(t)
	title := textnorm.Normalize("Harry Potter and the Goblet of Fire")

	match, ok := c.FindByVariation(title)
	if !ok {
		t.Fatal("expected variation match")
	}
	if match.Series.Name != "Harry Potter" {
		t.Fatalf("unexpected series %q", match.Series.Name)
	}
	if match.Coverage <= 0 || match.Coverage > 1 {
		t.Fatalf("coverage out of range: %f", match.Coverage)
	}
}

func TestFindByVariationReverseContainment(t *testing.T) {
	c := mustCatalog(t)
	// Title shorter than the variation but contained in it.
	match, ok := c.FindByVariation(textnorm.Normalize("Wheel of"))
	if !ok {
		t.Fatal("expected reverse containment match")
	}
	if match.Series.Name != "The Wheel of Time" {
		t.Fatalf("unexpected series %q", match.Series.Name)
	}
	if match.Coverage != 1.0 {
		t.Fatalf("reverse containment should have full coverage, got %f", match.Coverage)
	}
}

func TestFindByVariationPrefersLongest(t *testing.T) {
	c, err := New(
		Series{Name: "Foundation", Category: CategoryNovel},
		Series{Name: "Foundation and Empire Chronicles", Category: CategoryNovel},
	)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}

	match, ok := c.FindByVariation(textnorm.Normalize("Foundation and Empire Chronicles, Book 2"))
	if !ok {
		t.Fatal("expected match")
	}
	if match.Series.Name != "Foundation and Empire Chronicles" {
		t.Fatalf("expected longest variation to win, got %q", match.Series.Name)
	}
}

func TestFindByVariationIgnoresShortTitles(t *testing.T) {
	c := mustCatalog(t)
	if _, ok := c.FindByVariation(textnorm.Normalize("pot")); ok {
		t.Fatal("three-character title must not reverse-match")
	}
	if _, ok := c.FindByVariation(""); ok {
		t.Fatal("empty title must not match")
	}
}

func TestFindByKeywordsRanking(t *testing.T) {
	c := mustCatalog(t)
	tokens := textnorm.TokenSet("harry potter and the wheel")

	matches := c.FindByKeywords(tokens)
	if len(matches) != 2 {
		t.Fatalf("expected 2 keyword matches, got %d", len(matches))
	}
	if matches[0].Series.Name != "Harry Potter" {
		t.Fatalf("expected Harry Potter ranked first, got %q", matches[0].Series.Name)
	}
	if len(matches[0].Matched) != 2 {
		t.Fatalf("expected 2 matched keywords, got %v", matches[0].Matched)
	}
	if matches[0].Total != 3 {
		t.Fatalf("expected total keyword count 3, got %d", matches[0].Total)
	}
}

func TestFindByKeywordsEmptyTokens(t *testing.T) {
	c := mustCatalog(t)
	if matches := c.FindByKeywords(nil); matches != nil {
		t.Fatalf("expected nil for empty token set, got %v", matches)
	}
}

func TestFindByNameResolvesVariations(t *testing.T) {
	c := mustCatalog(t)
	for _, name := range []string{"Astérix", "ASTERIX", "Astérix le Gaulois"} {
		s, ok := c.FindByName(name)
		if !ok {
			t.Fatalf("expected %q to resolve", name)
		}
		if s.Name != "Astérix" {
			t.Fatalf("resolved wrong series %q", s.Name)
		}
	}
	if _, ok := c.FindByName("Dune"); ok {
		t.Fatal("unknown name must not resolve")
	}
}

func TestSearch(t *testing.T) {
	c := mustCatalog(t)

	if got := c.Search("rowling"); len(got) != 1 || got[0].Name != "Harry Potter" {
		t.Fatalf("author search failed: %v", got)
	}
	if got := c.Search("obelix"); len(got) != 1 || got[0].Name != "Astérix" {
		t.Fatalf("keyword search failed: %v", got)
	}
	if got := c.Search("zzz"); len(got) != 0 {
		t.Fatalf("expected no results, got %v", got)
	}
}

func TestByCategoryAndAuthor(t *testing.T) {
	c := mustCatalog(t)

	comics := c.ByCategory(CategoryComic)
	if len(comics) != 1 || comics[0].Name != "Astérix" {
		t.Fatalf("ByCategory failed: %v", comics)
	}

	jordan := c.ByAuthor("jordan")
	if len(jordan) != 1 || jordan[0].Name != "The Wheel of Time" {
		t.Fatalf("ByAuthor failed: %v", jordan)
	}
}

func TestSeedCatalog(t *testing.T) {
	c, err := Seed()
	if err != nil {
		t.Fatalf("load seed catalog: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("seed catalog is empty")
	}
	if _, ok := c.FindByName("Harry Potter"); !ok {
		t.Fatal("seed catalog missing Harry Potter")
	}
}

func TestNilCatalogIsSafe(t *testing.T) {
	var c *Catalog
	if c.Len() != 0 {
		t.Fatal("nil catalog should be empty")
	}
	if _, ok := c.FindByVariation("anything"); ok {
		t.Fatal("nil catalog must not match")
	}
	if got := c.FindByKeywords(map[string]struct{}{"x": {}}); got != nil {
		t.Fatalf("nil catalog must return nil, got %v", got)
	}
}

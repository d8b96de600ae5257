package main

import (
	"strings"
	"testing"

	"shelfmark/internal/catalog"
	"shelfmark/internal/testsupport"
)

func comicConfig(t *testing.T) string {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogJSON([]catalog.Series{
		{Name: "Astérix", Category: catalog.CategoryComic, Variations: []string{"Asterix"}},
	}))
	return writeConfigFile(t, cfg)
}

func TestLibraryAddListAndShelf(t *testing.T) {
	path := comicConfig(t)

	runCommand(t, "library", "add", "Astérix le Gaulois", "--author", "René Goscinny", "--config", path)
	runCommand(t, "library", "add", "Asterix chez les Bretons", "--config", path)
	runCommand(t, "library", "add", "Dune", "--author", "Frank Herbert", "--config", path)

	list := runCommand(t, "library", "list", "--config", path)
	for _, title := range []string{"Astérix le Gaulois", "Asterix chez les Bretons", "Dune"} {
		if !strings.Contains(list, title) {
			t.Fatalf("list missing %q:\n%s", title, list)
		}
	}

	shelf := runCommand(t, "shelf", "--config", path)
	if !strings.Contains(shelf, "Astérix") {
		t.Fatalf("shelf missing series group:\n%s", shelf)
	}
	if !strings.Contains(shelf, "Dune") {
		t.Fatalf("shelf missing standalone book:\n%s", shelf)
	}
	if !strings.Contains(shelf, "2 book(s) masked into 1 series; 1 standalone") {
		t.Fatalf("shelf missing masked-count line:\n%s", shelf)
	}
}

func TestLibraryReadUpdatesProgress(t *testing.T) {
	path := comicConfig(t)

	runCommand(t, "library", "add", "Astérix le Gaulois", "--config", path)
	runCommand(t, "library", "add", "Asterix chez les Bretons", "--config", path)
	runCommand(t, "library", "read", "asterix le gaulois", "--config", path)

	shelf := runCommand(t, "shelf", "--config", path)
	if !strings.Contains(shelf, "50%") {
		t.Fatalf("expected 50%% completion:\n%s", shelf)
	}
}

func TestAnalyzeCommandSummary(t *testing.T) {
	path := comicConfig(t)

	runCommand(t, "library", "add", "Astérix le Gaulois", "--config", path)
	runCommand(t, "library", "add", "Dune", "--config", path)

	out := runCommand(t, "analyze", "--quiet", "--config", path)
	if !strings.Contains(out, "Analyzed:   2") {
		t.Fatalf("unexpected analyzed count:\n%s", out)
	}
	if !strings.Contains(out, "Series:     1") {
		t.Fatalf("unexpected series count:\n%s", out)
	}
	if !strings.Contains(out, "Standalone: 1") {
		t.Fatalf("unexpected standalone count:\n%s", out)
	}
}

package catalog

import (
	"fmt"
	"strings"
)

// Category classifies the kind of series.
type Category string

const (
	CategoryNovel Category = "novel"
	CategoryComic Category = "comic"
	CategoryManga Category = "manga"
)

// Status records whether a series is still being published.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// Source distinguishes hand-curated entries from imported ones. Informational
// only; it never influences matching confidence.
type Source string

const (
	SourceManual         Source = "manual"
	SourceExternalSearch Source = "external-search"
)

// Series describes one known multi-volume series.
type Series struct {
	Name           string            `json:"name"`
	Authors        []string          `json:"authors,omitempty"`
	Category       Category          `json:"category"`
	Volumes        int               `json:"volumes,omitempty"`
	Keywords       []string          `json:"keywords,omitempty"`
	Variations     []string          `json:"variations,omitempty"`
	Status         Status            `json:"status,omitempty"`
	FirstPublished int               `json:"first_published,omitempty"`
	Languages      []string          `json:"languages,omitempty"`
	Translations   map[string]string `json:"translations,omitempty"`
	Source         Source            `json:"source,omitempty"`
}

func (s *Series) validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("series name must not be empty")
	}
	switch s.Category {
	case CategoryNovel, CategoryComic, CategoryManga:
	default:
		return fmt.Errorf("series %q: unknown category %q", s.Name, s.Category)
	}
	switch s.Status {
	case StatusOngoing, StatusCompleted, "":
	default:
		return fmt.Errorf("series %q: unknown status %q", s.Name, s.Status)
	}
	switch s.Source {
	case SourceManual, SourceExternalSearch, "":
	default:
		return fmt.Errorf("series %q: unknown source %q", s.Name, s.Source)
	}
	if s.Volumes < 0 {
		return fmt.Errorf("series %q: volumes must not be negative", s.Name)
	}
	return nil
}

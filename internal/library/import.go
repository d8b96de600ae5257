package library

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"shelfmark/internal/services"
)

// ImportRecord is one entry in a JSON import file.
type ImportRecord struct {
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	Category string `json:"category,omitempty"`
	Series   string `json:"series,omitempty"`
	Volume   int    `json:"volume,omitempty"`
	Read     bool   `json:"read,omitempty"`
}

// ImportResult summarizes a bulk import.
type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportJSON loads book records from a JSON array file and inserts them.
// Records without a title are skipped rather than aborting the batch.
func (s *Store) ImportJSON(ctx context.Context, path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "library", "import", fmt.Sprintf("read import file %s", path), err)
	}

	var records []ImportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, services.Wrap(services.ErrValidation, "library", "import", fmt.Sprintf("parse import file %s", path), err)
	}

	result := &ImportResult{}
	for _, record := range records {
		if strings.TrimSpace(record.Title) == "" {
			result.Skipped++
			continue
		}
		if _, err := s.Add(ctx, Book{
			Title:    record.Title,
			Author:   record.Author,
			Category: record.Category,
			Series:   record.Series,
			Volume:   record.Volume,
			Read:     record.Read,
		}); err != nil {
			return nil, fmt.Errorf("import %q: %w", record.Title, err)
		}
		result.Imported++
	}
	return result, nil
}

package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed_catalog.json
var seedData []byte

// Seed returns the built-in starter catalog used when no catalog file is
// configured.
func Seed() (*Catalog, error) {
	var series []Series
	if err := json.Unmarshal(seedData, &series); err != nil {
		return nil, fmt.Errorf("parse embedded catalog: %w", err)
	}
	c, err := New(series...)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
}

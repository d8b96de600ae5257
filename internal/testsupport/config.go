// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"shelfmark/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LibraryDB = filepath.Join(base, "library.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	// Keep test output quiet unless a test opts back in.
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMaskThreshold overrides the detection mask threshold.
func WithMaskThreshold(threshold int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Detection.MaskThreshold = threshold
	}
}

// WithCatalogJSON writes the provided series records to a catalog file in
// the test's temp directory and points the config at it.
func WithCatalogJSON(records any) ConfigOption {
	return func(b *configBuilder) {
		data, err := json.Marshal(records)
		if err != nil {
			b.t.Fatalf("marshal catalog fixture: %v", err)
		}
		path := filepath.Join(b.baseDir, "catalog.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			b.t.Fatalf("write catalog fixture: %v", err)
		}
		b.cfg.Paths.CatalogPath = path
	}
}

package config

import "strings"

// normalize expands user paths and canonicalizes string fields in place.
func (c *Config) normalize() error {
	var err error
	if c.Paths.CatalogPath = strings.TrimSpace(c.Paths.CatalogPath); c.Paths.CatalogPath != "" {
		if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
			return err
		}
	}
	if c.Paths.LibraryDB, err = expandPath(strings.TrimSpace(c.Paths.LibraryDB)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// Package config loads, normalizes, and validates shelfmark configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from the default location or a
// project-local shelfmark.toml. Obtain settings through this package so
// downstream code receives sanitized paths and validated thresholds.
package config

// Package grouping turns per-book detection results into the shelf view: books
// that matched a series collapse into one group entry and are masked from the
// default listing, everything else stays standalone.
//
// Partition is deterministic: the same books and catalog always produce the
// same groups, keys, and member order. Groups are keyed by the normalized
// series name, so spelling and diacritic variants of one series collapse
// together. Every input book appears exactly once across groups and standalone
// results.
package grouping

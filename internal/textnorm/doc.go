// Package textnorm folds title and series-name strings into canonical
// comparison keys so that case, diacritic, article, and punctuation variants
// compare equal.
//
// Normalize produces a lowercase, accent-free, article-stripped rendering with
// single-space separators. Key removes the remaining spaces and is the form
// used for catalog uniqueness and series grouping. Tokens yields the whole-word
// tokens used by keyword matching.
//
// All functions are pure and idempotent; feeding the output back in returns the
// same string.
package textnorm

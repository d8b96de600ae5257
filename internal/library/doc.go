// Package library persists the user's book collection in SQLite and serves as
// the book-source and read-state collaborator the detection engine consumes.
//
// The engine itself never touches this store; it sees plain book records and a
// read-state lookup. Writers take an advisory file lock so concurrent CLI
// invocations cannot interleave imports.
package library

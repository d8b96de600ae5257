// Package services defines the sentinel error taxonomy shared by shelfmark's
// collaborator adapters and CLI surfaces.
//
// Errors are tagged with a marker sentinel so callers can classify failures
// without string matching. Engine-internal conditions such as an empty title
// or an empty catalog are ordinary values, never errors.
package services

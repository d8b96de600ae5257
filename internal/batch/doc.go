// Package batch runs series detection over a whole collection in one
// at-most-once pass.
//
// The orchestrator walks the books in order, applying an optional inter-call
// delay (a cooperative rate limit for deployments where catalog lookups reach
// a remote service; inert for in-process catalogs) and invoking a progress
// callback after each book. A panicking evaluation is caught at the book
// boundary, counted, and the book passes through as standalone; the batch
// never aborts. Cancelling the context stops iteration without emitting
// partial groups.
package batch

// Package catalog provides the read-only reference catalog of known
// multi-volume series that detection matches books against.
//
// A Catalog is loaded once from a JSON dataset (or from the embedded starter
// set) and is immutable afterwards, so one instance can be shared by concurrent
// callers without locking. Name variations and keywords are normalized at load
// time; the load fails if two entries normalize to the same name or variation
// key.
//
// Lookups are linear scans. The catalog scale is tens to low hundreds of
// entries, so no index is kept.
package catalog

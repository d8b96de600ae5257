// Package detect classifies individual books against the reference series
// catalog.
//
// Detection runs an ordered list of independent match strategies, each turning
// a (book, catalog) pair into at most one candidate with a method tag and a
// confidence score. The Detector arbitrates: an explicit series field on the
// book is authoritative and short-circuits everything else; otherwise the
// highest-confidence candidate wins, with variation matches preferred over
// keyword matches over numbering inferences on exact ties. A winner below the
// mask threshold leaves the book standalone but keeps its computed confidence
// visible.
//
// Detection is deterministic and stateless per call. Malformed input and an
// empty catalog degrade to "no match"; they never produce errors.
package detect

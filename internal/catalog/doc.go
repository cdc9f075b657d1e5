// Package catalog owns the movie catalog data model and its JSON store.
//
// A catalog is a single JSON document holding a movies list plus bookkeeping
// fields (total_count, last_updated). Records are mutated in place by the
// enrichment engine; the merge helpers only ever upgrade a field from its
// zero value to a discovered value, never the reverse, so a failed run can
// never erase data from an earlier one.
//
// Saves go through a temp file rename and an advisory file lock so concurrent
// cinefill invocations cannot interleave partial writes.
package catalog

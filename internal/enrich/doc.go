// Package enrich drives catalog records through a resolution source on a
// bounded worker pool.
//
// Each record is handed to exactly one worker and moves through a small
// state machine: pending until dispatched, then resolved, unresolved, or
// skipped. Resolved values merge into the record upgrade-only, so re-running
// a pass over an already enriched catalog never downgrades a field, and a
// pass where every fetch fails leaves the catalog byte-identical. Dispatch
// stops at context cancellation; in-flight records finish and their results
// are kept.
package enrich

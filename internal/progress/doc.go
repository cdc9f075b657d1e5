// Package progress reports long-pass progress: a live terminal bar when
// stdout is a TTY, periodic log lines otherwise. Both modes accept the same
// (done, total) callback the enrichment pool emits.
package progress

// Package scrape implements the resilient fetch engine shared by every
// scraped source.
//
// A Client wraps one pooled HTTP transport with the anti-ban measures the
// uncooperative sources demand: a process-wide pacer that enforces a minimum
// interval between outbound requests across all workers, a rotating
// user-agent ring, browser-shaped headers, and a status-code driven
// retry/backoff policy. Every attempt resolves to a typed Outcome; the engine
// never surfaces an error past a single record's resolution.
//
// The pacer is the only serialization point concurrent workers share. It is
// constructed explicitly and passed in; there is no ambient global state.
package scrape

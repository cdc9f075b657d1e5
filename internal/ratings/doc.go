// Package ratings resolves review-aggregator scores for catalog records.
//
// Resolution has three parts: a deterministic candidate generator that turns
// a (title, year) pair into an ordered list of slug guesses, the shared
// scrape client that fetches each guess under the process rate budget, and an
// extractor chain that pulls critic and audience scores out of whatever
// markup generation the site happens to serve.
//
// The generator rules, the extraction strategies, and the character denylist
// are all data tables rather than control flow so heuristics can be tuned and
// tested without touching the engine. The source site never converged on one
// URL scheme, so the candidate list is deliberately a superset of everything
// observed to work.
package ratings

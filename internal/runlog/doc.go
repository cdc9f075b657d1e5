// Package runlog persists an enrichment run ledger in SQLite.
//
// Every pass gets a run row keyed by a UUID, and every record touched in the
// pass gets an outcome row under it. The ledger is what makes a long scrape
// auditable after the fact: which run attached which value, and which records
// stay unresolved across runs.
package runlog

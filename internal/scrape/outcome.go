package scrape

import "time"

// OutcomeKind classifies a single fetch attempt.
type OutcomeKind string

const (
	// OutcomeSuccess is a 200 response with a readable body.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeNotFound means the candidate target does not exist; callers
	// move to the next candidate without retrying.
	OutcomeNotFound OutcomeKind = "not_found"
	// OutcomeRateLimited means the source throttled us (429).
	OutcomeRateLimited OutcomeKind = "rate_limited"
	// OutcomeBlocked means an anti-automation response (403).
	OutcomeBlocked OutcomeKind = "blocked"
	// OutcomeTransient covers 5xx, unexpected statuses, and network faults.
	OutcomeTransient OutcomeKind = "transient"
)

// Outcome is the typed result of one fetch attempt. Failures carry the reason
// instead of an error so the retry policy can inspect them and tests can
// assert on the taxonomy.
type Outcome struct {
	Kind       OutcomeKind
	Status     int
	Body       []byte
	RetryAfter time.Duration
	Err        error
}

// OK reports whether the attempt yielded a usable body.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeSuccess
}

// Retryable reports whether the same candidate is worth another attempt.
func (o Outcome) Retryable() bool {
	switch o.Kind {
	case OutcomeRateLimited, OutcomeBlocked, OutcomeTransient:
		return true
	default:
		return false
	}
}

package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"cinefill/internal/logging"
)

const maxBodyBytes = 8 << 20

// Policy holds the retry and backoff knobs for one scraped source.
type Policy struct {
	RequestTimeout   time.Duration
	ThrottleRetries  int
	TransientRetries int
	BackoffBase      time.Duration
	BackoffMax       time.Duration
}

func (p Policy) normalized() Policy {
	if p.RequestTimeout <= 0 {
		p.RequestTimeout = 10 * time.Second
	}
	if p.ThrottleRetries < 1 {
		p.ThrottleRetries = 3
	}
	if p.TransientRetries < 1 {
		p.TransientRetries = 2
	}
	if p.BackoffBase <= 0 {
		p.BackoffBase = 500 * time.Millisecond
	}
	if p.BackoffMax < p.BackoffBase {
		p.BackoffMax = p.BackoffBase
	}
	return p
}

// Client performs paced, user-agent rotated GETs against a scraped source.
type Client struct {
	http   *http.Client
	pacer  *Pacer
	agents *agentRing
	policy Policy
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default pooled HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithUserAgents overrides the rotation pool.
func WithUserAgents(agents []string) Option {
	return func(c *Client) {
		if len(agents) > 0 {
			c.agents = newAgentRing(agents)
		}
	}
}

// NewClient creates a scrape client. The pacer may be shared with other
// clients so every source draws from one rate budget.
func NewClient(policy Policy, pacer *Pacer, logger *slog.Logger, opts ...Option) *Client {
	policy = policy.normalized()
	client := &Client{
		pacer:  pacer,
		agents: newAgentRing(nil),
		policy: policy,
		logger: logging.NewComponentLogger(logger, "scrape"),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.http == nil {
		client.http = &http.Client{
			Timeout: policy.RequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        64,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     30 * time.Second,
			},
		}
	}
	return client
}

// Fetch performs a single paced attempt against target and classifies the
// result. It never returns an error; faults become Outcome values.
func (c *Client) Fetch(ctx context.Context, target string) Outcome {
	if err := c.pacer.Wait(ctx); err != nil {
		return Outcome{Kind: OutcomeTransient, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Outcome{Kind: OutcomeNotFound, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("User-Agent", c.agents.pick())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return Outcome{Kind: OutcomeTransient, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if readErr != nil {
			return Outcome{Kind: OutcomeTransient, Status: resp.StatusCode, Err: readErr}
		}
		return Outcome{Kind: OutcomeSuccess, Status: resp.StatusCode, Body: body}
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return Outcome{Kind: OutcomeNotFound, Status: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return Outcome{
			Kind:       OutcomeRateLimited,
			Status:     resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	case resp.StatusCode == http.StatusForbidden:
		return Outcome{Kind: OutcomeBlocked, Status: resp.StatusCode}
	default:
		return Outcome{
			Kind:   OutcomeTransient,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
}

// FetchWithRetry drives the per-candidate attempt loop: throttle and block
// responses back off by base times the attempt number (capped), transient
// faults back off by the base, and a 404 stops immediately. Once the caps
// are exhausted the last outcome is returned.
func (c *Client) FetchWithRetry(ctx context.Context, target string) Outcome {
	throttleAttempts := 0
	transientAttempts := 0

	var last Outcome
	for {
		last = c.Fetch(ctx, target)
		switch last.Kind {
		case OutcomeSuccess, OutcomeNotFound:
			return last
		case OutcomeRateLimited, OutcomeBlocked:
			throttleAttempts++
			if throttleAttempts >= c.policy.ThrottleRetries {
				return last
			}
			delay := c.backoff(throttleAttempts)
			if last.RetryAfter > delay {
				delay = last.RetryAfter
			}
			c.logger.Debug("throttled, backing off",
				logging.String(logging.FieldCandidate, target),
				logging.Int(logging.FieldAttempt, throttleAttempts),
				logging.String(logging.FieldOutcome, string(last.Kind)),
				logging.Duration("delay", delay))
			if !sleep(ctx, delay) {
				return last
			}
		case OutcomeTransient:
			transientAttempts++
			if transientAttempts >= c.policy.TransientRetries {
				return last
			}
			c.logger.Debug("transient fault, retrying",
				logging.String(logging.FieldCandidate, target),
				logging.Int(logging.FieldAttempt, transientAttempts),
				logging.Error(last.Err))
			if !sleep(ctx, c.policy.BackoffBase) {
				return last
			}
		default:
			return last
		}
		if ctx.Err() != nil {
			return last
		}
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := c.policy.BackoffBase * time.Duration(attempt)
	if delay > c.policy.BackoffMax {
		delay = c.policy.BackoffMax
	}
	return delay
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// sleep waits for d unless the context ends first; the return reports whether
// the full delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

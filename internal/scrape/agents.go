package scrape

import "sync"

// defaultUserAgents is the rotation pool. Keep it short but varied across
// platforms and engines.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:123.0) Gecko/20100101 Firefox/123.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
}

// agentRing cycles through the user-agent pool. The index is the only state
// and lives behind a mutex so concurrent workers rotate cleanly.
type agentRing struct {
	mu     sync.Mutex
	agents []string
	next   int
}

func newAgentRing(agents []string) *agentRing {
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	return &agentRing{agents: agents}
}

func (r *agentRing) pick() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	agent := r.agents[r.next]
	r.next = (r.next + 1) % len(r.agents)
	return agent
}

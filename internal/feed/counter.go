package feed

import "sync"

// Counter tallies events by kind.
type Counter struct {
	mu     sync.Mutex
	counts map[Kind]int
	total  int
}

// Notify implements Subscriber.
func (c *Counter) Notify(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counts == nil {
		c.counts = make(map[Kind]int)
	}
	c.counts[e.Kind]++
	c.total++
}

// Count returns the number of events seen of kind k.
func (c *Counter) Count(k Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[k]
}

// Total returns the number of events seen.
func (c *Counter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Snapshot returns a copy of the per-kind counts.
func (c *Counter) Snapshot() map[Kind]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[Kind]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

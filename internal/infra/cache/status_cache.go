package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"webforge/internal/domain/ports/adapter"
)

var _ adapter.StatusCache = (*StatusCache)(nil)

// StatusCache is a bounded in-memory index of last-known job status.
// The durable store owns identity; this cache only serves low-latency
// polling and may evict or miss at any time.
type StatusCache struct {
	mu      sync.Mutex
	entries *lru.Cache[string, adapter.JobStatusEntry]
}

func NewStatusCache(size int) (*StatusCache, error) {
	c, err := lru.New[string, adapter.JobStatusEntry](size)
	if err != nil {
		return nil, err
	}
	return &StatusCache{entries: c}, nil
}

func (c *StatusCache) Get(jobID string) (adapter.JobStatusEntry, bool) {
	return c.entries.Get(jobID)
}

// Store keeps the freshest snapshot per job. A status read can race the
// pipeline's terminal write, so a snapshot that is older than the cached
// entry, or non-terminal where the cached entry is terminal, is dropped.
func (c *StatusCache) Store(entry adapter.JobStatusEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries.Peek(entry.Job.ID); ok {
		if cur.Job.Terminal() && !entry.Job.Terminal() {
			return
		}
		if cur.Job.UpdatedAt.After(entry.Job.UpdatedAt) {
			return
		}
	}
	c.entries.Add(entry.Job.ID, entry)
}

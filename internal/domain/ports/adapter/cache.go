package adapter

import (
	"context"

	"webforge/internal/domain/model"
)

// JobStatusEntry is the last-known status snapshot kept for low-latency
// polling. The durable store stays authoritative; a cache miss or a stale
// entry is never a correctness problem.
type JobStatusEntry struct {
	Job        model.Job
	Identifier string
}

// StatusCache is a bounded, concurrency-safe index of job status by job id.
// Store must never regress an entry: a snapshot older than the cached one,
// or a non-terminal snapshot offered where a terminal one is cached, is
// discarded so a concurrent refill cannot resurrect a stale status.
type StatusCache interface {
	Get(jobID string) (JobStatusEntry, bool)
	Store(entry JobStatusEntry)
}

// ArtifactCache is a best-effort read-through cache for persisted artifacts
// keyed by (site identifier, version number).
type ArtifactCache interface {
	Get(ctx context.Context, identifier string, number int) (string, bool)
	Store(ctx context.Context, identifier string, number int, artifact string)
}

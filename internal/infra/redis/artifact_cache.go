package redis

import (
	"context"
	"fmt"
	"time"

	"webforge/internal/domain/ports/adapter"
)

var _ adapter.ArtifactCache = (*ArtifactCache)(nil)

// ArtifactCache keeps rendered artifacts close to the retrieval endpoint.
// Best-effort: every error degrades to a miss and the store is consulted.
type ArtifactCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewArtifactCache(client RedisClient, ttl time.Duration) *ArtifactCache {
	return &ArtifactCache{client: client, ttl: ttl}
}

func key(identifier string, number int) string {
	return fmt.Sprintf("artifact:%s:%d", identifier, number)
}

func (c *ArtifactCache) Get(ctx context.Context, identifier string, number int) (string, bool) {
	v, err := c.client.Get(ctx, key(identifier, number))
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}

func (c *ArtifactCache) Store(ctx context.Context, identifier string, number int, artifact string) {
	_ = c.client.Set(ctx, key(identifier, number), artifact, c.ttl)
}

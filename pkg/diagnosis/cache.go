package diagnosis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/elderwell/platform/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

const linkCacheKey = "diagnosis:links"

// LinkCache keeps the denormalized link set in Redis so concurrent
// inference requests amortize the full-table read. Entries expire on TTL
// and are invalidated when a knowledge refresh lands.
type LinkCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLinkCache(client *redis.Client, ttl time.Duration) *LinkCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LinkCache{client: client, ttl: ttl}
}

func (c *LinkCache) Get(ctx context.Context) ([]DiseaseLink, bool) {
	data, err := c.client.Get(ctx, linkCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Log.WithError(err).Debug("Link cache read failed")
		return nil, false
	}

	var links []DiseaseLink
	if err := json.Unmarshal(data, &links); err != nil {
		logger.Log.WithError(err).Warn("Link cache entry corrupt, dropping")
		c.Invalidate(ctx)
		return nil, false
	}
	return links, true
}

func (c *LinkCache) Set(ctx context.Context, links []DiseaseLink) {
	data, err := json.Marshal(links)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to marshal link cache entry")
		return
	}
	if err := c.client.Set(ctx, linkCacheKey, data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Debug("Link cache write failed")
	}
}

func (c *LinkCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, linkCacheKey).Err(); err != nil {
		logger.Log.WithError(err).Debug("Link cache invalidation failed")
	}
}

// internal/engine/match/cache.go
package match

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"greenmatch/internal/common/logger"
)

// EmbeddingCache memoizes embedding vectors in redis, keyed by a hash of the
// input text. Cache failures are logged and treated as misses.
type EmbeddingCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewEmbeddingCache(client *redis.Client, ttl time.Duration, log logger.Logger) *EmbeddingCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EmbeddingCache{client: client, ttl: ttl, logger: log}
}

func (c *EmbeddingCache) Get(ctx context.Context, text string) ([]float64, bool) {
	raw, err := c.client.Get(ctx, cacheKey(text)).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("embedding cache read failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	var vec []float64
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		c.logger.Warn("embedding cache entry corrupt", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return vec, true
}

func (c *EmbeddingCache) Put(ctx context.Context, text string, vec []float64) {
	raw, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(text), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("embedding cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embedding:" + hex.EncodeToString(sum[:16])
}

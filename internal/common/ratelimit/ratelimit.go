// internal/common/ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"greenmatch/internal/common/config"
	"greenmatch/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of a rate admission check.
type Decision struct {
	Allowed           bool `json:"allowed"`
	RetryAfterSeconds int  `json:"retryAfterSeconds"`
}

// Gate is a fixed-window request admission gate backed by redis. The core
// scoring pipelines assume they run only after admission succeeds; the gate
// fails open when redis is unreachable so a cache outage never blocks users.
type Gate struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	logger logger.Logger
}

func NewGate(client *redis.Client, cfg config.RateLimitConfig, log logger.Logger) *Gate {
	return &Gate{
		client: client,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "ratelimit"}),
	}
}

// Check admits or rejects one request for the given identifier.
func (g *Gate) Check(ctx context.Context, identifier string) Decision {
	if !g.cfg.Enabled {
		return Decision{Allowed: true}
	}

	window := time.Duration(g.cfg.WindowSeconds) * time.Second
	key := fmt.Sprintf("ratelimit:%s", identifier)

	count, err := g.client.Incr(ctx, key).Result()
	if err != nil {
		g.logger.Warn("rate limit check failed, allowing request", map[string]interface{}{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return Decision{Allowed: true}
	}

	if count == 1 {
		if err := g.client.Expire(ctx, key, window).Err(); err != nil {
			g.logger.Warn("failed to set rate limit window", map[string]interface{}{
				"identifier": identifier,
				"error":      err.Error(),
			})
		}
	}

	if count > int64(g.cfg.MaxRequests) {
		ttl, err := g.client.TTL(ctx, key).Result()
		retryAfter := g.cfg.WindowSeconds
		if err == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}
		return Decision{Allowed: false, RetryAfterSeconds: retryAfter}
	}

	return Decision{Allowed: true}
}

// internal/api/middleware.go
package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/common/observability"
	"greenmatch/internal/common/ratelimit"
)

// RequestLogger logs one structured line per request.
func RequestLogger(log logger.Logger, obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": duration.Milliseconds(),
			"client_ip":   c.ClientIP(),
		}
		if c.Writer.Status() >= 500 {
			log.Error("request failed", fields)
		} else {
			log.Info("request handled", fields)
		}

		if obs != nil {
			status := "ok"
			if c.Writer.Status() >= 400 {
				status = "error"
			}
			obs.RecordRequest(c.Request.Context(), c.FullPath(), status)
			obs.RecordDuration(c.Request.Context(), duration, c.FullPath())
		}
	}
}

// RateLimit gates requests per client IP through the fixed-window admission
// check. Disabled or unreachable redis admits everything.
func RateLimit(gate *ratelimit.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := gate.Check(c.Request.Context(), c.ClientIP())
		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(decision.RetryAfterSeconds))
			writeError(c, cerrors.NewRateLimitedError(decision.RetryAfterSeconds))
			c.Abort()
			return
		}
		c.Next()
	}
}

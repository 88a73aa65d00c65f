// internal/api/router.go
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"greenmatch/internal/common/logger"
	"greenmatch/internal/common/observability"
	"greenmatch/internal/common/ratelimit"
)

// NewRouter wires the HTTP surface. The rate gate guards only the scoring
// endpoints; health and metrics stay unthrottled for probes and scrapers.
func NewRouter(h *Handlers, gate *ratelimit.Gate, log logger.Logger, obs *observability.Observability) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log, obs))

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	if gate != nil {
		apiGroup.Use(RateLimit(gate))
	}
	apiGroup.POST("/matches/find", h.FindMatches)
	apiGroup.POST("/health-check", h.RunHealthCheck)
	apiGroup.GET("/health-check/:reportID", h.GetHealthCheckReport)
	apiGroup.POST("/grid-estimate", h.GridEstimate)
	apiGroup.POST("/policy-guidance", h.PolicyGuidance)
	apiGroup.GET("/directory/search", h.DirectorySearch)

	return r
}

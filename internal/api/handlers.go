// internal/api/handlers.go
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/models"
	"greenmatch/internal/store"
)

// Engine interfaces keep handlers testable against fakes.

type Matcher interface {
	FindMatches(ctx context.Context, sourceType models.EntityType, sourceID string, filters models.MatchFilters) (*models.MatchResponse, error)
}

type HealthChecker interface {
	Run(ctx context.Context, input *models.ProjectHealthCheckInput, sessionID string) (*models.HealthCheckResult, error)
	GetReport(ctx context.Context, reportID string) (*models.HealthCheckResult, error)
}

type GridEstimator interface {
	Estimate(ctx context.Context, input models.GridEstimateInput) (*models.GridEstimateResponse, error)
}

type PolicyAdvisor interface {
	Guide(ctx context.Context, input models.PolicyGuidanceInput) (*models.PolicyGuidanceResponse, error)
}

type DirectorySearcher interface {
	Search(ctx context.Context, q store.DirectoryQuery) ([]store.DirectoryHit, int, error)
}

// Handlers binds the engines to the HTTP surface.
type Handlers struct {
	matcher  Matcher
	checker  HealthChecker
	grid     GridEstimator
	policy   PolicyAdvisor
	searcher DirectorySearcher
	logger   logger.Logger
}

func NewHandlers(matcher Matcher, checker HealthChecker, grid GridEstimator, policy PolicyAdvisor, searcher DirectorySearcher, log logger.Logger) *Handlers {
	return &Handlers{
		matcher:  matcher,
		checker:  checker,
		grid:     grid,
		policy:   policy,
		searcher: searcher,
		logger:   log,
	}
}

type findMatchesRequest struct {
	SourceType models.EntityType   `json:"sourceType" binding:"required"`
	SourceID   string              `json:"sourceId" binding:"required"`
	Filters    models.MatchFilters `json:"filters"`
}

func (h *Handlers) FindMatches(c *gin.Context) {
	var req findMatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, cerrors.NewValidationFailedError(err.Error()))
		return
	}

	resp, err := h.matcher.FindMatches(c.Request.Context(), req.SourceType, req.SourceID, req.Filters)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) RunHealthCheck(c *gin.Context) {
	var input models.ProjectHealthCheckInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, cerrors.NewValidationFailedError(err.Error()))
		return
	}

	report, err := h.checker.Run(c.Request.Context(), &input, sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handlers) GetHealthCheckReport(c *gin.Context) {
	report, err := h.checker.GetReport(c.Request.Context(), c.Param("reportID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handlers) GridEstimate(c *gin.Context) {
	var input models.GridEstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, cerrors.NewValidationFailedError(err.Error()))
		return
	}

	resp, err := h.grid.Estimate(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) PolicyGuidance(c *gin.Context) {
	var input models.PolicyGuidanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, cerrors.NewValidationFailedError(err.Error()))
		return
	}

	resp, err := h.policy.Guide(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) DirectorySearch(c *gin.Context) {
	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	q := store.DirectoryQuery{
		Keywords:   c.Query("q"),
		EntityType: models.EntityType(c.Query("type")),
		Country:    c.Query("country"),
		Technology: models.Technology(c.Query("technology")),
		From:       from,
		Size:       size,
	}

	hits, total, err := h.searcher.Search(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": hits, "total": total})
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// sessionID threads the caller's session token into usage accounting. A
// missing header gets a fresh identifier rather than an ambient global.
func sessionID(c *gin.Context) string {
	if id := c.GetHeader("X-Session-Id"); id != "" {
		return id
	}
	return uuid.NewString()
}

func writeError(c *gin.Context, err error) {
	status := cerrors.HTTPStatusFor(err)
	if std, ok := cerrors.AsStandard(err); ok {
		c.JSON(status, gin.H{"error": std})
		return
	}
	c.JSON(status, gin.H{"error": gin.H{
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	}})
}

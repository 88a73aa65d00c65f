// internal/engine/healthcheck/checker.go
package healthcheck

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"greenmatch/internal/common/ai"
	"greenmatch/internal/common/config"
	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/common/metrics"
	"greenmatch/internal/engine/benchmark"
	"greenmatch/internal/engine/milestones"
	"greenmatch/internal/models"
	"greenmatch/internal/store"
)

// ReportStore is the slice of the store the orchestrator needs.
type ReportStore interface {
	ListComparableProjects(ctx context.Context, technology models.Technology, minMW, maxMW float64) ([]models.Project, error)
	InsertReport(ctx context.Context, report *models.HealthCheckResult) error
	GetReport(ctx context.Context, reportID string) (*models.HealthCheckResult, error)
	IncrementReportViews(ctx context.Context, reportID string) error
	InsertUsageRecord(ctx context.Context, rec store.UsageRecord) error
}

// Checker runs the due-diligence assessment pipeline for one submission.
type Checker struct {
	store  ReportStore
	ai     ai.Client
	cfg    config.AIConfig
	logger logger.Logger

	// now is swapped in tests for deterministic timestamps.
	now func() time.Time
}

func NewChecker(st ReportStore, aiClient ai.Client, cfg config.AIConfig, log logger.Logger) *Checker {
	return &Checker{store: st, ai: aiClient, cfg: cfg, logger: log, now: time.Now}
}

// Run validates the questionnaire, benchmarks the project against its peers,
// obtains the qualitative assessment from the reasoning capability and
// persists the assembled report. SessionID only feeds usage accounting.
func (c *Checker) Run(ctx context.Context, input *models.ProjectHealthCheckInput, sessionID string) (*models.HealthCheckResult, error) {
	metrics.RequestsTotal.WithLabelValues("health_check").Inc()
	started := c.now()

	if err := validateInput(input); err != nil {
		metrics.RequestsFailed.WithLabelValues("health_check", string(cerrors.ErrCodeValidationFailed)).Inc()
		return nil, err
	}

	comparables, err := c.store.ListComparableProjects(ctx, input.Technology, input.CapacityMW*0.5, input.CapacityMW*2)
	if err != nil {
		metrics.RequestsFailed.WithLabelValues("health_check", string(cerrors.ErrCodeQueryExecutionFailed)).Inc()
		return nil, err
	}

	milestoneScore := milestones.Score(input)

	msgs := buildMessages(input, len(comparables), milestoneScore)
	raw, err := c.ai.Complete(ctx, msgs, ai.CompleteOptions{
		Temperature:     c.cfg.Temperature,
		MaxOutputTokens: c.cfg.MaxOutputTokens,
	})
	if err != nil {
		metrics.RequestsFailed.WithLabelValues("health_check", string(cerrors.ErrCodeAIUnavailable)).Inc()
		c.recordUsage(sessionID, msgs, "", started, false)
		return nil, cerrors.NewAIUnavailableError(err)
	}

	parsed, err := parseReasoning(raw)
	if err != nil {
		metrics.RequestsFailed.WithLabelValues("health_check", string(cerrors.ErrCodeAIResponseMalformed)).Inc()
		c.recordUsage(sessionID, msgs, raw, started, false)
		return nil, err
	}

	report := c.assemble(input, parsed, comparables, milestoneScore)
	if err := c.store.InsertReport(ctx, report); err != nil {
		metrics.RequestsFailed.WithLabelValues("health_check", string(cerrors.ErrCodeReportInsertFailed)).Inc()
		return nil, err
	}

	c.recordUsage(sessionID, msgs, raw, started, true)

	c.logger.Info("health check complete", map[string]interface{}{
		"report_id":     report.ReportID,
		"overall_score": report.OverallScore,
		"comparables":   report.ComparableProjectsCount,
	})
	return report, nil
}

// GetReport resolves a previously persisted report. The identifier is checked
// against the report ID shape before any store access; the view counter
// increment is best-effort.
func (c *Checker) GetReport(ctx context.Context, reportID string) (*models.HealthCheckResult, error) {
	if !IsValidReportID(reportID) {
		return nil, cerrors.NewInvalidReportIDError(reportID)
	}
	report, err := c.store.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := c.store.IncrementReportViews(ctx, reportID); err != nil {
		c.logger.Warn("view counter increment failed", map[string]interface{}{
			"report_id": reportID, "error": err.Error(),
		})
	}
	return report, nil
}

func validateInput(input *models.ProjectHealthCheckInput) error {
	missing := make([]string, 0, 4)
	if input.Technology == "" {
		missing = append(missing, "technology")
	}
	if input.Country == "" {
		missing = append(missing, "country")
	}
	if input.CapacityMW <= 0 {
		missing = append(missing, "capacityMw")
	}
	if input.Stage == "" {
		missing = append(missing, "stage")
	}
	if input.CapexEUR <= 0 {
		missing = append(missing, "capexEur")
	}
	if input.RevenueModel == "" {
		missing = append(missing, "revenueModel")
	}
	if input.PPAStatus == "" {
		missing = append(missing, "ppaStatus")
	}
	if input.GridStatus == "" {
		missing = append(missing, "gridStatus")
	}
	if input.PermitStatus == "" {
		missing = append(missing, "permitStatus")
	}
	if len(missing) > 0 {
		return cerrors.NewValidationFailedError("missing required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

func (c *Checker) assemble(input *models.ProjectHealthCheckInput, parsed *reasoningResponse, comparables []models.Project, milestoneScore int) *models.HealthCheckResult {
	categoryScores := make(map[string]models.CategoryScore, len(assessmentCategories))
	for _, name := range assessmentCategories {
		p := parsed.CategoryScores[name]
		categoryScores[name] = models.CategoryScore{
			Score:    p.Score,
			Grade:    CategoryGrade(p.Score),
			Summary:  p.Summary,
			Findings: p.Findings,
			Concerns: p.Concerns,
		}
	}

	redFlags := parsed.RedFlags
	if len(redFlags) > 5 {
		redFlags = redFlags[:5]
	}

	return &models.HealthCheckResult{
		ReportID:                NewReportID(),
		CreatedAt:               c.now().UTC(),
		OverallScore:            parsed.OverallScore,
		ScoreCategory:           ScoreCategory(parsed.OverallScore),
		Summary:                 parsed.Summary,
		CategoryScores:          categoryScores,
		RedFlags:                redFlags,
		Recommendations:         parsed.Recommendations,
		Benchmarks:              buildBenchmarks(input, comparables),
		ComparableProjectsCount: len(comparables),
		PercentileRank:          milestoneScore,
		InvestorReadiness: models.InvestorReadiness{
			Score:               milestoneScore,
			CompletedMilestones: parsed.InvestorReadiness.CompletedMilestones,
			PendingMilestones:   parsed.InvestorReadiness.PendingMilestones,
			CriticalGaps:        parsed.InvestorReadiness.CriticalGaps,
		},
		ProjectData: *input,
	}
}

// irrReference holds indicative unlevered IRR samples per technology. The
// directory does not record IRR on projects, so the expected-IRR benchmark
// positions against this reference table instead of the comparable pool.
var irrReference = map[models.Technology][]float64{
	models.TechnologySolar:      {6.0, 7.0, 7.5, 8.5, 10.0},
	models.TechnologyWind:       {6.5, 7.5, 8.5, 9.5, 11.0},
	models.TechnologyStorage:    {8.0, 9.5, 11.0, 12.5, 14.0},
	models.TechnologyHydro:      {5.0, 6.0, 6.5, 7.5, 8.5},
	models.TechnologyHydrogen:   {9.0, 11.0, 13.0, 15.0, 18.0},
	models.TechnologyEfficiency: {10.0, 12.0, 14.0, 16.0, 20.0},
}

func buildBenchmarks(input *models.ProjectHealthCheckInput, comparables []models.Project) []models.BenchmarkData {
	benchmarks := make([]models.BenchmarkData, 0, 2)

	sample := make([]float64, 0, len(comparables))
	for _, p := range comparables {
		if p.CapexEUR > 0 && p.SizeMW > 0 {
			sample = append(sample, float64(p.CapexEUR)/p.SizeMW)
		}
	}
	// Reported in raw EUR/MW, unscaled, so yourValue and the quartiles stay
	// directly comparable to the capexEur and sizeMw fields they derive from.
	yourCapexPerMW := math.Round(float64(input.CapexEUR) / input.CapacityMW)
	if data, ok := benchmark.Compute("CAPEX per MW", yourCapexPerMW, sample, "EUR/MW"); ok {
		benchmarks = append(benchmarks, data)
	}

	if input.ExpectedIRR > 0 {
		ref := append([]float64(nil), irrReference[input.Technology]...)
		sort.Float64s(ref)
		if data, ok := benchmark.Compute("Expected IRR", input.ExpectedIRR, ref, "%"); ok {
			benchmarks = append(benchmarks, data)
		}
	}
	return benchmarks
}

// recordUsage appends a usage-accounting row off the request path. Failures
// are logged inside the store and never reach the caller. Token counts are
// length-based estimates, not provider-reported figures.
func (c *Checker) recordUsage(sessionID string, msgs []ai.Message, response string, started time.Time, success bool) {
	promptLen := 0
	for _, m := range msgs {
		promptLen += len(m.Content)
	}
	rec := store.UsageRecord{
		Feature:          "health_check",
		SessionID:        sessionID,
		PromptTokens:     promptLen / 4,
		CompletionTokens: len(response) / 4,
		LatencyMS:        c.now().Sub(started).Milliseconds(),
		Success:          success,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.store.InsertUsageRecord(ctx, rec)
	}()
}

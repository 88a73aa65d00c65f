// internal/models/healthcheck.go
package models

import "time"

// ProjectHealthCheckInput is the due-diligence questionnaire submitted by a
// project developer. Optional fields are empty strings / zero values.
type ProjectHealthCheckInput struct {
	Technology      Technology `json:"technology"`
	Country         string     `json:"country"`
	CapacityMW      float64    `json:"capacityMw"`
	Stage           string     `json:"stage"` // Feasibility|Permitting|Construction|Operational
	CapexEUR        int64      `json:"capexEur"`
	ExpectedIRR     float64    `json:"expectedIrr,omitempty"`
	RevenueModel    string     `json:"revenueModel"`
	PPAStatus       string     `json:"ppaStatus"`
	GridStatus      string     `json:"gridStatus"`
	PermitStatus    string     `json:"permitStatus"`
	ExpectedCOD     string     `json:"expectedCod,omitempty"`
	TeamExperience  string     `json:"teamExperience,omitempty"`
	LandStatus      string     `json:"landStatus,omitempty"`
	FinancingStatus string     `json:"financingStatus,omitempty"`
	OfftakerName    string     `json:"offtakerName,omitempty"`
}

// BenchmarkData positions one project metric against a peer reference sample.
// p25 <= p50 <= p75 by construction; percentile is a rank-based position
// within the sorted sample, not a parametric statistic.
type BenchmarkData struct {
	Metric     string  `json:"metric"`
	YourValue  float64 `json:"yourValue"`
	P25        float64 `json:"p25"`
	P50        float64 `json:"p50"`
	P75        float64 `json:"p75"`
	Percentile int     `json:"percentile"`
	Unit       string  `json:"unit"`
}

// CategoryScore is one qualitative assessment category.
type CategoryScore struct {
	Score    int      `json:"score"`
	Grade    string   `json:"grade"`
	Summary  string   `json:"summary"`
	Findings []string `json:"findings"`
	Concerns []string `json:"concerns,omitempty"`
}

// RedFlag is a severity-tagged issue surfaced by the assessment.
type RedFlag struct {
	Severity        string   `json:"severity"` // critical|warning|advisory
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Impact          string   `json:"impact"`
	Recommendations []string `json:"recommendations"`
}

// InvestorReadiness breaks the milestone proxy score into completed, pending
// and critical-gap milestones.
type InvestorReadiness struct {
	Score               int      `json:"score"`
	CompletedMilestones []string `json:"completedMilestones"`
	PendingMilestones   []string `json:"pendingMilestones"`
	CriticalGaps        []string `json:"criticalGaps"`
}

// HealthCheckResult is the assembled due-diligence report. Immutable after
// creation; the view counter is the only mutation.
type HealthCheckResult struct {
	ReportID   string    `json:"reportId"`
	CreatedAt  time.Time `json:"createdAt"`

	OverallScore  int    `json:"overallScore"`
	ScoreCategory string `json:"scoreCategory"`
	Summary       string `json:"summary"`

	CategoryScores  map[string]CategoryScore `json:"categoryScores"` // technical|financial|legal|market|development
	RedFlags        []RedFlag                `json:"redFlags"`
	Recommendations []string                 `json:"recommendations"`
	Benchmarks      []BenchmarkData          `json:"benchmarks"`

	ComparableProjectsCount int `json:"comparableProjectsCount"`

	// PercentileRank is the Milestone Scorer's weighted-completion proxy, a
	// distinct quantity from the per-metric percentiles in Benchmarks.
	PercentileRank    int               `json:"percentileRank"`
	InvestorReadiness InvestorReadiness `json:"investorReadiness"`

	// ProjectData preserves the original submission verbatim for audit/replay.
	ProjectData ProjectHealthCheckInput `json:"projectData"`
}

// internal/engine/milestones/milestones.go
package milestones

import (
	"math"

	"greenmatch/internal/models"
)

// Category weights, summing to 100. PPA and grid access dominate because
// they gate revenue; permits, financing and land split the remainder.
const (
	weightPPA       = 25.0
	weightGrid      = 25.0
	weightPermits   = 20.0
	weightFinancing = 15.0
	weightLand      = 15.0
)

// Breakdown carries the per-category contributions of one readiness score.
type Breakdown struct {
	PPA       float64 `json:"ppa"`
	Grid      float64 `json:"grid"`
	Permits   float64 `json:"permits"`
	Financing float64 `json:"financing"`
	Land      float64 `json:"land"`
}

// Score maps the categorical development-status fields of a project to a
// 0-100 investor-readiness proxy. Despite feeding the report field named
// percentileRank, this is a deterministic rule-based score, not a percentile
// against the peer population.
func Score(input *models.ProjectHealthCheckInput) int {
	b := Compute(input)
	total := b.PPA + b.Grid + b.Permits + b.Financing + b.Land
	return int(math.Round(total))
}

// Compute returns the per-category partial-credit contributions.
func Compute(input *models.ProjectHealthCheckInput) Breakdown {
	return Breakdown{
		PPA:       weightPPA * ppaCredit(input.PPAStatus),
		Grid:      weightGrid * gridCredit(input.GridStatus),
		Permits:   weightPermits * permitCredit(input.PermitStatus),
		Financing: weightFinancing * financingCredit(input.FinancingStatus),
		Land:      weightLand * landCredit(input.LandStatus),
	}
}

func ppaCredit(status string) float64 {
	switch status {
	case "Signed":
		return 1.0
	case "In Negotiation":
		return 0.6
	case "Not Applicable":
		return 0.5
	default:
		return 0
	}
}

func gridCredit(status string) float64 {
	switch status {
	case "Connected":
		return 1.0
	case "Secured":
		return 0.8
	case "Application Submitted":
		return 0.4
	default:
		return 0
	}
}

func permitCredit(status string) float64 {
	switch status {
	case "All Obtained":
		return 1.0
	case "In Progress":
		return 0.5
	default:
		return 0
	}
}

func financingCredit(status string) float64 {
	switch status {
	case "Closed":
		return 1.0
	case "Self-Funded":
		return 0.8
	case "Term Sheet":
		return 0.7
	default:
		return 0
	}
}

func landCredit(status string) float64 {
	switch status {
	case "Owned":
		return 1.0
	case "Leased":
		return 0.9
	case "Option":
		return 0.5
	default:
		return 0
	}
}

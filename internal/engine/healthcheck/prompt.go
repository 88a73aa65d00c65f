// internal/engine/healthcheck/prompt.go
package healthcheck

import (
	"fmt"
	"strings"

	"greenmatch/internal/common/ai"
	"greenmatch/internal/models"
)

const systemPrompt = `You are a renewable energy project due-diligence analyst. Assess the project described by the user and respond with a single JSON object, no prose outside it, shaped as:
{
  "overallScore": <integer 0-100>,
  "summary": "<2-3 sentence overall assessment>",
  "categoryScores": {
    "technical": {"score": <0-100>, "summary": "<1-2 sentences>", "findings": ["<2-3 findings>"], "concerns": ["<0-3 concerns>"]},
    "financial": {...}, "legal": {...}, "market": {...}, "development": {...}
  },
  "redFlags": [{"severity": "critical|warning|advisory", "title": "...", "description": "...", "impact": "...", "recommendations": ["<2-3 items>"]}],
  "recommendations": ["<4-6 actionable items>"],
  "investorReadiness": {"completedMilestones": [...], "pendingMilestones": [...], "criticalGaps": [...]}
}
Include at most 5 red flags. Be specific to the data provided and do not invent facts.`

// buildMessages assembles the single reasoning exchange for an assessment.
func buildMessages(input *models.ProjectHealthCheckInput, comparableCount, milestoneScore int) []ai.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Project profile:\n")
	fmt.Fprintf(&b, "- Technology: %s\n", input.Technology)
	fmt.Fprintf(&b, "- Country: %s\n", input.Country)
	fmt.Fprintf(&b, "- Capacity: %g MW\n", input.CapacityMW)
	fmt.Fprintf(&b, "- Stage: %s\n", input.Stage)
	fmt.Fprintf(&b, "- CAPEX: %d EUR\n", input.CapexEUR)
	fmt.Fprintf(&b, "- Revenue model: %s\n", input.RevenueModel)
	fmt.Fprintf(&b, "- PPA status: %s\n", input.PPAStatus)
	fmt.Fprintf(&b, "- Grid status: %s\n", input.GridStatus)
	fmt.Fprintf(&b, "- Permit status: %s\n", input.PermitStatus)
	if input.ExpectedIRR > 0 {
		fmt.Fprintf(&b, "- Expected IRR: %g%%\n", input.ExpectedIRR)
	}
	if input.ExpectedCOD != "" {
		fmt.Fprintf(&b, "- Expected COD: %s\n", input.ExpectedCOD)
	}
	if input.FinancingStatus != "" {
		fmt.Fprintf(&b, "- Financing status: %s\n", input.FinancingStatus)
	}
	if input.LandStatus != "" {
		fmt.Fprintf(&b, "- Land status: %s\n", input.LandStatus)
	}
	if input.TeamExperience != "" {
		fmt.Fprintf(&b, "- Team experience: %s\n", input.TeamExperience)
	}
	if input.OfftakerName != "" {
		fmt.Fprintf(&b, "- Offtaker: %s\n", input.OfftakerName)
	}
	fmt.Fprintf(&b, "\nContext:\n")
	fmt.Fprintf(&b, "- Comparable projects in directory: %d\n", comparableCount)
	fmt.Fprintf(&b, "- Deterministic milestone readiness score: %d/100\n", milestoneScore)

	return []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// internal/engine/gridestimate/gridestimate.go
package gridestimate

import (
	"context"
	"fmt"
	"math"
	"strings"

	"greenmatch/internal/common/ai"
	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/common/metrics"
	"greenmatch/internal/models"
)

// poweredByMarker tags responses whose numbers came from the reasoning
// capability. Fallback responses leave it empty.
const poweredByMarker = "ai"

const systemPrompt = `You are a grid connection advisor for renewable energy projects in Europe. Estimate the grid connection timeline for the project described by the user. Respond with a single JSON object only:
{"estimatedMonthsMin": <int>, "estimatedMonthsMax": <int>, "keySteps": ["..."], "riskFactors": ["..."], "narrative": "<2-3 sentences>"}`

// Estimator answers grid-timeline questions, degrading to a deterministic
// heuristic whenever the reasoning output is unusable.
type Estimator struct {
	ai     ai.Client
	opts   ai.CompleteOptions
	logger logger.Logger
}

func NewEstimator(client ai.Client, opts ai.CompleteOptions, log logger.Logger) *Estimator {
	return &Estimator{ai: client, opts: opts, logger: log}
}

// Estimate never returns an upstream fault; the caller always gets a
// structured result.
func (e *Estimator) Estimate(ctx context.Context, input models.GridEstimateInput) (*models.GridEstimateResponse, error) {
	metrics.RequestsTotal.WithLabelValues("grid_estimate").Inc()
	if input.Country == "" || input.SizeMW <= 0 {
		metrics.RequestsFailed.WithLabelValues("grid_estimate", string(cerrors.ErrCodeValidationFailed)).Inc()
		return nil, cerrors.NewValidationFailedError("country and sizeMw are required")
	}

	raw, err := e.ai.Complete(ctx, buildMessages(input), e.opts)
	if err != nil {
		e.logger.Warn("grid estimate reasoning call failed, using baseline", map[string]interface{}{"error": err.Error()})
		metrics.FallbacksTotal.WithLabelValues("grid_estimate").Inc()
		return baselineEstimate(input), nil
	}

	var resp models.GridEstimateResponse
	if err := ai.DecodeFirstJSONObject(raw, &resp); err != nil || !plausible(resp) {
		e.logger.Warn("grid estimate reasoning output unusable, using baseline", nil)
		metrics.FallbacksTotal.WithLabelValues("grid_estimate").Inc()
		return baselineEstimate(input), nil
	}
	resp.PoweredBy = poweredByMarker
	return &resp, nil
}

func plausible(resp models.GridEstimateResponse) bool {
	return resp.EstimatedMonthsMin > 0 && resp.EstimatedMonthsMax >= resp.EstimatedMonthsMin
}

func buildMessages(input models.GridEstimateInput) []ai.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Country: %s\n", input.Country)
	if input.Technology != "" {
		fmt.Fprintf(&b, "Technology: %s\n", input.Technology)
	}
	fmt.Fprintf(&b, "Size: %g MW\n", input.SizeMW)
	fmt.Fprintf(&b, "Interconnection: %s\n", interconnectionOrDefault(input.InterconnectionType))
	fmt.Fprintf(&b, "PPA in place: %t\n", input.HasPPA)
	return []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// baselineEstimate synthesizes an estimate from fixed heuristics: a base lead
// time per interconnection type, scaled by project size, minus a small
// adjustment when offtake is already contracted.
func baselineEstimate(input models.GridEstimateInput) *models.GridEstimateResponse {
	baseMin, baseMax := 6.0, 12.0
	if interconnectionOrDefault(input.InterconnectionType) == "transmission" {
		baseMin, baseMax = 18.0, 36.0
	}

	multiplier := 1.0
	switch {
	case input.SizeMW > 100:
		multiplier = 1.5
	case input.SizeMW > 20:
		multiplier = 1.2
	}

	if input.HasPPA {
		// A contracted offtaker tends to shorten utility queues slightly.
		multiplier *= 0.9
	}

	return &models.GridEstimateResponse{
		EstimatedMonthsMin: int(math.Round(baseMin * multiplier)),
		EstimatedMonthsMax: int(math.Round(baseMax * multiplier)),
		KeySteps: []string{
			"Submit grid connection application to the network operator",
			"Complete the grid impact study",
			"Sign the connection agreement",
			"Complete connection works and commissioning",
		},
		RiskFactors: []string{
			"Network operator queue length",
			"Required network reinforcement works",
		},
		Narrative: fmt.Sprintf("Typical %s-level connections for a %g MW project take %d to %d months in %s.",
			interconnectionOrDefault(input.InterconnectionType), input.SizeMW,
			int(math.Round(baseMin*multiplier)), int(math.Round(baseMax*multiplier)), input.Country),
	}
}

func interconnectionOrDefault(t string) string {
	if t == "transmission" {
		return "transmission"
	}
	return "distribution"
}

// internal/engine/policy/policy.go
package policy

import (
	"context"
	"fmt"
	"strings"

	"greenmatch/internal/common/ai"
	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/common/metrics"
	"greenmatch/internal/models"
)

const poweredByMarker = "ai"

const systemPrompt = `You are a renewable energy policy advisor covering European markets. Answer the user's question for the given country and technology. Respond with a single JSON object only:
{"answer": "<3-5 sentence answer>", "keyPolicies": ["<relevant schemes or regulations>"], "caveats": ["<important caveats>"]}`

// Advisor answers market/policy questions with the shared
// reasoning-then-fallback contract.
type Advisor struct {
	ai     ai.Client
	opts   ai.CompleteOptions
	logger logger.Logger
}

func NewAdvisor(client ai.Client, opts ai.CompleteOptions, log logger.Logger) *Advisor {
	return &Advisor{ai: client, opts: opts, logger: log}
}

// Guide answers a policy question. Upstream faults and unusable output
// degrade to canned guidance so the caller always gets an answer.
func (a *Advisor) Guide(ctx context.Context, input models.PolicyGuidanceInput) (*models.PolicyGuidanceResponse, error) {
	metrics.RequestsTotal.WithLabelValues("policy_guidance").Inc()
	if input.Country == "" || strings.TrimSpace(input.Question) == "" {
		metrics.RequestsFailed.WithLabelValues("policy_guidance", string(cerrors.ErrCodeValidationFailed)).Inc()
		return nil, cerrors.NewValidationFailedError("country and question are required")
	}

	raw, err := a.ai.Complete(ctx, buildMessages(input), a.opts)
	if err != nil {
		a.logger.Warn("policy reasoning call failed, using canned guidance", map[string]interface{}{"error": err.Error()})
		metrics.FallbacksTotal.WithLabelValues("policy_guidance").Inc()
		return cannedGuidance(input), nil
	}

	var resp models.PolicyGuidanceResponse
	if err := ai.DecodeFirstJSONObject(raw, &resp); err != nil || strings.TrimSpace(resp.Answer) == "" {
		a.logger.Warn("policy reasoning output unusable, using canned guidance", nil)
		metrics.FallbacksTotal.WithLabelValues("policy_guidance").Inc()
		return cannedGuidance(input), nil
	}
	resp.PoweredBy = poweredByMarker
	return &resp, nil
}

func buildMessages(input models.PolicyGuidanceInput) []ai.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Country: %s\n", input.Country)
	if input.Technology != "" {
		fmt.Fprintf(&b, "Technology: %s\n", input.Technology)
	}
	fmt.Fprintf(&b, "Question: %s\n", input.Question)
	return []ai.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// cannedGuidance is the deterministic fallback: generic but safe guidance
// pointing the user at the authoritative national sources.
func cannedGuidance(input models.PolicyGuidanceInput) *models.PolicyGuidanceResponse {
	subject := "renewable energy projects"
	if input.Technology != "" {
		subject = fmt.Sprintf("%s projects", strings.ToLower(string(input.Technology)))
	}
	return &models.PolicyGuidanceResponse{
		Answer: fmt.Sprintf("Support schemes and permitting rules for %s in %s change frequently. "+
			"Check the national energy regulator and the relevant ministry for the current auction calendar, "+
			"tariff levels and permitting requirements before committing to a development timeline.", subject, input.Country),
		KeyPolicies: []string{
			"EU Renewable Energy Directive (RED III) national implementation",
			"National renewable support scheme (auctions or feed-in premiums)",
			"Grid connection and permitting regulations of the national regulator",
		},
		Caveats: []string{
			"General guidance only, not legal advice",
			"Verify current rules with the national regulator",
		},
	}
}

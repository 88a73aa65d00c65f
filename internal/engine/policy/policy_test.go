// internal/engine/policy/policy_test.go
package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenmatch/internal/common/ai"
	"greenmatch/internal/common/logger"
	"greenmatch/internal/models"
)

type fakeAI struct {
	response string
	err      error
}

func (f *fakeAI) Complete(ctx context.Context, messages []ai.Message, opts ai.CompleteOptions) (string, error) {
	return f.response, f.err
}

func (f *fakeAI) Embed(ctx context.Context, text string) ([]float64, error) {
	return nil, errors.New("not implemented")
}

func newAdvisor(client ai.Client) *Advisor {
	return NewAdvisor(client, ai.CompleteOptions{}, logger.NewNoOpLogger())
}

func policyInput() models.PolicyGuidanceInput {
	return models.PolicyGuidanceInput{
		Country:    "ES",
		Technology: models.TechnologyWind,
		Question:   "Are there active auctions for onshore wind?",
	}
}

func TestGuideUsesReasoningOutput(t *testing.T) {
	client := &fakeAI{response: `{"answer": "Spain runs REER auctions for onshore wind.", "keyPolicies": ["REER auction scheme"], "caveats": ["Schedules shift"]}`}

	resp, err := newAdvisor(client).Guide(context.Background(), policyInput())
	require.NoError(t, err)
	assert.Contains(t, resp.Answer, "REER")
	assert.Equal(t, "ai", resp.PoweredBy)
}

func TestGuideFallsBackOnUnusableOutput(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose only", "Policy varies a lot by region."},
		{"empty answer", `{"answer": "  "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newAdvisor(&fakeAI{response: tt.response}).Guide(context.Background(), policyInput())
			require.NoError(t, err)
			assert.Empty(t, resp.PoweredBy)
			assert.NotEmpty(t, resp.Answer)
			assert.NotEmpty(t, resp.Caveats)
		})
	}
}

func TestGuideFallsBackOnUpstreamError(t *testing.T) {
	resp, err := newAdvisor(&fakeAI{err: errors.New("unavailable")}).Guide(context.Background(), policyInput())
	require.NoError(t, err)
	assert.Empty(t, resp.PoweredBy)
	assert.Contains(t, resp.Answer, "ES")
}

func TestGuideValidation(t *testing.T) {
	_, err := newAdvisor(&fakeAI{}).Guide(context.Background(), models.PolicyGuidanceInput{Country: "ES"})
	require.Error(t, err)
}

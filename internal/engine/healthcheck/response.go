// internal/engine/healthcheck/response.go
package healthcheck

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"greenmatch/internal/common/ai"
	cerrors "greenmatch/internal/common/errors"
	"greenmatch/internal/models"
)

// reasoningResponse is the structured payload the reasoning capability must
// return. Grades are derived locally and are not part of the contract.
type reasoningResponse struct {
	OverallScore      int                        `json:"overallScore"`
	Summary           string                     `json:"summary"`
	CategoryScores    map[string]categoryPayload `json:"categoryScores"`
	RedFlags          []models.RedFlag           `json:"redFlags"`
	Recommendations   []string                   `json:"recommendations"`
	InvestorReadiness readinessPayload           `json:"investorReadiness"`
}

type categoryPayload struct {
	Score    int      `json:"score"`
	Summary  string   `json:"summary"`
	Findings []string `json:"findings"`
	Concerns []string `json:"concerns"`
}

type readinessPayload struct {
	CompletedMilestones []string `json:"completedMilestones"`
	PendingMilestones   []string `json:"pendingMilestones"`
	CriticalGaps        []string `json:"criticalGaps"`
}

var assessmentCategories = []string{"technical", "financial", "legal", "market", "development"}

const reasoningSchema = `{
  "type": "object",
  "required": ["overallScore", "summary", "categoryScores", "recommendations"],
  "properties": {
    "overallScore": {"type": "integer", "minimum": 0, "maximum": 100},
    "summary": {"type": "string", "minLength": 1},
    "categoryScores": {
      "type": "object",
      "required": ["technical", "financial", "legal", "market", "development"],
      "additionalProperties": {
        "type": "object",
        "required": ["score", "summary", "findings"],
        "properties": {
          "score": {"type": "integer", "minimum": 0, "maximum": 100},
          "summary": {"type": "string"},
          "findings": {"type": "array", "items": {"type": "string"}},
          "concerns": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "redFlags": {
      "type": "array",
      "maxItems": 5,
      "items": {
        "type": "object",
        "required": ["severity", "title", "description"],
        "properties": {
          "severity": {"enum": ["critical", "warning", "advisory"]},
          "title": {"type": "string"},
          "description": {"type": "string"},
          "impact": {"type": "string"},
          "recommendations": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "investorReadiness": {
      "type": "object",
      "properties": {
        "completedMilestones": {"type": "array", "items": {"type": "string"}},
        "pendingMilestones": {"type": "array", "items": {"type": "string"}},
        "criticalGaps": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`

var reasoningSchemaLoader = gojsonschema.NewStringLoader(reasoningSchema)

// parseReasoning extracts the first JSON object from the reasoning output and
// validates it against the assessment schema. Any failure is an upstream
// fault; this call site has no fallback.
func parseReasoning(text string) (*reasoningResponse, error) {
	raw, err := ai.ExtractFirstJSONObject(text)
	if err != nil {
		return nil, cerrors.NewAIResponseMalformedError("no JSON object in reasoning output")
	}

	result, err := gojsonschema.Validate(reasoningSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, cerrors.NewAIResponseMalformedError(fmt.Sprintf("schema validation errored: %v", err))
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return nil, cerrors.NewAIResponseMalformedError(strings.Join(details, "; "))
	}

	var resp reasoningResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, cerrors.NewAIResponseMalformedError(err.Error())
	}
	return &resp, nil
}

// internal/models/estimators.go
package models

// GridEstimateInput describes a planned grid connection.
type GridEstimateInput struct {
	Country             string     `json:"country"`
	Technology          Technology `json:"technology"`
	SizeMW              float64    `json:"sizeMw"`
	InterconnectionType string     `json:"interconnectionType"` // distribution|transmission
	HasPPA              bool       `json:"hasPpa"`
}

// GridEstimateResponse always carries a usable structured estimate. PoweredBy
// is empty when the deterministic fallback produced the numbers.
type GridEstimateResponse struct {
	EstimatedMonthsMin int      `json:"estimatedMonthsMin"`
	EstimatedMonthsMax int      `json:"estimatedMonthsMax"`
	KeySteps           []string `json:"keySteps"`
	RiskFactors        []string `json:"riskFactors"`
	Narrative          string   `json:"narrative,omitempty"`
	PoweredBy          string   `json:"poweredBy,omitempty"`
}

// PolicyGuidanceInput is a free-form policy question scoped to a market.
type PolicyGuidanceInput struct {
	Country    string     `json:"country"`
	Technology Technology `json:"technology,omitempty"`
	Question   string     `json:"question"`
}

// PolicyGuidanceResponse mirrors the grid estimator's fallback contract.
type PolicyGuidanceResponse struct {
	Answer      string   `json:"answer"`
	KeyPolicies []string `json:"keyPolicies,omitempty"`
	Caveats     []string `json:"caveats,omitempty"`
	PoweredBy   string   `json:"poweredBy,omitempty"`
}

// internal/models/match.go
package models

// MatchReason is one scored factor with a human-readable justification.
type MatchReason struct {
	Factor      string `json:"factor"`
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

// MatchResult is one ranked candidate with its composite score and the
// factors that contributed to it.
type MatchResult struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Score   int           `json:"score"`
	Reasons []MatchReason `json:"reasons"`
	Entity  interface{}   `json:"entity"`
}

// MatchFilters narrows the candidate pool. Absent sets mean no narrowing.
type MatchFilters struct {
	Countries    []string     `json:"countries,omitempty"`
	Technologies []Technology `json:"technologies,omitempty"`
}

// MatchResponse is the caller-facing shape for a match query.
type MatchResponse struct {
	Matches    []MatchResult `json:"matches"`
	Disclaimer string        `json:"disclaimer,omitempty"`
}

// internal/engine/healthcheck/grades.go
package healthcheck

// CategoryGrade maps a 0-100 category score to its qualitative band.
func CategoryGrade(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 65:
		return "Good"
	case score >= 50:
		return "Fair"
	default:
		return "Poor"
	}
}

// ScoreCategory maps the overall score to the report-level band.
func ScoreCategory(overall int) string {
	switch {
	case overall >= 75:
		return "Excellent"
	case overall >= 60:
		return "Good"
	case overall >= 40:
		return "Needs Work"
	default:
		return "High Risk"
	}
}

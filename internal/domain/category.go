package domain

// Trend direction of a category's recent scores.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// NoDataSentinel fills the issue/success lists when nothing was submitted.
const NoDataSentinel = "No data available"

// CategorySummary is the per-category rollup produced by the classifier.
type CategorySummary struct {
	Name           string   `json:"name"`
	TotalResponses int      `json:"totalResponses"`
	AverageScore   float64  `json:"averageScore"`
	Trend          Trend    `json:"trend"`
	Improvement    float64  `json:"improvement"`
	TopIssues      []string `json:"topIssues"`
	SuccessAreas   []string `json:"successAreas"`
}

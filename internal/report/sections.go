package report

import (
	"alcyxob/coach-analytics/internal/domain"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Section ids, stable across formats.
const (
	SectionSummary     = "summary"
	SectionClients     = "client-metrics"
	SectionCoaches     = "coach-metrics"
	SectionBusiness    = "business-metrics"
	SectionCategories  = "categories"
	SectionAIAnalysis  = "ai-analysis"
	SectionComparisons = "historical-comparison"
)

// Unit controls how a metric value is printed.
type Unit string

const (
	UnitPercent  Unit = "percent"
	UnitCurrency Unit = "currency"
	UnitHours    Unit = "hours"
	UnitCount    Unit = "count"
	UnitScore    Unit = "score"
	UnitNumber   Unit = "number"
)

// Metric is one labelled figure.
type Metric struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Display formats the value for people.
func (m Metric) Display() string {
	switch m.Unit {
	case UnitPercent:
		return fmt.Sprintf("%.1f%%", m.Value)
	case UnitCurrency:
		return fmt.Sprintf("$%.2f", m.Value)
	case UnitHours:
		return fmt.Sprintf("%.1f h", m.Value)
	case UnitCount:
		return fmt.Sprintf("%.0f", m.Value)
	case UnitScore:
		return fmt.Sprintf("%.1f / 10", m.Value)
	}
	return fmt.Sprintf("%.2f", m.Value)
}

// Group is a titled block of metrics inside a section.
type Group struct {
	Title   string   `json:"title"`
	Metrics []Metric `json:"metrics,omitempty"`
	Details []string `json:"details,omitempty"`
}

// Section is one logical part of a report.
type Section struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary,omitempty"`
	Groups      []Group `json:"groups,omitempty"`
	Placeholder bool    `json:"placeholder,omitempty"`
}

// Document is the format independent report.
type Document struct {
	Title       string           `json:"title"`
	TemplateID  string           `json:"templateId,omitempty"`
	GeneratedAt time.Time        `json:"generatedAt"`
	DateRange   domain.DateRange `json:"dateRange"`
	Sections    []Section        `json:"sections"`
	Footer      string           `json:"footer"`
}

const placeholderText = "Not available for this report."

// BuildDocument lays out the sections for req. A metric set that is nil in
// data gets no section at all.
func BuildDocument(req Request, data Data) Document {
	title := data.Title
	if title == "" {
		title = "Coaching Analytics Report"
	}
	doc := Document{
		Title:       title,
		TemplateID:  req.TemplateID,
		GeneratedAt: data.GeneratedAt,
		DateRange:   req.DateRange,
	}

	a := data.Analytics
	doc.Sections = append(doc.Sections, summarySection(req.DateRange, a))
	if a.ClientMetrics != nil {
		doc.Sections = append(doc.Sections, clientSection(a.ClientMetrics))
	}
	if a.CoachMetrics != nil {
		doc.Sections = append(doc.Sections, coachSection(a.CoachMetrics))
	}
	if a.BusinessMetrics != nil {
		doc.Sections = append(doc.Sections, businessSection(a.BusinessMetrics))
	}
	if len(data.Categories) > 0 {
		doc.Sections = append(doc.Sections, categorySection(data.Categories))
	}
	// No model is called here; the sections are reserved for it.
	if req.IncludeAIAnalysis {
		doc.Sections = append(doc.Sections, Section{ID: SectionAIAnalysis, Title: "AI Analysis", Placeholder: true})
	}
	if req.IncludePreviousComparisons {
		doc.Sections = append(doc.Sections, Section{ID: SectionComparisons, Title: "Historical Comparison", Placeholder: true})
	}

	doc.Footer = fmt.Sprintf("Generated %s", data.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	if req.TemplateID != "" {
		doc.Footer += fmt.Sprintf(" | template %s", req.TemplateID)
	}
	return doc
}

func formatRange(r domain.DateRange) string {
	if r.IsZero() {
		return "all time"
	}
	return fmt.Sprintf("%s to %s", r.Start.Format("Jan 2, 2006"), r.End.Format("Jan 2, 2006"))
}

func summarySection(r domain.DateRange, a domain.AdvancedAnalytics) Section {
	var highlights []string
	if m := a.ClientMetrics; m != nil {
		highlights = append(highlights, fmt.Sprintf("%.1f%% of clients were active in the last week.", m.Engagement.WeeklyActive))
	}
	if m := a.CoachMetrics; m != nil {
		highlights = append(highlights, fmt.Sprintf("Coaches retained %.1f%% of their clients.", m.Performance.ClientRetention))
	}
	if m := a.BusinessMetrics; m != nil {
		highlights = append(highlights, fmt.Sprintf("Monthly revenue is $%.2f across %d new clients this period.", m.Revenue.Monthly, m.Growth.NewClients))
	}

	summary := fmt.Sprintf("Period: %s.", formatRange(r))
	if len(highlights) == 0 {
		summary += " No metrics available for the selected period."
	} else {
		summary += " " + strings.Join(highlights, " ")
	}
	return Section{ID: SectionSummary, Title: "Summary", Summary: summary}
}

func clientSection(m *domain.ClientMetrics) Section {
	progress := []Metric{
		{"averageWeightChange", "Average weight change", m.Progress.AverageWeightChange, UnitNumber},
		{"goalCompletionRate", "Goal completion", m.Progress.GoalCompletionRate, UnitPercent},
		{"programAdherence", "Program adherence", m.Progress.ProgramAdherence, UnitPercent},
	}
	names := make([]string, 0, len(m.Progress.MeasurementChanges))
	for name := range m.Progress.MeasurementChanges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		progress = append(progress, Metric{"measurement." + name, "Measurement: " + name, m.Progress.MeasurementChanges[name], UnitNumber})
	}

	return Section{
		ID:    SectionClients,
		Title: "Client Metrics",
		Groups: []Group{
			{Title: "Engagement", Metrics: []Metric{
				{"weeklyActive", "Weekly active", m.Engagement.WeeklyActive, UnitPercent},
				{"checkInCompletion", "Check-in completion", m.Engagement.CheckInCompletion, UnitPercent},
				{"photoSubmissionRate", "Photo submissions", m.Engagement.PhotoSubmissionRate, UnitPercent},
				{"feedbackResponseRate", "Feedback responses", m.Engagement.FeedbackResponseRate, UnitPercent},
			}},
			{Title: "Progress", Metrics: progress},
			{Title: "Financial", Metrics: []Metric{
				{"averageLifetimeValue", "Average lifetime value", m.Financial.AverageLifetimeValue, UnitCurrency},
				{"subscriptionValue", "Average subscription", m.Financial.SubscriptionValue, UnitCurrency},
				{"churnRisk", "Churn risk", m.Financial.ChurnRisk, UnitPercent},
				{"upsellPotential", "Upsell potential", m.Financial.UpsellPotential, UnitPercent},
			}},
		},
	}
}

func coachSection(m *domain.CoachMetrics) Section {
	return Section{
		ID:    SectionCoaches,
		Title: "Coach Metrics",
		Groups: []Group{
			{Title: "Performance", Metrics: []Metric{
				{"clientRetention", "Client retention", m.Performance.ClientRetention, UnitPercent},
				{"averageResponseTime", "Average response time", m.Performance.AverageResponseTime, UnitHours},
				{"clientSatisfaction", "Client satisfaction", m.Performance.ClientSatisfaction, UnitScore},
				{"programCompletion", "Program completion", m.Performance.ProgramCompletion, UnitPercent},
			}},
			{Title: "Engagement", Metrics: []Metric{
				{"activeClients", "Active clients per coach", m.Engagement.ActiveClients, UnitNumber},
				{"sessionCompletion", "Session completion", m.Engagement.SessionCompletion, UnitPercent},
				{"resourceUsage", "Resource usage", m.Engagement.ResourceUsage, UnitNumber},
				{"communicationFrequency", "Communication frequency", m.Engagement.CommunicationFrequency, UnitPercent},
			}},
		},
	}
}

func businessSection(m *domain.BusinessMetrics) Section {
	return Section{
		ID:    SectionBusiness,
		Title: "Business Metrics",
		Groups: []Group{
			{Title: "Revenue", Metrics: []Metric{
				{"monthly", "Monthly revenue", m.Revenue.Monthly, UnitCurrency},
				{"projected", "Projected annual revenue", m.Revenue.Projected, UnitCurrency},
				{"perClient", "Revenue per client", m.Revenue.PerClient, UnitCurrency},
				{"growth", "Revenue growth", m.Revenue.Growth, UnitPercent},
			}},
			{Title: "Growth", Metrics: []Metric{
				{"newClients", "New clients", float64(m.Growth.NewClients), UnitCount},
				{"churnRate", "Churn rate", m.Growth.ChurnRate, UnitPercent},
				{"expansionRevenue", "Expansion revenue", m.Growth.ExpansionRevenue, UnitCurrency},
				{"netRetention", "Net retention", m.Growth.NetRetention, UnitPercent},
			}},
		},
	}
}

func categorySection(categories []domain.CategorySummary) Section {
	groups := make([]Group, 0, len(categories))
	for _, c := range categories {
		details := []string{"Trend: " + string(c.Trend)}
		if len(c.TopIssues) > 0 {
			details = append(details, "Top issues: "+strings.Join(c.TopIssues, ", "))
		}
		if len(c.SuccessAreas) > 0 {
			details = append(details, "Success areas: "+strings.Join(c.SuccessAreas, ", "))
		}
		groups = append(groups, Group{
			Title: c.Name,
			Metrics: []Metric{
				{"totalResponses", "Responses", float64(c.TotalResponses), UnitCount},
				{"averageScore", "Average score", c.AverageScore, UnitScore},
				{"improvement", "Improvement", c.Improvement, UnitPercent},
			},
			Details: details,
		})
	}
	return Section{ID: SectionCategories, Title: "Check-in Categories", Groups: groups}
}

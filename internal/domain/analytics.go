package domain

// AdvancedAnalytics is the derived, never persisted output of the metric
// reducers. A nil section means "not computed" and is omitted from reports.
type AdvancedAnalytics struct {
	ClientMetrics   *ClientMetrics   `json:"clientMetrics,omitempty"`
	CoachMetrics    *CoachMetrics    `json:"coachMetrics,omitempty"`
	BusinessMetrics *BusinessMetrics `json:"businessMetrics,omitempty"`
}

// --- Client metrics ---

type ClientEngagement struct {
	WeeklyActive         float64 `json:"weeklyActive"`
	CheckInCompletion    float64 `json:"checkInCompletion"`
	PhotoSubmissionRate  float64 `json:"photoSubmissionRate"`
	FeedbackResponseRate float64 `json:"feedbackResponseRate"`
}

type ClientProgress struct {
	AverageWeightChange float64            `json:"averageWeightChange"`
	MeasurementChanges  map[string]float64 `json:"measurementChanges"`
	GoalCompletionRate  float64            `json:"goalCompletionRate"`
	ProgramAdherence    float64            `json:"programAdherence"`
}

type ClientFinancial struct {
	AverageLifetimeValue float64 `json:"averageLifetimeValue"`
	SubscriptionValue    float64 `json:"subscriptionValue"`
	ChurnRisk            float64 `json:"churnRisk"`
	UpsellPotential      float64 `json:"upsellPotential"`
}

// ClientMetrics percentages are on a 0-100 scale.
type ClientMetrics struct {
	Engagement ClientEngagement `json:"engagement"`
	Progress   ClientProgress   `json:"progress"`
	Financial  ClientFinancial  `json:"financial"`
}

// --- Coach metrics ---

type CoachPerformance struct {
	ClientRetention     float64 `json:"clientRetention"`
	AverageResponseTime float64 `json:"averageResponseTime"`
	ClientSatisfaction  float64 `json:"clientSatisfaction"`
	ProgramCompletion   float64 `json:"programCompletion"`
}

type CoachEngagement struct {
	ActiveClients          float64 `json:"activeClients"`
	SessionCompletion      float64 `json:"sessionCompletion"`
	ResourceUsage          float64 `json:"resourceUsage"`
	CommunicationFrequency float64 `json:"communicationFrequency"`
}

type CoachMetrics struct {
	Performance CoachPerformance `json:"performance"`
	Engagement  CoachEngagement  `json:"engagement"`
}

// --- Business metrics ---

type Revenue struct {
	Monthly   float64 `json:"monthly"`
	Projected float64 `json:"projected"`
	PerClient float64 `json:"perClient"`
	Growth    float64 `json:"growth"`
}

type Growth struct {
	NewClients       int     `json:"newClients"`
	ChurnRate        float64 `json:"churnRate"`
	ExpansionRevenue float64 `json:"expansionRevenue"`
	NetRetention     float64 `json:"netRetention"`
}

type BusinessMetrics struct {
	Revenue Revenue `json:"revenue"`
	Growth  Growth  `json:"growth"`
}

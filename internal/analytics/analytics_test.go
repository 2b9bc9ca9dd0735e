package analytics

import (
	"alcyxob/coach-analytics/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now  = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	june = domain.DateRange{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC),
	}
)

func ptr[T any](v T) *T { return &v }

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

func TestCalculateClientMetricsEmpty(t *testing.T) {
	got := CalculateClientMetrics(nil, nil, now)
	assert.Equal(t, EmptyClientMetrics(), got)
	assert.NotNil(t, got.Progress.MeasurementChanges)
}

func TestCalculateClientMetrics(t *testing.T) {
	clients := []domain.Client{
		{
			ID:            "a",
			Status:        domain.ClientActive,
			LastLoginAt:   daysAgo(2),
			LastActivity:  daysAgo(2),
			Subscription:  domain.Subscription{Amount: 100, Tier: domain.TierBasic},
			TotalSpent:    600,
			InitialWeight: ptr(90.0),
			CurrentWeight: ptr(85.0),
			Measurements:  map[string]float64{"waist": -3},
			Goals:         []domain.Goal{{Title: "run 5k", Completed: true}},
		},
		{
			ID:           "b",
			Status:       domain.ClientActive,
			LastLoginAt:  daysAgo(10),
			LastActivity: daysAgo(45),
			Subscription: domain.Subscription{Amount: 200, Tier: domain.TierPremium},
			TotalSpent:   1400,
			Measurements: map[string]float64{"waist": -1, "hips": -2},
			Goals:        []domain.Goal{{Title: "sleep 8h"}, {Title: "lift", Completed: true}},
		},
	}
	checkIns := []domain.CheckIn{
		{ClientID: "a", Completed: true, Photos: []string{"p1"}, Feedback: "good week"},
		{ClientID: "a", Completed: true},
		{ClientID: "b"},
		{ClientID: "b", Feedback: "tired"},
	}

	got := CalculateClientMetrics(clients, checkIns, now)

	assert.Equal(t, 50.0, got.Engagement.WeeklyActive)
	assert.InDelta(t, 4.0/14*100, got.Engagement.CheckInCompletion, 1e-9)
	assert.Equal(t, 25.0, got.Engagement.PhotoSubmissionRate)
	assert.Equal(t, 50.0, got.Engagement.FeedbackResponseRate)

	assert.Equal(t, -5.0, got.Progress.AverageWeightChange)
	assert.Equal(t, map[string]float64{"waist": -4, "hips": -2}, got.Progress.MeasurementChanges)
	assert.Equal(t, 50.0, got.Progress.GoalCompletionRate)
	assert.Equal(t, 50.0, got.Progress.ProgramAdherence)

	assert.Equal(t, 1000.0, got.Financial.AverageLifetimeValue)
	assert.Equal(t, 150.0, got.Financial.SubscriptionValue)
	assert.Equal(t, 50.0, got.Financial.ChurnRisk)
	assert.Equal(t, 50.0, got.Financial.UpsellPotential)
}

func TestCalculateClientMetricsWithoutCheckIns(t *testing.T) {
	got := CalculateClientMetrics([]domain.Client{{ID: "a", Status: domain.ClientActive}}, nil, now)
	assert.Zero(t, got.Engagement.CheckInCompletion)
	assert.Zero(t, got.Engagement.PhotoSubmissionRate)
	assert.Zero(t, got.Progress.ProgramAdherence)
	assert.Zero(t, got.Progress.AverageWeightChange)
	// No recorded activity is not a churn risk.
	assert.Zero(t, got.Financial.ChurnRisk)
}

func TestWeeklyActiveStaysWithinBounds(t *testing.T) {
	clients := make([]domain.Client, 0, 40)
	for i := 0; i < 40; i++ {
		clients = append(clients, domain.Client{ID: string(rune('a' + i)), LastLoginAt: daysAgo(i % 9)})
	}
	got := CalculateClientMetrics(clients, nil, now)
	assert.GreaterOrEqual(t, got.Engagement.WeeklyActive, 0.0)
	assert.LessOrEqual(t, got.Engagement.WeeklyActive, 100.0)
}

func TestCalculateClientMetricsDoesNotMutateInput(t *testing.T) {
	clients := []domain.Client{{ID: "a", Measurements: map[string]float64{"waist": -2}}}
	_ = CalculateClientMetrics(clients, nil, now)
	got := CalculateClientMetrics(clients, nil, now)
	assert.Equal(t, map[string]float64{"waist": -2}, clients[0].Measurements)
	assert.Equal(t, -2.0, got.Progress.MeasurementChanges["waist"])
}

func TestCalculateCoachMetrics(t *testing.T) {
	coaches := []domain.Coach{
		{ID: "c1", ResourceUsage: 30},
		{ID: "c2", ResourceUsage: 70},
	}
	clients := []domain.Client{
		{ID: "a", CoachID: "c1", Status: domain.ClientActive},
		{ID: "b", CoachID: "c1", Status: domain.ClientInactive},
		{ID: "c", CoachID: "c2", Status: domain.ClientActive},
	}
	checkIns := []domain.CheckIn{
		{CoachID: "c1", Completed: true, ResponseTime: 2, Satisfaction: 8, HasCommunication: true},
		{CoachID: "c1", ResponseTime: 4, Satisfaction: 6},
		{CoachID: "c2", Completed: true, ResponseTime: 10, Satisfaction: 10},
		{CoachID: "gone", Completed: true},
	}

	got := CalculateCoachMetrics(coaches, clients, checkIns)

	assert.Equal(t, 75.0, got.Performance.ClientRetention)      // (50 + 100) / 2
	assert.Equal(t, 6.5, got.Performance.AverageResponseTime)   // (3 + 10) / 2
	assert.Equal(t, 8.5, got.Performance.ClientSatisfaction)    // (7 + 10) / 2
	assert.Equal(t, 75.0, got.Performance.ProgramCompletion)    // 3 of 4
	assert.Equal(t, 1.0, got.Engagement.ActiveClients)          // 2 active / 2 coaches
	assert.Equal(t, 75.0, got.Engagement.SessionCompletion)
	assert.Equal(t, 50.0, got.Engagement.ResourceUsage)
	assert.Equal(t, 25.0, got.Engagement.CommunicationFrequency)
}

func TestCalculateCoachMetricsIdleCoach(t *testing.T) {
	got := CalculateCoachMetrics([]domain.Coach{{ID: "c1"}}, nil, nil)
	assert.Equal(t, domain.CoachMetrics{}, got)

	assert.Equal(t, domain.CoachMetrics{}, CalculateCoachMetrics(nil, []domain.Client{{ID: "a"}}, nil))
}

func TestCalculateBusinessMetrics(t *testing.T) {
	clients := []domain.Client{
		{ID: "a", Subscription: domain.Subscription{Amount: 100}, StartDate: ptr(daysAgo(3))},
		{ID: "b", Subscription: domain.Subscription{Amount: 300}, StartDate: ptr(daysAgo(90)), EndDate: ptr(daysAgo(5))},
		{ID: "c", Subscription: domain.Subscription{Amount: 200}, Upgrades: []domain.Upgrade{{Amount: 50}, {Amount: 25}}},
		{ID: "d", StartDate: ptr(june.Start), EndDate: ptr(june.End.AddDate(0, 1, 0))},
	}

	got := CalculateBusinessMetrics(clients, nil, june)

	assert.Equal(t, 600.0, got.Revenue.Monthly)
	assert.Equal(t, 7200.0, got.Revenue.Projected)
	assert.Equal(t, 150.0, got.Revenue.PerClient)
	assert.InDelta(t, 11.111, got.Revenue.Growth, 0.001)

	assert.Equal(t, 2, got.Growth.NewClients) // range start is inclusive
	assert.Equal(t, 25.0, got.Growth.ChurnRate)
	assert.Equal(t, 75.0, got.Growth.ExpansionRevenue)
	assert.Equal(t, (4-25.0)/4*100, got.Growth.NetRetention)
}

func TestCalculateBusinessMetricsOpenRanges(t *testing.T) {
	clients := []domain.Client{
		{ID: "a", StartDate: ptr(daysAgo(3))},
		{ID: "b", StartDate: ptr(daysAgo(90)), EndDate: ptr(daysAgo(5))},
		{ID: "c"},
		{ID: "d", StartDate: ptr(june.Start), EndDate: ptr(june.End.AddDate(0, 1, 0))},
	}

	tests := []struct {
		name       string
		dateRange  domain.DateRange
		newClients int
		churnRate  float64
	}{
		{"all time", domain.DateRange{}, 3, 50},
		{"start only", domain.DateRange{Start: june.Start}, 2, 50},
		{"end only", domain.DateRange{End: june.End}, 3, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateBusinessMetrics(clients, nil, tt.dateRange)
			assert.Equal(t, tt.newClients, got.Growth.NewClients)
			assert.Equal(t, tt.churnRate, got.Growth.ChurnRate)
		})
	}
}

func TestCalculateBusinessMetricsZeroRevenue(t *testing.T) {
	got := CalculateBusinessMetrics([]domain.Client{{ID: "a"}}, nil, june)
	assert.Zero(t, got.Revenue.Growth)
	assert.Zero(t, got.Revenue.Monthly)

	assert.Equal(t, domain.BusinessMetrics{}, CalculateBusinessMetrics(nil, nil, june))
}

func TestCalculateIsDeterministic(t *testing.T) {
	snap := Snapshot{
		Clients:  []domain.Client{{ID: "a", CoachID: "c1", Status: domain.ClientActive, LastLoginAt: daysAgo(1), Subscription: domain.Subscription{Amount: 80}}},
		Coaches:  []domain.Coach{{ID: "c1"}},
		CheckIns: []domain.CheckIn{{ClientID: "a", CoachID: "c1", Completed: true}},
	}
	first := Calculate(snap, june, now)
	second := Calculate(snap, june, now)
	require.NotNil(t, first.ClientMetrics)
	assert.Equal(t, first, second)
	assert.Equal(t, 100.0, first.CoachMetrics.Performance.ClientRetention)
}

func TestStatsProviders(t *testing.T) {
	fixed := FixedStats{CompletionRate: 90, ResponseTime: 2, ClientsImproved: 5}
	assert.Equal(t, CoachStats{CoachID: "c1", CompletionRate: 90, ResponseTime: 2, ClientsImproved: 3, ClientsTotal: 3}, fixed.CoachStats(domain.Coach{ID: "c1"}, 3))

	a := NewRandomStats(42).CoachStats(domain.Coach{ID: "c1"}, 10)
	b := NewRandomStats(42).CoachStats(domain.Coach{ID: "c1"}, 10)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a.CompletionRate, 70.0)
	assert.LessOrEqual(t, a.CompletionRate, 100.0)
	assert.LessOrEqual(t, a.ClientsImproved, 10)
}

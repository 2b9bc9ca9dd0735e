// Package analytics reduces fetched client, coach and check-in snapshots into
// the AdvancedAnalytics structure. Every function here is pure: no I/O, no
// clock reads, no shared state.
package analytics

import (
	"alcyxob/coach-analytics/internal/domain"
	"time"
)

// Snapshot is the raw input of one analytics run.
type Snapshot struct {
	Clients  []domain.Client
	Coaches  []domain.Coach
	CheckIns []domain.CheckIn
}

// Calculate runs all three reducers over snap.
func Calculate(snap Snapshot, dateRange domain.DateRange, now time.Time) domain.AdvancedAnalytics {
	clientMetrics := CalculateClientMetrics(snap.Clients, snap.CheckIns, now)
	coachMetrics := CalculateCoachMetrics(snap.Coaches, snap.Clients, snap.CheckIns)
	businessMetrics := CalculateBusinessMetrics(snap.Clients, snap.Coaches, dateRange)
	return domain.AdvancedAnalytics{
		ClientMetrics:   &clientMetrics,
		CoachMetrics:    &coachMetrics,
		BusinessMetrics: &businessMetrics,
	}
}

package analytics

import (
	"alcyxob/coach-analytics/internal/domain"
	"time"
)

const (
	weeklyWindow          = 7 * 24 * time.Hour
	inactivityThreshold   = 30 * 24 * time.Hour
	checkInsPerClientWeek = 7
)

// percent returns part/whole*100, or 0 when whole is 0.
func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// ratio returns a/b, or 0 when b is 0.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// EmptyClientMetrics is the structure returned for an empty client list.
func EmptyClientMetrics() domain.ClientMetrics {
	return domain.ClientMetrics{
		Progress: domain.ClientProgress{MeasurementChanges: map[string]float64{}},
	}
}

// CalculateClientMetrics folds clients and their check-ins into engagement,
// progress and financial metrics. now anchors the 7 and 30 day windows.
func CalculateClientMetrics(clients []domain.Client, checkIns []domain.CheckIn, now time.Time) domain.ClientMetrics {
	if len(clients) == 0 {
		return EmptyClientMetrics()
	}
	total := float64(len(clients))

	var (
		weeklyActive, atRisk, basicTier, goalsDone float64
		lifetime, subscriptions                    float64
		weightDelta                                float64
		weighed                                    int
	)
	measurements := map[string]float64{}

	for i := range clients {
		c := &clients[i]
		if !c.LastLoginAt.IsZero() && now.Sub(c.LastLoginAt) <= weeklyWindow {
			weeklyActive++
		}
		// A client with no recorded activity is not counted as a churn risk.
		if !c.LastActivity.IsZero() && now.Sub(c.LastActivity) > inactivityThreshold {
			atRisk++
		}
		if c.Subscription.Tier == domain.TierBasic {
			basicTier++
		}
		if allGoalsCompleted(c.Goals) {
			goalsDone++
		}
		if c.InitialWeight != nil && c.CurrentWeight != nil {
			weightDelta += *c.CurrentWeight - *c.InitialWeight
			weighed++
		}
		for name, v := range c.Measurements {
			measurements[name] += v
		}
		lifetime += c.TotalSpent
		subscriptions += c.Subscription.Amount
	}

	var withPhotos, withFeedback, completed float64
	for i := range checkIns {
		if len(checkIns[i].Photos) > 0 {
			withPhotos++
		}
		if checkIns[i].Feedback != "" {
			withFeedback++
		}
		if checkIns[i].Completed {
			completed++
		}
	}
	checkInCount := float64(len(checkIns))

	return domain.ClientMetrics{
		Engagement: domain.ClientEngagement{
			WeeklyActive:         percent(weeklyActive, total),
			CheckInCompletion:    percent(checkInCount, total*checkInsPerClientWeek),
			PhotoSubmissionRate:  percent(withPhotos, checkInCount),
			FeedbackResponseRate: percent(withFeedback, checkInCount),
		},
		Progress: domain.ClientProgress{
			AverageWeightChange: ratio(weightDelta, float64(weighed)),
			MeasurementChanges:  measurements,
			GoalCompletionRate:  percent(goalsDone, total),
			ProgramAdherence:    percent(completed, checkInCount),
		},
		Financial: domain.ClientFinancial{
			AverageLifetimeValue: lifetime / total,
			SubscriptionValue:    subscriptions / total,
			ChurnRisk:            percent(atRisk, total),
			UpsellPotential:      percent(basicTier, total),
		},
	}
}

// allGoalsCompleted is false for clients without goals.
func allGoalsCompleted(goals []domain.Goal) bool {
	if len(goals) == 0 {
		return false
	}
	for _, g := range goals {
		if !g.Completed {
			return false
		}
	}
	return true
}

package analytics

import "alcyxob/coach-analytics/internal/domain"

// CalculateCoachMetrics computes per-coach retention, response time and
// satisfaction, each averaged across coaches, plus global completion and
// engagement ratios. A coach with no clients or check-ins contributes 0 to
// the respective average.
func CalculateCoachMetrics(coaches []domain.Coach, clients []domain.Client, checkIns []domain.CheckIn) domain.CoachMetrics {
	if len(coaches) == 0 {
		return domain.CoachMetrics{}
	}
	coachCount := float64(len(coaches))

	type tally struct {
		clients, active       float64
		checkIns              float64
		responseSum, satisSum float64
	}
	perCoach := make(map[string]*tally, len(coaches))
	for _, c := range coaches {
		perCoach[c.ID] = &tally{}
	}

	var activeClients float64
	for i := range clients {
		if clients[i].IsActive() {
			activeClients++
		}
		t, ok := perCoach[clients[i].CoachID]
		if !ok {
			continue
		}
		t.clients++
		if clients[i].IsActive() {
			t.active++
		}
	}

	var completed, communicated float64
	for i := range checkIns {
		ci := &checkIns[i]
		if ci.Completed {
			completed++
		}
		if ci.HasCommunication {
			communicated++
		}
		if t, ok := perCoach[ci.CoachID]; ok {
			t.checkIns++
			t.responseSum += ci.ResponseTime
			t.satisSum += ci.Satisfaction
		}
	}

	var retention, response, satisfaction, resources float64
	for _, c := range coaches {
		t := perCoach[c.ID]
		retention += percent(t.active, t.clients)
		response += ratio(t.responseSum, t.checkIns)
		satisfaction += ratio(t.satisSum, t.checkIns)
		resources += c.ResourceUsage
	}

	checkInCount := float64(len(checkIns))
	completion := percent(completed, checkInCount)

	return domain.CoachMetrics{
		Performance: domain.CoachPerformance{
			ClientRetention:     retention / coachCount,
			AverageResponseTime: response / coachCount,
			ClientSatisfaction:  satisfaction / coachCount,
			ProgramCompletion:   completion,
		},
		Engagement: domain.CoachEngagement{
			ActiveClients:          activeClients / coachCount,
			SessionCompletion:      completion,
			ResourceUsage:          resources / coachCount,
			CommunicationFrequency: percent(communicated, checkInCount),
		},
	}
}

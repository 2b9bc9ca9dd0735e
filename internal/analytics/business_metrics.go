package analytics

import "alcyxob/coach-analytics/internal/domain"

// assumedPriorPeriod is the fraction of this month's revenue the growth figure
// takes as last month's. It makes Revenue.Growth a constant ~11.1% for any
// non-zero revenue.
// TODO: replace with a real period-over-period comparison once monthly
// revenue snapshots are stored.
const assumedPriorPeriod = 0.9

// CalculateBusinessMetrics computes revenue and growth figures. New clients
// and churn are counted on start/end dates inside dateRange (inclusive).
// Revenue is attributed per client; coaches carry no billing data yet.
//
// NetRetention keeps the historical formula (total - churnRate) / total * 100,
// which subtracts a percentage from a client count. Dashboards compare against
// it, so it is left as is.
func CalculateBusinessMetrics(clients []domain.Client, coaches []domain.Coach, dateRange domain.DateRange) domain.BusinessMetrics {
	if len(clients) == 0 {
		return domain.BusinessMetrics{}
	}
	total := float64(len(clients))

	var monthly, expansion float64
	var newClients, churned int
	for i := range clients {
		c := &clients[i]
		monthly += c.Subscription.Amount
		for _, u := range c.Upgrades {
			expansion += u.Amount
		}
		if c.StartDate != nil && dateRange.Contains(*c.StartDate) {
			newClients++
		}
		if c.EndDate != nil && dateRange.Contains(*c.EndDate) {
			churned++
		}
	}

	prior := monthly * assumedPriorPeriod
	churnRate := percent(float64(churned), total)

	return domain.BusinessMetrics{
		Revenue: domain.Revenue{
			Monthly:   monthly,
			Projected: monthly * 12,
			PerClient: monthly / total,
			Growth:    percent(monthly-prior, prior),
		},
		Growth: domain.Growth{
			NewClients:       newClients,
			ChurnRate:        churnRate,
			ExpansionRevenue: expansion,
			NetRetention:     (total - churnRate) / total * 100,
		},
	}
}

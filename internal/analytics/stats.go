package analytics

import (
	"alcyxob/coach-analytics/internal/domain"
	"math/rand"
	"sync"
)

// CoachStats are the per-coach figures shown on the admin coach list.
type CoachStats struct {
	CoachID         string  `json:"coachId"`
	CompletionRate  float64 `json:"completionRate"`  // 0-100
	ResponseTime    float64 `json:"responseTime"`    // Hours
	ClientsImproved int     `json:"clientsImproved"` // Clients with measurable progress
	ClientsTotal    int     `json:"clientsTotal"`
}

// StatsProvider supplies coach list stats. Production dashboards use mock
// figures until coach stats are persisted; tests inject FixedStats.
type StatsProvider interface {
	CoachStats(coach domain.Coach, clientCount int) CoachStats
}

// RandomStats produces presentation mock figures from a seeded source.
type RandomStats struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomStats creates a RandomStats seeded with seed.
func NewRandomStats(seed int64) *RandomStats {
	return &RandomStats{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomStats) CoachStats(coach domain.Coach, clientCount int) CoachStats {
	p.mu.Lock() // *rand.Rand is not safe for concurrent use
	defer p.mu.Unlock()
	improved := 0
	if clientCount > 0 {
		improved = p.rng.Intn(clientCount + 1)
	}
	return CoachStats{
		CoachID:         coach.ID,
		CompletionRate:  float64(70 + p.rng.Intn(31)),
		ResponseTime:    float64(1 + p.rng.Intn(24)),
		ClientsImproved: improved,
		ClientsTotal:    clientCount,
	}
}

// FixedStats returns the same figures for every coach.
type FixedStats struct {
	CompletionRate  float64
	ResponseTime    float64
	ClientsImproved int
}

func (p FixedStats) CoachStats(coach domain.Coach, clientCount int) CoachStats {
	improved := p.ClientsImproved
	if improved > clientCount {
		improved = clientCount
	}
	return CoachStats{
		CoachID:         coach.ID,
		CompletionRate:  p.CompletionRate,
		ResponseTime:    p.ResponseTime,
		ClientsImproved: improved,
		ClientsTotal:    clientCount,
	}
}

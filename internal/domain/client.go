package domain

import "time"

// ClientStatus tracks whether a client is still being coached.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// Subscription tiers referenced by the financial metrics.
const (
	TierBasic   = "basic"
	TierPremium = "premium"
	TierElite   = "elite"
)

// Subscription is the client's current plan.
type Subscription struct {
	Amount float64 `bson:"amount" json:"amount" firestore:"amount"`
	Tier   string  `bson:"tier" json:"tier" firestore:"tier"`
}

// Goal is a single client goal.
type Goal struct {
	Title     string `bson:"title" json:"title" firestore:"title"`
	Completed bool   `bson:"completed" json:"completed" firestore:"completed"`
}

// Upgrade is a plan upgrade purchased by the client (expansion revenue).
type Upgrade struct {
	Amount float64   `bson:"amount" json:"amount" firestore:"amount"`
	Date   time.Time `bson:"date,omitempty" json:"date,omitempty" firestore:"date,omitempty"`
}

// Client is a coached person, read-only for the analytics pipeline.
// Weights are pointers: a missing measurement is not a zero weight.
type Client struct {
	ID            string             `bson:"_id,omitempty" json:"id" firestore:"-"`
	CoachID       string             `bson:"coachId" json:"coachId" firestore:"coachId"`
	CompanyID     string             `bson:"companyId" json:"companyId" firestore:"companyId"`
	Name          string             `bson:"name" json:"name" firestore:"name"`
	Email         string             `bson:"email" json:"email" firestore:"email"`
	Status        ClientStatus       `bson:"status" json:"status" firestore:"status"`
	LastLoginAt   time.Time          `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty" firestore:"lastLoginAt,omitempty"`
	LastActivity  time.Time          `bson:"lastActivity,omitempty" json:"lastActivity,omitempty" firestore:"lastActivity,omitempty"`
	Subscription  Subscription       `bson:"subscription" json:"subscription" firestore:"subscription"`
	TotalSpent    float64            `bson:"totalSpent" json:"totalSpent" firestore:"totalSpent"`
	InitialWeight *float64           `bson:"initialWeight,omitempty" json:"initialWeight,omitempty" firestore:"initialWeight,omitempty"`
	CurrentWeight *float64           `bson:"currentWeight,omitempty" json:"currentWeight,omitempty" firestore:"currentWeight,omitempty"`
	Measurements  map[string]float64 `bson:"measurements,omitempty" json:"measurements,omitempty" firestore:"measurements,omitempty"`
	Goals         []Goal             `bson:"goals,omitempty" json:"goals,omitempty" firestore:"goals,omitempty"`
	StartDate     *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty" firestore:"startDate,omitempty"`
	EndDate       *time.Time         `bson:"endDate,omitempty" json:"endDate,omitempty" firestore:"endDate,omitempty"`
	Upgrades      []Upgrade          `bson:"upgrades,omitempty" json:"upgrades,omitempty" firestore:"upgrades,omitempty"`
}

// IsActive helper mirrors the status check used across the reducers.
func (c *Client) IsActive() bool {
	return c.Status == ClientActive
}

package domain

import "time"

// CheckInStatus type for the check-in lifecycle
type CheckInStatus string

const (
	CheckInPending   CheckInStatus = "pending"
	CheckInCompleted CheckInStatus = "completed"
)

// CheckIn is one periodic client check-in reviewed by a coach.
type CheckIn struct {
	ID               string         `bson:"_id,omitempty" json:"id" firestore:"-"`
	ClientID         string         `bson:"clientId" json:"clientId" firestore:"clientId"`
	CoachID          string         `bson:"coachId" json:"coachId" firestore:"coachId"`
	CompanyID        string         `bson:"companyId" json:"companyId" firestore:"companyId"`
	Timestamp        time.Time      `bson:"timestamp" json:"timestamp" firestore:"timestamp"`
	Status           CheckInStatus  `bson:"status" json:"status" firestore:"status"`
	Photos           []string       `bson:"photos,omitempty" json:"photos,omitempty" firestore:"photos,omitempty"`
	Feedback         string         `bson:"feedback,omitempty" json:"feedback,omitempty" firestore:"feedback,omitempty"`
	Completed        bool           `bson:"completed" json:"completed" firestore:"completed"`
	ResponseTime     float64        `bson:"responseTime" json:"responseTime" firestore:"responseTime"` // Hours until the coach replied
	HasCommunication bool           `bson:"hasCommunication" json:"hasCommunication" firestore:"hasCommunication"`
	Compliance       float64        `bson:"compliance" json:"compliance" firestore:"compliance"`       // 0-100
	Satisfaction     float64        `bson:"satisfaction" json:"satisfaction" firestore:"satisfaction"` // 0-10 client rating of the coach
	Answers          map[string]any `bson:"answers,omitempty" json:"answers,omitempty" firestore:"answers,omitempty"`
}

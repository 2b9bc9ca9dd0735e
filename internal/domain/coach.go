package domain

// CoachStatus mirrors ClientStatus for coach accounts.
type CoachStatus string

const (
	CoachActive   CoachStatus = "active"
	CoachInactive CoachStatus = "inactive"
)

// Coach is a coach account belonging to a company. Performance stats are never
// stored on the document; they are recomputed by the analytics package.
type Coach struct {
	ID            string      `bson:"_id,omitempty" json:"id" firestore:"-"`
	CompanyID     string      `bson:"companyId" json:"companyId" firestore:"companyId"`
	Name          string      `bson:"name" json:"name" firestore:"name"`
	Email         string      `bson:"email" json:"email" firestore:"email"`
	Status        CoachStatus `bson:"status" json:"status" firestore:"status"`
	ResourceUsage float64     `bson:"resourceUsage" json:"resourceUsage" firestore:"resourceUsage"`
	Specialties   []string    `bson:"specialties,omitempty" json:"specialties,omitempty" firestore:"specialties,omitempty"`
}

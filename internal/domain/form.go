package domain

import "time"

// QuestionType is the input widget a form question uses.
type QuestionType string

const (
	QuestionScale          QuestionType = "scale"
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionYesNo          QuestionType = "yes_no"
	QuestionNumber         QuestionType = "number"
)

// Question is a single question definition on a check-in form.
type Question struct {
	ID   string       `bson:"id" json:"id" firestore:"id"`
	Text string       `bson:"text" json:"text" firestore:"text"`
	Type QuestionType `bson:"type" json:"type" firestore:"type"`
}

// CheckInForm is a coach-authored questionnaire.
type CheckInForm struct {
	ID        string     `bson:"_id,omitempty" json:"id" firestore:"-"`
	CompanyID string     `bson:"companyId" json:"companyId" firestore:"companyId"`
	CoachID   string     `bson:"coachId,omitempty" json:"coachId,omitempty" firestore:"coachId,omitempty"`
	Title     string     `bson:"title" json:"title" firestore:"title"`
	Questions []Question `bson:"questions" json:"questions" firestore:"questions"`
}

// QuestionByID returns the question definition with the given id.
func (f *CheckInForm) QuestionByID(id string) (Question, bool) {
	for _, q := range f.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// FormSubmission holds one client's answers to a CheckInForm.
// Answers map question id -> string, number or list of strings.
type FormSubmission struct {
	ID          string         `bson:"_id,omitempty" json:"id" firestore:"-"`
	FormID      string         `bson:"formId" json:"formId" firestore:"formId"`
	ClientID    string         `bson:"clientId" json:"clientId" firestore:"clientId"`
	CoachID     string         `bson:"coachId,omitempty" json:"coachId,omitempty" firestore:"coachId,omitempty"`
	CompanyID   string         `bson:"companyId" json:"companyId" firestore:"companyId"`
	Status      CheckInStatus  `bson:"status" json:"status" firestore:"status"`
	SubmittedAt time.Time      `bson:"submittedAt" json:"submittedAt" firestore:"submittedAt"`
	Answers     map[string]any `bson:"answers" json:"answers" firestore:"answers"`
}

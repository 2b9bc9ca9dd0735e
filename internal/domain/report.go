package domain

import "time"

// ReportRecord stores metadata about a generated report artifact.
// The rendered file itself resides in S3.
type ReportRecord struct {
	ID          string    `bson:"_id,omitempty" json:"id" firestore:"-"`
	CompanyID   string    `bson:"companyId" json:"companyId" firestore:"companyId"`
	RequestedBy string    `bson:"requestedBy" json:"requestedBy" firestore:"requestedBy"` // User id from the token
	TemplateID  string    `bson:"templateId" json:"templateId" firestore:"templateId"`
	Format      string    `bson:"format" json:"format" firestore:"format"`
	ObjectKey   string    `bson:"objectKey" json:"-" firestore:"objectKey"` // Key in the S3 bucket, internal use
	FileName    string    `bson:"fileName" json:"fileName" firestore:"fileName"`
	ContentType string    `bson:"contentType" json:"contentType" firestore:"contentType"`
	Size        int64     `bson:"size" json:"size" firestore:"size"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt" firestore:"createdAt"`
}

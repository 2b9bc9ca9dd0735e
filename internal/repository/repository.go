package repository

import (
	"alcyxob/coach-analytics/internal/domain" // Import our defined domain models
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrInvalidQuery = RepositoryError("invalid query")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// --- Filters ---
// Empty fields are not applied. Id lists of any length are accepted; the
// backends split them with FetchInBatches so callers never see the store's
// IN-clause limit.

type ClientFilter struct {
	CompanyID string
	CoachID   string
	Status    domain.ClientStatus
	IDs       []string
}

type CoachFilter struct {
	CompanyID string
	Status    domain.CoachStatus
	IDs       []string
}

type CheckInFilter struct {
	CompanyID string
	CoachID   string
	ClientIDs []string
	Status    domain.CheckInStatus
	Range     domain.DateRange // Inclusive on both ends, on "timestamp"
}

type FormFilter struct {
	CompanyID string
	CoachID   string
}

type SubmissionFilter struct {
	CompanyID string
	FormIDs   []string
	Status    domain.CheckInStatus
	Range     domain.DateRange // Inclusive on both ends, on "submittedAt"
}

// ClientRepository defines the interface for reading client documents.
type ClientRepository interface {
	Find(ctx context.Context, filter ClientFilter) ([]domain.Client, error)
}

// CoachRepository defines the interface for reading coach documents.
type CoachRepository interface {
	Find(ctx context.Context, filter CoachFilter) ([]domain.Coach, error)
}

// CheckInRepository defines the interface for reading check-ins.
type CheckInRepository interface {
	Find(ctx context.Context, filter CheckInFilter) ([]domain.CheckIn, error)
}

// FormRepository defines the interface for reading check-in form definitions.
type FormRepository interface {
	Find(ctx context.Context, filter FormFilter) ([]domain.CheckInForm, error)
}

// SubmissionRepository defines the interface for reading form submissions.
type SubmissionRepository interface {
	Find(ctx context.Context, filter SubmissionFilter) ([]domain.FormSubmission, error)
}

// ReportRepository defines the interface for generated report metadata.
type ReportRepository interface {
	Create(ctx context.Context, record *domain.ReportRecord) (string, error)
	GetByID(ctx context.Context, id string) (*domain.ReportRecord, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.ReportRecord, error)
}

// Store bundles the repositories of one backend. It is an explicit handle
// passed to the services; there is no package-level store.
type Store struct {
	Clients     ClientRepository
	Coaches     CoachRepository
	CheckIns    CheckInRepository
	Forms       FormRepository
	Submissions SubmissionRepository
	Reports     ReportRepository
}

// Package firestore implements the repositories on Cloud Firestore. Firestore
// caps "in" filters at 10 values, so every id-list read goes through
// repository.FetchInBatches.
package firestore

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	clientCollection     = "clients"
	coachCollection      = "coaches"
	checkInCollection    = "checkIns"
	formCollection       = "checkInForms"
	submissionCollection = "formSubmissions"
	reportCollection     = "reports"
)

// Connect opens a Firestore client. An empty credentialsFile falls back to
// application default credentials.
func Connect(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore connect: %w", err)
	}
	return client, nil
}

// NewStore wires every Firestore repository against client.
func NewStore(client *firestore.Client) repository.Store {
	return repository.Store{
		Clients:     &clientRepository{client: client},
		Coaches:     &coachRepository{client: client},
		CheckIns:    &checkInRepository{client: client},
		Forms:       &formRepository{client: client},
		Submissions: &submissionRepository{client: client},
		Reports:     &reportRepository{client: client},
	}
}

// getAll runs q and decodes every snapshot, assigning the document id.
func getAll[T any](ctx context.Context, q firestore.Query, setID func(*T, string)) ([]T, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		var doc T
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", snap.Ref.ID, err)
		}
		setID(&doc, snap.Ref.ID)
		out = append(out, doc)
	}
	return out, nil
}

func withRange(q firestore.Query, field string, r domain.DateRange) firestore.Query {
	if !r.Start.IsZero() {
		q = q.Where(field, ">=", r.Start)
	}
	if !r.End.IsZero() {
		q = q.Where(field, "<=", r.End)
	}
	return q
}

// docRefs converts ids to references; Firestore matches DocumentID "in" on refs.
func docRefs(client *firestore.Client, collection string, ids []string) []*firestore.DocumentRef {
	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = client.Collection(collection).Doc(id)
	}
	return refs
}

// --- Clients ---

type clientRepository struct {
	client *firestore.Client
}

func (r *clientRepository) Find(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	q := r.client.Collection(clientCollection).Query
	if filter.CompanyID != "" {
		q = q.Where("companyId", "==", filter.CompanyID)
	}
	if filter.CoachID != "" {
		q = q.Where("coachId", "==", filter.CoachID)
	}
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	setID := func(c *domain.Client, id string) { c.ID = id }

	var (
		clients []domain.Client
		err     error
	)
	if len(filter.IDs) == 0 {
		clients, err = getAll(ctx, q, setID)
	} else {
		clients, err = repository.FetchInBatches(ctx, filter.IDs, func(ctx context.Context, chunk []string) ([]domain.Client, error) {
			return getAll(ctx, q.Where(firestore.DocumentID, "in", docRefs(r.client, clientCollection, chunk)), setID)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("find clients: %w", err)
	}
	return clients, nil
}

// --- Coaches ---

type coachRepository struct {
	client *firestore.Client
}

func (r *coachRepository) Find(ctx context.Context, filter repository.CoachFilter) ([]domain.Coach, error) {
	q := r.client.Collection(coachCollection).Query
	if filter.CompanyID != "" {
		q = q.Where("companyId", "==", filter.CompanyID)
	}
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	setID := func(c *domain.Coach, id string) { c.ID = id }

	var (
		coaches []domain.Coach
		err     error
	)
	if len(filter.IDs) == 0 {
		coaches, err = getAll(ctx, q, setID)
	} else {
		coaches, err = repository.FetchInBatches(ctx, filter.IDs, func(ctx context.Context, chunk []string) ([]domain.Coach, error) {
			return getAll(ctx, q.Where(firestore.DocumentID, "in", docRefs(r.client, coachCollection, chunk)), setID)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("find coaches: %w", err)
	}
	return coaches, nil
}

// --- Check-ins ---

type checkInRepository struct {
	client *firestore.Client
}

func (r *checkInRepository) Find(ctx context.Context, filter repository.CheckInFilter) ([]domain.CheckIn, error) {
	q := r.client.Collection(checkInCollection).Query
	if filter.CompanyID != "" {
		q = q.Where("companyId", "==", filter.CompanyID)
	}
	if filter.CoachID != "" {
		q = q.Where("coachId", "==", filter.CoachID)
	}
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	q = withRange(q, "timestamp", filter.Range).OrderBy("timestamp", firestore.Asc)
	setID := func(c *domain.CheckIn, id string) { c.ID = id }

	var (
		checkIns []domain.CheckIn
		err      error
	)
	if len(filter.ClientIDs) == 0 {
		checkIns, err = getAll(ctx, q, setID)
	} else {
		checkIns, err = repository.FetchInBatches(ctx, filter.ClientIDs, func(ctx context.Context, chunk []string) ([]domain.CheckIn, error) {
			return getAll(ctx, q.Where("clientId", "in", chunk), setID)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("find check-ins: %w", err)
	}
	return checkIns, nil
}

// --- Forms & submissions ---

type formRepository struct {
	client *firestore.Client
}

func (r *formRepository) Find(ctx context.Context, filter repository.FormFilter) ([]domain.CheckInForm, error) {
	q := r.client.Collection(formCollection).Query
	if filter.CompanyID != "" {
		q = q.Where("companyId", "==", filter.CompanyID)
	}
	if filter.CoachID != "" {
		q = q.Where("coachId", "==", filter.CoachID)
	}
	forms, err := getAll(ctx, q, func(f *domain.CheckInForm, id string) { f.ID = id })
	if err != nil {
		return nil, fmt.Errorf("find forms: %w", err)
	}
	return forms, nil
}

type submissionRepository struct {
	client *firestore.Client
}

func (r *submissionRepository) Find(ctx context.Context, filter repository.SubmissionFilter) ([]domain.FormSubmission, error) {
	q := r.client.Collection(submissionCollection).Query
	if filter.CompanyID != "" {
		q = q.Where("companyId", "==", filter.CompanyID)
	}
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	q = withRange(q, "submittedAt", filter.Range).OrderBy("submittedAt", firestore.Asc)
	setID := func(s *domain.FormSubmission, id string) { s.ID = id }

	var (
		subs []domain.FormSubmission
		err  error
	)
	if len(filter.FormIDs) == 0 {
		subs, err = getAll(ctx, q, setID)
	} else {
		subs, err = repository.FetchInBatches(ctx, filter.FormIDs, func(ctx context.Context, chunk []string) ([]domain.FormSubmission, error) {
			return getAll(ctx, q.Where("formId", "in", chunk), setID)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("find submissions: %w", err)
	}
	return subs, nil
}

// --- Reports ---

type reportRepository struct {
	client *firestore.Client
}

func (r *reportRepository) Create(ctx context.Context, record *domain.ReportRecord) (string, error) {
	if record.CompanyID == "" || record.ObjectKey == "" {
		return "", errors.New("report requires companyId and objectKey")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if _, err := r.client.Collection(reportCollection).Doc(record.ID).Set(ctx, record); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.ReportRecord, error) {
	snap, err := r.client.Collection(reportCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	var record domain.ReportRecord
	if err := snap.DataTo(&record); err != nil {
		return nil, err
	}
	record.ID = snap.Ref.ID
	return &record, nil
}

func (r *reportRepository) ListByCompany(ctx context.Context, companyID string) ([]domain.ReportRecord, error) {
	q := r.client.Collection(reportCollection).
		Where("companyId", "==", companyID).
		OrderBy("createdAt", firestore.Desc)
	return getAll(ctx, q, func(rec *domain.ReportRecord, id string) { rec.ID = id })
}

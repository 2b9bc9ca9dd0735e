// Package memory is an in-process document store used by tests and the
// "memory" backend. Each Store is an independent handle; nothing is global.
package memory

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/repository"
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Store holds every collection in memory.
type Store struct {
	mu          sync.RWMutex
	clients     []domain.Client
	coaches     []domain.Coach
	checkIns    []domain.CheckIn
	forms       []domain.CheckInForm
	submissions []domain.FormSubmission
	reports     map[string]domain.ReportRecord

	queries atomic.Int64
	failErr error
}

// New creates an empty store.
func New() *Store {
	return &Store{reports: make(map[string]domain.ReportRecord)}
}

// Repositories returns the repository bundle backed by this store.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Clients:     clientRepo{s},
		Coaches:     coachRepo{s},
		CheckIns:    checkInRepo{s},
		Forms:       formRepo{s},
		Submissions: submissionRepo{s},
		Reports:     reportRepo{s},
	}
}

// --- Seeding helpers ---

func (s *Store) AddClients(clients ...domain.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients = append(s.clients, clients...)
}

func (s *Store) AddCoaches(coaches ...domain.Coach) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coaches = append(s.coaches, coaches...)
}

func (s *Store) AddCheckIns(checkIns ...domain.CheckIn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkIns = append(s.checkIns, checkIns...)
}

func (s *Store) AddForms(forms ...domain.CheckInForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms = append(s.forms, forms...)
}

func (s *Store) AddSubmissions(submissions ...domain.FormSubmission) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, submissions...)
}

// FailWith makes every subsequent read return err (nil clears it).
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Queries returns the number of underlying reads issued so far.
func (s *Store) Queries() int {
	return int(s.queries.Load())
}

// begin counts a read and enforces the IN-clause limit of the hosted store.
func (s *Store) begin(inValues int) error {
	s.queries.Add(1)
	if inValues > repository.MaxInClause {
		return fmt.Errorf("%w: IN filter supports at most %d values, got %d", repository.ErrInvalidQuery, repository.MaxInClause, inValues)
	}
	return s.failErr
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// --- Clients ---

type clientRepo struct{ s *Store }

func (r clientRepo) Find(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	if len(filter.IDs) == 0 {
		return r.query(filter, nil)
	}
	return repository.FetchInBatches(ctx, filter.IDs, func(_ context.Context, chunk []string) ([]domain.Client, error) {
		return r.query(filter, chunk)
	})
}

func (r clientRepo) query(filter repository.ClientFilter, ids []string) ([]domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.begin(len(ids)); err != nil {
		return nil, err
	}
	out := []domain.Client{}
	for _, c := range r.s.clients {
		if filter.CompanyID != "" && c.CompanyID != filter.CompanyID {
			continue
		}
		if filter.CoachID != "" && c.CoachID != filter.CoachID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if ids != nil && !contains(ids, c.ID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// --- Coaches ---

type coachRepo struct{ s *Store }

func (r coachRepo) Find(ctx context.Context, filter repository.CoachFilter) ([]domain.Coach, error) {
	if len(filter.IDs) == 0 {
		return r.query(filter, nil)
	}
	return repository.FetchInBatches(ctx, filter.IDs, func(_ context.Context, chunk []string) ([]domain.Coach, error) {
		return r.query(filter, chunk)
	})
}

func (r coachRepo) query(filter repository.CoachFilter, ids []string) ([]domain.Coach, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.begin(len(ids)); err != nil {
		return nil, err
	}
	out := []domain.Coach{}
	for _, c := range r.s.coaches {
		if filter.CompanyID != "" && c.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if ids != nil && !contains(ids, c.ID) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// --- Check-ins ---

type checkInRepo struct{ s *Store }

func (r checkInRepo) Find(ctx context.Context, filter repository.CheckInFilter) ([]domain.CheckIn, error) {
	if len(filter.ClientIDs) == 0 {
		return r.query(filter, nil)
	}
	return repository.FetchInBatches(ctx, filter.ClientIDs, func(_ context.Context, chunk []string) ([]domain.CheckIn, error) {
		return r.query(filter, chunk)
	})
}

func (r checkInRepo) query(filter repository.CheckInFilter, clientIDs []string) ([]domain.CheckIn, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.begin(len(clientIDs)); err != nil {
		return nil, err
	}
	out := []domain.CheckIn{}
	for _, c := range r.s.checkIns {
		if filter.CompanyID != "" && c.CompanyID != filter.CompanyID {
			continue
		}
		if filter.CoachID != "" && c.CoachID != filter.CoachID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if clientIDs != nil && !contains(clientIDs, c.ClientID) {
			continue
		}
		if !filter.Range.Contains(c.Timestamp) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// --- Forms ---

type formRepo struct{ s *Store }

func (r formRepo) Find(_ context.Context, filter repository.FormFilter) ([]domain.CheckInForm, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.begin(0); err != nil {
		return nil, err
	}
	out := []domain.CheckInForm{}
	for _, f := range r.s.forms {
		if filter.CompanyID != "" && f.CompanyID != filter.CompanyID {
			continue
		}
		if filter.CoachID != "" && f.CoachID != filter.CoachID {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// --- Submissions ---

type submissionRepo struct{ s *Store }

func (r submissionRepo) Find(ctx context.Context, filter repository.SubmissionFilter) ([]domain.FormSubmission, error) {
	if len(filter.FormIDs) == 0 {
		return r.query(filter, nil)
	}
	return repository.FetchInBatches(ctx, filter.FormIDs, func(_ context.Context, chunk []string) ([]domain.FormSubmission, error) {
		return r.query(filter, chunk)
	})
}

func (r submissionRepo) query(filter repository.SubmissionFilter, formIDs []string) ([]domain.FormSubmission, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.begin(len(formIDs)); err != nil {
		return nil, err
	}
	out := []domain.FormSubmission{}
	for _, sub := range r.s.submissions {
		if filter.CompanyID != "" && sub.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != "" && sub.Status != filter.Status {
			continue
		}
		if formIDs != nil && !contains(formIDs, sub.FormID) {
			continue
		}
		if !filter.Range.Contains(sub.SubmittedAt) {
			continue
		}
		out = append(out, sub)
	}
	return out, nil
}

// --- Reports ---

type reportRepo struct{ s *Store }

func (r reportRepo) Create(_ context.Context, record *domain.ReportRecord) (string, error) {
	if record.CompanyID == "" || record.ObjectKey == "" {
		return "", fmt.Errorf("%w: report requires companyId and objectKey", repository.ErrInvalidQuery)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	r.s.reports[record.ID] = *record
	return record.ID, nil
}

func (r reportRepo) GetByID(_ context.Context, id string) (*domain.ReportRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.begin(0); err != nil {
		return nil, err
	}
	rec, ok := r.s.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (r reportRepo) ListByCompany(_ context.Context, companyID string) ([]domain.ReportRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.begin(0); err != nil {
		return nil, err
	}
	out := []domain.ReportRecord{}
	for _, rec := range r.s.reports {
		if rec.CompanyID == companyID {
			out = append(out, rec)
		}
	}
	// Newest first, same as the Mongo backend.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

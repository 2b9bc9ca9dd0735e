package service

import (
	"alcyxob/coach-analytics/internal/analytics"
	"alcyxob/coach-analytics/internal/classifier"
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/metrics"
	"alcyxob/coach-analytics/internal/repository"
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// --- Error Definitions ---
var (
	ErrInvalidScope     = errors.New("company id is required")
	ErrInvalidDateRange = errors.New("date range start must not be after end")
)

// Scope selects whose data a call reads. An empty CoachID means the whole
// company.
type Scope struct {
	CompanyID string
	CoachID   string
}

func (s Scope) validate() error {
	if s.CompanyID == "" {
		return ErrInvalidScope
	}
	return nil
}

func validateRange(r domain.DateRange) error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return ErrInvalidDateRange
	}
	return nil
}

// AnalyticsService computes dashboard analytics from the document store.
type AnalyticsService interface {
	GetAdvancedAnalytics(ctx context.Context, scope Scope, dateRange domain.DateRange) (*domain.AdvancedAnalytics, error)
	GetCategorySummaries(ctx context.Context, scope Scope, dateRange domain.DateRange) ([]domain.CategorySummary, error)
	GetCoachStats(ctx context.Context, scope Scope) ([]analytics.CoachStats, error)
}

// AnalyticsOption configures the analytics service.
type AnalyticsOption func(*analyticsService)

// WithClock replaces time.Now, which anchors the activity windows.
func WithClock(now func() time.Time) AnalyticsOption {
	return func(s *analyticsService) { s.now = now }
}

// WithClassifier replaces the default category table.
func WithClassifier(c *classifier.Classifier) AnalyticsOption {
	return func(s *analyticsService) { s.classifier = c }
}

// analyticsService implements the AnalyticsService interface.
type analyticsService struct {
	store      repository.Store
	stats      analytics.StatsProvider
	classifier *classifier.Classifier
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewAnalyticsService creates a new instance of analyticsService.
func NewAnalyticsService(
	store repository.Store,
	stats analytics.StatsProvider,
	m *metrics.Metrics,
	logger *zap.Logger,
	opts ...AnalyticsOption,
) AnalyticsService {
	s := &analyticsService{
		store:      store,
		stats:      stats,
		classifier: classifier.New(),
		metrics:    m,
		logger:     logger.With(zap.String("component", "analytics-service")),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAdvancedAnalytics fetches the scope's clients, active coaches and the
// clients' check-ins in dateRange, then runs the reducers.
func (s *analyticsService) GetAdvancedAnalytics(ctx context.Context, scope Scope, dateRange domain.DateRange) (*domain.AdvancedAnalytics, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}

	snap, err := s.fetchSnapshot(ctx, scope, dateRange)
	if err != nil {
		return nil, err
	}

	result := analytics.Calculate(snap, dateRange, s.now())
	s.logger.Debug("Analytics computed",
		zap.String("company_id", scope.CompanyID),
		zap.String("coach_id", scope.CoachID),
		zap.Int("clients", len(snap.Clients)),
		zap.Int("coaches", len(snap.Coaches)),
		zap.Int("check_ins", len(snap.CheckIns)),
	)
	return &result, nil
}

func (s *analyticsService) fetchSnapshot(ctx context.Context, scope Scope, dateRange domain.DateRange) (analytics.Snapshot, error) {
	snap, err := s.fetchPeople(ctx, scope)
	if err != nil {
		return analytics.Snapshot{}, err
	}
	if len(snap.Clients) == 0 {
		return snap, nil
	}

	clientIDs := make([]string, len(snap.Clients))
	for i, c := range snap.Clients {
		clientIDs[i] = c.ID
	}
	checkIns, err := s.store.CheckIns.Find(ctx, repository.CheckInFilter{
		CompanyID: scope.CompanyID,
		ClientIDs: clientIDs,
		Range:     dateRange,
	})
	if err != nil {
		return analytics.Snapshot{}, s.readFailed("checkIns", err)
	}
	snap.CheckIns = checkIns
	return snap, nil
}

// fetchPeople reads clients and active coaches concurrently.
func (s *analyticsService) fetchPeople(ctx context.Context, scope Scope) (analytics.Snapshot, error) {
	var snap analytics.Snapshot

	// Clients include inactive ones: retention and churn need them.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clients, err := s.store.Clients.Find(gCtx, repository.ClientFilter{CompanyID: scope.CompanyID, CoachID: scope.CoachID})
		if err != nil {
			return s.readFailed("clients", err)
		}
		snap.Clients = clients
		return nil
	})
	g.Go(func() error {
		filter := repository.CoachFilter{CompanyID: scope.CompanyID, Status: domain.CoachActive}
		if scope.CoachID != "" {
			filter.IDs = []string{scope.CoachID}
		}
		coaches, err := s.store.Coaches.Find(gCtx, filter)
		if err != nil {
			return s.readFailed("coaches", err)
		}
		snap.Coaches = coaches
		return nil
	})
	if err := g.Wait(); err != nil {
		return analytics.Snapshot{}, err
	}
	return snap, nil
}

// GetCategorySummaries classifies the completed submissions of the scope's
// forms in dateRange.
func (s *analyticsService) GetCategorySummaries(ctx context.Context, scope Scope, dateRange domain.DateRange) ([]domain.CategorySummary, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if err := validateRange(dateRange); err != nil {
		return nil, err
	}

	forms, err := s.store.Forms.Find(ctx, repository.FormFilter{CompanyID: scope.CompanyID, CoachID: scope.CoachID})
	if err != nil {
		return nil, s.readFailed("checkInForms", err)
	}
	if len(forms) == 0 {
		return s.classifier.Classify(nil, nil), nil
	}

	formIDs := make([]string, len(forms))
	for i, f := range forms {
		formIDs[i] = f.ID
	}
	submissions, err := s.store.Submissions.Find(ctx, repository.SubmissionFilter{
		CompanyID: scope.CompanyID,
		FormIDs:   formIDs,
		Status:    domain.CheckInCompleted,
		Range:     dateRange,
	})
	if err != nil {
		return nil, s.readFailed("formSubmissions", err)
	}
	return s.classifier.Classify(submissions, forms), nil
}

// GetCoachStats returns the coach list figures of the scope's active coaches.
func (s *analyticsService) GetCoachStats(ctx context.Context, scope Scope) ([]analytics.CoachStats, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	snap, err := s.fetchPeople(ctx, scope)
	if err != nil {
		return nil, err
	}

	clientCounts := make(map[string]int, len(snap.Coaches))
	for _, c := range snap.Clients {
		clientCounts[c.CoachID]++
	}
	stats := make([]analytics.CoachStats, 0, len(snap.Coaches))
	for _, coach := range snap.Coaches {
		stats = append(stats, s.stats.CoachStats(coach, clientCounts[coach.ID]))
	}
	return stats, nil
}

func (s *analyticsService) readFailed(collection string, err error) error {
	return readFailed(s.metrics, s.logger, collection, err)
}

// readFailed logs and counts a store error and hands it back unchanged.
func readFailed(m *metrics.Metrics, logger *zap.Logger, collection string, err error) error {
	m.StoreReadFailed(collection)
	logger.Error("Store read failed", zap.String("collection", collection), zap.Error(err))
	return err
}

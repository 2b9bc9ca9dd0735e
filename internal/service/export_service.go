package service

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/export"
	"alcyxob/coach-analytics/internal/metrics"
	"alcyxob/coach-analytics/internal/repository"
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrUnknownDataType = errors.New("unknown export data type")
	ErrInvalidSort     = errors.New("invalid sort column")
)

// Exportable datasets.
const (
	DataClients    = "clients"
	DataCoaches    = "coaches"
	DataCheckIns   = "checkins"
	DataCategories = "categories"
)

// ExportFilters narrow an export. Empty fields are not applied.
type ExportFilters struct {
	Range  domain.DateRange
	Status string
	SortBy string
	Desc   bool
}

// ExportService serializes raw datasets into downloadable files.
type ExportService interface {
	ExportData(ctx context.Context, scope Scope, dataType string, format string, filters ExportFilters) (export.Blob, error)
}

// exportService implements the ExportService interface.
type exportService struct {
	store     repository.Store
	analytics AnalyticsService
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService creates a new instance of exportService.
func NewExportService(store repository.Store, analytics AnalyticsService, m *metrics.Metrics, logger *zap.Logger) ExportService {
	return &exportService{
		store:     store,
		analytics: analytics,
		metrics:   m,
		logger:    logger.With(zap.String("component", "export-service")),
		now:       time.Now,
	}
}

// ExportData fetches dataType for scope and serializes it in format.
// The format is checked before any read.
func (s *exportService) ExportData(ctx context.Context, scope Scope, dataType string, format string, filters ExportFilters) (export.Blob, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		s.metrics.ObserveExport(dataType, format, err)
		return export.Blob{}, err
	}

	blob, err := s.exportData(ctx, scope, strings.ToLower(dataType), f, filters)
	s.metrics.ObserveExport(dataType, string(f), err)
	if err != nil {
		return export.Blob{}, err
	}
	blob.Filename = fmt.Sprintf("%s-%s.%s", strings.ToLower(dataType), s.now().Format("20060102"), f.Extension())
	return blob, nil
}

func (s *exportService) exportData(ctx context.Context, scope Scope, dataType string, format export.Format, filters ExportFilters) (export.Blob, error) {
	if err := scope.validate(); err != nil {
		return export.Blob{}, err
	}
	if err := validateRange(filters.Range); err != nil {
		return export.Blob{}, err
	}

	var (
		records []export.Record
		err     error
	)
	switch dataType {
	case DataClients:
		records, err = s.clientRecords(ctx, scope, filters)
	case DataCoaches:
		records, err = s.coachRecords(ctx, scope, filters)
	case DataCheckIns:
		records, err = s.checkInRecords(ctx, scope, filters)
	case DataCategories:
		records, err = s.categoryRecords(ctx, scope, filters)
	default:
		return export.Blob{}, fmt.Errorf("%w: %q (supported: %s, %s, %s, %s)", ErrUnknownDataType, dataType, DataClients, DataCoaches, DataCheckIns, DataCategories)
	}
	if err != nil {
		return export.Blob{}, err
	}

	s.logger.Debug("Exporting data",
		zap.String("company_id", scope.CompanyID),
		zap.String("data_type", dataType),
		zap.String("format", string(format)),
		zap.Int("records", len(records)),
	)
	return export.Assemble(records, format)
}

func sortBy[T any](keys export.SortKeys[T], items []T, filters ExportFilters) error {
	if err := keys.Sort(items, filters.SortBy, filters.Desc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSort, err)
	}
	return nil
}

// --- Clients ---

var clientSortKeys = export.SortKeys[domain.Client]{
	"name":         func(a, b domain.Client) int { return cmp.Compare(a.Name, b.Name) },
	"status":       func(a, b domain.Client) int { return cmp.Compare(a.Status, b.Status) },
	"totalSpent":   func(a, b domain.Client) int { return cmp.Compare(a.TotalSpent, b.TotalSpent) },
	"subscription": func(a, b domain.Client) int { return cmp.Compare(a.Subscription.Amount, b.Subscription.Amount) },
	"lastLoginAt":  func(a, b domain.Client) int { return a.LastLoginAt.Compare(b.LastLoginAt) },
	"startDate":    func(a, b domain.Client) int { return compareTimePtr(a.StartDate, b.StartDate) },
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}

func (s *exportService) clientRecords(ctx context.Context, scope Scope, filters ExportFilters) ([]export.Record, error) {
	clients, err := s.store.Clients.Find(ctx, repository.ClientFilter{
		CompanyID: scope.CompanyID,
		CoachID:   scope.CoachID,
		Status:    domain.ClientStatus(filters.Status),
	})
	if err != nil {
		return nil, readFailed(s.metrics, s.logger, "clients", err)
	}
	if err := sortBy(clientSortKeys, clients, filters); err != nil {
		return nil, err
	}

	records := make([]export.Record, len(clients))
	for i := range clients {
		c := &clients[i]
		done := 0
		for _, g := range c.Goals {
			if g.Completed {
				done++
			}
		}
		records[i] = export.Record{
			{Key: "id", Value: c.ID},
			{Key: "name", Value: c.Name},
			{Key: "email", Value: c.Email},
			{Key: "coachId", Value: c.CoachID},
			{Key: "status", Value: string(c.Status)},
			{Key: "tier", Value: c.Subscription.Tier},
			{Key: "subscriptionAmount", Value: c.Subscription.Amount},
			{Key: "totalSpent", Value: c.TotalSpent},
			{Key: "initialWeight", Value: floatOrNil(c.InitialWeight)},
			{Key: "currentWeight", Value: floatOrNil(c.CurrentWeight)},
			{Key: "goalsCompleted", Value: done},
			{Key: "goalsTotal", Value: len(c.Goals)},
			{Key: "startDate", Value: c.StartDate},
			{Key: "endDate", Value: c.EndDate},
			{Key: "lastLoginAt", Value: c.LastLoginAt},
		}
	}
	return records, nil
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// --- Coaches ---

var coachSortKeys = export.SortKeys[domain.Coach]{
	"name":          func(a, b domain.Coach) int { return cmp.Compare(a.Name, b.Name) },
	"status":        func(a, b domain.Coach) int { return cmp.Compare(a.Status, b.Status) },
	"resourceUsage": func(a, b domain.Coach) int { return cmp.Compare(a.ResourceUsage, b.ResourceUsage) },
}

func (s *exportService) coachRecords(ctx context.Context, scope Scope, filters ExportFilters) ([]export.Record, error) {
	filter := repository.CoachFilter{CompanyID: scope.CompanyID, Status: domain.CoachStatus(filters.Status)}
	if scope.CoachID != "" {
		filter.IDs = []string{scope.CoachID}
	}
	coaches, err := s.store.Coaches.Find(ctx, filter)
	if err != nil {
		return nil, readFailed(s.metrics, s.logger, "coaches", err)
	}
	if err := sortBy(coachSortKeys, coaches, filters); err != nil {
		return nil, err
	}

	records := make([]export.Record, len(coaches))
	for i, c := range coaches {
		records[i] = export.Record{
			{Key: "id", Value: c.ID},
			{Key: "name", Value: c.Name},
			{Key: "email", Value: c.Email},
			{Key: "status", Value: string(c.Status)},
			{Key: "resourceUsage", Value: c.ResourceUsage},
			{Key: "specialties", Value: c.Specialties},
		}
	}
	return records, nil
}

// --- Check-ins ---

var checkInSortKeys = export.SortKeys[domain.CheckIn]{
	"timestamp":    func(a, b domain.CheckIn) int { return a.Timestamp.Compare(b.Timestamp) },
	"compliance":   func(a, b domain.CheckIn) int { return cmp.Compare(a.Compliance, b.Compliance) },
	"responseTime": func(a, b domain.CheckIn) int { return cmp.Compare(a.ResponseTime, b.ResponseTime) },
	"status":       func(a, b domain.CheckIn) int { return cmp.Compare(a.Status, b.Status) },
}

func (s *exportService) checkInRecords(ctx context.Context, scope Scope, filters ExportFilters) ([]export.Record, error) {
	checkIns, err := s.store.CheckIns.Find(ctx, repository.CheckInFilter{
		CompanyID: scope.CompanyID,
		CoachID:   scope.CoachID,
		Status:    domain.CheckInStatus(filters.Status),
		Range:     filters.Range,
	})
	if err != nil {
		return nil, readFailed(s.metrics, s.logger, "checkIns", err)
	}
	if err := sortBy(checkInSortKeys, checkIns, filters); err != nil {
		return nil, err
	}

	records := make([]export.Record, len(checkIns))
	for i := range checkIns {
		c := &checkIns[i]
		records[i] = export.Record{
			{Key: "id", Value: c.ID},
			{Key: "clientId", Value: c.ClientID},
			{Key: "coachId", Value: c.CoachID},
			{Key: "timestamp", Value: c.Timestamp},
			{Key: "status", Value: string(c.Status)},
			{Key: "completed", Value: c.Completed},
			{Key: "compliance", Value: c.Compliance},
			{Key: "responseTime", Value: c.ResponseTime},
			{Key: "photos", Value: len(c.Photos)},
			{Key: "feedback", Value: c.Feedback},
			{Key: "hasCommunication", Value: c.HasCommunication},
		}
	}
	return records, nil
}

// --- Categories ---

var categorySortKeys = export.SortKeys[domain.CategorySummary]{
	"name":           func(a, b domain.CategorySummary) int { return cmp.Compare(a.Name, b.Name) },
	"totalResponses": func(a, b domain.CategorySummary) int { return cmp.Compare(a.TotalResponses, b.TotalResponses) },
	"averageScore":   func(a, b domain.CategorySummary) int { return cmp.Compare(a.AverageScore, b.AverageScore) },
	"improvement":    func(a, b domain.CategorySummary) int { return cmp.Compare(a.Improvement, b.Improvement) },
}

func (s *exportService) categoryRecords(ctx context.Context, scope Scope, filters ExportFilters) ([]export.Record, error) {
	summaries, err := s.analytics.GetCategorySummaries(ctx, scope, filters.Range)
	if err != nil {
		return nil, err
	}
	if err := sortBy(categorySortKeys, summaries, filters); err != nil {
		return nil, err
	}

	records := make([]export.Record, len(summaries))
	for i, c := range summaries {
		records[i] = export.Record{
			{Key: "name", Value: c.Name},
			{Key: "totalResponses", Value: c.TotalResponses},
			{Key: "averageScore", Value: c.AverageScore},
			{Key: "trend", Value: string(c.Trend)},
			{Key: "improvement", Value: c.Improvement},
			{Key: "topIssues", Value: c.TopIssues},
			{Key: "successAreas", Value: c.SuccessAreas},
		}
	}
	return records, nil
}

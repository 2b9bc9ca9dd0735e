package service

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/export"
	"alcyxob/coach-analytics/internal/mailer"
	"alcyxob/coach-analytics/internal/metrics"
	"alcyxob/coach-analytics/internal/report"
	"alcyxob/coach-analytics/internal/repository"
	"alcyxob/coach-analytics/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrReportNotFound   = errors.New("report not found")
	ErrStorageDisabled  = errors.New("report storage is not configured")
	ErrMailerDisabled   = errors.New("email delivery is not configured")
	ErrReportStore      = errors.New("failed to store report")
	ErrDownloadURLError = errors.New("failed to generate download URL")
)

// GeneratedReport is a rendered report. Record is nil when storage is
// disabled.
type GeneratedReport struct {
	Blob   export.Blob
	Record *domain.ReportRecord
}

// ReportService renders, stores and delivers analytics reports.
type ReportService interface {
	GenerateReport(ctx context.Context, scope Scope, requestedBy string, req report.Request) (*GeneratedReport, error)
	EmailReport(ctx context.Context, scope Scope, req report.Request, recipients []string) (*mailer.Result, error)
	ListReports(ctx context.Context, scope Scope) ([]domain.ReportRecord, error)
	GetDownloadURL(ctx context.Context, scope Scope, reportID string) (string, error)
}

// reportService implements the ReportService interface.
type reportService struct {
	analytics AnalyticsService
	renderer  *report.Renderer
	reports   repository.ReportRepository
	files     storage.FileStorage // nil disables storing
	sender    mailer.Sender       // nil disables email delivery
	metrics   *metrics.Metrics
	logger    *zap.Logger
	urlExpiry time.Duration
}

// NewReportService creates a new instance of reportService.
func NewReportService(
	analytics AnalyticsService,
	renderer *report.Renderer,
	reports repository.ReportRepository,
	files storage.FileStorage,
	sender mailer.Sender,
	m *metrics.Metrics,
	logger *zap.Logger,
	urlExpiry time.Duration,
) ReportService {
	return &reportService{
		analytics: analytics,
		renderer:  renderer,
		reports:   reports,
		files:     files,
		sender:    sender,
		metrics:   m,
		logger:    logger.With(zap.String("component", "report-service")),
		urlExpiry: urlExpiry,
	}
}

// GenerateReport renders req and, when storage is configured, uploads the
// artifact and records its metadata.
func (s *reportService) GenerateReport(ctx context.Context, scope Scope, requestedBy string, req report.Request) (*GeneratedReport, error) {
	// Fail on the format before touching the store.
	format, err := report.ParseFormat(string(req.Format))
	if err != nil {
		s.metrics.ObserveReport(string(req.Format), 0, err)
		return nil, err
	}
	req.Format = format

	start := time.Now()
	blob, err := s.render(ctx, scope, req)
	s.metrics.ObserveReport(string(req.Format), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	out := &GeneratedReport{Blob: blob}
	if s.files == nil || s.reports == nil {
		return out, nil
	}

	objectKey := path.Join("reports", scope.CompanyID, uuid.NewString()+"."+req.Format.Extension())
	if err := s.files.PutObject(ctx, objectKey, blob.MIMEType, blob.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReportStore, err)
	}

	record := &domain.ReportRecord{
		CompanyID:   scope.CompanyID,
		RequestedBy: requestedBy,
		TemplateID:  req.TemplateID,
		Format:      string(req.Format),
		ObjectKey:   objectKey,
		FileName:    blob.Filename,
		ContentType: blob.MIMEType,
		Size:        blob.Size(),
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.reports.Create(ctx, record); err != nil {
		// Don't leave an orphaned object behind.
		if delErr := s.files.DeleteObject(ctx, objectKey); delErr != nil {
			s.logger.Warn("Failed to remove orphaned report object", zap.String("key", objectKey), zap.Error(delErr))
		}
		return nil, fmt.Errorf("%w: %v", ErrReportStore, err)
	}

	s.logger.Info("Report stored",
		zap.String("report_id", record.ID),
		zap.String("company_id", scope.CompanyID),
		zap.String("format", record.Format),
		zap.Int64("size", record.Size),
	)
	out.Record = record
	return out, nil
}

func (s *reportService) render(ctx context.Context, scope Scope, req report.Request) (export.Blob, error) {
	metricsSet, err := s.analytics.GetAdvancedAnalytics(ctx, scope, req.DateRange)
	if err != nil {
		return export.Blob{}, err
	}
	categories, err := s.analytics.GetCategorySummaries(ctx, scope, req.DateRange)
	if err != nil {
		return export.Blob{}, err
	}

	title := "Coaching Analytics Report"
	if scope.CoachID != "" {
		title = "Coach Analytics Report"
	}
	return s.renderer.Render(ctx, req, report.Data{
		Title:       title,
		Analytics:   *metricsSet,
		Categories:  categories,
		GeneratedAt: time.Now().UTC(),
	})
}

// EmailReport renders req as an HTML email and sends it to recipients.
func (s *reportService) EmailReport(ctx context.Context, scope Scope, req report.Request, recipients []string) (*mailer.Result, error) {
	if s.sender == nil {
		return nil, ErrMailerDisabled
	}
	if len(recipients) == 0 {
		return nil, mailer.ErrNoRecipients
	}

	req.Format = report.FormatEmail
	start := time.Now()
	blob, err := s.render(ctx, scope, req)
	s.metrics.ObserveReport(string(req.Format), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	subject := "Coaching analytics report"
	if !req.DateRange.IsZero() {
		subject = fmt.Sprintf("%s: %s to %s", subject, req.DateRange.Start.Format("Jan 2"), req.DateRange.End.Format("Jan 2, 2006"))
	}
	res, err := s.sender.Send(ctx, mailer.Message{To: recipients, Subject: subject, HTML: blob.Text()})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListReports returns the stored reports of the scope's company.
func (s *reportService) ListReports(ctx context.Context, scope Scope) ([]domain.ReportRecord, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if s.reports == nil {
		return nil, ErrStorageDisabled
	}
	return s.reports.ListByCompany(ctx, scope.CompanyID)
}

// GetDownloadURL presigns a download of a stored report. Reports of another
// company are reported as not found.
func (s *reportService) GetDownloadURL(ctx context.Context, scope Scope, reportID string) (string, error) {
	if err := scope.validate(); err != nil {
		return "", err
	}
	if s.files == nil || s.reports == nil {
		return "", ErrStorageDisabled
	}

	record, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrReportNotFound
		}
		return "", err
	}
	if record.CompanyID != scope.CompanyID {
		return "", ErrReportNotFound
	}

	url, err := s.files.GeneratePresignedDownloadURL(ctx, record.ObjectKey, s.urlExpiry)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadURLError, err)
	}
	return url, nil
}

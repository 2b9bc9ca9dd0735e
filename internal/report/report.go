// Package report renders analytics into PDF, HTML email and JSON dashboard
// documents. All three formats are built from the same section list.
package report

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/export"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Format of a generated report.
type Format string

const (
	FormatPDF       Format = "pdf"
	FormatEmail     Format = "email"
	FormatDashboard Format = "dashboard"
)

// Extension returns the file extension of a rendered report.
func (f Format) Extension() string {
	switch f {
	case FormatEmail:
		return "html"
	case FormatDashboard:
		return "json"
	}
	return string(f)
}

// ParseFormat validates a user supplied report format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatEmail, FormatDashboard:
		return f, nil
	}
	return "", &RenderError{Format: s}
}

// RenderError reports a format no renderer exists for.
type RenderError struct {
	Format string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("report: unsupported format %q (supported: pdf, email, dashboard)", e.Format)
}

func (e *RenderError) Is(target error) bool {
	return target == export.ErrUnsupportedFormat
}

// Request describes one report.
type Request struct {
	TemplateID                 string           `json:"templateId"`
	DateRange                  domain.DateRange `json:"dateRange"`
	IncludeAIAnalysis          bool             `json:"includeAIAnalysis"`
	IncludePreviousComparisons bool             `json:"includePreviousComparisons"`
	Format                     Format           `json:"format"`
}

// Data is the already computed input of a render.
type Data struct {
	Title       string
	Analytics   domain.AdvancedAnalytics
	Categories  []domain.CategorySummary
	GeneratedAt time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPDFCompression toggles stream compression in PDF output.
func WithPDFCompression(on bool) Option {
	return func(r *Renderer) { r.pdfCompression = on }
}

// WithChunkSize sets the read size used when collecting streamed PDF output.
func WithChunkSize(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.chunkSize = n
		}
	}
}

// Renderer turns report data into an export.Blob.
type Renderer struct {
	logger         *zap.Logger
	pdfCompression bool
	chunkSize      int
}

// NewRenderer creates a Renderer.
func NewRenderer(logger *zap.Logger, opts ...Option) *Renderer {
	r := &Renderer{
		logger:         logger.With(zap.String("component", "report-renderer")),
		pdfCompression: true,
		chunkSize:      32 * 1024,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the artifact for req. Unknown formats fail before any
// rendering work.
func (r *Renderer) Render(ctx context.Context, req Request, data Data) (export.Blob, error) {
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now().UTC()
	}
	doc := BuildDocument(req, data)

	var (
		blob export.Blob
		err  error
	)
	switch req.Format {
	case FormatPDF:
		blob, err = r.renderPDF(ctx, doc)
	case FormatEmail:
		blob, err = renderEmail(doc)
	case FormatDashboard:
		blob, err = renderDashboard(doc)
	default:
		return export.Blob{}, &RenderError{Format: string(req.Format)}
	}
	if err != nil {
		r.logger.Error("Report render failed",
			zap.String("format", string(req.Format)),
			zap.String("template_id", req.TemplateID),
			zap.Error(err),
		)
		return export.Blob{}, fmt.Errorf("render %s report: %w", req.Format, err)
	}
	blob.Filename = fileName(req, data.GeneratedAt)

	r.logger.Debug("Report rendered",
		zap.String("format", string(req.Format)),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("bytes", len(blob.Data)),
	)
	return blob, nil
}

func fileName(req Request, at time.Time) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, req.TemplateID)
	if name == "" {
		name = "analytics"
	}
	return fmt.Sprintf("%s-report-%s.%s", name, at.Format("20060102"), req.Format.Extension())
}

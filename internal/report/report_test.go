package report

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/export"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	generatedAt = time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	june        = domain.DateRange{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC),
	}
)

func newTestRenderer() *Renderer {
	// Uncompressed so tests can search the PDF content streams.
	return NewRenderer(zap.NewNop(), WithPDFCompression(false), WithChunkSize(512))
}

func clientOnlyData() Data {
	return Data{
		GeneratedAt: generatedAt,
		Analytics: domain.AdvancedAnalytics{
			ClientMetrics: &domain.ClientMetrics{
				Engagement: domain.ClientEngagement{WeeklyActive: 62.5, CheckInCompletion: 40},
				Progress:   domain.ClientProgress{MeasurementChanges: map[string]float64{"waist": -4}},
				Financial:  domain.ClientFinancial{AverageLifetimeValue: 1200},
			},
		},
	}
}

func fullData() Data {
	d := clientOnlyData()
	d.Analytics.CoachMetrics = &domain.CoachMetrics{Performance: domain.CoachPerformance{ClientRetention: 90}}
	d.Analytics.BusinessMetrics = &domain.BusinessMetrics{Revenue: domain.Revenue{Monthly: 4500}, Growth: domain.Growth{NewClients: 3}}
	d.Categories = []domain.CategorySummary{
		{Name: "Sleep", TotalResponses: 4, AverageScore: 6.5, Trend: domain.TrendUp, Improvement: 20, TopIssues: []string{"late night screens"}},
	}
	return d
}

func sectionIDs(doc Document) []string {
	ids := make([]string, len(doc.Sections))
	for i, s := range doc.Sections {
		ids[i] = s.ID
	}
	return ids
}

func TestBuildDocumentOmitsAbsentMetrics(t *testing.T) {
	doc := BuildDocument(Request{DateRange: june}, clientOnlyData())
	assert.Equal(t, []string{SectionSummary, SectionClients}, sectionIDs(doc))
	assert.Contains(t, doc.Sections[0].Summary, "62.5% of clients")
}

func TestBuildDocumentAllSections(t *testing.T) {
	doc := BuildDocument(Request{
		TemplateID:                 "monthly",
		DateRange:                  june,
		IncludeAIAnalysis:          true,
		IncludePreviousComparisons: true,
	}, fullData())

	assert.Equal(t, []string{
		SectionSummary, SectionClients, SectionCoaches, SectionBusiness,
		SectionCategories, SectionAIAnalysis, SectionComparisons,
	}, sectionIDs(doc))

	ai := doc.Sections[5]
	assert.True(t, ai.Placeholder)
	assert.Empty(t, ai.Groups)
	assert.Contains(t, doc.Footer, "template monthly")
}

func TestBuildDocumentWithoutMetrics(t *testing.T) {
	doc := BuildDocument(Request{}, Data{GeneratedAt: generatedAt})
	require.Len(t, doc.Sections, 1)
	assert.Contains(t, doc.Sections[0].Summary, "No metrics available")
	assert.Contains(t, doc.Sections[0].Summary, "all time")
}

func TestRenderOmitsAbsentSectionsInEveryFormat(t *testing.T) {
	r := newTestRenderer()
	for _, format := range []Format{FormatPDF, FormatEmail, FormatDashboard} {
		t.Run(string(format), func(t *testing.T) {
			blob, err := r.Render(context.Background(), Request{Format: format, DateRange: june}, clientOnlyData())
			require.NoError(t, err)
			assert.Contains(t, blob.Text(), "Client Metrics")
			assert.NotContains(t, blob.Text(), "Coach Metrics")
			assert.NotContains(t, blob.Text(), "Business Metrics")
		})
	}
}

func TestRenderPDF(t *testing.T) {
	blob, err := newTestRenderer().Render(context.Background(), Request{Format: FormatPDF, TemplateID: "monthly", DateRange: june, IncludeAIAnalysis: true}, fullData())
	require.NoError(t, err)

	assert.Equal(t, export.MIMEPDF, blob.MIMEType)
	assert.True(t, bytes.HasPrefix(blob.Data, []byte("%PDF-")))
	assert.Contains(t, string(bytes.TrimSpace(blob.Data[len(blob.Data)-16:])), "%%EOF")
	assert.Contains(t, blob.Text(), "Business Metrics")
	assert.Contains(t, blob.Text(), "AI Analysis")
	assert.Equal(t, "monthly-report-20240630.pdf", blob.Filename)
}

func TestRenderPDFStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRenderer().Render(ctx, Request{Format: FormatPDF}, fullData())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderEmail(t *testing.T) {
	data := fullData()
	data.Title = "Acme <Coaching>"
	blob, err := newTestRenderer().Render(context.Background(), Request{Format: FormatEmail, DateRange: june, IncludePreviousComparisons: true}, data)
	require.NoError(t, err)

	html := blob.Text()
	assert.Equal(t, export.MIMEHTML, blob.MIMEType)
	assert.Contains(t, html, "Acme &lt;Coaching&gt;")
	assert.Contains(t, html, "<p>Period: Jun 1, 2024 to Jun 30, 2024.")
	assert.Contains(t, html, "$4500.00")
	assert.Contains(t, html, "Historical Comparison")
	assert.Contains(t, html, placeholderText)
	assert.Contains(t, html, "Top issues: late night screens")
	assert.Equal(t, "analytics-report-20240630.html", blob.Filename)
}

func TestRenderDashboard(t *testing.T) {
	blob, err := newTestRenderer().Render(context.Background(), Request{Format: FormatDashboard, TemplateID: "q2", DateRange: june}, fullData())
	require.NoError(t, err)
	assert.Equal(t, export.MIMEJSON, blob.MIMEType)

	var doc Document
	require.NoError(t, json.Unmarshal(blob.Data, &doc))
	assert.Equal(t, "q2", doc.TemplateID)
	assert.Equal(t, []string{SectionSummary, SectionClients, SectionCoaches, SectionBusiness, SectionCategories}, sectionIDs(doc))

	revenue := doc.Sections[3].Groups[0].Metrics[0]
	assert.Equal(t, Metric{Key: "monthly", Label: "Monthly revenue", Value: 4500, Unit: UnitCurrency}, revenue)
}

func TestRenderUnsupportedFormat(t *testing.T) {
	_, err := newTestRenderer().Render(context.Background(), Request{Format: "docx"}, fullData())
	require.Error(t, err)

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "docx", renderErr.Format)
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), `"docx"`)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("excel")
	assert.ErrorIs(t, err, export.ErrUnsupportedFormat)
}

func TestMetricDisplay(t *testing.T) {
	assert.Equal(t, "12.3%", Metric{Value: 12.345, Unit: UnitPercent}.Display())
	assert.Equal(t, "$10.50", Metric{Value: 10.5, Unit: UnitCurrency}.Display())
	assert.Equal(t, "3", Metric{Value: 3, Unit: UnitCount}.Display())
	assert.Equal(t, "2.5 h", Metric{Value: 2.5, Unit: UnitHours}.Display())
}

func TestFileNameSanitizesTemplateID(t *testing.T) {
	assert.Equal(t, "a-b-report-20240630.json", fileName(Request{TemplateID: "a/b", Format: FormatDashboard}, generatedAt))
}

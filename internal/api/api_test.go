package api

import (
	"alcyxob/coach-analytics/internal/analytics"
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/export"
	"alcyxob/coach-analytics/internal/metrics"
	"alcyxob/coach-analytics/internal/report"
	"alcyxob/coach-analytics/internal/repository/memory"
	"alcyxob/coach-analytics/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, uid string, role domain.Role, companyID string, ttl time.Duration) string {
	t.Helper()
	claims := jwtClaims{
		UserID:    uid,
		Role:      role,
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func seed() *memory.Store {
	s := memory.New()
	now := time.Now()
	s.AddCoaches(
		domain.Coach{ID: "coach-1", CompanyID: "acme", Name: "Dana", Status: domain.CoachActive},
		domain.Coach{ID: "coach-2", CompanyID: "acme", Name: "Eli", Status: domain.CoachActive},
	)
	s.AddClients(
		domain.Client{ID: "client-1", CompanyID: "acme", CoachID: "coach-1", Name: "Ann", Status: domain.ClientActive, LastLoginAt: now, Subscription: domain.Subscription{Amount: 100}},
		domain.Client{ID: "client-2", CompanyID: "acme", CoachID: "coach-2", Name: "Bob", Status: domain.ClientActive, Subscription: domain.Subscription{Amount: 250}},
	)
	s.AddCheckIns(domain.CheckIn{ID: "ci-1", ClientID: "client-1", CoachID: "coach-1", CompanyID: "acme", Timestamp: now.Add(-time.Hour), Completed: true})
	return s
}

func newTestRouter(store *memory.Store) (*gin.Engine, *metrics.Metrics) {
	logger := zap.NewNop()
	repos := store.Repositories()
	m := metrics.New(prometheus.NewRegistry())
	analyticsService := service.NewAnalyticsService(repos, analytics.FixedStats{CompletionRate: 75, ResponseTime: 3}, m, logger)
	renderer := report.NewRenderer(logger, report.WithPDFCompression(false))

	router := gin.New()
	SetupRoutes(router, testSecret, 30, Services{
		Analytics: analyticsService,
		Reports:   service.NewReportService(analyticsService, renderer, repos.Reports, nil, nil, m, logger, time.Minute),
		Exports:   service.NewExportService(repos, analyticsService, m, logger),
	}, m, logger)
	return router, m
}

func do(router http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	router, _ := newTestRouter(seed())

	w := do(router, http.MethodGet, "/api/v1/analytics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is missing")

	w = do(router, http.MethodGet, "/api/v1/analytics", signToken(t, "admin-1", domain.RoleAdmin, "acme", -time.Minute), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token has expired")

	w = do(router, http.MethodGet, "/api/v1/analytics", signToken(t, "admin-1", "trainer", "acme", time.Hour), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodGet, "/api/v1/analytics", signToken(t, "admin-1", domain.RoleAdmin, "", time.Hour), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(router, http.MethodGet, "/api/v1/me", signToken(t, "admin-1", domain.RoleAdmin, "acme", time.Hour), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"admin-1","role":"admin","companyId":"acme"}`, w.Body.String())
}

func TestGetAdvancedAnalyticsScopes(t *testing.T) {
	router, _ := newTestRouter(seed())

	var admin domain.AdvancedAnalytics
	w := do(router, http.MethodGet, "/api/v1/analytics", signToken(t, "admin-1", domain.RoleAdmin, "acme", time.Hour), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &admin))
	assert.Equal(t, 350.0, admin.BusinessMetrics.Revenue.Monthly)

	// A coach cannot widen the scope with coachId.
	var coach domain.AdvancedAnalytics
	w = do(router, http.MethodGet, "/api/v1/analytics?coachId=coach-2", signToken(t, "coach-1", domain.RoleCoach, "acme", time.Hour), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &coach))
	assert.Equal(t, 100.0, coach.BusinessMetrics.Revenue.Monthly)

	var narrowed domain.AdvancedAnalytics
	w = do(router, http.MethodGet, "/api/v1/analytics?coachId=coach-2", signToken(t, "admin-1", domain.RoleAdmin, "acme", time.Hour), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &narrowed))
	assert.Equal(t, 250.0, narrowed.BusinessMetrics.Revenue.Monthly)
}

func TestGetAdvancedAnalyticsBadDates(t *testing.T) {
	router, _ := newTestRouter(seed())
	token := signToken(t, "admin-1", domain.RoleAdmin, "acme", time.Hour)

	w := do(router, http.MethodGet, "/api/v1/analytics?start=yesterday", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/v1/analytics?start=2024-06-30&end=2024-06-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoreFailureIsHidden(t *testing.T) {
	store := seed()
	store.FailWith(context.DeadlineExceeded)
	router, _ := newTestRouter(store)

	w := do(router, http.MethodGet, "/api/v1/analytics", signToken(t, "admin-1", domain.RoleAdmin, "acme", time.Hour), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to load analytics."}`, w.Body.String())
}

func TestCategoriesAndCoachStats(t *testing.T) {
	router, _ := newTestRouter(seed())

	w := do(router, http.MethodGet, "/api/v1/analytics/categories", signToken(t, "coach-1", domain.RoleCoach, "acme", time.Hour), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []domain.CategorySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categories))
	require.Len(t, categories, 4)
	assert.Equal(t, []string{domain.NoDataSentinel}, categories[0].TopIssues)

	w = do(router, http.MethodGet, "/api/v1/coaches/stats", signToken(t, "coach-1", domain.RoleCoach, "acme", time.Hour), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(router, http.MethodGet, "/api/v1/coaches/stats", signToken(t, "admin-1", domain.RoleAdmin, "acme", time.Hour), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats []analytics.CoachStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Len(t, stats, 2)
	assert.Equal(t, 75.0, stats[0].CompletionRate)
}

func TestGenerateReport(t *testing.T) {
	router, _ := newTestRouter(seed())
	token := signToken(t, "admin-1", domain.RoleAdmin, "acme", time.Hour)

	w := do(router, http.MethodPost, "/api/v1/reports", token, GenerateReportRequest{
		TemplateID: "weekly",
		DateRange:  &DateRangeRequest{Start: "2024-06-01", End: "2024-06-30"},
		Format:     "pdf",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.MIMEPDF, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "weekly-report-")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))
	// Storage is disabled in this router.
	assert.Empty(t, w.Header().Get("X-Report-ID"))

	w = do(router, http.MethodPost, "/api/v1/reports", token, GenerateReportRequest{Format: "pptx"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "pptx")

	w = do(router, http.MethodGet, "/api/v1/reports", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(router, http.MethodGet, "/api/v1/reports/abc/download", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(router, http.MethodPost, "/api/v1/reports/email", token, EmailReportRequest{Recipients: []string{"not-an-email"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/api/v1/reports/email", token, EmailReportRequest{Recipients: []string{"owner@acme.test"}})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExportData(t *testing.T) {
	router, m := newTestRouter(seed())
	token := signToken(t, "admin-1", domain.RoleAdmin, "acme", time.Hour)

	w := do(router, http.MethodGet, "/api/v1/export/clients?sort=name&desc=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.MIMECSV, w.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "client-2,Bob"))

	w = do(router, http.MethodGet, "/api/v1/export/coaches?format=json", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.MIMEJSON, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".json")

	w = do(router, http.MethodGet, "/api/v1/export/checkins?format=excel&start=2000-01-01", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.MIMEXLSX, w.Header().Get("Content-Type"))

	w = do(router, http.MethodGet, "/api/v1/export/clients?format=pdf", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/v1/export/invoices", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/v1/export/clients?desc=maybe", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Metrics endpoint is served from the same registry.
	w = do(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "exports_total")
	assert.NotNil(t, m)
}

func TestParseTime(t *testing.T) {
	start, err := parseTime("2024-06-01", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), start)

	end, err := parseTime("2024-06-01", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 23, 59, 59, 999999999, time.UTC), end)

	ts, err := parseTime("2024-06-01T10:00:00+02:00", true)
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)))

	_, err = parseTime("06/01/2024", false)
	assert.Error(t, err)
}

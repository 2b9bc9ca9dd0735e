package api

import (
	"alcyxob/coach-analytics/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	defaultDays      int
	now              func() time.Time
	logger           *zap.Logger
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService, defaultDays int, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		defaultDays:      defaultDays,
		now:              time.Now,
		logger:           logger.With(zap.String("component", "analytics-handler")),
	}
}

// GetAdvancedAnalytics godoc
// @Summary Get dashboard analytics
// @Description Client, coach and business metrics for the caller's scope.
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param start query string false "Range start (YYYY-MM-DD or RFC3339)"
// @Param end query string false "Range end (YYYY-MM-DD or RFC3339)"
// @Param coachId query string false "Admins only: narrow to one coach"
// @Success 200 {object} domain.AdvancedAnalytics
// @Failure 400 {object} gin.H "Invalid date range"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /analytics [get]
func (h *AnalyticsHandler) GetAdvancedAnalytics(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}
	dateRange, err := parseDateRange(c, h.defaultDays, h.now())
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.analyticsService.GetAdvancedAnalytics(c.Request.Context(), scope, dateRange)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load analytics.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCategorySummaries godoc
// @Summary Get check-in category summaries
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.CategorySummary
// @Router /analytics/categories [get]
func (h *AnalyticsHandler) GetCategorySummaries(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}
	dateRange, err := parseDateRange(c, h.defaultDays, h.now())
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	summaries, err := h.analyticsService.GetCategorySummaries(c.Request.Context(), scope, dateRange)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load category summaries.")
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GetCoachStats godoc
// @Summary Get coach list figures
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} analytics.CoachStats
// @Router /coaches/stats [get]
func (h *AnalyticsHandler) GetCoachStats(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	stats, err := h.analyticsService.GetCoachStats(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, err, "Failed to load coach stats.")
		return
	}
	c.JSON(http.StatusOK, stats)
}

package api

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/metrics"
	"alcyxob/coach-analytics/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services bundles what the handlers need.
type Services struct {
	Analytics service.AnalyticsService
	Reports   service.ReportService
	Exports   service.ExportService
}

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	defaultRangeDays int,
	services Services,
	m *metrics.Metrics,
	logger *zap.Logger,
) {
	analyticsHandler := NewAnalyticsHandler(services.Analytics, defaultRangeDays, logger)
	reportHandler := NewReportHandler(services.Reports, defaultRangeDays, logger)
	exportHandler := NewExportHandler(services.Exports, logger)

	router.Use(m.Middleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	protected := router.Group("/api/v1")
	protected.Use(AuthMiddleware(jwtSecret), RoleMiddleware(domain.RoleAdmin, domain.RoleCoach))
	{
		protected.GET("/me", func(c *gin.Context) {
			scope, err := scopeFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to read caller from token")
				return
			}
			userID, _ := getUserIDFromContext(c)
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role, "companyId": scope.CompanyID})
		})

		// --- Analytics ---
		protected.GET("/analytics", analyticsHandler.GetAdvancedAnalytics)
		protected.GET("/analytics/categories", analyticsHandler.GetCategorySummaries)
		// Coach list figures are an admin screen.
		protected.GET("/coaches/stats", RoleMiddleware(domain.RoleAdmin), analyticsHandler.GetCoachStats)

		// --- Reports ---
		reportGroup := protected.Group("/reports")
		{
			reportGroup.POST("", reportHandler.GenerateReport)
			reportGroup.GET("", reportHandler.ListReports)
			reportGroup.POST("/email", reportHandler.EmailReport)
			reportGroup.GET("/:reportId/download", reportHandler.DownloadReport)
		}

		// --- Export ---
		protected.GET("/export/:dataType", exportHandler.ExportData)
	}
}

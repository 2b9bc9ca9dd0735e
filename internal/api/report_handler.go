package api

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/report"
	"alcyxob/coach-analytics/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReportHandler struct {
	reportService service.ReportService
	defaultDays   int
	now           func() time.Time
	logger        *zap.Logger
}

func NewReportHandler(reportService service.ReportService, defaultDays int, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		defaultDays:   defaultDays,
		now:           time.Now,
		logger:        logger.With(zap.String("component", "report-handler")),
	}
}

// --- DTOs ---

type GenerateReportRequest struct {
	TemplateID                 string            `json:"templateId"`
	DateRange                  *DateRangeRequest `json:"dateRange"`
	IncludeAIAnalysis          bool              `json:"includeAiAnalysis"`
	IncludePreviousComparisons bool              `json:"includePreviousComparisons"`
	Format                     string            `json:"format"`
}

type EmailReportRequest struct {
	GenerateReportRequest
	Recipients []string `json:"recipients" binding:"required,min=1,dive,email"`
}

type EmailReportResponse struct {
	MessageID string    `json:"messageId"`
	SentAt    time.Time `json:"sentAt"`
}

func (r GenerateReportRequest) toDomain(defaultDays int, now time.Time) (report.Request, error) {
	dateRange, err := r.DateRange.toDomain(defaultDays, now)
	if err != nil {
		return report.Request{}, err
	}
	return report.Request{
		TemplateID:                 r.TemplateID,
		DateRange:                  dateRange,
		IncludeAIAnalysis:          r.IncludeAIAnalysis,
		IncludePreviousComparisons: r.IncludePreviousComparisons,
		Format:                     report.Format(r.Format),
	}, nil
}

// --- Handler Methods ---

// GenerateReport godoc
// @Summary Render an analytics report
// @Description Renders the report and returns the file. The stored report id is in X-Report-ID when storage is enabled.
// @Tags Reports
// @Accept json
// @Produce application/pdf,text/html,application/json
// @Security BearerAuth
// @Param report body GenerateReportRequest true "Report options"
// @Success 200 {file} file
// @Failure 400 {object} gin.H "Invalid input or unsupported format"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /reports [post]
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}
	userID, _ := getUserIDFromContext(c)

	var body GenerateReportRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	req, err := body.toDomain(h.defaultDays, h.now())
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	generated, err := h.reportService.GenerateReport(c.Request.Context(), scope, userID, req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate report.")
		return
	}

	if generated.Record != nil {
		c.Header("X-Report-ID", generated.Record.ID)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, generated.Blob.Filename))
	c.Data(http.StatusOK, generated.Blob.MIMEType, generated.Blob.Data)
}

// EmailReport godoc
// @Summary Email an analytics report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param report body EmailReportRequest true "Report options and recipients"
// @Success 202 {object} EmailReportResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 503 {object} gin.H "Email delivery not configured"
// @Router /reports/email [post]
func (h *ReportHandler) EmailReport(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	var body EmailReportRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	req, err := body.toDomain(h.defaultDays, h.now())
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.reportService.EmailReport(c.Request.Context(), scope, req, body.Recipients)
	if err != nil {
		respondError(c, h.logger, err, "Failed to send report.")
		return
	}
	c.JSON(http.StatusAccepted, EmailReportResponse{MessageID: res.MessageID, SentAt: res.SentAt})
}

// ListReports godoc
// @Summary List stored reports of the caller's company
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.ReportRecord
// @Router /reports [get]
func (h *ReportHandler) ListReports(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	records, err := h.reportService.ListReports(c.Request.Context(), scope)
	if err != nil {
		respondError(c, h.logger, err, "Failed to list reports.")
		return
	}
	if records == nil {
		records = []domain.ReportRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// DownloadReport godoc
// @Summary Redirect to a stored report
// @Tags Reports
// @Security BearerAuth
// @Param reportId path string true "Report id"
// @Success 307 "Redirect to a presigned download URL"
// @Failure 404 {object} gin.H "Report not found"
// @Router /reports/{reportId}/download [get]
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	url, err := h.reportService.GetDownloadURL(c.Request.Context(), scope, c.Param("reportId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to prepare download.")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

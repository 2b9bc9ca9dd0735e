package api

import (
	"alcyxob/coach-analytics/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ExportHandler struct {
	exportService service.ExportService
	logger        *zap.Logger
}

func NewExportHandler(exportService service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger.With(zap.String("component", "export-handler")),
	}
}

// ExportData godoc
// @Summary Export a dataset
// @Description Downloads clients, coaches, check-ins or category summaries as csv, json or excel.
// @Tags Export
// @Produce text/csv,application/json,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param dataType path string true "clients, coaches, checkins or categories"
// @Param format query string false "csv (default), json or excel"
// @Param start query string false "Range start"
// @Param end query string false "Range end"
// @Param status query string false "Status filter"
// @Param sort query string false "Sort column"
// @Param desc query bool false "Sort descending"
// @Success 200 {file} file
// @Failure 400 {object} gin.H "Unknown data type, format or sort column"
// @Router /export/{dataType} [get]
func (h *ExportHandler) ExportData(c *gin.Context) {
	scope, err := scopeFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}

	filters := service.ExportFilters{
		Status: c.Query("status"),
		SortBy: c.Query("sort"),
	}
	if filters.Desc, err = parseBoolQuery(c, "desc"); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	// Exports are unbounded unless a range is given.
	if c.Query("start") != "" || c.Query("end") != "" {
		req := &DateRangeRequest{Start: c.Query("start"), End: c.Query("end")}
		if filters.Range, err = req.toExportRange(); err != nil {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	blob, err := h.exportService.ExportData(c.Request.Context(), scope, c.Param("dataType"), c.DefaultQuery("format", "csv"), filters)
	if err != nil {
		respondError(c, h.logger, err, "Failed to export data.")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, blob.Filename))
	c.Data(http.StatusOK, blob.MIMEType, blob.Data)
}

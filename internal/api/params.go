package api

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/export"
	"alcyxob/coach-analytics/internal/mailer"
	"alcyxob/coach-analytics/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateOnly = "2006-01-02"

// parseTime accepts RFC3339 timestamps or plain dates. A plain end date covers
// the whole day.
func parseTime(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// parseDateRange reads start and end from the query string. Missing bounds
// default to the last defaultDays days.
func parseDateRange(c *gin.Context, defaultDays int, now time.Time) (domain.DateRange, error) {
	req := &DateRangeRequest{Start: c.Query("start"), End: c.Query("end")}
	return req.toDomain(defaultDays, now)
}

// DateRangeRequest is the JSON form of a date range in request bodies.
type DateRangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r *DateRangeRequest) toDomain(defaultDays int, now time.Time) (domain.DateRange, error) {
	out := domain.LastDays(now, defaultDays)
	if r == nil {
		return out, nil
	}
	if r.Start != "" {
		t, err := parseTime(r.Start, false)
		if err != nil {
			return domain.DateRange{}, err
		}
		out.Start = t
	}
	if r.End != "" {
		t, err := parseTime(r.End, true)
		if err != nil {
			return domain.DateRange{}, err
		}
		out.End = t
	}
	if out.Start.After(out.End) {
		return domain.DateRange{}, errors.New("start must not be after end")
	}
	return out, nil
}

// toExportRange parses only the given bounds; a missing bound stays open.
func (r *DateRangeRequest) toExportRange() (domain.DateRange, error) {
	var out domain.DateRange
	var err error
	if r.Start != "" {
		if out.Start, err = parseTime(r.Start, false); err != nil {
			return domain.DateRange{}, err
		}
	}
	if r.End != "" {
		if out.End, err = parseTime(r.End, true); err != nil {
			return domain.DateRange{}, err
		}
	}
	if !out.Start.IsZero() && !out.End.IsZero() && out.Start.After(out.End) {
		return domain.DateRange{}, errors.New("start must not be after end")
	}
	return out, nil
}

func parseBoolQuery(c *gin.Context, key string) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q", key, v)
	}
	return b, nil
}

// respondError maps service errors to HTTP statuses. Unexpected errors are
// logged and hidden behind fallback.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, export.ErrUnsupportedFormat),
		errors.Is(err, service.ErrUnknownDataType),
		errors.Is(err, service.ErrInvalidSort),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, mailer.ErrNoRecipients):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidScope):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrReportNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStorageDisabled), errors.Is(err, service.ErrMailerDisabled):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error(fallback, zap.String("path", c.FullPath()), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ebd-pro/console-api/internal/middleware"
	"github.com/ebd-pro/console-api/internal/service"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
	"github.com/ebd-pro/console-api/pkg/response"
)

// ReportHandler exposes the attendance history tree and its exports.
type ReportHandler struct {
	service        *service.ReportService
	exportsEnabled bool
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService, exportsEnabled bool) *ReportHandler {
	return &ReportHandler{service: svc, exportsEnabled: exportsEnabled}
}

// History returns the year, quarter, month and week grouping of the
// caller's visible records.
func (h *ReportHandler) History(c *gin.Context) {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	years, err := h.service.History(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, years)
}

// Export streams the caller's visible records as CSV or PDF.
func (h *ReportHandler) Export(c *gin.Context) {
	if !h.exportsEnabled {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled"))
		return
	}

	session, err := middleware.CurrentSession(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := c.DefaultQuery("format", service.ExportFormatCSV)
	payload, contentType, err := h.service.Export(c.Request.Context(), session, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}

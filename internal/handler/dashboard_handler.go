package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ebd-pro/console-api/internal/middleware"
	"github.com/ebd-pro/console-api/internal/service"
	"github.com/ebd-pro/console-api/pkg/response"
)

// DashboardHandler exposes the aggregated dashboards.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Admin returns the all-classes dashboard.
func (h *DashboardHandler) Admin(c *gin.Context) {
	dashboard, err := h.service.Admin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard)
}

// Teacher returns the caller's single-class dashboard.
func (h *DashboardHandler) Teacher(c *gin.Context) {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	dashboard, err := h.service.Teacher(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard)
}

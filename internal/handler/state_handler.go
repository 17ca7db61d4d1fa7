package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ebd-pro/console-api/internal/middleware"
	"github.com/ebd-pro/console-api/internal/service"
	"github.com/ebd-pro/console-api/pkg/response"
)

// StateHandler exposes the full application snapshot.
type StateHandler struct {
	service *service.StateService
}

// NewStateHandler constructs a state handler.
func NewStateHandler(svc *service.StateService) *StateHandler {
	return &StateHandler{service: svc}
}

// Snapshot returns every collection scoped to the caller in one payload.
func (h *StateHandler) Snapshot(c *gin.Context) {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	snapshot, err := h.service.Snapshot(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ebd-pro/console-api/internal/middleware"
	"github.com/ebd-pro/console-api/internal/service"
	appErrors "github.com/ebd-pro/console-api/pkg/errors"
	"github.com/ebd-pro/console-api/pkg/response"
)

// AttendanceHandler exposes lesson record endpoints.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(svc *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// List returns attendance records. Teacher sessions are pinned to their
// assigned class regardless of the class query parameter.
func (h *AttendanceHandler) List(c *gin.Context) {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	classID := c.Query("class_id")
	if !session.IsAdmin() {
		if session.AssignedClassID == nil {
			response.JSON(c, http.StatusOK, []struct{}{})
			return
		}
		classID = *session.AssignedClassID
	}

	records, err := h.service.List(c.Request.Context(), classID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Save records or updates a lesson. Teachers may only write to their own
// class.
func (h *AttendanceHandler) Save(c *gin.Context) {
	session, err := middleware.CurrentSession(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req service.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if !session.IsAdmin() {
		if session.AssignedClassID == nil || req.ClassID != *session.AssignedClassID {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "record belongs to another class"))
			return
		}
	}

	record, err := h.service.Save(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Delete removes a lesson record.
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

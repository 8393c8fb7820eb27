package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/project-calendar/api/internal/dto"
	apierrors "github.com/project-calendar/api/internal/errors"
	"github.com/project-calendar/api/internal/middleware"
	"github.com/project-calendar/api/internal/services"
)

// CalendarHandler serves calendar range queries over the user's tasks.
type CalendarHandler struct {
	calendarService *services.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// GetTasks returns the visible tasks whose scheduled interval intersects
// the inclusive [start_date, end_date] range.
func (h *CalendarHandler) GetTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.calendarService.QueryRange(userID, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRangeRequired),
			errors.Is(err, services.ErrRangeInvalidDate),
			errors.Is(err, services.ErrRangeOutOfOrder):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

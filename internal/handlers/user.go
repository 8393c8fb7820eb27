package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/project-calendar/api/internal/dto"
	apierrors "github.com/project-calendar/api/internal/errors"
	"github.com/project-calendar/api/internal/middleware"
	"github.com/project-calendar/api/internal/services"
	"github.com/project-calendar/api/internal/utils"
)

// UserHandler coordinates user directory and work-schedule HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Search returns users matching the search query on email or name fields.
func (h *UserHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("search"))
	params := utils.GetPaginationParams(c)

	users, err := h.userService.Search(query, params.Limit)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

// GetUser returns a user's public profile.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(targetUserID(c))
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetWorkSchedule returns a user's weekly work windows.
func (h *UserHandler) GetWorkSchedule(c *gin.Context) {
	windows, err := h.userService.GetWorkSchedule(targetUserID(c))
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"work_schedule": dto.ToWorkWindowDTOs(windows)})
}

// ReplaceWorkSchedule replaces a user's weekly work schedule. Users may
// only replace their own; "me" is accepted as an alias for the caller.
func (h *UserHandler) ReplaceWorkSchedule(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if target := c.Param("id"); target != "me" && target != userID {
		apierrors.Forbidden(c, "Cannot modify another user's schedule")
		return
	}

	type ReplaceScheduleRequest struct {
		WorkSchedule []services.WorkWindowInput `json:"work_schedule" binding:"required"`
	}

	var req ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	windows, err := h.userService.ReplaceWorkSchedule(userID, req.WorkSchedule)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"work_schedule": dto.ToWorkWindowDTOs(windows)})
}

// targetUserID resolves the :id path parameter, treating "me" as an alias
// for the authenticated caller.
func targetUserID(c *gin.Context) string {
	id := c.Param("id")
	if id != "me" {
		return id
	}
	userID, _ := middleware.GetUserID(c)
	return userID
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrScheduleEmpty),
		errors.Is(err, services.ErrInvalidWeekday),
		errors.Is(err, services.ErrInvalidTimeFormat),
		errors.Is(err, services.ErrWindowNotOrdered),
		errors.Is(err, services.ErrWindowsOverlap):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

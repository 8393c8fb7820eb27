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

// AssignmentHandler coordinates task-assignment HTTP handlers.
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// CreateAssignment assigns a user to a task with a number of hours. When
// user_id is omitted the authenticated user assigns themselves.
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateAssignmentRequest struct {
		UserID        string  `json:"user_id"`
		AssignedHours float64 `json:"assigned_hours"`
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.assignmentService.CreateAssignment(services.CreateAssignmentInput{
		ActorID:       actorID,
		TaskID:        c.Param("id"),
		UserID:        req.UserID,
		AssignedHours: req.AssignedHours,
	})
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	assignment := dto.ToAssignmentDTO(*result.Assignment)
	assignment.OverAllocated = result.OverAllocated
	c.JSON(http.StatusCreated, assignment)
}

// ListAssignments returns all assignments on a task the authenticated user
// owns or is assigned to.
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	assignments, err := h.assignmentService.ListAssignments(actorID, c.Param("id"))
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": dto.ToAssignmentDTOs(assignments)})
}

// DeleteAssignment removes a user's assignment from a task. Only the task
// owner may remove assignments; removing the owner's own assignment does
// not change ownership.
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	actorID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	err := h.assignmentService.DeleteAssignment(actorID, c.Param("id"), c.Param("user_id"))
	if err != nil {
		respondAssignmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment removed successfully"})
}

func respondAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAssignmentExists):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCapacityExceeded):
		apierrors.CapacityExceeded(c, err.Error())
	case errors.Is(err, services.ErrNegativeAssignedHours):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotAllowedToAssign),
		errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

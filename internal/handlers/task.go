package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project-calendar/api/internal/dto"
	apierrors "github.com/project-calendar/api/internal/errors"
	"github.com/project-calendar/api/internal/middleware"
	"github.com/project-calendar/api/internal/models"
	"github.com/project-calendar/api/internal/services"
	"github.com/project-calendar/api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask creates a task owned by the authenticated user. The owner is
// assigned to the task as part of creation.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title          string   `json:"title" binding:"required"`
		Description    string   `json:"description"`
		Priority       string   `json:"priority"`
		Status         string   `json:"status"`
		EstimatedHours *float64 `json:"estimated_hours"`
		StartDate      *string  `json:"start_date"`
		DueDate        *string  `json:"due_date"`
		ParentTaskID   *string  `json:"parent_task_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	startDate, err := parseDatePtr(req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, "start_date must be formatted as YYYY-MM-DD")
		return
	}
	dueDate, err := parseDatePtr(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, "due_date must be formatted as YYYY-MM-DD")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		OwnerID:        userID,
		Title:          req.Title,
		Description:    req.Description,
		Priority:       models.TaskPriority(req.Priority),
		Status:         models.TaskStatus(req.Status),
		EstimatedHours: req.EstimatedHours,
		StartDate:      startDate,
		DueDate:        dueDate,
		ParentTaskID:   req.ParentTaskID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns the tasks visible to the authenticated user, filtered
// by the optional query parameters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		ActorID:      userID,
		ParentTaskID: c.Query("parent_task_id"),
		Limit:        params.Limit,
		Offset:       params.Offset,
	}

	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !models.ValidStatus(status) {
			apierrors.BadRequest(c, services.ErrInvalidStatus.Error())
			return
		}
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		if !models.ValidPriority(priority) {
			apierrors.BadRequest(c, services.ErrInvalidPriority.Error())
			return
		}
		input.Priority = &priority
	}

	tasks, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// GetTask returns a single task visible to the authenticated user.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.GetTask(userID, c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// GetSubtasks returns the direct children of a visible task.
func (h *TaskHandler) GetSubtasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.GetSubtasks(userID, c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// UpdateTask partially updates a task. Fields absent from the body are left
// untouched; an explicit null clears the nullable fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput

	if raw, ok := body["title"]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			apierrors.BadRequest(c, "title must be a string")
			return
		}
		input.Title = &title
	}
	if raw, ok := body["description"]; ok {
		var description string
		if err := json.Unmarshal(raw, &description); err != nil {
			apierrors.BadRequest(c, "description must be a string")
			return
		}
		input.Description = &description
	}
	if raw, ok := body["priority"]; ok {
		var priority models.TaskPriority
		if err := json.Unmarshal(raw, &priority); err != nil {
			apierrors.BadRequest(c, "priority must be a string")
			return
		}
		input.Priority = &priority
	}
	if raw, ok := body["status"]; ok {
		var status models.TaskStatus
		if err := json.Unmarshal(raw, &status); err != nil {
			apierrors.BadRequest(c, "status must be a string")
			return
		}
		input.Status = &status
	}
	if raw, ok := body["estimated_hours"]; ok {
		if isJSONNull(raw) {
			input.ClearEstimatedHours = true
		} else {
			var hours float64
			if err := json.Unmarshal(raw, &hours); err != nil {
				apierrors.BadRequest(c, "estimated_hours must be a number")
				return
			}
			input.EstimatedHours = &hours
		}
	}
	if raw, ok := body["start_date"]; ok {
		if isJSONNull(raw) {
			input.ClearStartDate = true
		} else {
			date, err := unmarshalDate(raw)
			if err != nil {
				apierrors.BadRequest(c, "start_date must be formatted as YYYY-MM-DD")
				return
			}
			input.StartDate = date
		}
	}
	if raw, ok := body["due_date"]; ok {
		if isJSONNull(raw) {
			input.ClearDueDate = true
		} else {
			date, err := unmarshalDate(raw)
			if err != nil {
				apierrors.BadRequest(c, "due_date must be formatted as YYYY-MM-DD")
				return
			}
			input.DueDate = date
		}
	}
	if raw, ok := body["parent_task_id"]; ok {
		if isJSONNull(raw) {
			input.ClearParentTaskID = true
		} else {
			var parentID string
			if err := json.Unmarshal(raw, &parentID); err != nil {
				apierrors.BadRequest(c, "parent_task_id must be a string")
				return
			}
			input.ParentTaskID = &parentID
		}
	}

	task, err := h.taskService.UpdateTask(userID, c.Param("id"), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task and its whole subtree, assignments included.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.taskService.DeleteTask(userID, c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func parseDatePtr(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	date, err := time.Parse(time.DateOnly, *value)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func unmarshalDate(raw json.RawMessage) (*time.Time, error) {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return parseDatePtr(&value)
}

func isJSONNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTaskOwner),
		errors.Is(err, services.ErrTaskPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidStatusTransition):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrDatesOutOfOrder),
		errors.Is(err, services.ErrNegativeEstimatedHours),
		errors.Is(err, services.ErrParentNotFound),
		errors.Is(err, services.ErrTaskCycle),
		errors.Is(err, services.ErrTreeTooDeep):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

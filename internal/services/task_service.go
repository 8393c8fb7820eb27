package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/project-calendar/api/internal/constants"
	"github.com/project-calendar/api/internal/models"
	"github.com/project-calendar/api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound            = errors.New("task not found")
	ErrNotTaskOwner            = errors.New("only the task owner can perform this action")
	ErrTaskPermissionDenied    = errors.New("assigned users may only update status and estimated hours")
	ErrTitleRequired           = errors.New("title is required")
	ErrTitleEmpty              = errors.New("title cannot be empty")
	ErrInvalidPriority         = errors.New("priority must be low, medium or high")
	ErrInvalidStatus           = errors.New("status must be open, in_progress, done or cancelled")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrDatesOutOfOrder         = errors.New("start_date must not be after due_date")
	ErrNegativeEstimatedHours  = errors.New("estimated_hours must not be negative")
	ErrParentNotFound          = errors.New("parent task not found")
	ErrTaskCycle               = errors.New("task cannot be its own ancestor")
	ErrTreeTooDeep             = errors.New("task hierarchy is too deep")
)

// TaskService handles task graph business logic. Every operation takes the
// acting user's id explicitly; there is no ambient current user.
type TaskService struct {
	taskRepo   repository.TaskRepository
	assignRepo repository.AssignmentRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, assignRepo repository.AssignmentRepository) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		assignRepo: assignRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID        string
	Title          string
	Description    string
	Priority       models.TaskPriority
	Status         models.TaskStatus
	EstimatedHours *float64
	StartDate      *time.Time
	DueDate        *time.Time
	ParentTaskID   *string
}

// UpdateTaskInput represents input for updating a task. Pointer fields that
// are nil leave the current value untouched; the Clear flags express an
// explicit null in the request body.
type UpdateTaskInput struct {
	Title               *string
	Description         *string
	Priority            *models.TaskPriority
	Status              *models.TaskStatus
	EstimatedHours      *float64
	ClearEstimatedHours bool
	StartDate           *time.Time
	ClearStartDate      bool
	DueDate             *time.Time
	ClearDueDate        bool
	ParentTaskID        *string
	ClearParentTaskID   bool
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ActorID      string
	ParentTaskID string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	Limit        int
	Offset       int
}

// CreateTask validates the fields and persists the task together with the
// owner's assignment.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !models.ValidPriority(input.Priority) {
		return nil, ErrInvalidPriority
	}
	if input.Status == "" {
		input.Status = models.TaskStatusOpen
	}
	if !models.ValidStatus(input.Status) {
		return nil, ErrInvalidStatus
	}
	if input.EstimatedHours != nil && *input.EstimatedHours < 0 {
		return nil, ErrNegativeEstimatedHours
	}
	if err := validateDates(input.StartDate, input.DueDate); err != nil {
		return nil, err
	}

	if input.ParentTaskID != nil {
		if _, err := s.taskRepo.FindByID(*input.ParentTaskID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("failed to find parent task: %w", err)
		}
		// A fresh id cannot already appear among the parent's ancestors,
		// but the walk still bounds the resulting chain depth.
		if _, err := s.taskRepo.AncestorChain(*input.ParentTaskID, constants.MaxTreeDepth); err != nil {
			if errors.Is(err, repository.ErrAncestryTooDeep) {
				return nil, ErrTreeTooDeep
			}
			return nil, err
		}
	}

	task := &models.Task{
		OwnerID:        input.OwnerID,
		Title:          input.Title,
		Description:    input.Description,
		Priority:       input.Priority,
		Status:         input.Status,
		EstimatedHours: input.EstimatedHours,
		StartDate:      input.StartDate,
		DueDate:        input.DueDate,
		ParentTaskID:   input.ParentTaskID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task visible to the actor.
func (s *TaskService) GetTask(actorID, taskID string) (*models.Task, error) {
	task, err := s.findVisible(actorID, taskID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetSubtasks returns the direct children of a task visible to the actor.
func (s *TaskService) GetSubtasks(actorID, taskID string) ([]models.Task, error) {
	if _, err := s.findVisible(actorID, taskID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListChildren(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	return tasks, nil
}

// ListTasks returns the tasks the actor owns or is assigned to.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		ParentTaskID: input.ParentTaskID,
		Status:       input.Status,
		Priority:     input.Priority,
		Limit:        input.Limit,
		Offset:       input.Offset,
	}

	tasks, err := s.taskRepo.ListVisible(input.ActorID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTask applies a partial update. The owner may change any field;
// assigned non-owners may change status and estimated hours only.
func (s *TaskService) UpdateTask(actorID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findVisible(actorID, taskID)
	if err != nil {
		return nil, err
	}

	if task.OwnerID != actorID {
		if touchesOwnerOnlyFields(input) {
			return nil, ErrTaskPermissionDenied
		}
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		if !models.CanTransition(task.Status, *input.Status) {
			return nil, ErrInvalidStatusTransition
		}
		task.Status = *input.Status
	}
	if input.ClearEstimatedHours {
		task.EstimatedHours = nil
	} else if input.EstimatedHours != nil {
		if *input.EstimatedHours < 0 {
			return nil, ErrNegativeEstimatedHours
		}
		task.EstimatedHours = input.EstimatedHours
	}
	if input.ClearStartDate {
		task.StartDate = nil
	} else if input.StartDate != nil {
		task.StartDate = input.StartDate
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if err := validateDates(task.StartDate, task.DueDate); err != nil {
		return nil, err
	}

	if input.ClearParentTaskID {
		task.ParentTaskID = nil
	} else if input.ParentTaskID != nil {
		if *input.ParentTaskID == task.ID {
			return nil, ErrTaskCycle
		}
		task.ParentTaskID = input.ParentTaskID

		// Chain validation and save share one transaction so a concurrent
		// re-parent cannot interleave between check and commit.
		if err := s.taskRepo.Reparent(task, constants.MaxTreeDepth); err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return nil, ErrParentNotFound
			case errors.Is(err, repository.ErrReparentCycle):
				return nil, ErrTaskCycle
			case errors.Is(err, repository.ErrAncestryTooDeep):
				return nil, ErrTreeTooDeep
			}
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
		return task, nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task and its whole subtree. Owner only.
func (s *TaskService) DeleteTask(actorID, taskID string) error {
	task, err := s.findVisible(actorID, taskID)
	if err != nil {
		return err
	}

	if task.OwnerID != actorID {
		return ErrNotTaskOwner
	}

	if err := s.taskRepo.DeleteTree(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// findVisible loads a task the actor owns or is assigned to. A task that
// exists but is not visible reports not-found so its existence is not
// leaked.
func (s *TaskService) findVisible(actorID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID == actorID {
		return task, nil
	}
	if _, err := s.assignRepo.Find(taskID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}
	return task, nil
}

func touchesOwnerOnlyFields(input UpdateTaskInput) bool {
	return input.Title != nil ||
		input.Description != nil ||
		input.Priority != nil ||
		input.StartDate != nil || input.ClearStartDate ||
		input.DueDate != nil || input.ClearDueDate ||
		input.ParentTaskID != nil || input.ClearParentTaskID
}

func validateDates(start, due *time.Time) error {
	if start != nil && due != nil && start.After(*due) {
		return ErrDatesOutOfOrder
	}
	return nil
}

package dto

import (
	"time"

	"github.com/project-calendar/api/internal/models"
)

// TaskDTO represents a task in API responses. Dates are date-only strings.
type TaskDTO struct {
	ID             string              `json:"id"`
	OwnerID        string              `json:"owner_id"`
	ParentTaskID   *string             `json:"parent_task_id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Priority       models.TaskPriority `json:"priority"`
	Status         models.TaskStatus   `json:"status"`
	EstimatedHours *float64            `json:"estimated_hours"`
	StartDate      *string             `json:"start_date"`
	DueDate        *string             `json:"due_date"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:             task.ID,
		OwnerID:        task.OwnerID,
		ParentTaskID:   task.ParentTaskID,
		Title:          task.Title,
		Description:    task.Description,
		Priority:       task.Priority,
		Status:         task.Status,
		EstimatedHours: task.EstimatedHours,
		StartDate:      formatDate(task.StartDate),
		DueDate:        formatDate(task.DueDate),
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

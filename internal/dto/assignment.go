package dto

import (
	"time"

	"github.com/project-calendar/api/internal/models"
)

// AssignmentDTO represents a task assignment in API responses
type AssignmentDTO struct {
	TaskID        string    `json:"task_id"`
	UserID        string    `json:"user_id"`
	AssignedHours float64   `json:"assigned_hours"`
	CreatedAt     time.Time `json:"created_at"`
	OverAllocated bool      `json:"over_allocated,omitempty"`
}

// ToAssignmentDTO converts a TaskAssignment model to AssignmentDTO
func ToAssignmentDTO(a models.TaskAssignment) AssignmentDTO {
	return AssignmentDTO{
		TaskID:        a.TaskID,
		UserID:        a.UserID,
		AssignedHours: a.AssignedHours,
		CreatedAt:     a.CreatedAt,
	}
}

// ToAssignmentDTOs converts a slice of assignments
func ToAssignmentDTOs(assignments []models.TaskAssignment) []AssignmentDTO {
	out := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		out[i] = ToAssignmentDTO(a)
	}
	return out
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone, TaskStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a status change from one state to another is
// allowed: open -> in_progress -> done, any state -> cancelled. Done and
// cancelled are terminal. Writing the current value back is a no-op.
func CanTransition(from, to TaskStatus) bool {
	if from == to {
		return true
	}
	if from == TaskStatusDone || from == TaskStatusCancelled {
		return false
	}
	if to == TaskStatusCancelled {
		return true
	}
	switch from {
	case TaskStatusOpen:
		return to == TaskStatusInProgress
	case TaskStatusInProgress:
		return to == TaskStatusDone
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ValidPriority reports whether p is one of the known task priorities.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID             string       `gorm:"type:uuid;primarykey" json:"id"`
	OwnerID        string       `gorm:"type:uuid;not null;index" json:"owner_id"`
	ParentTaskID   *string      `gorm:"type:uuid;index" json:"parent_task_id"`
	Title          string       `gorm:"not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	Priority       TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	EstimatedHours *float64     `json:"estimated_hours"`
	StartDate      *time.Time   `gorm:"type:date" json:"start_date"`
	DueDate        *time.Time   `gorm:"type:date;index" json:"due_date"`
	CreatedAt      time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	// Relations
	Owner       User             `gorm:"foreignKey:OwnerID" json:"-"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

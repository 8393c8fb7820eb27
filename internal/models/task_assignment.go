package models

import "time"

// TaskAssignment records a user's work-hour allocation on a task. The
// composite primary key makes the store enforce one assignment per
// (task, user) pair; duplicate inserts surface as a uniqueness violation
// rather than relying on a check-then-act lookup.
type TaskAssignment struct {
	TaskID        string    `gorm:"type:uuid;primarykey" json:"task_id"`
	UserID        string    `gorm:"type:uuid;primarykey" json:"user_id"`
	AssignedHours float64   `gorm:"not null;default:0" json:"assigned_hours"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

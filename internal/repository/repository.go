package repository

import (
	"time"

	"github.com/project-calendar/api/internal/models"
)

// TaskFilter holds filtering options for listing tasks visible to a user.
type TaskFilter struct {
	// ParentTaskID filters by parent. The literal "null" selects root tasks.
	ParentTaskID string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	Limit        int
	Offset       int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create persists a task together with the owner's assignment in a
	// single transaction.
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// ListVisible retrieves tasks the user owns or is assigned to, ordered
	// by creation time ascending with id as tie-breaker.
	ListVisible(userID string, filter TaskFilter) ([]models.Task, error)

	// ListChildren retrieves the direct children of a task.
	ListChildren(parentID string) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Reparent validates the task's new parent chain and saves the task in
	// a single transaction, so a concurrent re-parenting cannot slip a
	// cycle past the check. Fails with gorm.ErrRecordNotFound when the
	// parent is absent, ErrReparentCycle when the chain loops back to the
	// task, and ErrAncestryTooDeep past maxDepth links.
	Reparent(task *models.Task, maxDepth int) error

	// DeleteTree deletes the task, every descendant discovered through the
	// parent index, and all their assignments, atomically.
	DeleteTree(id string) error

	// AncestorChain walks parent links from the given task id up to the
	// root, returning the visited ids in order. The walk fails once
	// maxDepth links have been followed.
	AncestorChain(id string, maxDepth int) ([]string, error)

	// IsVisible reports whether the user owns the task or holds an
	// assignment on it.
	IsVisible(taskID, userID string) (bool, error)

	// CalendarRange retrieves tasks visible to the user whose
	// [start_date, due_date] span intersects [start, end] inclusive,
	// ordered by start date then id. Tasks with neither bound are excluded.
	CalendarRange(userID string, start, end time.Time) ([]models.Task, error)
}

// AssignmentRepository defines the interface for assignment data access
type AssignmentRepository interface {
	// Create inserts an assignment. A duplicate (task, user) pair fails
	// with gorm.ErrDuplicatedKey via the composite primary key.
	Create(assignment *models.TaskAssignment) error

	// Find finds a specific assignment
	Find(taskID, userID string) (*models.TaskAssignment, error)

	// ListByTask lists all assignments for a task, oldest first.
	ListByTask(taskID string) ([]models.TaskAssignment, error)

	// Delete removes an assignment; gorm.ErrRecordNotFound if absent.
	Delete(taskID, userID string) error

	// SumOverlappingHours totals the user's assigned hours on tasks other
	// than excludeTaskID whose date spans overlap [start, end]. Tasks
	// missing either bound do not contribute.
	SumOverlappingHours(userID, excludeTaskID string, start, end time.Time) (float64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithWorkSchedule creates a user and their weekly work windows
	// within a single transaction.
	CreateWithWorkSchedule(user *models.User, windows []models.WorkWindow) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email. Emails are stored lower-case.
	FindByEmail(email string) (*models.User, error)

	// Search finds users whose email or name fields contain the query,
	// case-insensitively.
	Search(query string, limit int) ([]models.User, error)

	// ListWorkWindows lists a user's work windows ordered by weekday and
	// start time.
	ListWorkWindows(userID string) ([]models.WorkWindow, error)

	// ReplaceWorkSchedule atomically replaces all of a user's work windows.
	ReplaceWorkSchedule(userID string, windows []models.WorkWindow) error
}

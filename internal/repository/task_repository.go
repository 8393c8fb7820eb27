package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/project-calendar/api/internal/database"
	"github.com/project-calendar/api/internal/models"
	"github.com/project-calendar/api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAncestryTooDeep is returned when an ancestor walk exceeds its depth bound.
var ErrAncestryTooDeep = errors.New("task repository: parent chain too deep")

// ErrReparentCycle is returned when a proposed parent chain loops back to
// the task being re-parented.
var ErrReparentCycle = errors.New("task repository: re-parenting would create a cycle")

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists the task and the owner's assignment in one transaction.
// A task is never observable without its owner assignment.
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		assignment := models.TaskAssignment{
			TaskID: task.ID,
			UserID: task.OwnerID,
		}
		return tx.Create(&assignment).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListVisible retrieves tasks the user owns or is assigned to
func (r *GormTaskRepository) ListVisible(userID string, filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
		Select("1").
		Where("task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", userID)

	query := r.db.Model(&models.Task{}).
		Where("tasks.owner_id = ? OR EXISTS (?)", userID, assignmentSubQuery)

	switch filter.ParentTaskID {
	case "":
	case "null":
		query = query.Where("tasks.parent_task_id IS NULL")
	default:
		query = query.Where("tasks.parent_task_id = ?", filter.ParentTaskID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}

	query = query.
		Order("tasks.created_at ASC, tasks.id ASC").
		Scopes(database.Paginate(utils.PaginationParams{
			Limit:  filter.Limit,
			Offset: filter.Offset,
		}))

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListChildren retrieves the direct children of a task
func (r *GormTaskRepository) ListChildren(parentID string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("parent_task_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Reparent walks the new parent's ancestor chain and saves the task within
// one transaction. The chain rows are read under row locks so two
// transactions re-parenting towards each other serialize instead of both
// committing half a cycle. A dangling link above the parent ends the walk;
// only a missing parent itself is a not-found error.
func (r *GormTaskRepository) Reparent(task *models.Task, maxDepth int) error {
	if task.ParentTaskID == nil {
		return r.Update(task)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		current := *task.ParentTaskID
		for depth := 0; ; depth++ {
			if depth >= maxDepth {
				return ErrAncestryTooDeep
			}
			if current == task.ID {
				return ErrReparentCycle
			}

			var row models.Task
			err := lockedRead(tx).Select("id, parent_task_id").First(&row, "id = ?", current).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					if depth == 0 {
						return err
					}
					break
				}
				return fmt.Errorf("failed to walk ancestors: %w", err)
			}

			if row.ParentTaskID == nil {
				break
			}
			current = *row.ParentTaskID
		}

		return tx.Save(task).Error
	})
}

// lockedRead adds a row lock on dialects that support SELECT FOR UPDATE.
// SQLite allows a single writer and serializes the transactions itself.
func lockedRead(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// DeleteTree deletes a task, its descendants, and their assignments.
// Descendants are discovered level by level through the parent_task_id
// index rather than by following in-memory pointers.
func (r *GormTaskRepository) DeleteTree(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ids := []string{id}
		frontier := []string{id}

		for len(frontier) > 0 {
			var children []string
			err := tx.Model(&models.Task{}).
				Where("parent_task_id IN ?", frontier).
				Pluck("id", &children).Error
			if err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}

		if err := tx.Where("task_id IN ?", ids).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", ids).Delete(&models.Task{}).Error
	})
}

// AncestorChain walks parent links from a task up to its root.
func (r *GormTaskRepository) AncestorChain(id string, maxDepth int) ([]string, error) {
	chain := make([]string, 0, 8)
	current := id

	for depth := 0; ; depth++ {
		if depth >= maxDepth {
			return nil, ErrAncestryTooDeep
		}

		chain = append(chain, current)

		var task models.Task
		err := r.db.Select("id, parent_task_id").First(&task, "id = ?", current).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Dangling parent reference; treat the walk as complete.
				return chain, nil
			}
			return nil, fmt.Errorf("failed to walk ancestors: %w", err)
		}

		if task.ParentTaskID == nil {
			return chain, nil
		}
		current = *task.ParentTaskID
	}
}

// IsVisible reports whether the user owns or is assigned to the task
func (r *GormTaskRepository) IsVisible(taskID, userID string) (bool, error) {
	var count int64
	assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
		Select("1").
		Where("task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", userID)

	err := r.db.Model(&models.Task{}).
		Where("tasks.id = ?", taskID).
		Where("tasks.owner_id = ? OR EXISTS (?)", userID, assignmentSubQuery).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CalendarRange retrieves visible tasks intersecting the window.
// A task with a single date bound is treated as a one-day interval; a task
// with neither bound never matches.
func (r *GormTaskRepository) CalendarRange(userID string, start, end time.Time) ([]models.Task, error) {
	var tasks []models.Task

	assignmentSubQuery := r.db.Model(&models.TaskAssignment{}).
		Select("1").
		Where("task_assignments.task_id = tasks.id").
		Where("task_assignments.user_id = ?", userID)

	err := r.db.Model(&models.Task{}).
		Where("tasks.owner_id = ? OR EXISTS (?)", userID, assignmentSubQuery).
		Where("tasks.start_date IS NOT NULL OR tasks.due_date IS NOT NULL").
		Where("COALESCE(tasks.start_date, tasks.due_date) <= ?", end).
		Where("COALESCE(tasks.due_date, tasks.start_date) >= ?", start).
		Order("COALESCE(tasks.start_date, tasks.due_date) ASC, tasks.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

package repository

import (
	"time"

	"github.com/project-calendar/api/internal/models"
	"gorm.io/gorm"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Create inserts an assignment. The (task_id, user_id) composite primary
// key rejects duplicates at the storage layer, so two concurrent creates
// for the same pair resolve to one success and one gorm.ErrDuplicatedKey.
func (r *GormAssignmentRepository) Create(assignment *models.TaskAssignment) error {
	return r.db.Create(assignment).Error
}

// Find finds a specific assignment
func (r *GormAssignmentRepository) Find(taskID, userID string) (*models.TaskAssignment, error) {
	var assignment models.TaskAssignment
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListByTask lists all assignments for a task in creation order
func (r *GormAssignmentRepository) ListByTask(taskID string) ([]models.TaskAssignment, error) {
	var assignments []models.TaskAssignment
	err := r.db.
		Where("task_id = ?", taskID).
		Order("created_at ASC, user_id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// Delete removes an assignment
func (r *GormAssignmentRepository) Delete(taskID, userID string) error {
	result := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&models.TaskAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SumOverlappingHours totals the user's assigned hours on other tasks whose
// date spans overlap [start, end]. Only tasks carrying both bounds take part
// in hour accounting.
func (r *GormAssignmentRepository) SumOverlappingHours(userID, excludeTaskID string, start, end time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&models.TaskAssignment{}).
		Select("COALESCE(SUM(task_assignments.assigned_hours), 0)").
		Joins("JOIN tasks ON tasks.id = task_assignments.task_id").
		Where("task_assignments.user_id = ?", userID).
		Where("task_assignments.task_id <> ?", excludeTaskID).
		Where("tasks.start_date IS NOT NULL AND tasks.due_date IS NOT NULL").
		Where("tasks.start_date <= ? AND tasks.due_date >= ?", end, start).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

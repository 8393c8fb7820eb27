package services

import (
	"errors"
	"fmt"

	"github.com/project-calendar/api/internal/config"
	"github.com/project-calendar/api/internal/models"
	"github.com/project-calendar/api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAssignmentExists       = errors.New("assignment already exists")
	ErrAssignmentNotFound     = errors.New("assignment not found")
	ErrAssigneeNotFound       = errors.New("assigned user does not exist")
	ErrNegativeAssignedHours  = errors.New("assigned_hours must not be negative")
	ErrNotAllowedToAssign     = errors.New("only the task owner can assign other users")
	ErrCapacityExceeded       = errors.New("assignment exceeds the user's scheduled capacity")
	ErrAssignmentTaskNotFound = ErrTaskNotFound
)

// AssignmentService handles the (task, user) work-hour ledger.
type AssignmentService struct {
	assignRepo repository.AssignmentRepository
	taskRepo   repository.TaskRepository
	userRepo   repository.UserRepository
	policy     config.CapacityPolicy
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	assignRepo repository.AssignmentRepository,
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	policy config.CapacityPolicy,
) *AssignmentService {
	return &AssignmentService{
		assignRepo: assignRepo,
		taskRepo:   taskRepo,
		userRepo:   userRepo,
		policy:     policy,
	}
}

// CreateAssignmentInput represents input for creating an assignment.
type CreateAssignmentInput struct {
	ActorID       string
	TaskID        string
	UserID        string
	AssignedHours float64
}

// CreateAssignmentResult is the created assignment plus the capacity flag.
type CreateAssignmentResult struct {
	Assignment    *models.TaskAssignment
	OverAllocated bool
}

// CreateAssignment allocates hours for a user on a task. The owner may
// assign anyone; any other actor must already be assigned to the task and
// may only assign themselves. A task the actor cannot see answers not
// found. Duplicate (task, user) pairs fail as a conflict through the
// composite primary key, which also serializes concurrent duplicate
// creates at the store.
//
// When the task carries both date bounds, the target's already-assigned
// hours on overlapping tasks plus the new hours are checked against their
// windowed weekly capacity over the span. Under the warn policy an excess
// only flags the result; under enforce it is rejected.
func (s *AssignmentService) CreateAssignment(input CreateAssignmentInput) (*CreateAssignmentResult, error) {
	if input.AssignedHours < 0 {
		return nil, ErrNegativeAssignedHours
	}

	task, err := s.taskRepo.FindByID(input.TaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	targetID := input.UserID
	if targetID == "" {
		targetID = input.ActorID
	}
	if task.OwnerID != input.ActorID {
		if err := s.requireVisible(task.ID, input.ActorID); err != nil {
			return nil, err
		}
		if targetID != input.ActorID {
			return nil, ErrNotAllowedToAssign
		}
	}

	if _, err := s.userRepo.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	overAllocated, err := s.checkCapacity(task, targetID, input.AssignedHours)
	if err != nil {
		return nil, err
	}
	if overAllocated && s.policy == config.CapacityEnforce {
		return nil, ErrCapacityExceeded
	}

	assignment := &models.TaskAssignment{
		TaskID:        input.TaskID,
		UserID:        targetID,
		AssignedHours: input.AssignedHours,
	}

	if err := s.assignRepo.Create(assignment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAssignmentExists
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return &CreateAssignmentResult{
		Assignment:    assignment,
		OverAllocated: overAllocated,
	}, nil
}

// ListAssignments returns all assignments on a task, oldest first. Visible
// only to the owner and assigned users; a task outside the actor's scope
// answers not found, same as reading the task itself.
func (s *AssignmentService) ListAssignments(actorID, taskID string) ([]models.TaskAssignment, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		if err := s.requireVisible(taskID, actorID); err != nil {
			return nil, err
		}
	}

	assignments, err := s.assignRepo.ListByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return assignments, nil
}

// DeleteAssignment removes a user's allocation from a task. Owner only.
// Removing the owner's own assignment does not transfer ownership; that
// lives on the task itself.
func (s *AssignmentService) DeleteAssignment(actorID, taskID, userID string) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		return ErrNotTaskOwner
	}

	if err := s.assignRepo.Delete(taskID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	return nil
}

// requireVisible checks that the actor holds an assignment on the task.
// Actors outside a task's scope get not found, never a denial that would
// confirm the task exists.
func (s *AssignmentService) requireVisible(taskID, actorID string) error {
	if _, err := s.assignRepo.Find(taskID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to check assignment: %w", err)
	}
	return nil
}

// checkCapacity reports whether adding hours for the user over the task's
// span would exceed their windowed availability. Tasks without both date
// bounds have no span to account against and always pass.
func (s *AssignmentService) checkCapacity(task *models.Task, userID string, hours float64) (bool, error) {
	if task.StartDate == nil || task.DueDate == nil || hours == 0 {
		return false, nil
	}

	windows, err := s.userRepo.ListWorkWindows(userID)
	if err != nil {
		return false, fmt.Errorf("failed to load work schedule: %w", err)
	}

	capacity := WeeklyCapacityHours(windows, *task.StartDate, *task.DueDate)

	allocated, err := s.assignRepo.SumOverlappingHours(userID, task.ID, *task.StartDate, *task.DueDate)
	if err != nil {
		return false, fmt.Errorf("failed to sum allocated hours: %w", err)
	}

	return allocated+hours > capacity, nil
}

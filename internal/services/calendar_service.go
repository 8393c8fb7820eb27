package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/project-calendar/api/internal/models"
	"github.com/project-calendar/api/internal/repository"
)

var (
	ErrRangeRequired    = errors.New("start_date and end_date are required")
	ErrRangeInvalidDate = errors.New("dates must be in YYYY-MM-DD format")
	ErrRangeOutOfOrder  = errors.New("start_date must be earlier or equal to end_date")
)

// CalendarService answers date-range queries over the task graph.
type CalendarService struct {
	taskRepo repository.TaskRepository
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(taskRepo repository.TaskRepository) *CalendarService {
	return &CalendarService{taskRepo: taskRepo}
}

// QueryRange returns the actor's visible tasks whose date span intersects
// [startDate, endDate], both given as YYYY-MM-DD. The intersection test is
// inclusive on both ends; a task with a single bound is a one-day interval
// and a task with neither bound never appears.
func (s *CalendarService) QueryRange(actorID, startDate, endDate string) ([]models.Task, error) {
	if startDate == "" || endDate == "" {
		return nil, ErrRangeRequired
	}

	start, err := time.Parse(time.DateOnly, startDate)
	if err != nil {
		return nil, ErrRangeInvalidDate
	}
	end, err := time.Parse(time.DateOnly, endDate)
	if err != nil {
		return nil, ErrRangeInvalidDate
	}
	if start.After(end) {
		return nil, ErrRangeOutOfOrder
	}

	tasks, err := s.taskRepo.CalendarRange(actorID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar range: %w", err)
	}

	return tasks, nil
}

package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/project-calendar/api/internal/models"
	"github.com/project-calendar/api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrScheduleEmpty     = errors.New("work schedule must contain at least one window")
	ErrInvalidWeekday    = errors.New("weekday must be between 0 and 6")
	ErrInvalidTimeFormat = errors.New("start_time and end_time must be in HH:MM format")
	ErrWindowNotOrdered  = errors.New("start_time must be earlier than end_time")
	ErrWindowsOverlap    = errors.New("work windows on the same weekday must not overlap")
)

// WorkWindowInput is one weekly availability interval in a schedule request.
type WorkWindowInput struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// UserService handles user lookup and work schedule business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Search finds users matching a free-text query.
func (s *UserService) Search(query string, limit int) ([]models.User, error) {
	users, err := s.userRepo.Search(strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetWorkSchedule returns a user's work windows.
func (s *UserService) GetWorkSchedule(userID string) ([]models.WorkWindow, error) {
	if _, err := s.GetUser(userID); err != nil {
		return nil, err
	}
	windows, err := s.userRepo.ListWorkWindows(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work windows: %w", err)
	}
	return windows, nil
}

// ReplaceWorkSchedule validates and atomically replaces the user's windows.
func (s *UserService) ReplaceWorkSchedule(userID string, inputs []WorkWindowInput) ([]models.WorkWindow, error) {
	windows, err := BuildWorkWindows(inputs)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.ReplaceWorkSchedule(userID, windows); err != nil {
		return nil, fmt.Errorf("failed to replace work schedule: %w", err)
	}
	return windows, nil
}

// BuildWorkWindows validates schedule inputs and converts them to models.
// Windows on the same weekday must not overlap; times are kept as local
// "HH:MM" strings.
func BuildWorkWindows(inputs []WorkWindowInput) ([]models.WorkWindow, error) {
	if len(inputs) == 0 {
		return nil, ErrScheduleEmpty
	}

	windows := make([]models.WorkWindow, 0, len(inputs))
	for _, in := range inputs {
		if in.Weekday < 0 || in.Weekday > 6 {
			return nil, ErrInvalidWeekday
		}
		start, err := normalizeClock(in.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := normalizeClock(in.EndTime)
		if err != nil {
			return nil, err
		}
		if clockMinutes(start) >= clockMinutes(end) {
			return nil, ErrWindowNotOrdered
		}
		windows = append(windows, models.WorkWindow{
			Weekday:   in.Weekday,
			StartTime: start,
			EndTime:   end,
		})
	}

	sorted := make([]models.WorkWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Weekday != sorted[j].Weekday {
			return sorted[i].Weekday < sorted[j].Weekday
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Weekday == cur.Weekday && clockMinutes(cur.StartTime) < clockMinutes(prev.EndTime) {
			return nil, ErrWindowsOverlap
		}
	}

	return windows, nil
}

// WeeklyCapacityHours returns the hours available in the user's windows
// over the [start, end] date span, inclusive of both ends.
func WeeklyCapacityHours(windows []models.WorkWindow, start, end time.Time) float64 {
	var perWeekday [7]float64
	for _, w := range windows {
		perWeekday[w.Weekday] += float64(clockMinutes(w.EndTime)-clockMinutes(w.StartTime)) / 60
	}

	start = dateOnly(start)
	end = dateOnly(end)

	var total float64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		// time.Weekday counts from Sunday; schedules count from Monday.
		weekday := (int(d.Weekday()) + 6) % 7
		total += perWeekday[weekday]
	}
	return total
}

// normalizeClock accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM".
func normalizeClock(raw string) (string, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return "", ErrInvalidTimeFormat
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 || len(parts[0]) != 2 {
		return "", ErrInvalidTimeFormat
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 || len(parts[1]) != 2 {
		return "", ErrInvalidTimeFormat
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// clockMinutes converts a normalized "HH:MM" value to minutes since midnight.
func clockMinutes(clock string) int {
	hour, _ := strconv.Atoi(clock[:2])
	minute, _ := strconv.Atoi(clock[3:])
	return hour*60 + minute
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

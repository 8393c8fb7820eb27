package dto

import (
	"time"

	"github.com/project-calendar/api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Name        string    `json:"name,omitempty"`
	Surname     string    `json:"surname,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Telegram    string    `json:"telegram,omitempty"`
	Locale      string    `json:"locale,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkWindowDTO represents one weekly availability window
type WorkWindowDTO struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AuthResponse is the register/login payload.
type AuthResponse struct {
	Success      bool            `json:"success,omitempty"`
	Token        string          `json:"token"`
	User         UserDTO         `json:"user"`
	WorkSchedule []WorkWindowDTO `json:"work_schedule,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Name:        user.Name,
		Surname:     user.Surname,
		Phone:       user.Phone,
		Telegram:    user.Telegram,
		Locale:      user.Locale,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ToWorkWindowDTO converts a WorkWindow model
func ToWorkWindowDTO(w models.WorkWindow) WorkWindowDTO {
	return WorkWindowDTO{
		ID:        w.ID,
		UserID:    w.UserID,
		Weekday:   w.Weekday,
		StartTime: w.StartTime,
		EndTime:   w.EndTime,
	}
}

// ToWorkWindowDTOs converts a slice of work windows
func ToWorkWindowDTOs(windows []models.WorkWindow) []WorkWindowDTO {
	out := make([]WorkWindowDTO, len(windows))
	for i, w := range windows {
		out[i] = ToWorkWindowDTO(w)
	}
	return out
}

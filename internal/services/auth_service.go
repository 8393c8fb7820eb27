package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/project-calendar/api/internal/constants"
	"github.com/project-calendar/api/internal/models"
	"github.com/project-calendar/api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrEmailRequired        = errors.New("email is required")
	ErrDisplayNameRequired  = errors.New("display_name is required")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles registration and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email        string
	Password     string
	DisplayName  string
	Name         string
	Surname      string
	Phone        string
	Telegram     string
	Locale       string
	WorkSchedule []WorkWindowInput
}

// Register creates a new user along with their weekly work schedule.
// Emails are stored lower-case so lookups are case-insensitive.
func (s *AuthService) Register(input RegisterInput) (*models.User, []models.WorkWindow, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, nil, ErrEmailRequired
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, nil, ErrDisplayNameRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, nil, ErrPasswordTooShort
	}

	windows, err := BuildWorkWindows(input.WorkSchedule)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Name:         strings.TrimSpace(input.Name),
		Surname:      strings.TrimSpace(input.Surname),
		Phone:        strings.TrimSpace(input.Phone),
		Telegram:     strings.TrimSpace(input.Telegram),
		Locale:       strings.TrimSpace(input.Locale),
	}

	if err := s.userRepo.CreateWithWorkSchedule(user, windows); err != nil {
		// The unique index backstops the pre-check under concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrCreateUser) || errors.Is(err, repository.ErrCreateWorkWindow) {
			return nil, nil, ErrFailedToCreateUser
		}
		return nil, nil, fmt.Errorf("failed to complete registration: %w", err)
	}

	return user, windows, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

package repository

import (
	"errors"
	"fmt"

	"github.com/project-calendar/api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateUser is returned when creating a user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateWorkWindow is returned when creating a work window fails inside the registration transaction.
	ErrCreateWorkWindow = errors.New("user repository: create work window failed")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// CreateWithWorkSchedule creates a user and their work windows atomically.
func (r *GormUserRepository) CreateWithWorkSchedule(user *models.User, windows []models.WorkWindow) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		for i := range windows {
			windows[i].UserID = user.ID
			if err := tx.Create(&windows[i]).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateWorkWindow, err)
			}
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Search finds users matching the query on email or name fields
func (r *GormUserRepository) Search(query string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.
		Where("LOWER(email) LIKE LOWER(?) OR LOWER(display_name) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?) OR LOWER(surname) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern).
		Order("email").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListWorkWindows lists a user's work windows
func (r *GormUserRepository) ListWorkWindows(userID string) ([]models.WorkWindow, error) {
	var windows []models.WorkWindow
	err := r.db.
		Where("user_id = ?", userID).
		Order("weekday, start_time").
		Find(&windows).Error
	if err != nil {
		return nil, err
	}
	return windows, nil
}

// ReplaceWorkSchedule swaps a user's work windows in one transaction.
func (r *GormUserRepository) ReplaceWorkSchedule(userID string, windows []models.WorkWindow) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.WorkWindow{}).Error; err != nil {
			return err
		}

		for i := range windows {
			windows[i].UserID = userID
			if err := tx.Create(&windows[i]).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateWorkWindow, err)
			}
		}

		return nil
	})
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"type:uuid;primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName  string    `gorm:"type:varchar(255);not null" json:"display_name"`
	Name         string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	Surname      string    `gorm:"type:varchar(255)" json:"surname,omitempty"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Telegram     string    `gorm:"type:varchar(255)" json:"telegram,omitempty"`
	Locale       string    `gorm:"type:varchar(20)" json:"locale,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	WorkWindows []WorkWindow     `gorm:"foreignKey:UserID" json:"-"`
	OwnedTasks  []Task           `gorm:"foreignKey:OwnerID" json:"-"`
	Assignments []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkWindow is a recurring weekly availability interval. Weekday 0 is
// Monday, 6 is Sunday. Start and end are local times of day in "HH:MM"
// form; no timezone conversion is applied.
type WorkWindow struct {
	ID        string `gorm:"type:uuid;primarykey" json:"id"`
	UserID    string `gorm:"type:uuid;not null;index;uniqueIndex:idx_work_windows_user_slot" json:"user_id"`
	Weekday   int    `gorm:"not null;uniqueIndex:idx_work_windows_user_slot" json:"weekday"`
	StartTime string `gorm:"type:varchar(5);not null;uniqueIndex:idx_work_windows_user_slot" json:"start_time"`
	EndTime   string `gorm:"type:varchar(5);not null" json:"end_time"`
}

func (w *WorkWindow) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

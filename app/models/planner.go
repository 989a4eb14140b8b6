package models

import (
	"time"

	"gorm.io/gorm"
)

// Planner is a dated study plan entry.
type Planner struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Title        string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,min=1,max=200"`
	Notes        string         `gorm:"type:text" json:"notes" validate:"max=10000"`
	ScheduledFor *time.Time     `gorm:"type:timestamp;default:null;index" json:"scheduled_for,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Flashcard is a single front/back study card inside a deck.
type Flashcard struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	DeckID         uint           `gorm:"not null;index" json:"deck_id"`
	Front          string         `gorm:"type:text;not null" json:"front" validate:"required,max=10000"`
	Back           string         `gorm:"type:text;not null" json:"back" validate:"required,max=10000"`
	ReviewCount    uint           `gorm:"default:0" json:"review_count"`
	LastReviewedAt *time.Time     `gorm:"type:timestamp;default:null" json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

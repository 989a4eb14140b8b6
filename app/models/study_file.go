package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudyFile stores metadata for an uploaded study document. The binary
// itself lives on disk under the configured upload directory.
type StudyFile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"uuid"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	FileName  string         `gorm:"type:varchar(255);not null" json:"file_name" validate:"required,max=255"`
	FilePath  string         `gorm:"type:varchar(512);not null" json:"-"`
	SizeBytes int64          `gorm:"not null;default:0" json:"size_bytes"`
	MimeType  string         `gorm:"type:varchar(100)" json:"mime_type" validate:"max=100"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a public UUID when none was set.
func (f *StudyFile) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == "" {
		f.UUID = uuid.NewString()
	}
	return nil
}

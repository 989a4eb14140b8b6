package repository

import (
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
)

// studyFileRepository implements the StudyFileRepository interface
type studyFileRepository struct {
	db *gorm.DB
}

// NewStudyFileRepository creates a new study file repository instance
func NewStudyFileRepository(db *gorm.DB) StudyFileRepository {
	return &studyFileRepository{db: db}
}

// Create creates a new study file record in the database
func (r *studyFileRepository) Create(file *models.StudyFile) error {
	return r.db.Create(file).Error
}

// GetByID retrieves a study file by its ID
func (r *studyFileRepository) GetByID(id uint) (*models.StudyFile, error) {
	var file models.StudyFile
	err := r.db.First(&file, id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetByUUID retrieves a study file by its public UUID
func (r *studyFileRepository) GetByUUID(uuid string) (*models.StudyFile, error) {
	var file models.StudyFile
	err := r.db.Where("uuid = ?", uuid).First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetByUserID retrieves all study files belonging to a specific user
func (r *studyFileRepository) GetByUserID(userID uint) ([]models.StudyFile, error) {
	var files []models.StudyFile
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&files).Error
	return files, err
}

// Delete soft deletes a study file by its ID
func (r *studyFileRepository) Delete(id uint) error {
	return r.db.Delete(&models.StudyFile{}, id).Error
}

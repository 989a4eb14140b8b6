package repository

import (
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
)

// folderRepository implements the FolderRepository interface
type folderRepository struct {
	db *gorm.DB
}

// NewFolderRepository creates a new folder repository instance
func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &folderRepository{db: db}
}

// Create creates a new folder in the database
func (r *folderRepository) Create(folder *models.Folder) error {
	return r.db.Create(folder).Error
}

// GetByID retrieves a folder by its ID
func (r *folderRepository) GetByID(id uint) (*models.Folder, error) {
	var folder models.Folder
	err := r.db.First(&folder, id).Error
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

// GetByUserID retrieves all folders belonging to a specific user
func (r *folderRepository) GetByUserID(userID uint) ([]models.Folder, error) {
	var folders []models.Folder
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&folders).Error
	return folders, err
}

// Update updates an existing folder in the database
func (r *folderRepository) Update(folder *models.Folder) error {
	return r.db.Save(folder).Error
}

// Delete soft deletes a folder by its ID
func (r *folderRepository) Delete(id uint) error {
	return r.db.Delete(&models.Folder{}, id).Error
}

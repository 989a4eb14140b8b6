package repository

import (
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
)

// plannerRepository implements the PlannerRepository interface
type plannerRepository struct {
	db *gorm.DB
}

// NewPlannerRepository creates a new planner repository instance
func NewPlannerRepository(db *gorm.DB) PlannerRepository {
	return &plannerRepository{db: db}
}

// Create creates a new planner entry in the database
func (r *plannerRepository) Create(planner *models.Planner) error {
	return r.db.Create(planner).Error
}

// GetByID retrieves a planner entry by its ID
func (r *plannerRepository) GetByID(id uint) (*models.Planner, error) {
	var planner models.Planner
	err := r.db.First(&planner, id).Error
	if err != nil {
		return nil, err
	}
	return &planner, nil
}

// GetByUserID retrieves all planner entries belonging to a specific user
func (r *plannerRepository) GetByUserID(userID uint) ([]models.Planner, error) {
	var planners []models.Planner
	err := r.db.Where("user_id = ?", userID).
		Order("scheduled_for ASC").Find(&planners).Error
	return planners, err
}

// Update updates an existing planner entry in the database
func (r *plannerRepository) Update(planner *models.Planner) error {
	return r.db.Save(planner).Error
}

// Delete soft deletes a planner entry by its ID
func (r *plannerRepository) Delete(id uint) error {
	return r.db.Delete(&models.Planner{}, id).Error
}

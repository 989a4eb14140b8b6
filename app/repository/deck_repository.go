package repository

import (
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
)

// deckRepository implements the DeckRepository interface
type deckRepository struct {
	db *gorm.DB
}

// NewDeckRepository creates a new deck repository instance
func NewDeckRepository(db *gorm.DB) DeckRepository {
	return &deckRepository{db: db}
}

// Create creates a new deck in the database
func (r *deckRepository) Create(deck *models.Deck) error {
	return r.db.Create(deck).Error
}

// GetByID retrieves a deck by its ID
func (r *deckRepository) GetByID(id uint) (*models.Deck, error) {
	var deck models.Deck
	err := r.db.First(&deck, id).Error
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

// GetByUserID retrieves all decks belonging to a specific user
func (r *deckRepository) GetByUserID(userID uint) ([]models.Deck, error) {
	var decks []models.Deck
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&decks).Error
	return decks, err
}

// GetByFolderID retrieves all decks placed in a specific folder
func (r *deckRepository) GetByFolderID(folderID uint) ([]models.Deck, error) {
	var decks []models.Deck
	err := r.db.Where("folder_id = ?", folderID).
		Order("created_at DESC").Find(&decks).Error
	return decks, err
}

// Update updates an existing deck in the database
func (r *deckRepository) Update(deck *models.Deck) error {
	return r.db.Save(deck).Error
}

// Delete soft deletes a deck by its ID
func (r *deckRepository) Delete(id uint) error {
	return r.db.Delete(&models.Deck{}, id).Error
}

// CountByUserID returns the number of decks owned by a user
func (r *deckRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Deck{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

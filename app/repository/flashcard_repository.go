package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
)

// flashcardRepository implements the FlashcardRepository interface
type flashcardRepository struct {
	db *gorm.DB
}

// NewFlashcardRepository creates a new flashcard repository instance
func NewFlashcardRepository(db *gorm.DB) FlashcardRepository {
	return &flashcardRepository{db: db}
}

// Create creates a new flashcard in the database
func (r *flashcardRepository) Create(card *models.Flashcard) error {
	return r.db.Create(card).Error
}

// GetByID retrieves a flashcard by its ID
func (r *flashcardRepository) GetByID(id uint) (*models.Flashcard, error) {
	var card models.Flashcard
	err := r.db.First(&card, id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// GetByDeckID retrieves all flashcards in a deck
func (r *flashcardRepository) GetByDeckID(deckID uint) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := r.db.Where("deck_id = ?", deckID).
		Order("created_at ASC").Find(&cards).Error
	return cards, err
}

// Update updates an existing flashcard in the database
func (r *flashcardRepository) Update(card *models.Flashcard) error {
	return r.db.Save(card).Error
}

// Delete soft deletes a flashcard by its ID
func (r *flashcardRepository) Delete(id uint) error {
	return r.db.Delete(&models.Flashcard{}, id).Error
}

// CountByDeckID returns the number of flashcards in a deck
func (r *flashcardRepository) CountByDeckID(deckID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Flashcard{}).Where("deck_id = ?", deckID).Count(&count).Error
	return count, err
}

// TouchReviewed stamps the last-reviewed time for a flashcard. The review
// count itself is buffered in Redis and flushed in batch.
func (r *flashcardRepository) TouchReviewed(id uint) error {
	now := time.Now()
	return r.db.Model(&models.Flashcard{}).
		Where("id = ?", id).
		Update("last_reviewed_at", &now).Error
}

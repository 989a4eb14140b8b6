package repository

import (
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// FolderRepository defines the interface for folder-related database operations
type FolderRepository interface {
	Create(folder *models.Folder) error
	GetByID(id uint) (*models.Folder, error)
	GetByUserID(userID uint) ([]models.Folder, error)
	Update(folder *models.Folder) error
	Delete(id uint) error
}

// DeckRepository defines the interface for deck-related database operations
type DeckRepository interface {
	Create(deck *models.Deck) error
	GetByID(id uint) (*models.Deck, error)
	GetByUserID(userID uint) ([]models.Deck, error)
	GetByFolderID(folderID uint) ([]models.Deck, error)
	Update(deck *models.Deck) error
	Delete(id uint) error
	CountByUserID(userID uint) (int64, error)
}

// FlashcardRepository defines the interface for flashcard-related database operations
type FlashcardRepository interface {
	Create(card *models.Flashcard) error
	GetByID(id uint) (*models.Flashcard, error)
	GetByDeckID(deckID uint) ([]models.Flashcard, error)
	Update(card *models.Flashcard) error
	Delete(id uint) error
	CountByDeckID(deckID uint) (int64, error)
	TouchReviewed(id uint) error
}

// PlannerRepository defines the interface for planner-related database operations
type PlannerRepository interface {
	Create(planner *models.Planner) error
	GetByID(id uint) (*models.Planner, error)
	GetByUserID(userID uint) ([]models.Planner, error)
	Update(planner *models.Planner) error
	Delete(id uint) error
}

// StudyFileRepository defines the interface for study file metadata operations
type StudyFileRepository interface {
	Create(file *models.StudyFile) error
	GetByID(id uint) (*models.StudyFile, error)
	GetByUUID(uuid string) (*models.StudyFile, error)
	GetByUserID(userID uint) ([]models.StudyFile, error)
	Delete(id uint) error
}

// Repositories bundles all repository implementations
type Repositories struct {
	User      UserRepository
	Folder    FolderRepository
	Deck      DeckRepository
	Flashcard FlashcardRepository
	Planner   PlannerRepository
	StudyFile StudyFileRepository
}

// NewRepositories creates all repositories backed by the given DB handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Folder:    NewFolderRepository(db),
		Deck:      NewDeckRepository(db),
		Flashcard: NewFlashcardRepository(db),
		Planner:   NewPlannerRepository(db),
		StudyFile: NewStudyFileRepository(db),
	}
}

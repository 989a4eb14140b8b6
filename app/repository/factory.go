package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetUserRepository returns the user repository instance
func (f *Factory) GetUserRepository() UserRepository {
	return f.GetRepositories().User
}

// GetFolderRepository returns the folder repository instance
func (f *Factory) GetFolderRepository() FolderRepository {
	return f.GetRepositories().Folder
}

// GetDeckRepository returns the deck repository instance
func (f *Factory) GetDeckRepository() DeckRepository {
	return f.GetRepositories().Deck
}

// GetFlashcardRepository returns the flashcard repository instance
func (f *Factory) GetFlashcardRepository() FlashcardRepository {
	return f.GetRepositories().Flashcard
}

// GetPlannerRepository returns the planner repository instance
func (f *Factory) GetPlannerRepository() PlannerRepository {
	return f.GetRepositories().Planner
}

// GetStudyFileRepository returns the study file repository instance
func (f *Factory) GetStudyFileRepository() StudyFileRepository {
	return f.GetRepositories().StudyFile
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory
func GetGlobalFactory() *Factory {
	return globalFactory
}

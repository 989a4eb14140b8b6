package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
	"github.com/medrecall/MedRecall/app/repository"
	"github.com/medrecall/MedRecall/internal/pkg/entitlements"
	"github.com/medrecall/MedRecall/internal/pkg/usercontext"
)

type deckRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FolderID    *uint  `json:"folder_id"`
}

// HandleListDecks returns all decks of the authenticated user.
func HandleListDecks(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	decks, err := repository.GetGlobalFactory().GetDeckRepository().GetByUserID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load decks")
	}
	return c.JSON(fiber.Map{"decks": decks})
}

// HandleGetDeck returns one deck with its flashcards.
func HandleGetDeck(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid deck id")
	}

	deck, err := loadOwnedDeck(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Deck not found")
		}
		return internalError(c, "Failed to load deck")
	}

	cards, err := repository.GetGlobalFactory().GetFlashcardRepository().GetByDeckID(deck.ID)
	if err != nil {
		return internalError(c, "Failed to load flashcards")
	}

	return c.JSON(fiber.Map{"deck": deck, "flashcards": cards})
}

// HandleCreateDeck creates a deck, enforcing the free-plan deck cap.
func HandleCreateDeck(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req deckRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest(c, "Deck name is required")
	}

	factory := repository.GetGlobalFactory()

	count, err := factory.GetDeckRepository().CountByUserID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to check deck limit")
	}
	if !entitlements.WithinLimit(count, entitlements.MaxDecks(userCtx.SubscriptionStatus)) {
		return jsonError(c, fiber.StatusForbidden, "limit_reached", "Deck limit reached, upgrade to create more decks")
	}

	if req.FolderID != nil {
		if _, err := loadOwnedFolder(*req.FolderID, userCtx.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "Folder not found")
			}
			return internalError(c, "Failed to load folder")
		}
	}

	deck := &models.Deck{
		UserID:      userCtx.UserID,
		FolderID:    req.FolderID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := factory.GetDeckRepository().Create(deck); err != nil {
		return internalError(c, "Failed to create deck")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"deck": deck})
}

// HandleUpdateDeck updates name, description or folder placement.
func HandleUpdateDeck(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid deck id")
	}

	deck, err := loadOwnedDeck(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Deck not found")
		}
		return internalError(c, "Failed to load deck")
	}

	var req deckRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		deck.Name = name
	}
	deck.Description = strings.TrimSpace(req.Description)
	if req.FolderID != nil {
		if _, err := loadOwnedFolder(*req.FolderID, userCtx.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound(c, "Folder not found")
			}
			return internalError(c, "Failed to load folder")
		}
	}
	deck.FolderID = req.FolderID

	if err := repository.GetGlobalFactory().GetDeckRepository().Update(deck); err != nil {
		return internalError(c, "Failed to update deck")
	}
	return c.JSON(fiber.Map{"deck": deck})
}

// HandleDeleteDeck removes a deck and its flashcards.
func HandleDeleteDeck(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid deck id")
	}

	deck, err := loadOwnedDeck(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Deck not found")
		}
		return internalError(c, "Failed to load deck")
	}

	factory := repository.GetGlobalFactory()
	cards, err := factory.GetFlashcardRepository().GetByDeckID(deck.ID)
	if err != nil {
		return internalError(c, "Failed to load flashcards")
	}
	for i := range cards {
		if err := factory.GetFlashcardRepository().Delete(cards[i].ID); err != nil {
			return internalError(c, "Failed to delete flashcards")
		}
	}

	if err := factory.GetDeckRepository().Delete(deck.ID); err != nil {
		return internalError(c, "Failed to delete deck")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func loadOwnedDeck(id uint, userID uint) (*models.Deck, error) {
	deck, err := repository.GetGlobalFactory().GetDeckRepository().GetByID(id)
	if err != nil {
		return nil, err
	}
	if deck.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return deck, nil
}

package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	flog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
	"github.com/medrecall/MedRecall/app/repository"
	"github.com/medrecall/MedRecall/internal/pkg/entitlements"
	"github.com/medrecall/MedRecall/internal/pkg/metrics/counter"
	"github.com/medrecall/MedRecall/internal/pkg/usercontext"
)

type flashcardRequest struct {
	DeckID uint   `json:"deck_id"`
	Front  string `json:"front"`
	Back   string `json:"back"`
}

// HandleCreateFlashcard adds a card to one of the user's decks, enforcing
// the free-plan per-deck card cap.
func HandleCreateFlashcard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req flashcardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	front := strings.TrimSpace(req.Front)
	back := strings.TrimSpace(req.Back)
	if req.DeckID == 0 || front == "" || back == "" {
		return badRequest(c, "Deck id, front and back are required")
	}

	deck, err := loadOwnedDeck(req.DeckID, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Deck not found")
		}
		return internalError(c, "Failed to load deck")
	}

	factory := repository.GetGlobalFactory()
	count, err := factory.GetFlashcardRepository().CountByDeckID(deck.ID)
	if err != nil {
		return internalError(c, "Failed to check flashcard limit")
	}
	if !entitlements.WithinLimit(count, entitlements.MaxFlashcardsPerDeck(userCtx.SubscriptionStatus)) {
		return jsonError(c, fiber.StatusForbidden, "limit_reached", "Flashcard limit reached for this deck, upgrade to add more")
	}

	card := &models.Flashcard{
		UserID: userCtx.UserID,
		DeckID: deck.ID,
		Front:  front,
		Back:   back,
	}
	if err := factory.GetFlashcardRepository().Create(card); err != nil {
		return internalError(c, "Failed to create flashcard")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"flashcard": card})
}

// HandleUpdateFlashcard edits a card's front and back text.
func HandleUpdateFlashcard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid flashcard id")
	}

	card, err := loadOwnedFlashcard(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Flashcard not found")
		}
		return internalError(c, "Failed to load flashcard")
	}

	var req flashcardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if front := strings.TrimSpace(req.Front); front != "" {
		card.Front = front
	}
	if back := strings.TrimSpace(req.Back); back != "" {
		card.Back = back
	}

	if err := repository.GetGlobalFactory().GetFlashcardRepository().Update(card); err != nil {
		return internalError(c, "Failed to update flashcard")
	}
	return c.JSON(fiber.Map{"flashcard": card})
}

// HandleDeleteFlashcard removes a card.
func HandleDeleteFlashcard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid flashcard id")
	}

	card, err := loadOwnedFlashcard(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Flashcard not found")
		}
		return internalError(c, "Failed to load flashcard")
	}

	if err := repository.GetGlobalFactory().GetFlashcardRepository().Delete(card.ID); err != nil {
		return internalError(c, "Failed to delete flashcard")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleReviewFlashcard records one study review. The review count is
// buffered in Redis and flushed to the database in batches; only the
// last-reviewed stamp is written synchronously.
func HandleReviewFlashcard(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid flashcard id")
	}

	card, err := loadOwnedFlashcard(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Flashcard not found")
		}
		return internalError(c, "Failed to load flashcard")
	}

	if err := counter.AddFlashcardReview(card.ID); err != nil {
		flog.Warnf("review: buffering count for flashcard %d failed: %v", card.ID, err)
	}
	if err := repository.GetGlobalFactory().GetFlashcardRepository().TouchReviewed(card.ID); err != nil {
		return internalError(c, "Failed to record review")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func loadOwnedFlashcard(id uint, userID uint) (*models.Flashcard, error) {
	card, err := repository.GetGlobalFactory().GetFlashcardRepository().GetByID(id)
	if err != nil {
		return nil, err
	}
	if card.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return card, nil
}

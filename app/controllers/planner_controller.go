package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
	"github.com/medrecall/MedRecall/app/repository"
	"github.com/medrecall/MedRecall/internal/pkg/usercontext"
)

type plannerRequest struct {
	Title        string     `json:"title"`
	Notes        string     `json:"notes"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

// HandleListPlanners returns the user's study plan entries ordered by date.
func HandleListPlanners(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	planners, err := repository.GetGlobalFactory().GetPlannerRepository().GetByUserID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load planner entries")
	}
	return c.JSON(fiber.Map{"planners": planners})
}

// HandleCreatePlanner creates a study plan entry.
func HandleCreatePlanner(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req plannerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return badRequest(c, "Title is required")
	}

	planner := &models.Planner{
		UserID:       userCtx.UserID,
		Title:        title,
		Notes:        strings.TrimSpace(req.Notes),
		ScheduledFor: req.ScheduledFor,
	}
	if err := repository.GetGlobalFactory().GetPlannerRepository().Create(planner); err != nil {
		return internalError(c, "Failed to create planner entry")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"planner": planner})
}

// HandleUpdatePlanner edits a study plan entry.
func HandleUpdatePlanner(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid planner id")
	}

	planner, err := loadOwnedPlanner(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Planner entry not found")
		}
		return internalError(c, "Failed to load planner entry")
	}

	var req plannerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		planner.Title = title
	}
	planner.Notes = strings.TrimSpace(req.Notes)
	planner.ScheduledFor = req.ScheduledFor

	if err := repository.GetGlobalFactory().GetPlannerRepository().Update(planner); err != nil {
		return internalError(c, "Failed to update planner entry")
	}
	return c.JSON(fiber.Map{"planner": planner})
}

// HandleDeletePlanner removes a study plan entry.
func HandleDeletePlanner(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid planner id")
	}

	planner, err := loadOwnedPlanner(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Planner entry not found")
		}
		return internalError(c, "Failed to load planner entry")
	}

	if err := repository.GetGlobalFactory().GetPlannerRepository().Delete(planner.ID); err != nil {
		return internalError(c, "Failed to delete planner entry")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func loadOwnedPlanner(id uint, userID uint) (*models.Planner, error) {
	planner, err := repository.GetGlobalFactory().GetPlannerRepository().GetByID(id)
	if err != nil {
		return nil, err
	}
	if planner.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return planner, nil
}

package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
	"github.com/medrecall/MedRecall/app/repository"
	"github.com/medrecall/MedRecall/internal/pkg/usercontext"
)

type folderRequest struct {
	Name string `json:"name"`
}

// HandleListFolders returns all folders of the authenticated user.
func HandleListFolders(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	folders, err := repository.GetGlobalFactory().GetFolderRepository().GetByUserID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load folders")
	}
	return c.JSON(fiber.Map{"folders": folders})
}

// HandleGetFolder returns one folder with the decks placed in it.
func HandleGetFolder(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid folder id")
	}

	folder, err := loadOwnedFolder(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Folder not found")
		}
		return internalError(c, "Failed to load folder")
	}

	decks, err := repository.GetGlobalFactory().GetDeckRepository().GetByFolderID(folder.ID)
	if err != nil {
		return internalError(c, "Failed to load decks")
	}

	return c.JSON(fiber.Map{"folder": folder, "decks": decks})
}

// HandleCreateFolder creates a folder for the authenticated user.
func HandleCreateFolder(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req folderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest(c, "Folder name is required")
	}

	folder := &models.Folder{UserID: userCtx.UserID, Name: name}
	if err := repository.GetGlobalFactory().GetFolderRepository().Create(folder); err != nil {
		return internalError(c, "Failed to create folder")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"folder": folder})
}

// HandleUpdateFolder renames a folder.
func HandleUpdateFolder(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid folder id")
	}

	folder, err := loadOwnedFolder(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Folder not found")
		}
		return internalError(c, "Failed to load folder")
	}

	var req folderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return badRequest(c, "Folder name is required")
	}

	folder.Name = name
	if err := repository.GetGlobalFactory().GetFolderRepository().Update(folder); err != nil {
		return internalError(c, "Failed to update folder")
	}
	return c.JSON(fiber.Map{"folder": folder})
}

// HandleDeleteFolder removes a folder. Decks inside it are kept and simply
// become unfiled.
func HandleDeleteFolder(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid folder id")
	}

	folder, err := loadOwnedFolder(id, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "Folder not found")
		}
		return internalError(c, "Failed to load folder")
	}

	factory := repository.GetGlobalFactory()
	decks, err := factory.GetDeckRepository().GetByFolderID(folder.ID)
	if err != nil {
		return internalError(c, "Failed to load decks")
	}
	for i := range decks {
		decks[i].FolderID = nil
		if err := factory.GetDeckRepository().Update(&decks[i]); err != nil {
			return internalError(c, "Failed to unfile decks")
		}
	}

	if err := factory.GetFolderRepository().Delete(folder.ID); err != nil {
		return internalError(c, "Failed to delete folder")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// loadOwnedFolder fetches a folder and enforces ownership. Foreign folders
// answer as not found so ids cannot be probed.
func loadOwnedFolder(id uint, userID uint) (*models.Folder, error) {
	folder, err := repository.GetGlobalFactory().GetFolderRepository().GetByID(id)
	if err != nil {
		return nil, err
	}
	if folder.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return folder, nil
}

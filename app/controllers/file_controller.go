package controllers

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	flog "github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
	"github.com/medrecall/MedRecall/app/repository"
	"github.com/medrecall/MedRecall/internal/pkg/env"
	"github.com/medrecall/MedRecall/internal/pkg/usercontext"
)

// maxStudyFileBytes caps a single upload at 25 MB.
const maxStudyFileBytes = 25 << 20

func uploadDir() string {
	return env.GetEnv("UPLOAD_DIR", "./uploads")
}

// HandleListFiles returns metadata for the user's uploaded study files.
func HandleListFiles(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	files, err := repository.GetGlobalFactory().GetStudyFileRepository().GetByUserID(userCtx.UserID)
	if err != nil {
		return internalError(c, "Failed to load files")
	}
	return c.JSON(fiber.Map{"files": files})
}

// HandleUploadFile stores one study document on disk and records its
// metadata. The stored name is the record UUID so disk names never collide
// or leak the original filename.
func HandleUploadFile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "A file form field is required")
	}
	if fileHeader.Size <= 0 {
		return badRequest(c, "Uploaded file is empty")
	}
	if fileHeader.Size > maxStudyFileBytes {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "too_large", "File exceeds the upload size limit")
	}

	dir := uploadDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		flog.Errorf("upload: creating directory %s failed: %v", dir, err)
		return internalError(c, "Failed to store file")
	}

	id := uuid.NewString()
	storedPath := filepath.Join(dir, id+filepath.Ext(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, storedPath); err != nil {
		flog.Errorf("upload: saving file failed: %v", err)
		return internalError(c, "Failed to store file")
	}

	file := &models.StudyFile{
		UUID:      id,
		UserID:    userCtx.UserID,
		FileName:  filepath.Base(fileHeader.Filename),
		FilePath:  storedPath,
		SizeBytes: fileHeader.Size,
		MimeType:  fileHeader.Header.Get("Content-Type"),
	}
	if err := repository.GetGlobalFactory().GetStudyFileRepository().Create(file); err != nil {
		// The metadata row is the source of truth; without it the blob
		// is unreachable, so clean it up.
		_ = os.Remove(storedPath)
		return internalError(c, "Failed to record file")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"file": file})
}

// HandleDownloadFile streams a stored study document back to its owner.
func HandleDownloadFile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	file, err := loadOwnedFile(c.Params("uuid"), userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "File not found")
		}
		return internalError(c, "Failed to load file")
	}

	return c.Download(file.FilePath, file.FileName)
}

// HandleDeleteFile removes a study document and its metadata.
func HandleDeleteFile(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	file, err := loadOwnedFile(c.Params("uuid"), userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "File not found")
		}
		return internalError(c, "Failed to load file")
	}

	if err := repository.GetGlobalFactory().GetStudyFileRepository().Delete(file.ID); err != nil {
		return internalError(c, "Failed to delete file")
	}
	if err := os.Remove(file.FilePath); err != nil && !os.IsNotExist(err) {
		flog.Warnf("delete: removing blob for file %s failed: %v", file.UUID, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func loadOwnedFile(uuidParam string, userID uint) (*models.StudyFile, error) {
	if uuidParam == "" {
		return nil, gorm.ErrRecordNotFound
	}
	file, err := repository.GetGlobalFactory().GetStudyFileRepository().GetByUUID(uuidParam)
	if err != nil {
		return nil, err
	}
	if file.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return file, nil
}

package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	flog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
	"github.com/medrecall/MedRecall/app/repository"
	"github.com/medrecall/MedRecall/internal/pkg/jwt"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a new account with an inactive subscription and
// returns a signed token so the client is logged in right away.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}
	if len(req.Password) < 8 {
		return badRequest(c, "Password must be at least 8 characters")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if _, err := repo.GetByEmail(email); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return internalError(c, "Failed to check existing account")
	}

	user, err := models.CreateUser(email, req.Password)
	if err != nil {
		return badRequest(c, "Invalid email or password")
	}

	if err := repo.Create(user); err != nil {
		flog.Errorf("register: create user failed: %v", err)
		return internalError(c, "Failed to create account")
	}

	token, err := jwt.Issue(user.ID, user.Email)
	if err != nil {
		flog.Errorf("register: token issue failed: %v", err)
		return internalError(c, "Failed to issue token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":                  user.ID,
			"email":               user.Email,
			"subscription_status": user.SubscriptionStatus,
		},
	})
}

// HandleLogin checks credentials and returns a signed token. An unknown
// email and a wrong password answer differently on purpose, matching the
// client's error handling.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "No account with that email")
		}
		return internalError(c, "Failed to load account")
	}

	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Wrong password")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repo.Update(user); err != nil {
		flog.Warnf("login: updating last login for user %d failed: %v", user.ID, err)
	}

	token, err := jwt.Issue(user.ID, user.Email)
	if err != nil {
		flog.Errorf("login: token issue failed: %v", err)
		return internalError(c, "Failed to issue token")
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":                  user.ID,
			"email":               user.Email,
			"subscription_status": user.SubscriptionStatus,
		},
	})
}

package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	flog "github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/internal/pkg/cache"
	"github.com/medrecall/MedRecall/internal/pkg/database"
	"github.com/medrecall/MedRecall/internal/pkg/mercadopago"
	"github.com/medrecall/MedRecall/internal/pkg/subscription"
	"github.com/medrecall/MedRecall/internal/pkg/usercontext"
)

// subscriptionStatusTTL bounds how stale a cached status answer may be.
// Activation via webhook shows up within this window at the latest.
const subscriptionStatusTTL = 30 * time.Second

type createPaymentRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// HandleCreatePayment creates a PIX payment at the provider for the
// authenticated user. The user's identity travels in the payment metadata
// so the later webhook can resolve who paid.
func HandleCreatePayment(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Amount <= 0 {
		return badRequest(c, "Amount must be positive")
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "MedRecall subscription"
	}

	client := mercadopago.NewClientFromEnv()
	payment, err := client.CreatePayment(c.UserContext(), mercadopago.CreatePaymentInput{
		Amount:      req.Amount,
		Description: description,
		PayerEmail:  userCtx.Email,
		UserID:      userCtx.UserID,
	})
	if err != nil {
		var fe *mercadopago.FetchError
		if errors.As(err, &fe) {
			flog.Warnf("payment: provider rejected create for user %d: %v", userCtx.UserID, fe)
			return jsonError(c, fiber.StatusBadGateway, "provider_error", "Payment provider rejected the request")
		}
		flog.Errorf("payment: create for user %d failed: %v", userCtx.UserID, err)
		return internalError(c, "Failed to create payment")
	}

	tx := payment.PointOfInteraction.TransactionData
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment": fiber.Map{
			"id":             payment.ID.String(),
			"status":         payment.Status,
			"qr_code":        tx.QRCode,
			"qr_code_base64": tx.QRCodeBase64,
			"ticket_url":     tx.TicketURL,
		},
	})
}

// HandleSubscriptionStatus returns the user's current subscription state.
// Answers are cached briefly in Redis since clients poll this endpoint
// while waiting for a payment to settle.
func HandleSubscriptionStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	cacheKey := fmt.Sprintf("subscription:status:%d", userCtx.UserID)

	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	svc := subscription.NewServiceFromDB(database.GetDB())
	status, err := svc.GetStatus(c.UserContext(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load subscription status")
	}

	body, err := json.Marshal(status)
	if err != nil {
		return internalError(c, "Failed to encode subscription status")
	}
	if err := cache.Set(cacheKey, string(body), subscriptionStatusTTL); err != nil {
		flog.Warnf("subscription: caching status for user %d failed: %v", userCtx.UserID, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

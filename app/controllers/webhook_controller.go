package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	flog "github.com/gofiber/fiber/v2/log"

	"github.com/medrecall/MedRecall/app/models"
	"github.com/medrecall/MedRecall/internal/pkg/database"
	"github.com/medrecall/MedRecall/internal/pkg/mercadopago"
	"github.com/medrecall/MedRecall/internal/pkg/subscription"
)

// webhookTimeout bounds one reconciliation pass, provider fetch included.
const webhookTimeout = 15 * time.Second

// HandleMercadoPagoWebhook receives payment notifications and runs them
// through the reconciler. Every outcome acknowledges with 200 except a
// store fault: only a failed activation write should make the provider
// redeliver.
func HandleMercadoPagoWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	svc := subscription.NewServiceFromDB(database.GetDB())

	notification, parseErr := mercadopago.ParseWebhookNotification(payload)
	if parseErr != nil {
		// Malformed payloads are acknowledged; redelivering the same
		// bytes cannot ever succeed.
		flog.Warnf("webhook: unparseable payload: %v", parseErr)
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), webhookTimeout)
	defer cancel()

	// Audit first so a delivery that later faults still leaves a trace.
	// A failed audit write never blocks reconciliation.
	event := &models.PaymentWebhookEvent{
		Provider:    models.PaymentProviderMercadoPago,
		EventKind:   notification.Kind,
		PaymentID:   notification.PaymentID,
		PayloadJSON: string(payload),
	}
	if err := svc.RecordWebhookEvent(ctx, event); err != nil {
		flog.Warnf("webhook: recording delivery failed: %v", err)
		event = nil
	}

	reconciler := subscription.NewReconciler(mercadopago.NewClientFromEnv(), svc)
	outcome, err := reconciler.Handle(ctx, notification)

	if event != nil {
		if markErr := svc.MarkWebhookProcessed(ctx, event.ID, outcome, err); markErr != nil {
			flog.Warnf("webhook: marking delivery %d processed failed: %v", event.ID, markErr)
		}
	}

	if err != nil {
		flog.Errorf("webhook: payment=%s kind=%s activation write failed: %v", notification.PaymentID, notification.Kind, err)
		return internalError(c, "Failed to apply payment")
	}

	flog.Infof("webhook: payment=%s kind=%s outcome=%s", notification.PaymentID, notification.Kind, outcome)
	return c.JSON(fiber.Map{"status": "ok", "outcome": string(outcome)})
}

package subscription

import (
	"context"
	"strconv"
	"strings"

	flog "github.com/gofiber/fiber/v2/log"

	"github.com/medrecall/MedRecall/internal/pkg/mercadopago"
)

// PaymentFetcher resolves a notification's payment ID to the authoritative
// payment record at the provider.
type PaymentFetcher interface {
	FetchPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error)
}

// Outcome classifies how a notification was consumed. Every outcome except
// a store fault is acknowledged as success to the provider, so that
// redelivery only happens when the state change genuinely did not happen.
type Outcome string

const (
	OutcomeIgnoredKind      Outcome = "ignored_kind"
	OutcomeMissingPaymentID Outcome = "missing_payment_id"
	OutcomeFetchFailed      Outcome = "fetch_failed"
	OutcomeNotApproved      Outcome = "not_approved"
	OutcomeNoTarget         Outcome = "no_target"
	OutcomeActivated        Outcome = "activated"
	OutcomeNoRowsAffected   Outcome = "no_rows_affected"
	OutcomeStoreFault       Outcome = "store_fault"
)

// Reconciler turns untrusted payment notifications into idempotent
// subscription activations.
type Reconciler struct {
	gateway PaymentFetcher
	svc     *Service
}

// NewReconciler wires a reconciler from its two collaborators.
func NewReconciler(gateway PaymentFetcher, svc *Service) *Reconciler {
	return &Reconciler{gateway: gateway, svc: svc}
}

// Handle runs one notification through classify, verify, gate, resolve and
// activate. The returned error is non-nil only for store faults; the caller
// maps that single case to a failure acknowledgment.
func (r *Reconciler) Handle(ctx context.Context, n mercadopago.WebhookNotification) (Outcome, error) {
	if !n.IsPaymentEvent() {
		return OutcomeIgnoredKind, nil
	}

	if strings.TrimSpace(n.PaymentID) == "" {
		flog.Warnf("webhook kind=%s carried no payment id", n.Kind)
		return OutcomeMissingPaymentID, nil
	}

	// The notification is untrusted and minimal; fetch the payment back
	// from the provider before acting on it. A fetch failure is
	// acknowledged as success to stop the provider redelivering forever.
	payment, err := r.gateway.FetchPayment(ctx, n.PaymentID)
	if err != nil {
		flog.Warnf("webhook payment=%s kind=%s fetch failed: %v", n.PaymentID, n.Kind, err)
		return OutcomeFetchFailed, nil
	}

	if !payment.IsApproved() {
		return OutcomeNotApproved, nil
	}

	userID, email := resolveTarget(payment)
	if userID == 0 && email == "" {
		// Metadata was not attached at payment creation; an operational
		// gap, not a system fault.
		flog.Warnf("webhook payment=%s approved but carries no user_id or email", n.PaymentID)
		return OutcomeNoTarget, nil
	}

	var rows int64
	if userID != 0 {
		rows, err = r.svc.ActivateByUserID(ctx, userID)
	} else {
		rows, err = r.svc.ActivateByEmail(ctx, email)
	}
	if err != nil {
		return OutcomeStoreFault, err
	}

	if rows == 0 {
		flog.Warnf("webhook payment=%s activation matched no user (user_id=%d email=%q)", n.PaymentID, userID, email)
		return OutcomeNoRowsAffected, nil
	}
	return OutcomeActivated, nil
}

// resolveTarget derives the activation target from the payment record.
// Priority: metadata.user_id, then metadata.email, then payer.email, then
// the nested additional-info payer email. A user ID always wins over an
// email.
func resolveTarget(p *mercadopago.Payment) (uint, string) {
	if raw := p.Metadata.UserID.String(); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			return uint(id), ""
		}
		flog.Warnf("payment %s metadata.user_id %q is not numeric, falling back to email", p.ID, raw)
	}
	for _, email := range []string{
		p.Metadata.Email,
		p.Payer.Email,
		p.AdditionalInfo.Payer.Email,
	} {
		if e := strings.TrimSpace(email); e != "" {
			return 0, e
		}
	}
	return 0, ""
}

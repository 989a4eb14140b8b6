package subscription

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/medrecall/MedRecall/app/models"
	"github.com/medrecall/MedRecall/internal/pkg/mercadopago"
)

type fakeGateway struct {
	payment *mercadopago.Payment
	err     error
	calls   int
	lastID  string
}

func (g *fakeGateway) FetchPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error) {
	g.calls++
	g.lastID = paymentID
	if g.err != nil {
		return nil, g.err
	}
	return g.payment, nil
}

type fakeRepo struct {
	activateIDCalls    []uint
	activateEmailCalls []string
	lastEndDate        time.Time
	rows               int64
	err                error
}

func (r *fakeRepo) ActivateByUserID(userID uint, endDate time.Time) (int64, error) {
	r.activateIDCalls = append(r.activateIDCalls, userID)
	r.lastEndDate = endDate
	return r.rows, r.err
}

func (r *fakeRepo) ActivateByEmail(email string, endDate time.Time) (int64, error) {
	r.activateEmailCalls = append(r.activateEmailCalls, email)
	r.lastEndDate = endDate
	return r.rows, r.err
}

func (r *fakeRepo) GetUser(userID uint) (*models.User, error) { return nil, errors.New("not used") }

func (r *fakeRepo) DowngradeExpired(now time.Time) (int64, error) { return 0, nil }

func (r *fakeRepo) CreateWebhookEvent(event *models.PaymentWebhookEvent) error { return nil }

func (r *fakeRepo) MarkWebhookEventProcessed(id uint, outcome, processingError string) error {
	return nil
}

func newTestReconciler(gw *fakeGateway, repo *fakeRepo) *Reconciler {
	svc := NewService(repo)
	return NewReconciler(gw, svc)
}

func approvedPayment(userID, metaEmail, payerEmail, nestedEmail string) *mercadopago.Payment {
	p := &mercadopago.Payment{Status: "approved"}
	p.Metadata.UserID = mercadopago.FlexibleID(userID)
	p.Metadata.Email = metaEmail
	p.Payer.Email = payerEmail
	p.AdditionalInfo.Payer.Email = nestedEmail
	return p
}

func TestHandleIgnoresUnrelatedKind(t *testing.T) {
	gw := &fakeGateway{}
	repo := &fakeRepo{rows: 1}
	r := newTestReconciler(gw, repo)

	out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "refund", PaymentID: "PAY9"})
	if err != nil || out != OutcomeIgnoredKind {
		t.Fatalf("expected ignored_kind, got %q err=%v", out, err)
	}
	if gw.calls != 0 {
		t.Fatalf("no gateway call expected for unrelated kind")
	}
	if len(repo.activateIDCalls) != 0 || len(repo.activateEmailCalls) != 0 {
		t.Fatalf("no store write expected for unrelated kind")
	}
}

func TestHandleMissingPaymentID(t *testing.T) {
	gw := &fakeGateway{}
	r := newTestReconciler(gw, &fakeRepo{rows: 1})

	out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "payment"})
	if err != nil || out != OutcomeMissingPaymentID {
		t.Fatalf("expected missing_payment_id, got %q err=%v", out, err)
	}
	if gw.calls != 0 {
		t.Fatalf("no gateway call expected without a payment id")
	}
}

func TestHandleFetchFailureAcknowledges(t *testing.T) {
	gw := &fakeGateway{err: &mercadopago.FetchError{StatusCode: http.StatusNotFound, Body: "not found"}}
	repo := &fakeRepo{rows: 1}
	r := newTestReconciler(gw, repo)

	out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "payment", PaymentID: "PAY3"})
	if err != nil {
		t.Fatalf("fetch failure must not surface an error, got %v", err)
	}
	if out != OutcomeFetchFailed {
		t.Fatalf("expected fetch_failed, got %q", out)
	}
	if len(repo.activateIDCalls) != 0 || len(repo.activateEmailCalls) != 0 {
		t.Fatalf("no store write expected after fetch failure")
	}
}

func TestHandleNotApproved(t *testing.T) {
	p := &mercadopago.Payment{Status: "pending"}
	gw := &fakeGateway{payment: p}
	repo := &fakeRepo{rows: 1}
	r := newTestReconciler(gw, repo)

	out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "payment.updated", PaymentID: "PAY2"})
	if err != nil || out != OutcomeNotApproved {
		t.Fatalf("expected not_approved, got %q err=%v", out, err)
	}
	if len(repo.activateIDCalls) != 0 || len(repo.activateEmailCalls) != 0 {
		t.Fatalf("no store write expected for unapproved payment")
	}
}

func TestHandleApprovedActivatesByUserID(t *testing.T) {
	gw := &fakeGateway{payment: approvedPayment("42", "", "", "")}
	repo := &fakeRepo{rows: 1}
	r := newTestReconciler(gw, repo)

	out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "payment", PaymentID: "PAY1"})
	if err != nil || out != OutcomeActivated {
		t.Fatalf("expected activated, got %q err=%v", out, err)
	}
	if gw.lastID != "PAY1" {
		t.Fatalf("expected gateway fetch for PAY1, got %q", gw.lastID)
	}
	if len(repo.activateIDCalls) != 1 || repo.activateIDCalls[0] != 42 {
		t.Fatalf("expected ActivateByUserID(42), got %v", repo.activateIDCalls)
	}
	if len(repo.activateEmailCalls) != 0 {
		t.Fatalf("no email activation expected when user id resolves")
	}
}

func TestHandleUserIDWinsOverEmail(t *testing.T) {
	gw := &fakeGateway{payment: approvedPayment("7", "meta@example.com", "payer@example.com", "nested@example.com")}
	repo := &fakeRepo{rows: 1}
	r := newTestReconciler(gw, repo)

	out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "payment", PaymentID: "PAY5"})
	if err != nil || out != OutcomeActivated {
		t.Fatalf("expected activated, got %q err=%v", out, err)
	}
	if len(repo.activateIDCalls) != 1 || len(repo.activateEmailCalls) != 0 {
		t.Fatalf("user id must take priority over email: %v / %v", repo.activateIDCalls, repo.activateEmailCalls)
	}
}

func TestHandleEmailPriorityOrder(t *testing.T) {
	tests := []struct {
		name    string
		payment *mercadopago.Payment
		want    string
	}{
		{"metadata email first", approvedPayment("", "meta@example.com", "payer@example.com", "nested@example.com"), "meta@example.com"},
		{"payer email second", approvedPayment("", "", "payer@example.com", "nested@example.com"), "payer@example.com"},
		{"nested email last", approvedPayment("", "", "", "nested@example.com"), "nested@example.com"},
	}

	for _, tt := range tests {
		gw := &fakeGateway{payment: tt.payment}
		repo := &fakeRepo{rows: 1}
		r := newTestReconciler(gw, repo)

		out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "payment", PaymentID: "P"})
		if err != nil || out != OutcomeActivated {
			t.Fatalf("%s: expected activated, got %q err=%v", tt.name, out, err)
		}
		if len(repo.activateEmailCalls) != 1 || repo.activateEmailCalls[0] != tt.want {
			t.Fatalf("%s: expected activation for %q, got %v", tt.name, tt.want, repo.activateEmailCalls)
		}
	}
}

func TestHandleNoTarget(t *testing.T) {
	gw := &fakeGateway{payment: approvedPayment("", "", "", "")}
	repo := &fakeRepo{rows: 1}
	r := newTestReconciler(gw, repo)

	out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "payment", PaymentID: "PAY4"})
	if err != nil || out != OutcomeNoTarget {
		t.Fatalf("expected no_target, got %q err=%v", out, err)
	}
	if len(repo.activateIDCalls) != 0 || len(repo.activateEmailCalls) != 0 {
		t.Fatalf("no store write expected without a target")
	}
}

func TestHandleNoRowsAffectedStillAcknowledges(t *testing.T) {
	gw := &fakeGateway{payment: approvedPayment("42", "", "", "")}
	repo := &fakeRepo{rows: 0}
	r := newTestReconciler(gw, repo)

	out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "payment", PaymentID: "PAY6"})
	if err != nil {
		t.Fatalf("zero rows affected must not surface an error, got %v", err)
	}
	if out != OutcomeNoRowsAffected {
		t.Fatalf("expected no_rows_affected, got %q", out)
	}
}

func TestHandleStoreFaultSurfacesError(t *testing.T) {
	gw := &fakeGateway{payment: approvedPayment("42", "", "", "")}
	repo := &fakeRepo{err: errors.New("connection refused")}
	r := newTestReconciler(gw, repo)

	out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "payment", PaymentID: "PAY7"})
	if err == nil {
		t.Fatalf("store fault is the one branch that must surface an error")
	}
	if out != OutcomeStoreFault {
		t.Fatalf("expected store_fault, got %q", out)
	}
}

func TestHandleNonNumericUserIDFallsBackToEmail(t *testing.T) {
	gw := &fakeGateway{payment: approvedPayment("abc", "meta@example.com", "", "")}
	repo := &fakeRepo{rows: 1}
	r := newTestReconciler(gw, repo)

	out, err := r.Handle(context.Background(), mercadopago.WebhookNotification{Kind: "payment", PaymentID: "PAY8"})
	if err != nil || out != OutcomeActivated {
		t.Fatalf("expected activated, got %q err=%v", out, err)
	}
	if len(repo.activateEmailCalls) != 1 || repo.activateEmailCalls[0] != "meta@example.com" {
		t.Fatalf("expected email fallback, got %v", repo.activateEmailCalls)
	}
}

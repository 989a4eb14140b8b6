package subscription

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
)

// Window granted by one approved payment. Activation is absolute: the end
// date is always activation time + window, never an extension of the
// previous one, so redelivered notifications converge instead of compound.
const activationWindow = 30 * 24 * time.Hour

// Service applies idempotent subscription state changes.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a subscription service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceFromDB creates a subscription service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// WithNow allows tests to inject a deterministic clock.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ActivateByUserID marks the user's subscription active until now + 30 days.
// Returns the number of rows affected; zero means no such user existed.
func (s *Service) ActivateByUserID(ctx context.Context, userID uint) (int64, error) {
	_ = ctx
	if userID == 0 {
		return 0, errors.New("user id is required")
	}
	return s.repo.ActivateByUserID(userID, s.now().Add(activationWindow))
}

// ActivateByEmail marks the subscription of the user owning the email
// active until now + 30 days. Returns the number of rows affected.
func (s *Service) ActivateByEmail(ctx context.Context, email string) (int64, error) {
	_ = ctx
	e := strings.TrimSpace(email)
	if e == "" {
		return 0, errors.New("email is required")
	}
	return s.repo.ActivateByEmail(e, s.now().Add(activationWindow))
}

// Status describes a user's current subscription state.
type Status struct {
	Status  string     `json:"subscription_status"`
	EndDate *time.Time `json:"subscription_end_date,omitempty"`
}

// GetStatus reads the current subscription state for a user.
func (s *Service) GetStatus(ctx context.Context, userID uint) (*Status, error) {
	_ = ctx
	user, err := s.repo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	return &Status{
		Status:  user.SubscriptionStatus,
		EndDate: user.SubscriptionEndDate,
	}, nil
}

// DowngradeExpired flips lapsed subscriptions back to inactive and returns
// how many users were affected.
func (s *Service) DowngradeExpired(ctx context.Context) (int64, error) {
	_ = ctx
	return s.repo.DowngradeExpired(s.now())
}

// RecordWebhookEvent persists one audit row per received delivery.
// Deliveries are intentionally not deduplicated: a redelivered payment must
// re-run the idempotent activation.
func (s *Service) RecordWebhookEvent(ctx context.Context, event *models.PaymentWebhookEvent) error {
	_ = ctx
	if strings.TrimSpace(event.Provider) == "" {
		return errors.New("provider is required")
	}
	return s.repo.CreateWebhookEvent(event)
}

// MarkWebhookProcessed stores the reconciliation outcome for an audit row.
func (s *Service) MarkWebhookProcessed(ctx context.Context, eventID uint, outcome Outcome, processingErr error) error {
	_ = ctx
	if eventID == 0 {
		return errors.New("webhook event id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookEventProcessed(eventID, string(outcome), errMsg)
}

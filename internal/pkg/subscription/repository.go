package subscription

import (
	"time"

	"gorm.io/gorm"

	"github.com/medrecall/MedRecall/app/models"
)

// Repository provides DB operations used by the subscription service.
// The activation writes are single atomic statements: concurrent
// redeliveries for the same user serialize at the database and converge,
// because every caller computes the same absolute end date policy.
type Repository interface {
	ActivateByUserID(userID uint, endDate time.Time) (int64, error)
	ActivateByEmail(email string, endDate time.Time) (int64, error)
	GetUser(userID uint) (*models.User, error)
	DowngradeExpired(now time.Time) (int64, error)
	CreateWebhookEvent(event *models.PaymentWebhookEvent) error
	MarkWebhookEventProcessed(id uint, outcome, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a subscription repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ActivateByUserID(userID uint, endDate time.Time) (int64, error) {
	tx := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"subscription_status":   models.SubscriptionActive,
			"subscription_end_date": endDate,
		})
	return tx.RowsAffected, tx.Error
}

func (r *gormRepository) ActivateByEmail(email string, endDate time.Time) (int64, error) {
	tx := r.db.Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"subscription_status":   models.SubscriptionActive,
			"subscription_end_date": endDate,
		})
	return tx.RowsAffected, tx.Error
}

func (r *gormRepository) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) DowngradeExpired(now time.Time) (int64, error) {
	tx := r.db.Model(&models.User{}).
		Where("subscription_status = ? AND subscription_end_date IS NOT NULL AND subscription_end_date < ?",
			models.SubscriptionActive, now).
		Update("subscription_status", models.SubscriptionInactive)
	return tx.RowsAffected, tx.Error
}

func (r *gormRepository) CreateWebhookEvent(event *models.PaymentWebhookEvent) error {
	return r.db.Create(event).Error
}

func (r *gormRepository) MarkWebhookEventProcessed(id uint, outcome, processingError string) error {
	now := time.Now()
	return r.db.Model(&models.PaymentWebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"outcome":          outcome,
			"processing_error": processingError,
			"processed_at":     &now,
		}).Error
}

package models

import "time"

// Payment provider constants.
const (
	PaymentProviderMercadoPago = "mercadopago"
)

// PaymentWebhookEvent stores one row per received provider notification for
// after-the-fact diagnosis. Deliveries are recorded, never deduplicated:
// redelivery of the same payment must re-run the idempotent activation.
type PaymentWebhookEvent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Provider        string     `gorm:"type:varchar(20);not null;index" json:"provider"`
	EventKind       string     `gorm:"type:varchar(100);not null;index" json:"event_kind"`
	PaymentID       string     `gorm:"type:varchar(100);index" json:"payment_id"`
	PayloadJSON     string     `gorm:"type:longtext;not null" json:"payload_json"`
	Outcome         string     `gorm:"type:varchar(50)" json:"outcome"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

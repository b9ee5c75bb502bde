package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
	PaymentStatusUnknown    = "unknown"
)

// Payment is the reconciled record for one gateway payment. Rows are keyed
// by the Razorpay payment id and upserted on every webhook delivery, so a
// payment never has more than one row regardless of redeliveries.
type Payment struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	RazorpayPaymentID string          `gorm:"uniqueIndex;not null"`
	RazorpayOrderID   string
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency          string          `gorm:"type:varchar(3);not null"`
	Status            string          `gorm:"not null;default:'pending'"`
	PaymentMethod     string
	Email             string
	Contact           string
	UserID            *uuid.UUID `gorm:"type:uuid;index"`
	User              *User      `gorm:"foreignKey:UserID"`
	PaymentDetails    string     `gorm:"type:jsonb"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

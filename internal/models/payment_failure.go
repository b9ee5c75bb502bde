package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentFailure is an append-only audit row for failed payments with a
// resolved owner.
type PaymentFailure struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	RazorpayPaymentID string    `gorm:"not null"`
	Reason            string
	FailedAt          time.Time
	CreatedAt         time.Time
}

func (failure *PaymentFailure) BeforeCreate(tx *gorm.DB) (err error) {
	if failure.ID == uuid.Nil {
		failure.ID = uuid.New()
	}
	return
}

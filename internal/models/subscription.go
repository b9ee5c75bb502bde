package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const SubscriptionStatusActive = "active"

// Subscription is created or extended when a payment completes.
type Subscription struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	User              *User     `gorm:"foreignKey:UserID"`
	RazorpayPaymentID string    `gorm:"not null"`
	Status            string    `gorm:"not null;default:'active'"`
	StartsAt          time.Time
	EndsAt            time.Time `gorm:"index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (subscription *Subscription) BeforeCreate(tx *gorm.DB) (err error) {
	if subscription.ID == uuid.Nil {
		subscription.ID = uuid.New()
	}
	return
}

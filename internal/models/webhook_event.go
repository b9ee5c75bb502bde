package models

import "time"

// WebhookEvent is the idempotency ledger. One row per distinct gateway event
// id; rows are never updated or deleted.
type WebhookEvent struct {
	ID          uint      `gorm:"primaryKey"`
	EventID     string    `gorm:"type:varchar(191);uniqueIndex;not null"`
	EventType   string    `gorm:"type:varchar(100);not null;index"`
	Payload     string    `gorm:"type:jsonb"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

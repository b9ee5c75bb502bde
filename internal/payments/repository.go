package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tijender7/yoga-backend/internal/models"
)

// Repository is the only component that touches the durable store.
type Repository interface {
	UpsertPayment(ctx context.Context, payment *models.Payment) error
	HasWebhookEvent(ctx context.Context, eventID string) (bool, error)
	CreateWebhookEventIfAbsent(ctx context.Context, event *models.WebhookEvent) (bool, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ActiveSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, subscription *models.Subscription) error
	ExtendSubscription(ctx context.Context, subscriptionID uuid.UUID, paymentID string, endsAt time.Time) error
	CreatePaymentFailure(ctx context.Context, failure *models.PaymentFailure) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// UpsertPayment inserts or overwrites the row for a razorpay_payment_id in a
// single statement. Two concurrent deliveries for the same payment settle on
// last-write-wins instead of producing duplicate rows.
func (r *gormRepository) UpsertPayment(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "razorpay_payment_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"razorpay_order_id",
			"amount",
			"currency",
			"status",
			"payment_method",
			"email",
			"contact",
			"user_id",
			"payment_details",
			"updated_at",
		}),
	}).Create(payment).Error; err != nil {
		return err
	}

	// Re-read so the caller sees the stored row's primary key.
	return r.db.WithContext(ctx).
		Where("razorpay_payment_id = ?", payment.RazorpayPaymentID).
		First(payment).Error
}

func (r *gormRepository) HasWebhookEvent(ctx context.Context, eventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count > 0, err
}

// CreateWebhookEventIfAbsent records the event id, treating a duplicate
// insert as already-recorded rather than an error.
func (r *gormRepository) CreateWebhookEventIfAbsent(ctx context.Context, event *models.WebhookEvent) (bool, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) ActiveSubscription(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND ends_at > ?", userID, models.SubscriptionStatusActive, time.Now()).
		Order("ends_at DESC").
		First(&subscription).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *gormRepository) CreateSubscription(ctx context.Context, subscription *models.Subscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}

func (r *gormRepository) ExtendSubscription(ctx context.Context, subscriptionID uuid.UUID, paymentID string, endsAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", subscriptionID).
		Updates(map[string]interface{}{
			"razorpay_payment_id": paymentID,
			"ends_at":             endsAt,
		}).Error
}

func (r *gormRepository) CreatePaymentFailure(ctx context.Context, failure *models.PaymentFailure) error {
	return r.db.WithContext(ctx).Create(failure).Error
}

package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tijender7/yoga-backend/internal/helpers"
	"github.com/tijender7/yoga-backend/internal/models"
)

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventPaymentPending  = "payment.pending"
	EventPaymentRefunded = "payment.refunded"
)

// subscriptionValidity is the window granted per completed payment.
const subscriptionValidity = 30 * 24 * time.Hour

// Service applies the business state transitions for webhook events. The
// payment upsert is authoritative; subscription and failure-audit writes are
// best-effort side effects.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// IsDuplicateEvent reports whether the event id was already processed. An
// empty id is never deduplicated. A store error degrades to "not a
// duplicate" so the event still gets processed; the idempotent upsert
// downstream absorbs the occasional re-run.
func (s *Service) IsDuplicateEvent(ctx context.Context, eventID string) bool {
	if eventID == "" {
		return false
	}
	seen, err := s.repo.HasWebhookEvent(ctx, eventID)
	if err != nil {
		log.Printf("error checking duplicate event: %v", err)
		return false
	}
	return seen
}

// RecordEvent writes the idempotency ledger entry. Duplicate inserts are
// not errors.
func (s *Service) RecordEvent(ctx context.Context, eventID, eventType string, rawBody []byte) error {
	if eventID == "" {
		return nil
	}
	_, err := s.repo.CreateWebhookEventIfAbsent(ctx, &models.WebhookEvent{
		EventID:     eventID,
		EventType:   eventType,
		Payload:     string(rawBody),
		ProcessedAt: time.Now(),
	})
	return err
}

// ProcessEvent upserts the payment record and triggers side effects for the
// event type. Errors from the primary upsert propagate; side-record errors
// are logged and swallowed. Unknown event types still upsert the record with
// whatever status the extractor derived.
func (s *Service) ProcessEvent(ctx context.Context, eventType string, payment *models.Payment) error {
	if strings.Contains(eventType, "downtime") {
		log.Printf("acknowledged downtime notification: %s", eventType)
		return nil
	}
	if payment == nil || payment.RazorpayPaymentID == "" {
		return fmt.Errorf("%w: payment id not found in webhook data", ErrMalformedPayload)
	}

	if err := s.repo.UpsertPayment(ctx, payment); err != nil {
		return fmt.Errorf("upsert payment %s: %w", helpers.MaskPaymentID(payment.RazorpayPaymentID), err)
	}

	switch eventType {
	case EventPaymentCaptured:
		log.Printf("payment successful for %s", helpers.MaskPaymentID(payment.RazorpayPaymentID))
		s.activateSubscription(ctx, payment)
	case EventPaymentFailed:
		log.Printf("payment failed for %s", helpers.MaskPaymentID(payment.RazorpayPaymentID))
		s.recordFailure(ctx, payment)
	case EventPaymentPending:
		log.Printf("payment pending for %s", helpers.MaskPaymentID(payment.RazorpayPaymentID))
	case EventPaymentRefunded:
		log.Printf("payment refunded for %s", helpers.MaskPaymentID(payment.RazorpayPaymentID))
	default:
		log.Printf("stored record for unhandled event type %s", eventType)
	}
	return nil
}

// activateSubscription creates or extends the user's subscription. Without a
// resolved user there is nothing to activate; the payment row stays queryable
// for manual reconciliation.
func (s *Service) activateSubscription(ctx context.Context, payment *models.Payment) {
	if payment.UserID == nil {
		log.Printf("no user resolved for %s, skipping subscription activation",
			helpers.MaskPaymentID(payment.RazorpayPaymentID))
		return
	}

	now := time.Now()
	existing, err := s.repo.ActiveSubscription(ctx, *payment.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("error loading subscription for user %s: %v", payment.UserID, err)
		return
	}

	if existing != nil {
		if err := s.repo.ExtendSubscription(ctx, existing.ID, payment.RazorpayPaymentID, existing.EndsAt.Add(subscriptionValidity)); err != nil {
			log.Printf("error extending subscription for user %s: %v", payment.UserID, err)
		}
		return
	}

	subscription := &models.Subscription{
		UserID:            *payment.UserID,
		RazorpayPaymentID: payment.RazorpayPaymentID,
		Status:            models.SubscriptionStatusActive,
		StartsAt:          now,
		EndsAt:            now.Add(subscriptionValidity),
	}
	if err := s.repo.CreateSubscription(ctx, subscription); err != nil {
		log.Printf("error creating subscription for user %s: %v", payment.UserID, err)
	}
}

func (s *Service) recordFailure(ctx context.Context, payment *models.Payment) {
	if payment.UserID == nil {
		return
	}

	failure := &models.PaymentFailure{
		UserID:            *payment.UserID,
		RazorpayPaymentID: payment.RazorpayPaymentID,
		Reason:            failureReason(payment.PaymentDetails),
		FailedAt:          time.Now(),
	}
	if err := s.repo.CreatePaymentFailure(ctx, failure); err != nil {
		log.Printf("error recording payment failure for %s: %v",
			helpers.MaskPaymentID(payment.RazorpayPaymentID), err)
	}
}

func failureReason(paymentDetails string) string {
	var details struct {
		ErrorDescription string `json:"error_description"`
		ErrorReason      string `json:"error_reason"`
	}
	_ = json.Unmarshal([]byte(paymentDetails), &details)
	if details.ErrorDescription != "" {
		return details.ErrorDescription
	}
	if details.ErrorReason != "" {
		return details.ErrorReason
	}
	return "payment failed"
}

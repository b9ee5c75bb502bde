package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tijender7/yoga-backend/internal/helpers"
	"github.com/tijender7/yoga-backend/internal/models"
)

var ErrMalformedPayload = errors.New("malformed webhook payload")

// WebhookPayload is the gateway's envelope. The entity is kept raw so the
// verbatim bytes can be stored for audit.
type WebhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity json.RawMessage `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type PaymentEntity struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"order_id"`
	Amount           int64           `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	Method           string          `json:"method"`
	Email            string          `json:"email"`
	Contact          string          `json:"contact"`
	ErrorDescription string          `json:"error_description"`
	Notes            json.RawMessage `json:"notes"`
}

type PaymentNotes struct {
	UserID      string `json:"user_id"`
	SignupEmail string `json:"enter_your_signup_email"`
}

// UserLookup resolves an internal user by exact email match.
type UserLookup interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Extractor turns a raw webhook body into a typed payment record.
type Extractor struct {
	users UserLookup
}

func NewExtractor(users UserLookup) *Extractor {
	return &Extractor{users: users}
}

// Extract parses the raw body and builds the payment record. Downtime
// notifications carry no payment entity and return a nil record. A user that
// cannot be resolved is not an error; the record is stored without an owner
// for manual reconciliation.
func (e *Extractor) Extract(ctx context.Context, rawBody []byte) (string, *models.Payment, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if payload.Event == "" {
		return "", nil, fmt.Errorf("%w: missing event type", ErrMalformedPayload)
	}

	if strings.Contains(payload.Event, "downtime") {
		return payload.Event, nil, nil
	}

	entityRaw := payload.Payload.Payment.Entity
	if len(entityRaw) == 0 {
		return "", nil, fmt.Errorf("%w: missing payment entity", ErrMalformedPayload)
	}

	var entity PaymentEntity
	if err := json.Unmarshal(entityRaw, &entity); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if entity.ID == "" {
		return "", nil, fmt.Errorf("%w: payment id not found in webhook data", ErrMalformedPayload)
	}

	amount, err := FromMinorUnits(entity.Currency, entity.Amount)
	if err != nil {
		return "", nil, err
	}

	notes := parseNotes(entity.Notes)
	userID := e.resolveUser(ctx, notes, entity.Email)

	payment := &models.Payment{
		RazorpayPaymentID: entity.ID,
		RazorpayOrderID:   entity.OrderID,
		Amount:            amount,
		Currency:          entity.Currency,
		Status:            MapGatewayStatus(entity.Status),
		PaymentMethod:     entity.Method,
		Email:             entity.Email,
		Contact:           entity.Contact,
		UserID:            userID,
		PaymentDetails:    string(entityRaw),
	}
	return payload.Event, payment, nil
}

// Razorpay sends notes as an empty array when none were set on the payment
// link, so a failed unmarshal just means no notes.
func parseNotes(raw json.RawMessage) PaymentNotes {
	var notes PaymentNotes
	if len(raw) == 0 {
		return notes
	}
	_ = json.Unmarshal(raw, &notes)
	return notes
}

// resolveUser walks the fallback chain: notes.user_id, then the signup email
// from notes, then the payer email reported by the gateway.
func (e *Extractor) resolveUser(ctx context.Context, notes PaymentNotes, payerEmail string) *uuid.UUID {
	if notes.UserID != "" {
		if id, err := uuid.Parse(notes.UserID); err == nil {
			return &id
		}
		log.Printf("ignoring unparseable user_id in payment notes")
	}

	email := notes.SignupEmail
	if email == "" {
		email = payerEmail
	}
	if email == "" || e.users == nil {
		return nil
	}

	user, err := e.users.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("error finding user by email %s: %v", helpers.MaskEmail(email), err)
		}
		return nil
	}
	log.Printf("resolved user %s for email %s", user.ID, helpers.MaskEmail(email))
	return &user.ID
}

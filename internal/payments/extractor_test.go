package payments

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tijender7/yoga-backend/internal/models"
)

type fakeUserLookup struct {
	byEmail map[string]*models.User
}

func (f *fakeUserLookup) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func capturedPayload(entity string) []byte {
	return []byte(fmt.Sprintf(`{"event":"payment.captured","payload":{"payment":{"entity":%s}}}`, entity))
}

func TestExtract_UserIDFromNotes(t *testing.T) {
	userID := uuid.New()
	body := capturedPayload(fmt.Sprintf(
		`{"id":"pay_1","order_id":"order_1","amount":50000,"currency":"INR","status":"captured","method":"upi","email":"a@x.com","contact":"+911234567890","notes":{"user_id":"%s"}}`,
		userID,
	))

	extractor := NewExtractor(&fakeUserLookup{})
	eventType, payment, err := extractor.Extract(context.Background(), body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eventType != "payment.captured" {
		t.Fatalf("eventType = %q", eventType)
	}
	if payment.RazorpayPaymentID != "pay_1" || payment.RazorpayOrderID != "order_1" {
		t.Fatalf("unexpected ids: %+v", payment)
	}
	if !payment.Amount.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("amount = %s, want 500", payment.Amount)
	}
	if payment.Status != models.PaymentStatusCompleted {
		t.Fatalf("status = %q, want completed", payment.Status)
	}
	if payment.UserID == nil || *payment.UserID != userID {
		t.Fatalf("user id not taken from notes: %v", payment.UserID)
	}
	if payment.PaymentDetails == "" {
		t.Fatalf("expected verbatim entity to be retained")
	}
}

func TestExtract_UserResolvedByEmailFallback(t *testing.T) {
	userID := uuid.New()
	lookup := &fakeUserLookup{byEmail: map[string]*models.User{
		"a@x.com": {ID: userID, Email: "a@x.com"},
	}}

	body := capturedPayload(`{"id":"pay_1","amount":50000,"currency":"INR","status":"captured","email":"a@x.com","notes":{}}`)
	_, payment, err := NewExtractor(lookup).Extract(context.Background(), body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.UserID == nil || *payment.UserID != userID {
		t.Fatalf("expected user resolved via entity email, got %v", payment.UserID)
	}
}

func TestExtract_SignupEmailNotePreferredOverPayerEmail(t *testing.T) {
	signupID := uuid.New()
	lookup := &fakeUserLookup{byEmail: map[string]*models.User{
		"signup@x.com": {ID: signupID, Email: "signup@x.com"},
		"payer@x.com":  {ID: uuid.New(), Email: "payer@x.com"},
	}}

	body := capturedPayload(`{"id":"pay_1","amount":100,"currency":"INR","status":"captured","email":"payer@x.com","notes":{"enter_your_signup_email":"signup@x.com"}}`)
	_, payment, err := NewExtractor(lookup).Extract(context.Background(), body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.UserID == nil || *payment.UserID != signupID {
		t.Fatalf("expected signup email to win, got %v", payment.UserID)
	}
}

func TestExtract_UnknownUserStillStorable(t *testing.T) {
	body := capturedPayload(`{"id":"pay_1","amount":100,"currency":"INR","status":"captured","email":"nobody@x.com","notes":{}}`)
	_, payment, err := NewExtractor(&fakeUserLookup{}).Extract(context.Background(), body)
	if err != nil {
		t.Fatalf("user miss must not fail extraction: %v", err)
	}
	if payment.UserID != nil {
		t.Fatalf("expected nil user id, got %v", payment.UserID)
	}
}

func TestExtract_NotesAsEmptyArray(t *testing.T) {
	// Razorpay sends an empty array when no notes were set.
	body := capturedPayload(`{"id":"pay_1","amount":100,"currency":"INR","status":"captured","notes":[]}`)
	_, payment, err := NewExtractor(&fakeUserLookup{}).Extract(context.Background(), body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.UserID != nil {
		t.Fatalf("expected no user, got %v", payment.UserID)
	}
}

func TestExtract_UnknownStatusMapsToUnknown(t *testing.T) {
	body := capturedPayload(`{"id":"pay_1","amount":100,"currency":"INR","status":"weird_status","notes":{}}`)
	_, payment, err := NewExtractor(&fakeUserLookup{}).Extract(context.Background(), body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.Status != models.PaymentStatusUnknown {
		t.Fatalf("status = %q, want unknown", payment.Status)
	}
}

func TestExtract_UnsupportedCurrency(t *testing.T) {
	body := capturedPayload(`{"id":"pay_1","amount":100,"currency":"GBP","status":"captured","notes":{}}`)
	_, _, err := NewExtractor(&fakeUserLookup{}).Extract(context.Background(), body)
	if !errors.Is(err, ErrUnsupportedCurrency) {
		t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
	}
}

func TestExtract_MalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{{`},
		{name: "missing event", body: `{"payload":{"payment":{"entity":{"id":"pay_1"}}}}`},
		{name: "missing entity", body: `{"event":"payment.captured","payload":{}}`},
		{name: "missing payment id", body: `{"event":"payment.captured","payload":{"payment":{"entity":{"amount":100,"currency":"INR"}}}}`},
		{name: "non-numeric amount", body: `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","amount":"lots","currency":"INR"}}}}`},
	}

	extractor := NewExtractor(&fakeUserLookup{})
	for _, tt := range tests {
		_, _, err := extractor.Extract(context.Background(), []byte(tt.body))
		if !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("%s: expected ErrMalformedPayload, got %v", tt.name, err)
		}
	}
}

func TestExtract_DowntimeEventHasNoRecord(t *testing.T) {
	body := []byte(`{"event":"payment.downtime.started","payload":{"payment.downtime":{"entity":{"id":"down_1"}}}}`)
	eventType, payment, err := NewExtractor(&fakeUserLookup{}).Extract(context.Background(), body)
	if err != nil {
		t.Fatalf("downtime events must not fail extraction: %v", err)
	}
	if eventType != "payment.downtime.started" || payment != nil {
		t.Fatalf("expected nil record for downtime, got %v", payment)
	}
}

package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tijender7/yoga-backend/internal/helpers"
	"github.com/tijender7/yoga-backend/internal/payments"
)

// WebhookHandler receives Razorpay payment-lifecycle notifications. The
// pipeline is signature verification, duplicate suppression, extraction,
// then reconciliation; by default the record is durable before the gateway
// gets its acknowledgment.
type WebhookHandler struct {
	service     *payments.Service
	extractor   *payments.Extractor
	dispatcher  *payments.Dispatcher
	secret      string
	timeout     time.Duration
	callbackURL string
}

func NewWebhookHandler(service *payments.Service, extractor *payments.Extractor, dispatcher *payments.Dispatcher, secret string, timeout time.Duration, callbackURL string) *WebhookHandler {
	return &WebhookHandler{
		service:     service,
		extractor:   extractor,
		dispatcher:  dispatcher,
		secret:      secret,
		timeout:     timeout,
		callbackURL: callbackURL,
	}
}

func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Failed to read request body.")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		log.Printf("webhook rejected: missing signature")
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing webhook signature.")
		return
	}
	if !helpers.VerifyWebhookSignature(rawBody, signature, h.secret) {
		log.Printf("webhook rejected: invalid signature")
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid webhook signature.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	// Razorpay redelivers until it sees a 200, so duplicates must be
	// acknowledged as successes without re-running side effects.
	eventID := c.GetHeader("X-Razorpay-Event-Id")
	if h.service.IsDuplicateEvent(ctx, eventID) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Event already processed",
		})
		return
	}

	eventType, payment, err := h.extractor.Extract(ctx, rawBody)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrUnsupportedCurrency):
			log.Printf("webhook rejected: %v", err)
			helpers.RespondWithError(c, http.StatusBadRequest, "Unsupported currency.")
		case errors.Is(err, payments.ErrMalformedPayload):
			log.Printf("webhook rejected: %v", err)
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid webhook payload.")
		default:
			log.Printf("webhook extraction error: %v", err)
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to process webhook.")
		}
		return
	}

	if h.dispatcher != nil {
		if !h.dispatcher.Enqueue(payments.Job{
			EventID:   eventID,
			EventType: eventType,
			Payment:   payment,
			RawBody:   rawBody,
		}) {
			// Queue saturated; a transport error makes the gateway redeliver.
			helpers.RespondWithError(c, http.StatusInternalServerError, "Webhook queue full, please retry.")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "Webhook received",
		})
		return
	}

	if err := h.service.ProcessEvent(ctx, eventType, payment); err != nil {
		if errors.Is(err, payments.ErrMalformedPayload) {
			log.Printf("webhook rejected: %v", err)
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid webhook payload.")
			return
		}
		log.Printf("webhook processing failed: %v", err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to process webhook event.")
		return
	}

	if err := h.service.RecordEvent(ctx, eventID, eventType, rawBody); err != nil {
		// The payment record is already durable; a missing ledger row only
		// means a redelivery gets absorbed by the upsert instead.
		log.Printf("error storing webhook event %q: %v", eventID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Webhook processed",
	})
}

func (h *WebhookHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"webhook_url": h.callbackURL,
	})
}

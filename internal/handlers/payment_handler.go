package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tijender7/yoga-backend/internal/helpers"
	"github.com/tijender7/yoga-backend/internal/payments"
	"github.com/tijender7/yoga-backend/internal/razorpay"
)

type PaymentRequest struct {
	Amount      int64  `json:"amount" binding:"required,min=1"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
}

// PaymentHandler creates gateway payment links. The authenticated user's id
// travels in the link notes so the webhook can attribute the payment without
// an email lookup.
type PaymentHandler struct {
	gateway     *razorpay.Client
	callbackURL string
}

func NewPaymentHandler(gateway *razorpay.Client, callbackURL string) *PaymentHandler {
	return &PaymentHandler{
		gateway:     gateway,
		callbackURL: callbackURL,
	}
}

func (h *PaymentHandler) CreatePaymentLink(c *gin.Context) {
	var paymentReq PaymentRequest
	if err := c.ShouldBindJSON(&paymentReq); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if paymentReq.Currency == "" {
		paymentReq.Currency = "INR"
	}
	if paymentReq.Description == "" {
		paymentReq.Description = "Yoga Class Payment"
	}

	currency, ok := payments.CurrencyFor(paymentReq.Currency)
	if !ok {
		helpers.RespondWithError(c, http.StatusBadRequest,
			fmt.Sprintf("Currency %s is not supported.", paymentReq.Currency))
		return
	}
	if paymentReq.Amount < currency.MinAmount {
		helpers.RespondWithError(c, http.StatusBadRequest, "Amount is below the minimum chargeable amount.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID type.")
		return
	}

	shortURL, err := h.gateway.CreatePaymentLink(c.Request.Context(), razorpay.PaymentLinkRequest{
		Amount:         paymentReq.Amount,
		Currency:       paymentReq.Currency,
		AcceptPartial:  false,
		Description:    paymentReq.Description,
		CallbackURL:    h.callbackURL,
		CallbackMethod: "post",
		Notes: map[string]string{
			"user_id": userUUID.String(),
		},
	})
	if err != nil {
		log.Printf("payment link creation failed: %v", err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment link.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_link": shortURL,
	})
}

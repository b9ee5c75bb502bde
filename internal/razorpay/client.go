package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// Client is a minimal Razorpay API client covering payment-link creation.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(keyID, keySecret, baseURL string) *Client {
	c := NewClient(keyID, keySecret)
	c.baseURL = baseURL
	return c
}

type PaymentLinkRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	AcceptPartial  bool              `json:"accept_partial"`
	Description    string            `json:"description"`
	CallbackURL    string            `json:"callback_url"`
	CallbackMethod string            `json:"callback_method"`
	Notes          map[string]string `json:"notes,omitempty"`
}

type paymentLinkResponse struct {
	ID       string `json:"id"`
	ShortURL string `json:"short_url"`
	Error    struct {
		Description string `json:"description"`
	} `json:"error"`
}

// CreatePaymentLink calls the payment_links API and returns the short URL the
// customer opens to pay. Amount is in minor units; the caller validates the
// currency before reaching this point.
func (c *Client) CreatePaymentLink(ctx context.Context, linkReq PaymentLinkRequest) (string, error) {
	jsonBody, err := json.Marshal(linkReq)
	if err != nil {
		return "", fmt.Errorf("marshal payment link request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment_links", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create payment link request: %w", err)
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send payment link request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read payment link response: %w", err)
	}

	var linkResp paymentLinkResponse
	if err := json.Unmarshal(body, &linkResp); err != nil {
		return "", fmt.Errorf("parse payment link response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if linkResp.Error.Description != "" {
			return "", fmt.Errorf("payment link creation failed: %s", linkResp.Error.Description)
		}
		return "", fmt.Errorf("payment link creation failed with status %d", resp.StatusCode)
	}
	if linkResp.ShortURL == "" {
		return "", fmt.Errorf("payment link response missing short_url")
	}
	return linkResp.ShortURL, nil
}

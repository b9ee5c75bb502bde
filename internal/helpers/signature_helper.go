package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateWebhookSignature computes the hex-encoded HMAC-SHA256 digest
// Razorpay sends in the X-Razorpay-Signature header.
func GenerateWebhookSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature checks the signature against the raw request bytes.
// The body must be the exact bytes received; re-serialized JSON will not
// match. Comparison is constant-time.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	expected := GenerateWebhookSignature(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

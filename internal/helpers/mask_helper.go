package helpers

import "strings"

// MaskEmail hides most of an address while keeping it recognizable in logs.
// test@example.com -> te**@ex*****.com
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if email == "" || at < 0 {
		return "***"
	}

	username := email[:at]
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot < 0 {
		return maskPart(username) + "@" + maskPart(domain)
	}
	return maskPart(username) + "@" + maskPart(domain[:dot]) + domain[dot:]
}

// MaskPaymentID keeps the gateway prefix and last four characters.
// pay_123456789 -> pay_***6789
func MaskPaymentID(paymentID string) string {
	if paymentID == "" {
		return "***"
	}

	prefix := paymentID
	if i := strings.Index(paymentID, "_"); i > 0 {
		prefix = paymentID[:i]
	} else if len(paymentID) > 3 {
		prefix = paymentID[:3]
	}

	if len(paymentID) < 4 {
		return prefix + "_***"
	}
	return prefix + "_***" + paymentID[len(paymentID)-4:]
}

func maskPart(s string) string {
	if len(s) <= 2 {
		return s + "**"
	}
	return s[:2] + strings.Repeat("*", len(s)-2)
}

package payments

import "github.com/tijender7/yoga-backend/internal/models"

// Razorpay payment status -> internal payment status.
var statusMap = map[string]string{
	"created":    models.PaymentStatusPending,
	"authorized": models.PaymentStatusProcessing,
	"captured":   models.PaymentStatusCompleted,
	"failed":     models.PaymentStatusFailed,
	"refunded":   models.PaymentStatusRefunded,
}

// MapGatewayStatus never fails: a status Razorpay adds later maps to
// "unknown" and the record is still stored.
func MapGatewayStatus(gatewayStatus string) string {
	if status, ok := statusMap[gatewayStatus]; ok {
		return status
	}
	return models.PaymentStatusUnknown
}

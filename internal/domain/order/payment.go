package order

import (
	"strings"

	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
)

// Estados normalizados que entrega la pasarela de pago.
const (
	PaymentApproved  = "approved"
	PaymentPending   = "pending"
	PaymentInProcess = "in_process"
	PaymentRejected  = "rejected"
	PaymentCancelled = "cancelled"
)

// MapExternalPaymentStatus traduce el vocabulario de la pasarela a un estado interno.
// Valores desconocidos caen en pendiente en lugar de rechazarse.
func MapExternalPaymentStatus(providerStatus string) entity.OrderStatus {
	switch strings.ToLower(strings.TrimSpace(providerStatus)) {
	case PaymentApproved:
		return entity.OrderConfirmado
	case PaymentPending, PaymentInProcess:
		return entity.OrderPendiente
	case PaymentRejected, PaymentCancelled:
		return entity.OrderCancelado
	default:
		return entity.OrderPendiente
	}
}

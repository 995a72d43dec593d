package entity

import "time"

// Actores especiales del log de auditoría.
const (
	AuditActorSystem  = "system"
	AuditActorUnknown = "unknown"
)

// Acciones registradas.
const (
	AuditLoginFailed     = "login_failed"
	AuditLoginBlocked    = "login_blocked"
	AuditLoginSuccess    = "login_success"
	AuditLogout          = "logout"
	AuditUserCreated     = "user_created"
	AuditOrderTransition = "order_status_changed"
	AuditOrderDelivery   = "order_delivery_updated"
	AuditPaymentStatus   = "payment_status_received"
)

// AuditLogEntry evento append-only. Details se serializa como JSON.
type AuditLogEntry struct {
	ID        string
	ActorID   string
	Action    string
	Resource  string
	Details   map[string]any
	IPAddress *string
	UserAgent *string
	CreatedAt time.Time
}

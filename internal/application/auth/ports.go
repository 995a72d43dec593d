package auth

import (
	"context"

	"github.com/jhoicas/tienda-backoffice/internal/application/audit"
)

// Auditor sink de auditoría que usa el SessionManager. Lo implementa *audit.Writer.
type Auditor interface {
	Append(ctx context.Context, ev audit.Event)
}

// Origin IP y user-agent de la petición, solo para auditoría y registro de sesión.
type Origin struct {
	IP        string
	UserAgent string
}

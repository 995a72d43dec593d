package orders

import (
	"context"

	"github.com/jhoicas/tienda-backoffice/internal/application/audit"
	"github.com/jhoicas/tienda-backoffice/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos de pedidos e historial atados a ella.
// Si fn retorna error se hace rollback.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		historyRepo repository.OrderHistoryRepository,
	) error) error
}

// Auditor sink de auditoría. Lo implementa *audit.Writer.
type Auditor interface {
	Append(ctx context.Context, ev audit.Event)
}

// Actor operador que ejecuta la acción (identidad resuelta por el guard).
type Actor struct {
	ID        string
	Email     string
	IP        string
	UserAgent string
}

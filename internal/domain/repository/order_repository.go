package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderRepository define el puerto de persistencia para pedidos (usable con pool o tx).
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// UpdateStatusIfCurrent escribe el nuevo estado solo si el actual sigue siendo expected.
	// Devuelve false si otra operación lo cambió antes (guardia optimista).
	UpdateStatusIfCurrent(ctx context.Context, order *entity.Order, expected entity.OrderStatus) (bool, error)
	UpdateDelivery(ctx context.Context, order *entity.Order) error
	CountByStatusSince(ctx context.Context, status entity.OrderStatus, since time.Time) (int, error)
	SumTotalByStatusSince(ctx context.Context, statuses []entity.OrderStatus, since time.Time) (decimal.Decimal, error)
}

// OrderHistoryRepository historial append-only de pedidos.
type OrderHistoryRepository interface {
	Append(ctx context.Context, entry *entity.OrderHistoryEntry) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderHistoryEntry, error)
}

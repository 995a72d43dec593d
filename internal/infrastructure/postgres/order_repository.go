package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-backoffice/internal/domain"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
	"github.com/jhoicas/tienda-backoffice/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos sobre la tabla pedidos (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// GetByID obtiene un pedido. nil si no existe o el id no es un uuid.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !validUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, status, cliente_nombre, cliente_telefono, cliente_email, direccion_envio, precio_total,
		       external_reference, transportadora, numero_guia, fecha_estimada_entrega, notas_entrega,
		       created_at, updated_at
		FROM pedidos WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Status, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.ShippingAddress, &o.Total,
		&o.ExternalReference, &o.Carrier, &o.TrackingNumber, &o.EstimatedDelivery, &o.DeliveryNotes,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pedido: %w", err)
	}
	return &o, nil
}

// UpdateStatusIfCurrent escribe status y updated_at solo si el estado sigue siendo expected.
func (r *OrderRepo) UpdateStatusIfCurrent(ctx context.Context, o *entity.Order, expected entity.OrderStatus) (bool, error) {
	query := `UPDATE pedidos SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`
	tag, err := r.q.Exec(ctx, query, o.ID, string(o.Status), o.UpdatedAt, string(expected))
	if err != nil {
		return false, fmt.Errorf("update pedido status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateDelivery escribe los datos de entrega; no toca el estado.
func (r *OrderRepo) UpdateDelivery(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE pedidos
		SET transportadora = $2, numero_guia = $3, fecha_estimada_entrega = $4,
		    direccion_envio = $5, notas_entrega = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.Carrier, o.TrackingNumber, o.EstimatedDelivery, o.ShippingAddress, o.DeliveryNotes, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pedido entrega: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: "pedido", ID: o.ID}
	}
	return nil
}

// CountByStatusSince cuenta pedidos en status creados desde since.
func (r *OrderRepo) CountByStatusSince(ctx context.Context, status entity.OrderStatus, since time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM pedidos WHERE status = $1 AND created_at >= $2`, string(status), since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pedidos: %w", err)
	}
	return n, nil
}

// SumTotalByStatusSince suma precio_total de los pedidos en statuses creados desde since.
func (r *OrderRepo) SumTotalByStatusSince(ctx context.Context, statuses []entity.OrderStatus, since time.Time) (decimal.Decimal, error) {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	var total decimal.Decimal
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(precio_total), 0) FROM pedidos WHERE status = ANY($1) AND created_at >= $2`, names, since,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum pedidos: %w", err)
	}
	return total, nil
}

var _ repository.OrderHistoryRepository = (*OrderHistoryRepo)(nil)

// OrderHistoryRepo historial append-only sobre pedidos_historial.
type OrderHistoryRepo struct {
	q Querier
}

// NewOrderHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderHistoryRepository(q Querier) *OrderHistoryRepo {
	return &OrderHistoryRepo{q: q}
}

// Append inserta una fila de historial.
func (r *OrderHistoryRepo) Append(ctx context.Context, e *entity.OrderHistoryEntry) error {
	var prev *string
	if e.PreviousStatus != nil {
		p := string(*e.PreviousStatus)
		prev = &p
	}
	query := `
		INSERT INTO pedidos_historial (id, pedido_id, estado_anterior, estado_nuevo, observaciones, usuario_actualizo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, e.ID, e.OrderID, prev, string(e.NewStatus), e.Note, e.Actor, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pedido historial: %w", err)
	}
	return nil
}

// ListByOrder historial del pedido en orden cronológico.
func (r *OrderHistoryRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderHistoryEntry, error) {
	if !validUUID(orderID) {
		return nil, nil
	}
	query := `
		SELECT id, pedido_id, estado_anterior, estado_nuevo, observaciones, usuario_actualizo, created_at
		FROM pedidos_historial WHERE pedido_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list pedido historial: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderHistoryEntry
	for rows.Next() {
		var (
			e    entity.OrderHistoryEntry
			prev *string
			next string
		)
		if err := rows.Scan(&e.ID, &e.OrderID, &prev, &next, &e.Note, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pedido historial: %w", err)
		}
		if prev != nil {
			st := entity.OrderStatus(*prev)
			e.PreviousStatus = &st
		}
		e.NewStatus = entity.OrderStatus(next)
		out = append(out, &e)
	}
	return out, rows.Err()
}

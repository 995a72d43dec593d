package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tienda-backoffice/internal/domain"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
)

// ApplyTransition valida y aplica el cambio de estado sobre o y devuelve la entrada de historial.
//
//   - to == estado actual: confirmación idempotente; el estado no cambia, solo UpdatedAt.
//   - arista inexistente: *domain.TransitionError con los estados permitidos.
//   - note vacía: se usa la descripción del estado destino.
//
// El llamador persiste el pedido y la entrada y la reenvía al log de auditoría.
func ApplyTransition(o *entity.Order, to entity.OrderStatus, actor, note string, now time.Time) (*entity.OrderHistoryEntry, error) {
	if o == nil {
		return nil, domain.ErrInvalidInput
	}
	from := o.Status
	if !CanTransition(from, to) {
		return nil, &domain.TransitionError{
			From:    string(from),
			To:      string(to),
			Allowed: toStrings(AllowedNext(from)),
		}
	}
	if note == "" {
		note = statusTable[to].description
	}
	o.Status = to
	o.UpdatedAt = now

	prev := from
	return &entity.OrderHistoryEntry{
		ID:             uuid.New().String(),
		OrderID:        o.ID,
		PreviousStatus: &prev,
		NewStatus:      to,
		Note:           note,
		Actor:          actor,
		CreatedAt:      now,
	}, nil
}

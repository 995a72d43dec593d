package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-backoffice/internal/application/audit"
	"github.com/jhoicas/tienda-backoffice/internal/application/dto"
	"github.com/jhoicas/tienda-backoffice/internal/domain"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
	"github.com/jhoicas/tienda-backoffice/internal/domain/order"
	"github.com/jhoicas/tienda-backoffice/internal/domain/repository"
	"github.com/jhoicas/tienda-backoffice/internal/infrastructure/metrics"
)

// UseCase casos de uso de pedidos: cambios de estado, entrega, historial, seguimiento y pagos.
type UseCase struct {
	orders  repository.OrderRepository
	history repository.OrderHistoryRepository
	tx      TxRunner
	audit   Auditor
	log     zerolog.Logger
	now     func() time.Time
}

// NewUseCase construye el caso de uso. orders e history se usan para lecturas fuera de transacción.
func NewUseCase(
	orders repository.OrderRepository,
	history repository.OrderHistoryRepository,
	tx TxRunner,
	auditor Auditor,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		orders:  orders,
		history: history,
		tx:      tx,
		audit:   auditor,
		log:     log,
		now:     time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// TransitionOrder valida y aplica un cambio de estado. El nuevo estado y su fila de historial
// se escriben en la misma transacción; si otro cambio llegó antes devuelve domain.ErrConcurrentUpdate.
// Errores: domain.ErrInvalidInput, *domain.NotFoundError, *domain.TransitionError, *domain.PersistenceError.
func (uc *UseCase) TransitionOrder(ctx context.Context, orderID string, in dto.TransitionRequest, actor Actor) (*dto.TransitionResponse, error) {
	orderID = strings.TrimSpace(orderID)
	target := entity.OrderStatus(strings.ToLower(strings.TrimSpace(in.TargetState)))
	if orderID == "" || target == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()

	var (
		updated *entity.Order
		entry   *entity.OrderHistoryEntry
		from    entity.OrderStatus
	)
	err := uc.tx.RunOrder(ctx, func(orderRepo repository.OrderRepository, historyRepo repository.OrderHistoryRepository) error {
		o, err := orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return &domain.PersistenceError{Op: "leer pedido", Err: err}
		}
		if o == nil {
			return &domain.NotFoundError{Kind: "pedido", ID: orderID}
		}
		from = o.Status

		e, err := order.ApplyTransition(o, target, actorName(actor), strings.TrimSpace(in.Note), now)
		if err != nil {
			return err
		}
		ok, err := orderRepo.UpdateStatusIfCurrent(ctx, o, from)
		if err != nil {
			return &domain.PersistenceError{Op: "actualizar estado", Err: err}
		}
		if !ok {
			return domain.ErrConcurrentUpdate
		}
		if err := historyRepo.Append(ctx, e); err != nil {
			return &domain.PersistenceError{Op: "guardar historial", Err: err}
		}
		updated, entry = o, e
		return nil
	})
	if err != nil {
		metrics.RecordTransition(transitionLabel(target), transitionResult(err))
		return nil, err
	}

	metrics.RecordTransition(transitionLabel(target), "ok")
	uc.audit.Append(ctx, audit.Event{
		ActorID:  actor.ID,
		Action:   entity.AuditOrderTransition,
		Resource: "order:" + updated.ID,
		Details: map[string]any{
			"previous_state": string(from),
			"new_state":      string(target),
			"note":           entry.Note,
		},
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	})

	view, _ := order.DeriveCustomerView(updated.Status)
	return &dto.TransitionResponse{
		Order:        toOrderResponse(updated),
		HistoryEntry: toHistoryResponse(entry),
		CustomerView: view,
	}, nil
}

// transitionLabel acota la etiqueta "to" al vocabulario de estados.
func transitionLabel(target entity.OrderStatus) string {
	if !order.IsValid(target) {
		return "invalid"
	}
	return string(target)
}

func transitionResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return "rejected"
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return "conflict"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// NextStates estado actual del pedido y los estados alcanzables con su configuración.
func (uc *UseCase) NextStates(ctx context.Context, orderID string) (*dto.NextStatesResponse, error) {
	o, err := uc.get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	current, ok := order.Info(o.Status)
	if !ok {
		// Estado fuera del vocabulario (dato heredado): sin salidas.
		current = order.StatusInfo{Status: o.Status, Label: string(o.Status)}
	}
	view, _ := order.DeriveCustomerView(o.Status)
	return &dto.NextStatesResponse{
		OrderID:      o.ID,
		Current:      current,
		NextStates:   order.NextInfo(o.Status),
		IsTerminal:   order.IsTerminal(o.Status),
		CustomerView: view,
	}, nil
}

// History filas del historial del pedido, de la más antigua a la más reciente.
func (uc *UseCase) History(ctx context.Context, orderID string) ([]dto.HistoryEntryResponse, error) {
	if _, err := uc.get(ctx, orderID); err != nil {
		return nil, err
	}
	entries, err := uc.history.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "listar historial", Err: err}
	}
	out := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHistoryResponse(e))
	}
	return out, nil
}

// Tracking vista pública del pedido para el cliente.
func (uc *UseCase) Tracking(ctx context.Context, orderID string) (*dto.TrackingResponse, error) {
	o, err := uc.get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view, ok := order.DeriveCustomerView(o.Status)
	if !ok {
		view = order.CustomerView{Status: o.Status, Label: string(o.Status)}
	}
	return &dto.TrackingResponse{
		OrderID:           o.ID,
		CustomerView:      view,
		Carrier:           o.Carrier,
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}, nil
}

// UpdateDelivery actualiza los datos de entrega sin tocar el estado y deja una nota en el historial
// (PreviousStatus nil). Un pedido cancelado o devuelto devuelve *domain.ClosedOrderError.
func (uc *UseCase) UpdateDelivery(ctx context.Context, orderID string, in dto.DeliveryRequest, actor Actor) (*dto.OrderResponse, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !hasDeliveryChanges(in) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()

	var updated *entity.Order
	err := uc.tx.RunOrder(ctx, func(orderRepo repository.OrderRepository, historyRepo repository.OrderHistoryRepository) error {
		o, err := orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return &domain.PersistenceError{Op: "leer pedido", Err: err}
		}
		if o == nil {
			return &domain.NotFoundError{Kind: "pedido", ID: orderID}
		}
		if order.IsTerminal(o.Status) {
			return &domain.ClosedOrderError{ID: o.ID, Status: string(o.Status)}
		}
		applyDelivery(o, in)
		o.UpdatedAt = now
		if err := orderRepo.UpdateDelivery(ctx, o); err != nil {
			return &domain.PersistenceError{Op: "actualizar entrega", Err: err}
		}
		if err := historyRepo.Append(ctx, &entity.OrderHistoryEntry{
			ID:        newID(),
			OrderID:   o.ID,
			NewStatus: o.Status,
			Note:      deliveryNote(in),
			Actor:     actorName(actor),
			CreatedAt: now,
		}); err != nil {
			return &domain.PersistenceError{Op: "guardar historial", Err: err}
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Append(ctx, audit.Event{
		ActorID:   actor.ID,
		Action:    entity.AuditOrderDelivery,
		Resource:  "order:" + updated.ID,
		Details:   deliveryDetails(updated),
		IPAddress: actor.IP,
		UserAgent: actor.UserAgent,
	})
	out := toOrderResponse(updated)
	return &out, nil
}

// IngestPaymentStatus traduce el estado de la pasarela y lo audita. No modifica el pedido:
// solo informa el estado interno que corresponde.
func (uc *UseCase) IngestPaymentStatus(ctx context.Context, in dto.PaymentStatusRequest, ip, userAgent string) dto.PaymentStatusResponse {
	state := order.MapExternalPaymentStatus(in.Status)
	ref := strings.TrimSpace(in.ExternalReference)
	resource := "payment"
	if ref != "" {
		resource = "payment:" + ref
	}
	uc.audit.Append(ctx, audit.Event{
		ActorID:  entity.AuditActorSystem,
		Action:   entity.AuditPaymentStatus,
		Resource: resource,
		Details: map[string]any{
			"provider_status":    in.Status,
			"mapped_state":       string(state),
			"external_reference": ref,
		},
		IPAddress: ip,
		UserAgent: userAgent,
	})
	return dto.PaymentStatusResponse{State: string(state)}
}

func (uc *UseCase) get(ctx context.Context, orderID string) (*entity.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	o, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "leer pedido", Err: err}
	}
	if o == nil {
		return nil, &domain.NotFoundError{Kind: "pedido", ID: orderID}
	}
	return o, nil
}

// actorName nombre que queda en el historial: email del operador o "system".
func actorName(a Actor) string {
	if a.Email != "" {
		return a.Email
	}
	if a.ID != "" {
		return a.ID
	}
	return entity.AuditActorSystem
}

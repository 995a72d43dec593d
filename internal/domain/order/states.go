// Package order contiene la máquina de estados de pedidos: estados canónicos, reglas de
// transición y la presentación derivada para el cliente. No hace I/O.
package order

import "github.com/jhoicas/tienda-backoffice/internal/domain/entity"

// statusOrder orden canónico de los estados (para listados y validación).
var statusOrder = []entity.OrderStatus{
	entity.OrderPendiente,
	entity.OrderConfirmado,
	entity.OrderPreparando,
	entity.OrderEnviado,
	entity.OrderEntregado,
	entity.OrderCancelado,
	entity.OrderDevuelto,
}

// All devuelve todos los estados válidos en orden canónico.
func All() []entity.OrderStatus {
	out := make([]entity.OrderStatus, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// Parse convierte un string en estado; ok=false si no pertenece a la enumeración.
func Parse(s string) (entity.OrderStatus, bool) {
	st := entity.OrderStatus(s)
	_, ok := statusTable[st]
	return st, ok
}

// IsValid informa si el estado pertenece a la enumeración.
func IsValid(st entity.OrderStatus) bool {
	_, ok := statusTable[st]
	return ok
}

// IsTerminal informa si el estado no tiene transiciones de salida.
func IsTerminal(st entity.OrderStatus) bool {
	cfg, ok := statusTable[st]
	return ok && len(cfg.next) == 0
}

// AllowedNext devuelve los estados alcanzables desde from (copia; vacío si es terminal o desconocido).
func AllowedNext(from entity.OrderStatus) []entity.OrderStatus {
	cfg, ok := statusTable[from]
	if !ok {
		return []entity.OrderStatus{}
	}
	out := make([]entity.OrderStatus, len(cfg.next))
	copy(out, cfg.next)
	return out
}

// CanTransition true si to está entre los siguientes de from, o si from == to
// (reaplicar el mismo estado es idempotente y no consulta la tabla de aristas).
func CanTransition(from, to entity.OrderStatus) bool {
	if !IsValid(from) || !IsValid(to) {
		return false
	}
	if from == to {
		return true
	}
	for _, n := range statusTable[from].next {
		if n == to {
			return true
		}
	}
	return false
}

// RequiresAction informa si el estado espera intervención de un operador.
func RequiresAction(st entity.OrderStatus) bool {
	return statusTable[st].requiresAction
}

// StatesRequiringAction estados que requieren acción del admin, en orden canónico.
func StatesRequiringAction() []entity.OrderStatus {
	var out []entity.OrderStatus
	for _, st := range statusOrder {
		if statusTable[st].requiresAction {
			out = append(out, st)
		}
	}
	return out
}

func toStrings(states []entity.OrderStatus) []string {
	out := make([]string, len(states))
	for i, st := range states {
		out[i] = string(st)
	}
	return out
}

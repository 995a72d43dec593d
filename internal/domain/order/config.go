package order

import "github.com/jhoicas/tienda-backoffice/internal/domain/entity"

// statusConfig fila de la tabla por estado. Se construye una sola vez y nunca se muta;
// solo se expone a través de copias.
type statusConfig struct {
	label           string
	emoji           string
	colorTag        string
	description     string
	next            []entity.OrderStatus
	requiresAction  bool
	progressPercent int
	estimatedHours  int
	timelineMessage string
}

var statusTable = buildStatusTable()

func buildStatusTable() map[entity.OrderStatus]statusConfig {
	return map[entity.OrderStatus]statusConfig{
		entity.OrderPendiente: {
			label:           "Procesando tu pedido",
			emoji:           "⏳",
			colorTag:        "yellow",
			description:     "Pedido recibido, esperando confirmación",
			next:            []entity.OrderStatus{entity.OrderConfirmado, entity.OrderCancelado},
			requiresAction:  true,
			progressPercent: 10,
			estimatedHours:  2,
			timelineMessage: "Hemos recibido tu pedido y lo estamos verificando.",
		},
		entity.OrderConfirmado: {
			label:           "Confirmado - En preparación",
			emoji:           "✅",
			colorTag:        "blue",
			description:     "Pedido confirmado y pagado",
			next:            []entity.OrderStatus{entity.OrderPreparando, entity.OrderCancelado},
			requiresAction:  true,
			progressPercent: 25,
			estimatedHours:  4,
			timelineMessage: "Tu pedido ha sido confirmado y el pago procesado exitosamente.",
		},
		entity.OrderPreparando: {
			label:           "Preparando tu pedido",
			emoji:           "📦",
			colorTag:        "orange",
			description:     "Pedido en proceso de preparación",
			next:            []entity.OrderStatus{entity.OrderEnviado, entity.OrderCancelado},
			requiresAction:  true,
			progressPercent: 50,
			estimatedHours:  24,
			timelineMessage: "Estamos preparando cuidadosamente tus productos.",
		},
		entity.OrderEnviado: {
			label:           "En camino hacia ti",
			emoji:           "🚛",
			colorTag:        "indigo",
			description:     "Pedido enviado, en tránsito al cliente",
			next:            []entity.OrderStatus{entity.OrderEntregado, entity.OrderDevuelto},
			progressPercent: 75,
			estimatedHours:  72,
			timelineMessage: "Tu pedido está en camino. ¡Pronto lo tendrás!",
		},
		entity.OrderEntregado: {
			label:           "Entregado",
			emoji:           "🎉",
			colorTag:        "green",
			description:     "Pedido entregado exitosamente",
			next:            []entity.OrderStatus{entity.OrderDevuelto},
			progressPercent: 100,
			estimatedHours:  0,
			timelineMessage: "¡Genial! Tu pedido ha sido entregado exitosamente.",
		},
		entity.OrderCancelado: {
			label:           "Cancelado",
			emoji:           "❌",
			colorTag:        "red",
			description:     "Pedido cancelado",
			next:            nil,
			progressPercent: 0,
			estimatedHours:  0,
			timelineMessage: "Tu pedido ha sido cancelado.",
		},
		entity.OrderDevuelto: {
			label:           "Devuelto",
			emoji:           "↩️",
			colorTag:        "purple",
			description:     "Pedido devuelto por el cliente",
			next:            nil,
			requiresAction:  true,
			progressPercent: 0,
			estimatedHours:  48,
			timelineMessage: "Tu pedido ha sido devuelto y estamos procesando el reembolso.",
		},
	}
}

// CustomerView presentación del estado para el cliente.
type CustomerView struct {
	Status          entity.OrderStatus `json:"status"`
	Label           string             `json:"label"`
	Emoji           string             `json:"emoji"`
	ColorTag        string             `json:"color_tag"`
	ProgressPercent int                `json:"progress_percent"`
	EstimatedHours  int                `json:"estimated_hours"`
	TimelineMessage string             `json:"timeline_message"`
}

// DeriveCustomerView búsqueda pura en la tabla de estados. ok=false si el estado no existe.
func DeriveCustomerView(st entity.OrderStatus) (CustomerView, bool) {
	cfg, ok := statusTable[st]
	if !ok {
		return CustomerView{}, false
	}
	return CustomerView{
		Status:          st,
		Label:           cfg.label,
		Emoji:           cfg.emoji,
		ColorTag:        cfg.colorTag,
		ProgressPercent: cfg.progressPercent,
		EstimatedHours:  cfg.estimatedHours,
		TimelineMessage: cfg.timelineMessage,
	}, true
}

// StatusInfo configuración pública de un estado (para el selector de siguientes estados).
type StatusInfo struct {
	Status         entity.OrderStatus   `json:"status"`
	Label          string               `json:"label"`
	Emoji          string               `json:"emoji"`
	ColorTag       string               `json:"color_tag"`
	Description    string               `json:"description"`
	Next           []entity.OrderStatus `json:"next"`
	RequiresAction bool                 `json:"requires_action"`
}

// Info devuelve una copia de la configuración del estado.
func Info(st entity.OrderStatus) (StatusInfo, bool) {
	cfg, ok := statusTable[st]
	if !ok {
		return StatusInfo{}, false
	}
	return StatusInfo{
		Status:         st,
		Label:          cfg.label,
		Emoji:          cfg.emoji,
		ColorTag:       cfg.colorTag,
		Description:    cfg.description,
		Next:           AllowedNext(st),
		RequiresAction: cfg.requiresAction,
	}, true
}

// NextInfo configuraciones de los estados alcanzables desde from.
func NextInfo(from entity.OrderStatus) []StatusInfo {
	next := AllowedNext(from)
	out := make([]StatusInfo, 0, len(next))
	for _, st := range next {
		info, _ := Info(st)
		out = append(out, info)
	}
	return out
}

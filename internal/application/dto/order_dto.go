package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-backoffice/internal/domain/order"
)

// TransitionRequest cambio de estado solicitado desde el panel.
type TransitionRequest struct {
	TargetState string `json:"target_state" validate:"required"`
	Note        string `json:"note" validate:"omitempty,max=500"`
}

// OrderResponse salida de un pedido para el panel.
type OrderResponse struct {
	ID                string          `json:"id"`
	Status            string          `json:"status"`
	CustomerName      string          `json:"customer_name"`
	CustomerPhone     string          `json:"customer_phone"`
	CustomerEmail     *string         `json:"customer_email,omitempty"`
	ShippingAddress   string          `json:"shipping_address"`
	Total             decimal.Decimal `json:"total"`
	ExternalReference *string         `json:"external_reference,omitempty"`
	Carrier           *string         `json:"carrier,omitempty"`
	TrackingNumber    *string         `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	DeliveryNotes     *string         `json:"delivery_notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// HistoryEntryResponse fila del historial de un pedido.
type HistoryEntryResponse struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	PreviousStatus *string   `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Note           string    `json:"note"`
	Actor          string    `json:"actor"`
	CreatedAt      time.Time `json:"created_at"`
}

// TransitionResponse resultado de un cambio de estado.
type TransitionResponse struct {
	Order        OrderResponse        `json:"order"`
	HistoryEntry HistoryEntryResponse `json:"history_entry"`
	CustomerView order.CustomerView   `json:"customer_view"`
}

// TransitionErrorResponse 409 cuando la arista no existe en la máquina de estados.
type TransitionErrorResponse struct {
	Code              string   `json:"code"`
	Message           string   `json:"message"`
	CurrentState      string   `json:"current_state"`
	TargetState       string   `json:"target_state"`
	AllowedNextStates []string `json:"allowed_next_states"`
}

// NextStatesResponse estado actual y los siguientes permitidos con su configuración.
type NextStatesResponse struct {
	OrderID      string             `json:"order_id"`
	Current      order.StatusInfo   `json:"current"`
	NextStates   []order.StatusInfo `json:"next_states"`
	IsTerminal   bool               `json:"is_terminal"`
	CustomerView order.CustomerView `json:"customer_view"`
}

// DeliveryRequest datos de entrega; los campos nil o vacíos no se tocan.
type DeliveryRequest struct {
	Carrier           *string    `json:"carrier"`
	TrackingNumber    *string    `json:"tracking_number"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	ShippingAddress   *string    `json:"shipping_address"`
	DeliveryNotes     *string    `json:"delivery_notes"`
}

// TrackingResponse vista pública del pedido: sin datos personales del cliente.
type TrackingResponse struct {
	OrderID           string             `json:"order_id"`
	CustomerView      order.CustomerView `json:"customer_view"`
	Carrier           *string            `json:"carrier,omitempty"`
	TrackingNumber    *string            `json:"tracking_number,omitempty"`
	EstimatedDelivery *time.Time         `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// PaymentStatusRequest notificación normalizada de la pasarela de pago.
type PaymentStatusRequest struct {
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

// PaymentStatusResponse estado interno al que corresponde el estado de la pasarela.
type PaymentStatusResponse struct {
	State string `json:"state"`
}

// Alert aviso del panel.
type Alert struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Icon     string `json:"icon"`
	Action   string `json:"action"`
	Priority string `json:"priority"`
}

// AlertsResponse avisos ordenados por prioridad.
type AlertsResponse struct {
	Alerts    []Alert   `json:"alerts"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

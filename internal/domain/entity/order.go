package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de un pedido.
type OrderStatus string

// Estados de pedido. cancelado y devuelto son terminales.
const (
	OrderPendiente  OrderStatus = "pendiente"
	OrderConfirmado OrderStatus = "confirmado"
	OrderPreparando OrderStatus = "preparando"
	OrderEnviado    OrderStatus = "enviado"
	OrderEntregado  OrderStatus = "entregado"
	OrderCancelado  OrderStatus = "cancelado"
	OrderDevuelto   OrderStatus = "devuelto"
)

// Order pedido de un cliente. Status solo cambia a través de la máquina de estados.
type Order struct {
	ID                string
	Status            OrderStatus
	CustomerName      string
	CustomerPhone     string
	CustomerEmail     *string
	ShippingAddress   string
	Total             decimal.Decimal
	ExternalReference *string // referencia de la pasarela de pago
	Carrier           *string
	TrackingNumber    *string
	EstimatedDelivery *time.Time
	DeliveryNotes     *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderHistoryEntry fila append-only del historial de un pedido.
// PreviousStatus es nil en entradas que no son transición (ej. datos de entrega).
type OrderHistoryEntry struct {
	ID             string
	OrderID        string
	PreviousStatus *OrderStatus
	NewStatus      OrderStatus
	Note           string
	Actor          string
	CreatedAt      time.Time
}

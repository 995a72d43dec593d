package orders

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-backoffice/internal/application/dto"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
)

func newID() string { return uuid.New().String() }

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                o.ID,
		Status:            string(o.Status),
		CustomerName:      o.CustomerName,
		CustomerPhone:     o.CustomerPhone,
		CustomerEmail:     o.CustomerEmail,
		ShippingAddress:   o.ShippingAddress,
		Total:             o.Total,
		ExternalReference: o.ExternalReference,
		Carrier:           o.Carrier,
		TrackingNumber:    o.TrackingNumber,
		EstimatedDelivery: o.EstimatedDelivery,
		DeliveryNotes:     o.DeliveryNotes,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func toHistoryResponse(e *entity.OrderHistoryEntry) dto.HistoryEntryResponse {
	var prev *string
	if e.PreviousStatus != nil {
		p := string(*e.PreviousStatus)
		prev = &p
	}
	return dto.HistoryEntryResponse{
		ID:             e.ID,
		OrderID:        e.OrderID,
		PreviousStatus: prev,
		NewStatus:      string(e.NewStatus),
		Note:           e.Note,
		Actor:          e.Actor,
		CreatedAt:      e.CreatedAt,
	}
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func trimmed(s *string) *string {
	v := strings.TrimSpace(*s)
	return &v
}

func hasDeliveryChanges(in dto.DeliveryRequest) bool {
	return present(in.Carrier) || present(in.TrackingNumber) || in.EstimatedDelivery != nil ||
		present(in.ShippingAddress) || present(in.DeliveryNotes)
}

// applyDelivery copia al pedido solo los campos informados.
func applyDelivery(o *entity.Order, in dto.DeliveryRequest) {
	if present(in.Carrier) {
		o.Carrier = trimmed(in.Carrier)
	}
	if present(in.TrackingNumber) {
		o.TrackingNumber = trimmed(in.TrackingNumber)
	}
	if in.EstimatedDelivery != nil {
		d := *in.EstimatedDelivery
		o.EstimatedDelivery = &d
	}
	if present(in.ShippingAddress) {
		o.ShippingAddress = strings.TrimSpace(*in.ShippingAddress)
	}
	if present(in.DeliveryNotes) {
		o.DeliveryNotes = trimmed(in.DeliveryNotes)
	}
}

// deliveryNote texto de la fila de historial para un cambio de datos de entrega.
func deliveryNote(in dto.DeliveryRequest) string {
	var b strings.Builder
	b.WriteString("Información de entrega actualizada:")
	if present(in.Carrier) {
		b.WriteString(" Transportadora: " + strings.TrimSpace(*in.Carrier) + ".")
	}
	if present(in.TrackingNumber) {
		b.WriteString(" Guía: " + strings.TrimSpace(*in.TrackingNumber) + ".")
	}
	if in.EstimatedDelivery != nil {
		b.WriteString(" Fecha estimada: " + in.EstimatedDelivery.Format("2006-01-02") + ".")
	}
	if present(in.ShippingAddress) {
		b.WriteString(" Dirección de entrega modificada.")
	}
	return b.String()
}

func deliveryDetails(o *entity.Order) map[string]any {
	d := map[string]any{"status": string(o.Status)}
	if o.Carrier != nil {
		d["carrier"] = *o.Carrier
	}
	if o.TrackingNumber != nil {
		d["tracking_number"] = *o.TrackingNumber
	}
	if o.EstimatedDelivery != nil {
		d["estimated_delivery"] = o.EstimatedDelivery.Format("2006-01-02")
	}
	return d
}

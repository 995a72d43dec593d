package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-backoffice/internal/application/dto"
	"github.com/jhoicas/tienda-backoffice/internal/application/orders"
)

// orderService lo implementa *orders.UseCase.
type orderService interface {
	TransitionOrder(ctx context.Context, orderID string, in dto.TransitionRequest, actor orders.Actor) (*dto.TransitionResponse, error)
	NextStates(ctx context.Context, orderID string) (*dto.NextStatesResponse, error)
	History(ctx context.Context, orderID string) ([]dto.HistoryEntryResponse, error)
	UpdateDelivery(ctx context.Context, orderID string, in dto.DeliveryRequest, actor orders.Actor) (*dto.OrderResponse, error)
	GetAlerts(ctx context.Context) (*dto.AlertsResponse, error)
	Tracking(ctx context.Context, orderID string) (*dto.TrackingResponse, error)
	IngestPaymentStatus(ctx context.Context, in dto.PaymentStatusRequest, ip, userAgent string) dto.PaymentStatusResponse
}

// OrderHandler endpoints de pedidos del panel.
type OrderHandler struct {
	uc  orderService
	log zerolog.Logger
}

// NewOrderHandler construye el handler de pedidos.
func NewOrderHandler(uc orderService, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, log: log}
}

// Transition godoc
// @Summary      Cambiar el estado de un pedido
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                 true  "ID del pedido"
// @Param        body  body  dto.TransitionRequest  true  "target_state, note"
// @Success      200   {object}  dto.TransitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.TransitionErrorResponse
// @Router       /api/admin/pedidos/{id}/estado [post]
func (h *OrderHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.TargetState == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "target_state es requerido"})
	}
	out, err := h.uc.TransitionOrder(c.UserContext(), c.Params("id"), in, actorFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// NextStates godoc
// @Summary      Estados siguientes permitidos
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.NextStatesResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/pedidos/{id}/siguientes-estados [get]
func (h *OrderHandler) NextStates(c *fiber.Ctx) error {
	out, err := h.uc.NextStates(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial del pedido
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {array}   dto.HistoryEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/pedidos/{id}/historial [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateDelivery godoc
// @Summary      Actualizar datos de entrega
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "ID del pedido"
// @Param        body  body  dto.DeliveryRequest  true  "transportadora, guía, fecha estimada"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/pedidos/{id}/entrega [put]
func (h *OrderHandler) UpdateDelivery(c *fiber.Ctx) error {
	var in dto.DeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateDelivery(c.UserContext(), c.Params("id"), in, actorFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Avisos del panel
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.AlertsResponse
// @Router       /api/admin/pedidos/alertas [get]
func (h *OrderHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.uc.GetAlerts(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Tracking godoc
// @Summary      Seguimiento público del pedido
// @Tags         público
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.TrackingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/seguimiento/{id} [get]
func (h *OrderHandler) Tracking(c *fiber.Ctx) error {
	out, err := h.uc.Tracking(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// PaymentStatus godoc
// @Summary      Traducir estado de la pasarela de pago
// @Tags         público
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentStatusRequest  true  "status, external_reference"
// @Success      200   {object}  dto.PaymentStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pagos/estado [post]
func (h *OrderHandler) PaymentStatus(c *fiber.Ctx) error {
	var in dto.PaymentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	origin := requestOrigin(c)
	return c.JSON(h.uc.IngestPaymentStatus(c.UserContext(), in, origin.IP, origin.UserAgent))
}

func actorFrom(c *fiber.Ctx) orders.Actor {
	origin := requestOrigin(c)
	a := orders.Actor{IP: origin.IP, UserAgent: origin.UserAgent}
	if id := GetIdentity(c); id != nil {
		a.ID, a.Email = id.ID, id.Email
	}
	return a
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-backoffice/internal/application/dto"
	"github.com/jhoicas/tienda-backoffice/internal/domain"
)

// writeError traduce errores de dominio a la respuesta HTTP. Lo no reconocido es 500 y se registra;
// el detalle interno no sale al cliente.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var (
		authErr  *domain.AuthenticationError
		trErr    *domain.TransitionError
		closed   *domain.ClosedOrderError
		notFound *domain.NotFoundError
	)
	switch {
	case errors.As(err, &authErr):
		if authErr.Locked {
			return c.Status(fiber.StatusLocked).JSON(dto.LockedResponse{
				Code:             "ACCOUNT_LOCKED",
				Message:          authErr.Error(),
				MinutesRemaining: authErr.MinutesRemaining,
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CREDENTIALS", Message: authErr.Error()})
	case errors.As(err, &trErr):
		return c.Status(fiber.StatusConflict).JSON(dto.TransitionErrorResponse{
			Code:              "TRANSITION_ERROR",
			Message:           trErr.Error(),
			CurrentState:      trErr.From,
			TargetState:       trErr.To,
			AllowedNextStates: nonNil(trErr.Allowed),
		})
	case errors.As(err, &closed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ORDER_CLOSED", Message: closed.Error()})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFound.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_UPDATE", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

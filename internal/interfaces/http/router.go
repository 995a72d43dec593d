package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-backoffice/internal/domain/access"
)

// authService login/logout más validación de sesión para el guard.
type authService interface {
	sessionService
	sessionValidator
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions     authService
	Orders       orderService
	Policy       access.Policy
	Cookie       CookieOptions
	LoginLimiter *RateLimiter
	Log          zerolog.Logger
}

// Router registra las rutas de la API. /metrics no se sirve aquí: ver MetricsApp.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authHandler := NewAuthHandler(deps.Sessions, deps.Cookie, deps.Log)
	orderHandler := NewOrderHandler(deps.Orders, deps.Log)

	// Auth (público)
	authGroup := api.Group("/auth")
	if deps.LoginLimiter != nil {
		authGroup.Post("/login", deps.LoginLimiter.Handler(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/logout", authHandler.Logout)

	// Público: seguimiento del cliente y estado de pago
	api.Get("/seguimiento/:id", orderHandler.Tracking)
	api.Post("/pagos/estado", orderHandler.PaymentStatus)

	// Panel (sesión + matriz de permisos por recurso)
	admin := app.Group(deps.Policy.AdminRoot, Guard(deps.Sessions, deps.Policy))
	admin.Get("/dashboard/me", authHandler.Me)

	pedidos := admin.Group("/pedidos")
	pedidos.Get("/alertas", orderHandler.Alerts)
	pedidos.Post("/:id/estado", orderHandler.Transition)
	pedidos.Get("/:id/siguientes-estados", orderHandler.NextStates)
	pedidos.Get("/:id/historial", orderHandler.History)
	pedidos.Put("/:id/entrega", orderHandler.UpdateDelivery)
}

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/tienda-backoffice/internal/infrastructure/metrics"
)

// AppOptions parámetros del servidor de la API.
type AppOptions struct {
	Name           string
	ProxyHeader    string
	TrustedProxies []string
}

// NewApp servidor fiber de la API. Las rutas distinguen mayúsculas y la barra final, y
// c.IP() solo lee ProxyHeader cuando la conexión viene de TrustedProxies.
func NewApp(opts AppOptions) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:                 opts.Name,
		ReadTimeout:             time.Second * 10,
		WriteTimeout:            time.Second * 10,
		IdleTimeout:             time.Second * 60,
		CaseSensitive:           true,
		StrictRouting:           true,
		ProxyHeader:             opts.ProxyHeader,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          opts.TrustedProxies,
		EnableIPValidation:      true,
	})
}

// MetricsApp servidor aparte que solo expone /metrics, para escucharlo en una dirección interna.
func MetricsApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "metrics",
		DisableStartupMessage: true,
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	return app
}

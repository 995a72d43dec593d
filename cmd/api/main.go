package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/tienda-backoffice/internal/application/audit"
	"github.com/jhoicas/tienda-backoffice/internal/application/auth"
	"github.com/jhoicas/tienda-backoffice/internal/application/orders"
	"github.com/jhoicas/tienda-backoffice/internal/domain/access"
	"github.com/jhoicas/tienda-backoffice/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/tienda-backoffice/internal/interfaces/http"
	"github.com/jhoicas/tienda-backoffice/pkg/config"
	"github.com/jhoicas/tienda-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	version, err := postgres.Migrate(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	log.Info().Uint("version", version).Msg("esquema al día")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{
		MaxConns: int32(cfg.DB.MaxConns),
		MinConns: int32(cfg.DB.MinConns),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	accountRepo := postgres.NewAccountRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	historyRepo := postgres.NewOrderHistoryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditWriter := audit.NewWriter(auditRepo, log.Component("audit"))
	sessions := auth.NewSessionManager(accountRepo, sessionRepo, auditWriter, auth.ConfigFrom(cfg), log.Component("auth"))
	ordersUC := orders.NewUseCase(orderRepo, historyRepo, txRunner, auditWriter, log.Component("orders"))

	app := httpRouter.NewApp(httpRouter.AppOptions{
		Name:           cfg.App.Name,
		ProxyHeader:    cfg.HTTP.ProxyHeader,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	})
	app.Use(recover.New())
	app.Use(httpRouter.Metrics())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda Backoffice API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions: sessions,
		Orders:   ordersUC,
		Policy:   access.NewPolicy(cfg.Auth.AdminRoot),
		Cookie: httpRouter.CookieOptions{
			Secure: cfg.Auth.CookieSecure,
			MaxAge: time.Duration(cfg.Auth.SessionHours) * time.Hour,
		},
		LoginLimiter: httpRouter.NewRateLimiter(cfg.Auth.LoginRatePerSecond, cfg.Auth.LoginRateBurst, log.Component("ratelimit")),
		Log:          log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	var metricsApp *fiber.App
	if cfg.HTTP.MetricsAddr != "" {
		metricsApp = httpRouter.MetricsApp()
		go func() {
			if err := metricsApp.Listen(cfg.HTTP.MetricsAddr); err != nil {
				log.Error().Err(err).Msg("servidor de métricas finalizado")
			}
		}()
		log.Info().Str("addr", cfg.HTTP.MetricsAddr).Msg("métricas expuestas")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if metricsApp != nil {
		if err := metricsApp.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del servidor de métricas")
		}
	}
	log.Info().Msg("aplicación detenida")
}

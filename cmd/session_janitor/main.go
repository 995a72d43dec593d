// session_janitor borra periódicamente las sesiones del panel ya expiradas.
//
// Uso: go run ./cmd/session_janitor [-once]
// La frecuencia se toma de JANITOR_SCHEDULE (expresión cron, por defecto "@every 1h").
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/tienda-backoffice/internal/application/audit"
	"github.com/jhoicas/tienda-backoffice/internal/application/auth"
	"github.com/jhoicas/tienda-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-backoffice/pkg/config"
	"github.com/jhoicas/tienda-backoffice/pkg/logger"
)

func main() {
	once := flag.Bool("once", false, "ejecuta una limpieza y termina")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{MaxConns: 2, MinConns: 0})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	sessions := auth.NewSessionManager(
		postgres.NewAccountRepository(pool),
		postgres.NewSessionRepository(pool),
		audit.NewWriter(postgres.NewAuditLogRepository(pool), log.Component("audit")),
		auth.ConfigFrom(cfg),
		log.Component("auth"),
	)

	cleanup := func() {
		runCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		n, err := sessions.CleanupExpiredSessions(runCtx)
		if err != nil {
			log.Error().Err(err).Msg("limpieza de sesiones")
			return
		}
		log.Info().Int64("deleted", n).Msg("sesiones expiradas eliminadas")
	}

	if *once {
		cleanup()
		return
	}

	cl := cronLogger{log: log.Component("cron")}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl)))
	if _, err := c.AddFunc(cfg.Janitor.Schedule, cleanup); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Janitor.Schedule).Msg("expresión cron inválida")
	}
	c.Start()
	log.Info().Str("schedule", cfg.Janitor.Schedule).Msg("janitor de sesiones iniciado")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-c.Stop().Done()
	log.Info().Msg("janitor detenido")
}

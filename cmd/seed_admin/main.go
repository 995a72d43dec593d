// seed_admin crea una cuenta del panel (por defecto super_admin) aplicando las migraciones antes.
//
// Uso: go run ./cmd/seed_admin -email admin@tienda.co [-name "Admin"] [-role super_admin]
// La contraseña se lee de SEED_ADMIN_PASSWORD para no dejarla en el historial del shell.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/tienda-backoffice/internal/application/audit"
	"github.com/jhoicas/tienda-backoffice/internal/application/auth"
	"github.com/jhoicas/tienda-backoffice/internal/application/dto"
	"github.com/jhoicas/tienda-backoffice/internal/domain"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
	"github.com/jhoicas/tienda-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-backoffice/pkg/config"
	"github.com/jhoicas/tienda-backoffice/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email de la cuenta")
	name := flag.String("name", "", "nombre visible (por defecto el email)")
	role := flag.String("role", entity.RoleSuperAdmin, "rol: super_admin, manager, editor, viewer")
	flag.Parse()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if *email == "" || password == "" {
		fmt.Fprintln(os.Stderr, "uso: SEED_ADMIN_PASSWORD=... seed_admin -email <email> [-name <nombre>] [-role <rol>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if _, err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

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

	acc, err := sessions.CreateAccount(ctx, dto.CreateAccountRequest{
		Email:    *email,
		Password: password,
		Name:     *name,
		Role:     *role,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Warn().Str("email", *email).Msg("la cuenta ya existe, no se modifica")
		return
	case err != nil:
		log.Fatal().Err(err).Msg("crear cuenta")
	}
	log.Info().Str("id", acc.ID).Str("email", acc.Email).Str("role", acc.Role).Msg("cuenta creada")
}

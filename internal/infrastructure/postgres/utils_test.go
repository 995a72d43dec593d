package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/tienda?sslmode=disable", pgx5URL("postgres://u:p@db:5432/tienda?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/tienda", pgx5URL("postgresql://u@db/tienda"))
	assert.Equal(t, "pgx5://ya/listo", pgx5URL("pgx5://ya/listo"))
}

func TestValidUUID(t *testing.T) {
	assert.True(t, validUUID("6f1c2b9e-3f57-4d8e-9a43-1f0f3d8a2b11"))
	assert.False(t, validUUID("123"))
	assert.False(t, validUUID(""))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}

func TestPoolOptions_Defaults(t *testing.T) {
	o := PoolOptions{}.withDefaults()
	assert.Equal(t, int32(10), o.MaxConns)
	assert.Equal(t, int32(0), o.MinConns)
	assert.Equal(t, time.Hour, o.MaxConnLifetime)

	o = PoolOptions{MaxConns: 4, MinConns: 9}.withDefaults()
	assert.Equal(t, int32(4), o.MaxConns)
	assert.Equal(t, int32(1), o.MinConns, "MinConns no puede superar MaxConns")
}

func TestMigrationsEmbebidas(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	assert.NoError(t, err)
	assert.Len(t, entries, 4, "up y down por versión")
}

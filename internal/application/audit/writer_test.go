package audit_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-backoffice/internal/application/audit"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
)

type fakeAuditRepo struct {
	entries []*entity.AuditLogEntry
	err     error
}

func (f *fakeAuditRepo) Insert(_ context.Context, e *entity.AuditLogEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func TestAppend_SellaYNormalizaOrigen(t *testing.T) {
	repo := &fakeAuditRepo{}
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	w := audit.NewWriter(repo, zerolog.Nop()).WithClock(func() time.Time { return now })

	w.Append(context.Background(), audit.Event{
		Action:    entity.AuditLoginFailed,
		Resource:  "invalid_email",
		Details:   map[string]any{"email": "x@y.co"},
		IPAddress: "unknown",
		UserAgent: "curl/8.0",
	})

	require.Len(t, repo.entries, 1)
	e := repo.entries[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, entity.AuditActorUnknown, e.ActorID, "sin actor se registra unknown")
	assert.Nil(t, e.IPAddress, "unknown se persiste como NULL")
	require.NotNil(t, e.UserAgent)
	assert.Equal(t, "curl/8.0", *e.UserAgent)
	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, "x@y.co", e.Details["email"])
}

func TestAppend_FalloNoSePropaga(t *testing.T) {
	var buf bytes.Buffer
	repo := &fakeAuditRepo{err: errors.New("conexión rechazada")}
	w := audit.NewWriter(repo, zerolog.New(&buf))

	assert.NotPanics(t, func() {
		w.Append(context.Background(), audit.Event{ActorID: "u-1", Action: entity.AuditLogout, Resource: "user_session"})
	})
	assert.Contains(t, buf.String(), "conexión rechazada", "el fallo debe quedar en el log")
	assert.Contains(t, buf.String(), entity.AuditLogout)
}

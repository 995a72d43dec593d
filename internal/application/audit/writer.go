// Package audit escribe el log de auditoría append-only. Un fallo al auditar nunca
// hace fallar la operación principal.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
	"github.com/jhoicas/tienda-backoffice/internal/domain/repository"
	"github.com/jhoicas/tienda-backoffice/internal/infrastructure/metrics"
)

// unknownOrigin valor que los handlers usan cuando no hay IP/UA; se persiste como NULL.
const unknownOrigin = "unknown"

// Event datos de un evento antes de sellarlo.
type Event struct {
	ActorID   string
	Action    string
	Resource  string
	Details   map[string]any
	IPAddress string
	UserAgent string
}

// Writer sink de auditoría.
type Writer struct {
	repo repository.AuditLogRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewWriter construye el writer.
func NewWriter(repo repository.AuditLogRepository, log zerolog.Logger) *Writer {
	return &Writer{repo: repo, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Append sella y persiste el evento. Los errores se registran y se descartan.
func (w *Writer) Append(ctx context.Context, ev Event) {
	actor := ev.ActorID
	if actor == "" {
		actor = entity.AuditActorUnknown
	}
	entry := &entity.AuditLogEntry{
		ID:        uuid.New().String(),
		ActorID:   actor,
		Action:    ev.Action,
		Resource:  ev.Resource,
		Details:   ev.Details,
		IPAddress: origin(ev.IPAddress),
		UserAgent: origin(ev.UserAgent),
		CreatedAt: w.now(),
	}
	if err := w.repo.Insert(ctx, entry); err != nil {
		metrics.RecordAudit(ev.Action, false)
		w.log.Error().Err(err).
			Str("actor", actor).
			Str("action", ev.Action).
			Str("resource", ev.Resource).
			Msg("no se pudo guardar el evento de auditoría")
		return
	}
	metrics.RecordAudit(ev.Action, true)
}

func origin(v string) *string {
	if v == "" || v == unknownOrigin {
		return nil
	}
	return &v
}

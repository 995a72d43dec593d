package repository

import (
	"context"

	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
)

// AuditLogRepository sink append-only de eventos de auditoría.
type AuditLogRepository interface {
	Insert(ctx context.Context, entry *entity.AuditLogEntry) error
}

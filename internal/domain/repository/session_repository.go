package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia para sesiones servidor.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// FindByToken devuelve la sesión unida a su cuenta, o (nil, nil).
	FindByToken(ctx context.Context, token string) (*entity.SessionWithAccount, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByAccount(ctx context.Context, accountID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

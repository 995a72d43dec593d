package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para Account (DIP).
// Los Find* devuelven (nil, nil) cuando no hay fila.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	// FindActiveByEmail solo devuelve cuentas con status active.
	FindActiveByEmail(ctx context.Context, email string) (*entity.Account, error)
	// UpdateLoginState persiste LoginAttempts, LockedUntil y LastLogin.
	UpdateLoginState(ctx context.Context, account *entity.Account) error
	// RegisterFailedLogin suma un intento sobre el valor almacenado (no sobre el leído) y fija
	// locked_until = lockUntil si el contador llega a maxAttempts. Devuelve el estado resultante.
	RegisterFailedLogin(ctx context.Context, accountID string, maxAttempts int, lockUntil, now time.Time) (attempts int, lockedUntil *time.Time, err error)
}

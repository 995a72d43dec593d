package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-backoffice/internal/domain"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
	"github.com/jhoicas/tienda-backoffice/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

const accountColumns = `id, email, name, password_hash, role, status, login_attempts, locked_until, last_login, created_at, updated_at`

// AccountRepo cuentas de operador sobre admin_users.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una cuenta nueva. Email repetido -> domain.ErrDuplicate.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO admin_users (id, email, name, password_hash, role, status, login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Email, a.Name, a.PasswordHash, a.Role, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}

// FindActiveByEmail obtiene la cuenta activa con ese email. nil si no existe o está inactiva.
func (r *AccountRepo) FindActiveByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM admin_users WHERE email = $1 AND status = $2`
	a, err := scanAccount(r.q.QueryRow(ctx, query, email, entity.AccountStatusActive))
	if err != nil {
		return nil, fmt.Errorf("get admin user by email: %w", err)
	}
	return a, nil
}

// UpdateLoginState escribe contador de intentos, bloqueo y último login.
func (r *AccountRepo) UpdateLoginState(ctx context.Context, a *entity.Account) error {
	query := `
		UPDATE admin_users
		SET login_attempts = $2, locked_until = $3, last_login = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, a.ID, a.LoginAttempts, a.LockedUntil, a.LastLogin, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update login state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Kind: "cuenta", ID: a.ID}
	}
	return nil
}

// RegisterFailedLogin incremento atómico en una sola sentencia: dos fallos simultáneos
// cuentan como dos aunque ambos hayan leído el mismo contador.
func (r *AccountRepo) RegisterFailedLogin(ctx context.Context, accountID string, maxAttempts int, lockUntil, now time.Time) (int, *time.Time, error) {
	query := `
		UPDATE admin_users
		SET login_attempts = login_attempts + 1,
		    locked_until = CASE WHEN login_attempts + 1 >= $2 THEN $3::timestamptz ELSE NULL END,
		    updated_at = $4
		WHERE id = $1
		RETURNING login_attempts, locked_until`
	var (
		attempts    int
		lockedUntil *time.Time
	)
	err := r.q.QueryRow(ctx, query, accountID, maxAttempts, lockUntil, now).Scan(&attempts, &lockedUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil, &domain.NotFoundError{Kind: "cuenta", ID: accountID}
		}
		return 0, nil, fmt.Errorf("register failed login: %w", err)
	}
	return attempts, lockedUntil, nil
}

// scanAccount devuelve nil, nil si no hay fila.
func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.Status,
		&a.LoginAttempts, &a.LockedUntil, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

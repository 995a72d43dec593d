package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
	"github.com/jhoicas/tienda-backoffice/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo registros de sesión sobre admin_sessions.
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

// Create persiste la sesión.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO admin_sessions (id, user_id, token, refresh_token, expires_at, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.AccountID, s.Token, s.RefreshToken, s.ExpiresAt, s.IPAddress, s.UserAgent, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindByToken sesión del access token junto a su cuenta. nil si no existe.
func (r *SessionRepo) FindByToken(ctx context.Context, token string) (*entity.SessionWithAccount, error) {
	query := `
		SELECT s.id, s.user_id, s.token, s.refresh_token, s.expires_at, s.ip_address, s.user_agent, s.created_at,
		       u.id, u.email, u.name, u.password_hash, u.role, u.status, u.login_attempts,
		       u.locked_until, u.last_login, u.created_at, u.updated_at
		FROM admin_sessions s
		JOIN admin_users u ON u.id = s.user_id
		WHERE s.token = $1`
	var out entity.SessionWithAccount
	s, a := &out.Session, &out.Account
	err := r.q.QueryRow(ctx, query, token).Scan(
		&s.ID, &s.AccountID, &s.Token, &s.RefreshToken, &s.ExpiresAt, &s.IPAddress, &s.UserAgent, &s.CreatedAt,
		&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role, &a.Status, &a.LoginAttempts,
		&a.LockedUntil, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by token: %w", err)
	}
	return &out, nil
}

// DeleteByToken borra la sesión del token. Sin fila no es error.
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM admin_sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByAccount borra todas las sesiones de la cuenta.
func (r *SessionRepo) DeleteByAccount(ctx context.Context, accountID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM admin_sessions WHERE user_id = $1`, accountID); err != nil {
		return fmt.Errorf("delete sessions by account: %w", err)
	}
	return nil
}

// DeleteExpired borra las sesiones con expires_at <= now y devuelve cuántas eran.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM admin_sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

package entity

import "time"

// Session registro servidor de una sesión autenticada. Token es el access token firmado;
// la sesión se revoca borrando la fila aunque el JWT siga vigente.
type Session struct {
	ID           string
	AccountID    string
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
	IPAddress    *string
	UserAgent    *string
	CreatedAt    time.Time
}

// IsExpired informa si la expiración del lado servidor ya pasó.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SessionWithAccount sesión unida a su cuenta (validación y logout).
type SessionWithAccount struct {
	Session Session
	Account Account
}

package entity

import "time"

// Roles válidos para Account.
const (
	RoleSuperAdmin = "super_admin"
	RoleManager    = "manager"
	RoleEditor     = "editor"
	RoleViewer     = "viewer"
)

// Estados de cuenta.
const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

// Account operador del backoffice. Se aprovisiona fuera del core y nunca se borra;
// el SessionManager solo modifica LoginAttempts, LockedUntil y LastLogin.
type Account struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string // bcrypt
	Role          string // super_admin, manager, editor, viewer
	Status        string // active, inactive
	LoginAttempts int
	LockedUntil   *time.Time
	LastLogin     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive informa si la cuenta puede iniciar sesión.
func (a *Account) IsActive() bool {
	return a != nil && a.Status == AccountStatusActive
}

// IsLocked informa si el bloqueo por intentos fallidos sigue vigente en now.
func (a *Account) IsLocked(now time.Time) bool {
	return a.LockedUntil != nil && a.LockedUntil.After(now)
}

// IsValidRole valida un rol contra la lista cerrada.
func IsValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleManager, RoleEditor, RoleViewer:
		return true
	}
	return false
}

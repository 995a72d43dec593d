package dto

import "time"

// CreateAccountRequest aprovisionamiento de un operador (password en texto, se hashea en el caso de uso).
type CreateAccountRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"required,oneof=super_admin manager editor viewer"`
}

// AccountResponse salida de una cuenta (sin password ni estado de bloqueo).
type AccountResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con access y refresh token.
type LoginResponse struct {
	User             SessionUser `json:"user"`
	AccessToken      string      `json:"access_token"`
	RefreshToken     string      `json:"refresh_token"`
	ExpiresAt        time.Time   `json:"expires_at"`
	RefreshExpiresAt time.Time   `json:"refresh_expires_at"`
}

// SessionUser identidad resuelta de una sesión.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// MeResponse identidad actual más los recursos del panel que puede abrir.
type MeResponse struct {
	User      SessionUser `json:"user"`
	Resources []string    `json:"resources"`
}

// LockedResponse respuesta de cuenta bloqueada: informa los minutos restantes.
type LockedResponse struct {
	Code             string `json:"code"`
	Message          string `json:"message"`
	MinutesRemaining int    `json:"minutes_remaining"`
}

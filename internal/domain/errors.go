package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConcurrentUpdate  = errors.New("el pedido fue modificado por otra operación")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrOrderClosed       = errors.New("el pedido está en un estado final")
	ErrPersistence       = errors.New("error de persistencia")
)

// MsgInvalidCredentials es el mensaje uniforme de login fallido: no revela si el email existe.
const MsgInvalidCredentials = "credenciales inválidas"

// AuthenticationError login rechazado. Locked indica bloqueo temporal; solo en ese caso
// se informa el tiempo restante.
type AuthenticationError struct {
	Locked           bool
	MinutesRemaining int
}

func (e *AuthenticationError) Error() string {
	if e.Locked {
		return fmt.Sprintf("cuenta temporalmente bloqueada, intenta en %d minutos", e.MinutesRemaining)
	}
	return MsgInvalidCredentials
}

// Is permite errors.Is(err, ErrUnauthorized).
func (e *AuthenticationError) Is(target error) bool { return target == ErrUnauthorized }

// TransitionError cambio de estado ilegal. Allowed lleva los estados válidos desde From
// para que el cliente pueda corregir la petición.
type TransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *TransitionError) Error() string {
	allowed := "ninguno"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf("no se puede pasar de %q a %q (permitidos: %s)", e.From, e.To, allowed)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// ClosedOrderError el pedido está cancelado o devuelto y ya no admite cambios.
type ClosedOrderError struct {
	ID     string
	Status string
}

func (e *ClosedOrderError) Error() string {
	return fmt.Sprintf("el pedido %q está %s y no admite cambios", e.ID, e.Status)
}

func (e *ClosedOrderError) Is(target error) bool { return target == ErrOrderClosed }

// NotFoundError recurso inexistente (cuenta, sesión o pedido).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError fallo del almacén. No se reintenta dentro del core.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

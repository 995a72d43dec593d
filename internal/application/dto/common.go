package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AccessDeniedResponse 401/403 del guard: Reason es un código estable para que el cliente
// distinga "ir al login" de "sin permisos".
type AccessDeniedResponse struct {
	Code     string `json:"code"`
	Reason   string `json:"reason"`
	Resource string `json:"resource,omitempty"`
	Message  string `json:"message"`
}

// MessageResponse respuesta simple de éxito.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

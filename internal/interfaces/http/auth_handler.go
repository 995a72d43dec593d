package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-backoffice/internal/application/auth"
	"github.com/jhoicas/tienda-backoffice/internal/application/dto"
	"github.com/jhoicas/tienda-backoffice/internal/domain/access"
)

// sessionService lo implementa *auth.SessionManager.
type sessionService interface {
	Authenticate(ctx context.Context, in dto.LoginRequest, origin auth.Origin) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string, origin auth.Origin) error
}

// CookieOptions atributos de la cookie de sesión.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// AuthHandler login, logout e identidad actual.
type AuthHandler struct {
	sessions sessionService
	cookie   CookieOptions
	log      zerolog.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(sessions sessionService, cookie CookieOptions, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie, log: log}
}

// Login godoc
// @Summary      Iniciar sesión en el panel
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.LockedResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out, err := h.sessions.Authenticate(c.UserContext(), in, requestOrigin(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	cookie := h.sessionCookie(out.AccessToken)
	cookie.MaxAge = int(h.cookie.MaxAge.Seconds())
	c.Cookie(cookie)
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.UserContext(), extractToken(c), requestOrigin(c)); err != nil {
		// La cookie se borra igual: el cliente queda deslogueado aunque falle el borrado.
		h.log.Warn().Err(err).Msg("logout: no se pudo revocar la sesión")
	}
	// fasthttp no emite Max-Age=0: la cookie se expira con una fecha pasada.
	cookie := h.sessionCookie("")
	cookie.Expires = time.Unix(0, 0)
	c.Cookie(cookie)
	return c.JSON(dto.MessageResponse{Success: true, Message: "sesión cerrada"})
}

// Me godoc
// @Summary      Identidad actual y recursos accesibles
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MeResponse
// @Failure      401  {object}  dto.AccessDeniedResponse
// @Router       /api/admin/dashboard/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id := GetIdentity(c)
	if id == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.AccessDeniedResponse{
			Code: "UNAUTHENTICATED", Reason: access.ReasonUnauthenticated, Message: "sesión requerida",
		})
	}
	resources := access.Resources(id.Role)
	names := make([]string, 0, len(resources))
	for _, r := range resources {
		names = append(names, r.String())
	}
	return c.JSON(dto.MeResponse{
		User:      dto.SessionUser{ID: id.ID, Email: id.Email, Name: id.Name, Role: id.Role},
		Resources: names,
	})
}

func (h *AuthHandler) sessionCookie(value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

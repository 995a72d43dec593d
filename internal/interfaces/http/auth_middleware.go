package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-backoffice/internal/application/auth"
	"github.com/jhoicas/tienda-backoffice/internal/application/dto"
	"github.com/jhoicas/tienda-backoffice/internal/domain/access"
)

// SessionCookie cookie HttpOnly con el access token.
const SessionCookie = "admin-token"

// LocalIdentity key de c.Locals con la *access.Identity resuelta por el guard.
const LocalIdentity = "identity"

// sessionValidator contrato mínimo del guard. Lo implementa *auth.SessionManager.
type sessionValidator interface {
	ValidateSession(ctx context.Context, token string) *access.Identity
}

// Guard resuelve la sesión del request (cookie o Bearer) y aplica la matriz de permisos
// sobre la ruta. Responde 401 sin sesión válida y 403 cuando el rol no alcanza. Se monta
// sobre el grupo del panel: ninguna ruta que llegue aquí se considera pública por omisión.
func Guard(validator sessionValidator, policy access.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var identity *access.Identity
		if token := extractToken(c); token != "" {
			identity = validator.ValidateSession(c.UserContext(), token)
		}

		decision := policy.AuthorizeMounted(identity, c.Path())
		switch decision.Outcome {
		case access.Unauthenticated:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.AccessDeniedResponse{
				Code:     "UNAUTHENTICATED",
				Reason:   decision.Reason,
				Resource: decision.Resource.String(),
				Message:  "sesión requerida",
			})
		case access.Forbidden:
			return c.Status(fiber.StatusForbidden).JSON(dto.AccessDeniedResponse{
				Code:     "FORBIDDEN",
				Reason:   decision.Reason,
				Resource: decision.Resource.String(),
				Message:  "permisos insuficientes",
			})
		}
		if identity != nil {
			c.Locals(LocalIdentity, identity)
		}
		return c.Next()
	}
}

// extractToken cookie admin-token; si no está, Authorization: Bearer <token>.
func extractToken(c *fiber.Ctx) string {
	if tok := strings.TrimSpace(c.Cookies(SessionCookie)); tok != "" {
		return tok
	}
	header := c.Get(fiber.HeaderAuthorization)
	scheme, tok, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(tok)
}

// GetIdentity devuelve la identidad del contexto (después del Guard).
func GetIdentity(c *fiber.Ctx) *access.Identity {
	id, _ := c.Locals(LocalIdentity).(*access.Identity)
	return id
}

// requestOrigin IP y user-agent para auditoría; vacíos se registran como "unknown".
// La IP sale de c.IP(): encabezados de proxy solo cuentan desde proxies de confianza.
func requestOrigin(c *fiber.Ctx) auth.Origin {
	ip := c.IP()
	if ip == "" {
		ip = "unknown"
	}
	ua := c.Get(fiber.HeaderUserAgent)
	if ua == "" {
		ua = "unknown"
	}
	return auth.Origin{IP: ip, UserAgent: ua}
}

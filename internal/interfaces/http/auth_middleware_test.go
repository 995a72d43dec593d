package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-backoffice/internal/application/auth"
	"github.com/jhoicas/tienda-backoffice/internal/application/dto"
	"github.com/jhoicas/tienda-backoffice/internal/domain"
	"github.com/jhoicas/tienda-backoffice/internal/domain/access"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
	apphttp "github.com/jhoicas/tienda-backoffice/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testAdminRoot = "/api/admin"

// fakeSessions resuelve identidades por token fijo y devuelve el login configurado.
type fakeSessions struct {
	identities map[string]*access.Identity
	loginOut   *dto.LoginResponse
	loginErr   error
	lastOrigin auth.Origin
	loggedOut  []string
}

func newFakeSessions() *fakeSessions {
	f := &fakeSessions{identities: map[string]*access.Identity{}}
	for _, role := range []string{entity.RoleSuperAdmin, entity.RoleManager, entity.RoleEditor, entity.RoleViewer} {
		f.identities["tok-"+role] = &access.Identity{
			ID: "id-" + role, Email: role + "@tienda.co", Name: role, Role: role,
		}
	}
	return f
}

func (f *fakeSessions) ValidateSession(_ context.Context, token string) *access.Identity {
	return f.identities[token]
}

func (f *fakeSessions) Authenticate(_ context.Context, _ dto.LoginRequest, origin auth.Origin) (*dto.LoginResponse, error) {
	f.lastOrigin = origin
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginOut, nil
}

func (f *fakeSessions) Logout(_ context.Context, token string, _ auth.Origin) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

// buildTestApp construye la app con el router real y fakes de los casos de uso.
func buildTestApp(t *testing.T, sessions *fakeSessions, orders *fakeOrders, limiter *apphttp.RateLimiter) *fiber.App {
	t.Helper()
	return mountRouter(t, apphttp.NewApp(apphttp.AppOptions{Name: "test"}), sessions, orders, limiter)
}

// mountRouter registra el router real sobre app.
func mountRouter(t *testing.T, app *fiber.App, sessions *fakeSessions, orders *fakeOrders, limiter *apphttp.RateLimiter) *fiber.App {
	t.Helper()
	app.Use(apphttp.Metrics())
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:     sessions,
		Orders:       orders,
		Policy:       access.NewPolicy(testAdminRoot),
		Cookie:       apphttp.CookieOptions{MaxAge: 24 * time.Hour},
		LoginLimiter: limiter,
		Log:          zerolog.Nop(),
	})
	return app
}

// doRequest lanza la petición con token Bearer opcional.
func doRequest(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard
// ──────────────────────────────────────────────────────────────────────────────

func TestGuard_SinSesion_Retorna401(t *testing.T) {
	app := buildTestApp(t, newFakeSessions(), newFakeOrders(), nil)

	resp := doRequest(t, app, http.MethodGet, "/api/admin/dashboard/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.AccessDeniedResponse](t, resp)
	assert.Equal(t, access.ReasonUnauthenticated, body.Reason)
	assert.Equal(t, "dashboard", body.Resource)
}

func TestGuard_TokenDesconocido_Retorna401(t *testing.T) {
	app := buildTestApp(t, newFakeSessions(), newFakeOrders(), nil)

	resp := doRequest(t, app, http.MethodGet, "/api/admin/pedidos/alertas", "token.invalido.aqui", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGuard_ViewerBloqueadoEnPedidos(t *testing.T) {
	app := buildTestApp(t, newFakeSessions(), newFakeOrders(), nil)

	resp := doRequest(t, app, http.MethodGet, "/api/admin/pedidos/alertas", "tok-viewer", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode[dto.AccessDeniedResponse](t, resp)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, access.ReasonInsufficientPermissions, body.Reason)
	assert.Equal(t, "pedidos", body.Resource)
}

func TestGuard_ManagerAccedeAPedidos(t *testing.T) {
	app := buildTestApp(t, newFakeSessions(), newFakeOrders(), nil)

	resp := doRequest(t, app, http.MethodGet, "/api/admin/pedidos/alertas", "tok-manager", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuard_UsuariosSoloSuperAdmin(t *testing.T) {
	app := buildTestApp(t, newFakeSessions(), newFakeOrders(), nil)

	resp := doRequest(t, app, http.MethodGet, "/api/admin/usuarios", "tok-manager", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decode[dto.AccessDeniedResponse](t, resp)
	assert.Equal(t, access.ReasonElevatedRoute, body.Reason)

	// super_admin pasa el guard; la ruta no existe en este servicio.
	resp = doRequest(t, app, http.MethodGet, "/api/admin/usuarios", "tok-super_admin", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGuard_TokenEnCookie(t *testing.T) {
	app := buildTestApp(t, newFakeSessions(), newFakeOrders(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard/me", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.SessionCookie, Value: "tok-editor"})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me := decode[dto.MeResponse](t, resp)
	assert.Equal(t, "id-editor", me.User.ID)
	assert.Equal(t, []string{"dashboard", "productos", "inventario"}, me.Resources)
}

func TestGuard_RutasPublicasSinSesion(t *testing.T) {
	app := buildTestApp(t, newFakeSessions(), newFakeOrders(), nil)

	resp := doRequest(t, app, http.MethodGet, "/api/seguimiento/"+testOrderID, "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// El guard no depende de cómo enrute fiber: con rutas insensibles a mayúsculas, una ruta
// del panel escrita en mayúsculas sigue exigiendo sesión y permisos.
func TestGuard_MayusculasNoEvadenElGuard(t *testing.T) {
	ords := newFakeOrders()
	app := mountRouter(t, fiber.New(), newFakeSessions(), ords, nil)

	resp := doRequest(t, app, http.MethodPost, "/API/ADMIN/pedidos/"+testOrderID+"/estado", "", `{"target_state":"cancelado"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.AccessDeniedResponse](t, resp)
	assert.NotEqual(t, access.ReasonPublic, body.Reason)
	assert.Empty(t, ords.lastRequest.TargetState, "el caso de uso no debe ejecutarse")

	resp = doRequest(t, app, http.MethodGet, "/Api/Admin/pedidos/alertas", "tok-viewer", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "pedidos", decode[dto.AccessDeniedResponse](t, resp).Resource)
}

// La app de producción distingue mayúsculas: la variante no coincide con ninguna ruta del panel.
func TestNewApp_RutasSensiblesAMayusculas(t *testing.T) {
	ords := newFakeOrders()
	app := buildTestApp(t, newFakeSessions(), ords, nil)

	resp := doRequest(t, app, http.MethodPost, "/API/ADMIN/pedidos/"+testOrderID+"/estado", "tok-manager", `{"target_state":"cancelado"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, ords.lastRequest.TargetState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login / logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_ExitosoEmiteCookie(t *testing.T) {
	sessions := newFakeSessions()
	sessions.loginOut = &dto.LoginResponse{
		User:        dto.SessionUser{ID: "id-manager", Email: "manager@tienda.co", Role: entity.RoleManager},
		AccessToken: "tok-nuevo",
	}
	app := buildTestApp(t, sessions, newFakeOrders(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"manager@tienda.co","password":"Correcta-2025"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == apphttp.SessionCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, "tok-nuevo", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.Equal(t, "test-agent", sessions.lastOrigin.UserAgent)

	body := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, "tok-nuevo", body.AccessToken)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	sessions := newFakeSessions()
	sessions.loginErr = &domain.AuthenticationError{}
	app := buildTestApp(t, sessions, newFakeOrders(), nil)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"x@tienda.co","password":"mala"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_CREDENTIALS", body.Code)
	assert.Equal(t, domain.MsgInvalidCredentials, body.Message)
}

func TestLogin_CuentaBloqueada_Retorna423(t *testing.T) {
	sessions := newFakeSessions()
	sessions.loginErr = &domain.AuthenticationError{Locked: true, MinutesRemaining: 12}
	app := buildTestApp(t, sessions, newFakeOrders(), nil)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"x@tienda.co","password":"Correcta-2025"}`)
	assert.Equal(t, http.StatusLocked, resp.StatusCode)
	body := decode[dto.LockedResponse](t, resp)
	assert.Equal(t, "ACCOUNT_LOCKED", body.Code)
	assert.Equal(t, 12, body.MinutesRemaining)
}

func TestLogin_Validacion(t *testing.T) {
	app := buildTestApp(t, newFakeSessions(), newFakeOrders(), nil)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", `{"email":""}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_RateLimit(t *testing.T) {
	sessions := newFakeSessions()
	sessions.loginErr = &domain.AuthenticationError{}
	limiter := apphttp.NewRateLimiter(0.001, 2, zerolog.Nop())
	app := buildTestApp(t, sessions, newFakeOrders(), limiter)

	body := `{"email":"x@tienda.co","password":"mala"}`
	for i := 0; i < 2; i++ {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", body)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", decode[dto.ErrorResponse](t, resp).Code)
}

// Sin proxy de confianza los encabezados de reenvío no cambian la IP: rotarlos no
// reinicia el cupo ni falsea la IP de auditoría.
func TestLogin_RateLimitIgnoraForwardedFor(t *testing.T) {
	for name, opts := range map[string]apphttp.AppOptions{
		"sin encabezado de proxy":   {},
		"proxy que no es confiable": {ProxyHeader: fiber.HeaderXForwardedFor, TrustedProxies: []string{"10.9.9.9"}},
	} {
		t.Run(name, func(t *testing.T) {
			sessions := newFakeSessions()
			sessions.loginErr = &domain.AuthenticationError{}
			limiter := apphttp.NewRateLimiter(0.001, 2, zerolog.Nop())
			app := mountRouter(t, apphttp.NewApp(opts), sessions, newFakeOrders(), limiter)

			login := func(forwarded string) *http.Response {
				req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"x@tienda.co","password":"mala"}`))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set(fiber.HeaderXForwardedFor, forwarded)
				resp, err := app.Test(req, -1)
				require.NoError(t, err)
				return resp
			}

			for i, fwd := range []string{"203.0.113.1", "203.0.113.2"} {
				resp := login(fwd)
				resp.Body.Close()
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "intento %d", i+1)
				assert.NotEqual(t, fwd, sessions.lastOrigin.IP)
			}
			resp := login("203.0.113.3")
			assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
			assert.Equal(t, "RATE_LIMITED", decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestMetrics_FueraDeLaAPI(t *testing.T) {
	app := buildTestApp(t, newFakeSessions(), newFakeOrders(), nil)
	resp := doRequest(t, app, http.MethodGet, "/metrics", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err := apphttp.MetricsApp().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "tienda_backoffice_")
}

func TestLogout_BorraCookieSiempre(t *testing.T) {
	sessions := newFakeSessions()
	app := buildTestApp(t, sessions, newFakeOrders(), nil)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/logout", "tok-manager", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"tok-manager"}, sessions.loggedOut)

	var cleared bool
	for _, ck := range resp.Cookies() {
		if ck.Name == apphttp.SessionCookie {
			cleared = ck.Value == "" && ck.Expires.Before(time.Now())
		}
	}
	assert.True(t, cleared, "la cookie debe quedar expirada")

	resp = doRequest(t, app, http.MethodPost, "/api/auth/logout", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "sin sesión también responde 200")
}

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/tienda-backoffice/internal/domain/access"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
)

var policy = access.NewPolicy("/api/admin/", "/api/admin/login")

func identity(role string) *access.Identity {
	return &access.Identity{ID: "u-1", Email: "op@tienda.co", Name: "Operador", Role: role}
}

func TestResolveResource(t *testing.T) {
	cases := map[string]access.Resource{
		"/api/admin":                      access.ResourceDashboard,
		"/api/admin/":                     access.ResourceDashboard,
		"/api/admin/pedidos":              access.ResourcePedidos,
		"/api/admin/pedidos/123/estado":   access.ResourcePedidos,
		"/api/admin/usuarios/nuevo":       access.ResourceUsuarios,
		"/api/admin/configuracion-oculta": access.ResourceUnknown,
	}
	for path, want := range cases {
		assert.Equal(t, want, policy.ResolveResource(path), path)
	}
}

func TestIsPublic(t *testing.T) {
	assert.True(t, policy.IsPublic("/health"))
	assert.True(t, policy.IsPublic("/api/auth/login"))
	assert.True(t, policy.IsPublic("/api/admin/login"))
	assert.True(t, policy.IsPublic("/api/administracion"), "prefijo sin separador no es la raíz")
	assert.False(t, policy.IsPublic("/api/admin"))
	assert.False(t, policy.IsPublic("/api/admin/pedidos"))
}

func TestAuthorize_RutaPublicaSinSesion(t *testing.T) {
	d := policy.Authorize(nil, "/api/seguimiento/1")
	assert.Equal(t, access.Allowed, d.Outcome)
	assert.Equal(t, access.ReasonPublic, d.Reason)
}

func TestAuthorize_SinSesion(t *testing.T) {
	d := policy.Authorize(nil, "/api/admin/pedidos")
	assert.Equal(t, access.Unauthenticated, d.Outcome)
	assert.Equal(t, access.ReasonUnauthenticated, d.Reason)
}

// Un viewer en un recurso restringido recibe Forbidden, no Unauthenticated.
func TestAuthorize_ViewerEnUsuariosEsForbidden(t *testing.T) {
	d := policy.Authorize(identity(entity.RoleViewer), "/api/admin/usuarios")
	assert.Equal(t, access.Forbidden, d.Outcome)
	assert.Equal(t, access.ResourceUsuarios, d.Resource)
	assert.Equal(t, access.ReasonElevatedRoute, d.Reason)
}

func TestAuthorize_ViewerEnPedidosEsForbidden(t *testing.T) {
	d := policy.Authorize(identity(entity.RoleViewer), "/api/admin/pedidos/1/estado")
	assert.Equal(t, access.Forbidden, d.Outcome)
	assert.Equal(t, access.ReasonInsufficientPermissions, d.Reason)
}

func TestAuthorize_ManagerNoAccedeUsuarios(t *testing.T) {
	d := policy.Authorize(identity(entity.RoleManager), "/api/admin/usuarios")
	assert.Equal(t, access.Forbidden, d.Outcome)
}

func TestAuthorize_SuperAdminComodin(t *testing.T) {
	for _, path := range []string{"/api/admin/usuarios", "/api/admin/reportes", "/api/admin/configuracion-oculta"} {
		assert.Equal(t, access.Allowed, policy.Authorize(identity(entity.RoleSuperAdmin), path).Outcome, path)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Mayúsculas y rutas montadas
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorize_MayusculasNoEvadenElPanel(t *testing.T) {
	for _, path := range []string{"/API/ADMIN/pedidos/1/estado", "/Api/Admin/PEDIDOS", "/api/ADMIN"} {
		assert.False(t, policy.IsPublic(path), path)
		d := policy.Authorize(nil, path)
		assert.Equal(t, access.Unauthenticated, d.Outcome, path)
	}
	d := policy.Authorize(identity(entity.RoleViewer), "/API/ADMIN/PEDIDOS/1/estado")
	assert.Equal(t, access.Forbidden, d.Outcome)
	assert.Equal(t, access.ResourcePedidos, d.Resource)
	assert.True(t, policy.IsPublic("/API/Admin/Login"))
}

func TestNewPolicy_RaizEnMinusculas(t *testing.T) {
	p := access.NewPolicy("/API/Admin/", "/API/Admin/Login")
	assert.Equal(t, "/api/admin", p.AdminRoot)
	assert.Equal(t, []string{"/api/admin/login"}, p.PublicPaths)
}

// En handlers montados bajo el panel ninguna ruta queda pública por omisión.
func TestAuthorizeMounted_NuncaPublicaPorOmision(t *testing.T) {
	d := policy.AuthorizeMounted(nil, "/otra/ruta")
	assert.Equal(t, access.Unauthenticated, d.Outcome)
	assert.NotEqual(t, access.ReasonPublic, d.Reason)
	assert.Equal(t, access.ResourceUnknown, d.Resource)

	d = policy.AuthorizeMounted(identity(entity.RoleManager), "/otra/ruta")
	assert.Equal(t, access.Forbidden, d.Outcome)

	d = policy.AuthorizeMounted(nil, "/api/admin/login")
	assert.Equal(t, access.Allowed, d.Outcome)
	assert.Equal(t, access.ReasonPublic, d.Reason)

	d = policy.AuthorizeMounted(identity(entity.RoleManager), "/API/ADMIN/pedidos")
	assert.Equal(t, access.Allowed, d.Outcome)
	assert.Equal(t, access.ResourcePedidos, d.Resource)
}

func TestAuthorize_MatrizPorRol(t *testing.T) {
	cases := []struct {
		role string
		res  access.Resource
		want bool
	}{
		{entity.RoleManager, access.ResourcePedidos, true},
		{entity.RoleManager, access.ResourceReportes, true},
		{entity.RoleEditor, access.ResourceProductos, true},
		{entity.RoleEditor, access.ResourcePedidos, false},
		{entity.RoleViewer, access.ResourceDashboard, true},
		{entity.RoleViewer, access.ResourceInventario, false},
		{"rol_inventado", access.ResourceDashboard, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, access.HasPermission(tc.role, tc.res), "%s/%s", tc.role, tc.res)
	}
}

func TestResources_Editor(t *testing.T) {
	assert.Equal(t, []access.Resource{
		access.ResourceDashboard, access.ResourceProductos, access.ResourceInventario,
	}, access.Resources(entity.RoleEditor))
}

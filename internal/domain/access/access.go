// Package access resuelve el recurso de una ruta del panel y lo contrasta con la matriz
// de permisos por rol.
package access

import (
	"strings"

	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
)

// Resource recurso del panel administrativo (enumeración cerrada).
type Resource int

const (
	ResourceUnknown Resource = iota
	ResourceDashboard
	ResourceProductos
	ResourcePedidos
	ResourceInventario
	ResourceReportes
	ResourceUsuarios
)

var resourceNames = [...]string{
	ResourceUnknown:    "unknown",
	ResourceDashboard:  "dashboard",
	ResourceProductos:  "productos",
	ResourcePedidos:    "pedidos",
	ResourceInventario: "inventario",
	ResourceReportes:   "reportes",
	ResourceUsuarios:   "usuarios",
}

func (r Resource) String() string {
	if int(r) < 0 || int(r) >= len(resourceNames) {
		return resourceNames[ResourceUnknown]
	}
	return resourceNames[r]
}

// ParseResource convierte un segmento de ruta en Resource; desconocidos → ResourceUnknown.
func ParseResource(segment string) Resource {
	for i, name := range resourceNames {
		if Resource(i) != ResourceUnknown && name == segment {
			return Resource(i)
		}
	}
	return ResourceUnknown
}

// permissions matriz rol → recursos. super_admin no aparece: tiene comodín.
var permissions = map[string]map[Resource]bool{
	entity.RoleManager: {
		ResourceDashboard:  true,
		ResourceProductos:  true,
		ResourcePedidos:    true,
		ResourceInventario: true,
		ResourceReportes:   true,
	},
	entity.RoleEditor: {
		ResourceDashboard:  true,
		ResourceProductos:  true,
		ResourceInventario: true,
	},
	entity.RoleViewer: {
		ResourceDashboard: true,
	},
}

// elevatedRoutes recursos restringidos a una lista explícita de roles, por encima de la matriz.
// usuarios: solo super_admin.
var elevatedRoutes = map[Resource][]string{
	ResourceUsuarios: {entity.RoleSuperAdmin},
}

// HasPermission informa si role puede acceder a res, aplicando las rutas elevadas.
func HasPermission(role string, res Resource) bool {
	if allow, ok := elevatedRoutes[res]; ok {
		for _, r := range allow {
			if r == role {
				return true
			}
		}
		return false
	}
	if role == entity.RoleSuperAdmin {
		return true
	}
	return permissions[role][res]
}

// Resources recursos accesibles para role (para construir menús).
func Resources(role string) []Resource {
	var out []Resource
	for i := range resourceNames {
		res := Resource(i)
		if res == ResourceUnknown {
			continue
		}
		if HasPermission(role, res) {
			out = append(out, res)
		}
	}
	return out
}

// Policy define la raíz del panel y las rutas públicas dentro de ella.
type Policy struct {
	AdminRoot   string   // ej. /api/admin
	PublicPaths []string // rutas exactas que no requieren sesión
}

// NewPolicy normaliza la raíz (sin barra final) y lleva raíz y rutas públicas a minúsculas.
func NewPolicy(adminRoot string, publicPaths ...string) Policy {
	root := "/" + strings.Trim(strings.ToLower(adminRoot), "/")
	pub := make([]string, 0, len(publicPaths))
	for _, p := range publicPaths {
		pub = append(pub, strings.ToLower(p))
	}
	return Policy{AdminRoot: root, PublicPaths: pub}
}

// normalizePath las rutas se comparan sin distinguir mayúsculas.
func normalizePath(path string) string {
	return strings.ToLower(path)
}

// IsPublic true si la ruta está fuera de la raíz del panel o es una ruta pública explícita.
func (p Policy) IsPublic(path string) bool {
	path = normalizePath(path)
	return p.isExplicitPublic(path) || !p.underRoot(path)
}

func (p Policy) isExplicitPublic(path string) bool {
	for _, pub := range p.PublicPaths {
		if path == pub {
			return true
		}
	}
	return false
}

func (p Policy) underRoot(path string) bool {
	return path == p.AdminRoot || strings.HasPrefix(path, p.AdminRoot+"/")
}

// ResolveResource primer segmento después de la raíz; dashboard si no hay.
// Una ruta fuera de la raíz resuelve a ResourceUnknown.
func (p Policy) ResolveResource(path string) Resource {
	path = normalizePath(path)
	if !p.underRoot(path) {
		return ResourceUnknown
	}
	rest := strings.TrimPrefix(path, p.AdminRoot)
	rest = strings.TrimPrefix(rest, "/")
	segment, _, _ := strings.Cut(rest, "/")
	if segment == "" {
		return ResourceDashboard
	}
	return ParseResource(segment)
}

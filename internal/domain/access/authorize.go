package access

// Outcome resultado de la verificación de acceso.
type Outcome int

const (
	Allowed Outcome = iota
	Unauthenticated
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Códigos de motivo legibles por máquina.
const (
	ReasonPublic                  = "public_route"
	ReasonGranted                 = "granted"
	ReasonUnauthenticated         = "unauthenticated"
	ReasonInsufficientPermissions = "insufficient_permissions"
	ReasonElevatedRoute           = "requires_elevated_role"
)

// Identity identidad resuelta de la sesión.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Decision veredicto del guard.
type Decision struct {
	Outcome  Outcome
	Resource Resource
	Reason   string
}

// Authorize decide el acceso de identity (nil = sin sesión válida) a path.
func (p Policy) Authorize(identity *Identity, path string) Decision {
	if p.IsPublic(path) {
		return Decision{Outcome: Allowed, Resource: ResourceUnknown, Reason: ReasonPublic}
	}
	return p.decide(identity, p.ResolveResource(path))
}

// AuthorizeMounted variante para handlers montados bajo la raíz del panel: solo las rutas
// públicas explícitas quedan abiertas. Una ruta que no se reconoce como parte del panel
// se trata como recurso desconocido y exige sesión.
func (p Policy) AuthorizeMounted(identity *Identity, path string) Decision {
	if p.isExplicitPublic(normalizePath(path)) {
		return Decision{Outcome: Allowed, Resource: ResourceUnknown, Reason: ReasonPublic}
	}
	return p.decide(identity, p.ResolveResource(path))
}

func (p Policy) decide(identity *Identity, res Resource) Decision {
	if identity == nil {
		return Decision{Outcome: Unauthenticated, Resource: res, Reason: ReasonUnauthenticated}
	}
	if _, elevated := elevatedRoutes[res]; elevated && !HasPermission(identity.Role, res) {
		return Decision{Outcome: Forbidden, Resource: res, Reason: ReasonElevatedRoute}
	}
	if !HasPermission(identity.Role, res) {
		return Decision{Outcome: Forbidden, Resource: res, Reason: ReasonInsufficientPermissions}
	}
	return Decision{Outcome: Allowed, Resource: res, Reason: ReasonGranted}
}

package auth

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-backoffice/internal/application/audit"
	"github.com/jhoicas/tienda-backoffice/internal/application/dto"
	"github.com/jhoicas/tienda-backoffice/internal/domain"
	"github.com/jhoicas/tienda-backoffice/internal/domain/access"
	"github.com/jhoicas/tienda-backoffice/internal/domain/entity"
	"github.com/jhoicas/tienda-backoffice/internal/domain/repository"
	"github.com/jhoicas/tienda-backoffice/internal/infrastructure/metrics"
	"github.com/jhoicas/tienda-backoffice/pkg/config"
	"github.com/jhoicas/tienda-backoffice/pkg/jwt"
)

// Config reglas de tokens, sesión y bloqueo.
type Config struct {
	JWTSecret        string
	Issuer           string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	SessionTTL       time.Duration // expiración del registro servidor
	MaxLoginAttempts int
	LockDuration     time.Duration
	BcryptCost       int
}

// DefaultConfig valores de producción: 24h / 7d / 24h, 5 intentos, 15 min, bcrypt 12.
func DefaultConfig(secret, issuer string) Config {
	return Config{
		JWTSecret:        secret,
		Issuer:           issuer,
		AccessTTL:        24 * time.Hour,
		RefreshTTL:       7 * 24 * time.Hour,
		SessionTTL:       24 * time.Hour,
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
		BcryptCost:       12,
	}
}

// ConfigFrom reglas de sesión a partir de la configuración cargada (JWT_* y AUTH_*).
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig(cfg.JWT.Secret, cfg.JWT.Issuer)
	c.AccessTTL = cfg.JWT.AccessTTL()
	c.RefreshTTL = cfg.JWT.RefreshTTL()
	c.SessionTTL = time.Duration(cfg.Auth.SessionHours) * time.Hour
	c.MaxLoginAttempts = cfg.Auth.MaxLoginAttempts
	c.LockDuration = time.Duration(cfg.Auth.LockMinutes) * time.Minute
	c.BcryptCost = cfg.Auth.BcryptCost
	return c
}

// SessionManager autentica credenciales, aplica el bloqueo por intentos fallidos y emite,
// valida y revoca sesiones.
//
// Las escrituras posteriores a la decisión de login (contador, sesión) no hacen fallar el
// resultado: el token firmado es verificable por sí mismo, así que solo se registran.
type SessionManager struct {
	accounts repository.AccountRepository
	sessions repository.SessionRepository
	audit    Auditor
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewSessionManager construye el caso de uso de sesiones.
func NewSessionManager(
	accounts repository.AccountRepository,
	sessions repository.SessionRepository,
	auditor Auditor,
	cfg Config,
	log zerolog.Logger,
) *SessionManager {
	return &SessionManager{
		accounts: accounts,
		sessions: sessions,
		audit:    auditor,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (m *SessionManager) WithClock(now func() time.Time) *SessionManager {
	m.now = now
	return m
}

// Authenticate verifica email/password y, si son válidos, abre una sesión nueva cerrando las anteriores.
// Errores: *domain.AuthenticationError (credenciales o bloqueo), *domain.PersistenceError (lectura).
func (m *SessionManager) Authenticate(ctx context.Context, in dto.LoginRequest, origin Origin) (*dto.LoginResponse, error) {
	now := m.now()
	email := normalizeEmail(in.Email)

	account, err := m.accounts.FindActiveByEmail(ctx, email)
	if err != nil {
		metrics.RecordLogin("error")
		return nil, &domain.PersistenceError{Op: "buscar cuenta", Err: err}
	}
	if account == nil {
		metrics.RecordLogin("invalid_credentials")
		m.audit.Append(ctx, audit.Event{
			ActorID:   entity.AuditActorUnknown,
			Action:    entity.AuditLoginFailed,
			Resource:  "invalid_email",
			Details:   map[string]any{"email": email},
			IPAddress: origin.IP,
			UserAgent: origin.UserAgent,
		})
		return nil, &domain.AuthenticationError{}
	}

	if account.IsLocked(now) {
		minutes := int(math.Ceil(account.LockedUntil.Sub(now).Minutes()))
		metrics.RecordLogin("locked")
		m.audit.Append(ctx, audit.Event{
			ActorID:   account.ID,
			Action:    entity.AuditLoginBlocked,
			Resource:  "account_locked",
			Details:   map[string]any{"minutes_left": minutes},
			IPAddress: origin.IP,
			UserAgent: origin.UserAgent,
		})
		return nil, &domain.AuthenticationError{Locked: true, MinutesRemaining: minutes}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)); err != nil {
		return nil, m.registerFailure(ctx, account, now, origin)
	}

	account.LoginAttempts = 0
	account.LockedUntil = nil
	account.LastLogin = &now
	account.UpdatedAt = now
	if err := m.accounts.UpdateLoginState(ctx, account); err != nil {
		m.log.Error().Err(err).Str("account_id", account.ID).Msg("no se pudo reiniciar el contador de intentos")
	}

	pair, err := jwt.GeneratePair(m.cfg.JWTSecret, m.cfg.Issuer, account.ID, account.Email, account.Role,
		m.cfg.AccessTTL, m.cfg.RefreshTTL, now)
	if err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}

	// Una sola sesión activa por cuenta.
	if err := m.sessions.DeleteByAccount(ctx, account.ID); err != nil {
		m.log.Warn().Err(err).Str("account_id", account.ID).Msg("no se pudieron limpiar sesiones anteriores")
	}
	session := &entity.Session{
		ID:           uuid.New().String(),
		AccountID:    account.ID,
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    now.Add(m.cfg.SessionTTL),
		IPAddress:    optional(origin.IP),
		UserAgent:    optional(origin.UserAgent),
		CreatedAt:    now,
	}
	if err := m.sessions.Create(ctx, session); err != nil {
		m.log.Error().Err(err).Str("account_id", account.ID).Msg("no se pudo guardar la sesión; el token sigue siendo válido")
	}

	metrics.RecordLogin("success")
	m.audit.Append(ctx, audit.Event{
		ActorID:   account.ID,
		Action:    entity.AuditLoginSuccess,
		Resource:  "user_session",
		Details:   map[string]any{"role": account.Role},
		IPAddress: origin.IP,
		UserAgent: origin.UserAgent,
	})

	return &dto.LoginResponse{
		User:             toSessionUser(account),
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresAt:        pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}, nil
}

// registerFailure suma el intento en el almacén y bloquea al llegar al máximo. El estado
// resultante lo decide la escritura atómica, no la fila leída al inicio del login.
func (m *SessionManager) registerFailure(ctx context.Context, account *entity.Account, now time.Time, origin Origin) error {
	attempts, lockedUntil, err := m.accounts.RegisterFailedLogin(ctx, account.ID,
		m.cfg.MaxLoginAttempts, now.Add(m.cfg.LockDuration), now)
	if err != nil {
		m.log.Error().Err(err).Str("account_id", account.ID).Msg("no se pudo registrar el intento fallido")
		attempts = account.LoginAttempts + 1
		lockedUntil = nil
	}
	locked := lockedUntil != nil && lockedUntil.After(now)
	if locked {
		metrics.RecordAccountLock()
	}

	metrics.RecordLogin("invalid_credentials")
	m.audit.Append(ctx, audit.Event{
		ActorID:   account.ID,
		Action:    entity.AuditLoginFailed,
		Resource:  "invalid_password",
		Details:   map[string]any{"attempts": attempts, "locked": locked},
		IPAddress: origin.IP,
		UserAgent: origin.UserAgent,
	})
	return &domain.AuthenticationError{}
}

// ValidateSession resuelve la identidad de un access token. Devuelve nil si el token es inválido
// o expirado, si no hay registro servidor, si éste expiró (se borra) o si la cuenta ya no está activa.
func (m *SessionManager) ValidateSession(ctx context.Context, token string) *access.Identity {
	if token == "" {
		return nil
	}
	now := m.now()
	claims, err := jwt.ParseAccess(m.cfg.JWTSecret, token, now)
	if err != nil {
		m.log.Debug().Err(err).Msg("token inválido")
		return nil
	}

	found, err := m.sessions.FindByToken(ctx, token)
	if err != nil {
		m.log.Error().Err(err).Msg("no se pudo consultar la sesión")
		return nil
	}
	if found == nil || found.Session.AccountID != claims.AccountID {
		return nil
	}
	if found.Session.IsExpired(now) {
		if err := m.sessions.DeleteByToken(ctx, token); err != nil {
			m.log.Warn().Err(err).Str("session_id", found.Session.ID).Msg("no se pudo borrar la sesión expirada")
		}
		return nil
	}
	if !found.Account.IsActive() {
		return nil
	}
	return &access.Identity{
		ID:    found.Account.ID,
		Email: found.Account.Email,
		Name:  found.Account.Name,
		Role:  found.Account.Role,
	}
}

// Logout revoca la sesión del token. Una sesión inexistente no es error.
func (m *SessionManager) Logout(ctx context.Context, token string, origin Origin) error {
	if token == "" {
		return nil
	}
	found, err := m.sessions.FindByToken(ctx, token)
	if err != nil {
		m.log.Warn().Err(err).Msg("no se pudo resolver la sesión a cerrar")
	}
	if err := m.sessions.DeleteByToken(ctx, token); err != nil {
		return &domain.PersistenceError{Op: "borrar sesión", Err: err}
	}
	if found != nil {
		m.audit.Append(ctx, audit.Event{
			ActorID:   found.Account.ID,
			Action:    entity.AuditLogout,
			Resource:  "user_session",
			Details:   map[string]any{"email": found.Account.Email, "role": found.Account.Role},
			IPAddress: origin.IP,
			UserAgent: origin.UserAgent,
		})
	}
	return nil
}

// CleanupExpiredSessions borra las sesiones cuya expiración servidor ya pasó.
func (m *SessionManager) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := m.sessions.DeleteExpired(ctx, m.now())
	if err != nil {
		return 0, &domain.PersistenceError{Op: "limpiar sesiones", Err: err}
	}
	return n, nil
}

// CreateAccount aprovisiona un operador: hashea con bcrypt y audita como system.
// Devuelve domain.ErrInvalidInput o domain.ErrDuplicate si el email ya existe.
func (m *SessionManager) CreateAccount(ctx context.Context, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") || len(in.Password) < 8 || !entity.IsValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), m.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	now := m.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	account := &entity.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         in.Role,
		Status:       entity.AccountStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := m.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		return nil, &domain.PersistenceError{Op: "crear cuenta", Err: err}
	}
	m.audit.Append(ctx, audit.Event{
		ActorID:  entity.AuditActorSystem,
		Action:   entity.AuditUserCreated,
		Resource: "user:" + account.ID,
		Details:  map[string]any{"email": account.Email, "role": account.Role},
	})
	return toAccountResponse(account), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(v string) *string {
	if v == "" || v == "unknown" {
		return nil
	}
	return &v
}

func toSessionUser(a *entity.Account) dto.SessionUser {
	return dto.SessionUser{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role}
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	if a == nil {
		return nil
	}
	return &dto.AccountResponse{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		Status:    a.Status,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
	}
}

package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// ErrWrongTokenType el token es válido pero no del tipo esperado (ej. refresh usado como access).
var ErrWrongTokenType = errors.New("jwt: tipo de token inesperado")

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el access token; el refresh solo lleva el id de cuenta y Type=refresh.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	Type      string `json:"type"`
}

// Pair access + refresh emitidos en un login.
type Pair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// GeneratePair firma el access token (id, email, role) y el refresh token (id, type=refresh).
// Cada token lleva un jti único para que dos logins en el mismo segundo no colisionen.
func GeneratePair(secret, issuer, accountID, email, role string, accessTTL, refreshTTL time.Duration, now time.Time) (*Pair, error) {
	access, accessExp, err := sign(secret, issuer, Claims{AccountID: accountID, Email: email, Role: role, Type: TypeAccess}, accessTTL, now)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := sign(secret, issuer, Claims{AccountID: accountID, Type: TypeRefresh}, refreshTTL, now)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func sign(secret, issuer string, claims Claims, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt: secret vacío")
	}
	exp := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    issuer,
		Subject:   claims.AccountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: firmar: %w", err)
	}
	return signed, exp, nil
}

// Parse valida firma y expiración contra now y devuelve los claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string, now time.Time) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.AccountID == "" {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// ParseAccess como Parse pero exige Type=access.
func ParseAccess(secret, tokenString string, now time.Time) (*Claims, error) {
	claims, err := Parse(secret, tokenString, now)
	if err != nil {
		return nil, err
	}
	if claims.Type != TypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

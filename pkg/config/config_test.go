package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL())
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 15, cfg.Auth.LockMinutes)
	assert.Equal(t, 24, cfg.Auth.SessionHours)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "/api/admin", cfg.Auth.AdminRoot)
	assert.Equal(t, "@every 1h", cfg.Janitor.Schedule)
	assert.Empty(t, cfg.HTTP.ProxyHeader)
	assert.Empty(t, cfg.HTTP.TrustedProxies)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.MetricsAddr)
	assert.NoError(t, cfg.Validate(), "development admite JWT_SECRET vacío")
}

func TestFromViper_SobrescribeDesdeEnv(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("JWT_SECRET", "s3cr3t")
	v.Set("AUTH_MAX_LOGIN_ATTEMPTS", "3")
	v.Set("AUTH_COOKIE_SECURE", "true")
	v.Set("LOGIN_RATE_PER_SECOND", "0.5")
	v.Set("DB_PORT", "no-es-numero")

	cfg := fromViper(v)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Auth.MaxLoginAttempts)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 0.5, cfg.Auth.LoginRatePerSecond)
	assert.Equal(t, 5432, cfg.DB.Port, "un entero inválido cae al valor por defecto")
}

func TestValidate_SecretObligatorioEnProduccion(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	v.Set("AUTH_BCRYPT_COST", "2")

	err := fromViper(v).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "AUTH_BCRYPT_COST")
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "tienda", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/tienda?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestFromViper_ProxiesDeConfianza(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PROXY_HEADER", "X-Real-IP")
	v.Set("HTTP_TRUSTED_PROXIES", " 10.0.0.1, ,10.0.0.0/24 ")

	cfg := fromViper(v)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "X-Real-IP", cfg.HTTP.ProxyHeader)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0/24"}, cfg.HTTP.TrustedProxies)
}

func TestValidate_EncabezadoDeProxySinProxiesDeConfianza(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PROXY_HEADER", "X-Forwarded-For")

	err := fromViper(v).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TRUSTED_PROXIES")
}

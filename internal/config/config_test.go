package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "es", cfg.ImportLocale)
	assert.True(t, cfg.StockPermitirNegativo)
	assert.Equal(t, 24*time.Hour, cfg.VentanaColision())
	assert.Equal(t, int64(10<<20), cfg.ImportMaxBytes())
	assert.Equal(t, time.Minute, cfg.ImportLockTTL())
}

func TestLoad_Entorno(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("VENTANA_COLISION_HORAS", "48")
	t.Setenv("STOCK_PERMITIR_NEGATIVO", "false")
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 48*time.Hour, cfg.VentanaColision())
	assert.False(t, cfg.StockPermitirNegativo)
	assert.Equal(t, "secreto", cfg.JWTSecret)
}

func TestLoad_ProduccionExigeSecreto(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

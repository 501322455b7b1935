package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Run("SQLite defaults", func(t *testing.T) {
		cfg := &Config{DBDriver: " SQLite ", DBPath: "db/app.db", DefaultLocale: "es"}
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, DriverSQLite, cfg.DBDriver)
	})

	t.Run("LibSQL requires URL", func(t *testing.T) {
		cfg := &Config{DBDriver: DriverLibSQL}
		assert.Error(t, cfg.Validate())

		cfg.TursoDatabaseURL = "libsql://example.turso.io"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Postgres requires DSN", func(t *testing.T) {
		cfg := &Config{DBDriver: DriverPostgres}
		assert.Error(t, cfg.Validate())
	})

	t.Run("Unknown driver", func(t *testing.T) {
		cfg := &Config{DBDriver: "oracle"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("Unsupported locale falls back to es", func(t *testing.T) {
		cfg := &Config{DBDriver: DriverSQLite, DBPath: "x.db", DefaultLocale: "fr"}
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, "es", cfg.DefaultLocale)
	})
}

func TestLoad(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "test.db")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "test.db", cfg.DBPath)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.R2Configured())
}

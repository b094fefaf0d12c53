package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3, cfg.PurchaseMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_port: "9090"
db_driver: postgres
rate_rps: 5
access_ttl: 1m
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RATE_RPS", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 7, cfg.RateRPS, "env wins over file")
	assert.Equal(t, time.Minute, cfg.AccessTTL)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	t.Setenv("DB_DRIVER", "mysql")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("WORKER_COUNT", "many")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_ProdNeedsSecrets(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("APP_ENV", "prod")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_ACCESS_SECRET", "a-real-secret")
	t.Setenv("JWT_REFRESH_SECRET", "another-secret")
	_, err = Load()
	assert.NoError(t, err)
}

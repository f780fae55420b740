package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_DefaultsWithEnvSecret(t *testing.T) {
	// GIVEN: No config file, only the required secret in the environment
	t.Setenv("HRENGINE_AUTH_JWT_SECRET", testSecret)

	// WHEN: Loading from an empty directory
	cfg, err := Load(t.TempDir())

	// THEN: Defaults apply
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "hr-engine.db", cfg.Database.DSN)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Server.EnableScenarios)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	// GIVEN: A config file and an env override for the port
	dir := t.TempDir()
	yml := `
server:
  port: 9090
  enable_scenarios: true
database:
  driver: postgres
  dsn: postgres://hr:hr@localhost:5432/hr
auth:
  jwt_secret: ` + testSecret + `
log:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600))
	t.Setenv("HRENGINE_SERVER_PORT", "9191")

	// WHEN: Loading
	cfg, err := Load(dir)

	// THEN: File values are read and env wins over the file
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.True(t, cfg.Server.EnableScenarios)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://hr:hr@localhost:5432/hr", cfg.Database.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("HRENGINE_AUTH_JWT_SECRET", "short")

	_, err := Load(t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
			Auth:     AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour},
			Log:      LogConfig{Level: "info", Format: "json"},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Database.DSN = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())
}

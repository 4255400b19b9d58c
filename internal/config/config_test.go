package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validConfig = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  user: "campusmarket"
  password: "secret"
  database: "campusmarket_test"
  ssl_mode: "disable"
jwt:
  secret: "test-secret-0123456789abcdef0123456789"
  access_token_expiry_minutes: 60
log:
  level: "info"
  format: "text"
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
	assert.Contains(t, cfg.GetDatabaseConnectionString(), "campusmarket_test")

	// Scheduler cron expressions default when omitted.
	assert.Equal(t, "0 0 2 * * *", cfg.Scheduler.ExpireStalePending)
	assert.Equal(t, "0 0 3 * * *", cfg.Scheduler.SendOverdueReminders)

	// Pending expiry defaults to disabled.
	assert.Equal(t, 0, cfg.Arbitration.PendingExpiryDays)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(writeConfig(t, validConfig))
		require.NoError(t, err)
		return cfg
	}

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.JWT.Secret = "too-short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("email from required when sendgrid enabled", func(t *testing.T) {
		cfg := base()
		cfg.Email.SendGridAPIKey = "SG.key"
		cfg.Email.FromEmail = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PENDING_EXPIRY_DAYS", "14")

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 14, cfg.Arbitration.PendingExpiryDays)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 8080
  env: production
database:
  url: postgres://localhost/findtern
jwt:
  secret: secret
scheduling:
  default_timezone: Europe/Berlin
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("DATABASE_URL", "")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "Europe/Berlin", cfg.Scheduling.DefaultTimezone)
	assert.Equal(t, 168, cfg.Media.StagingTTL)
	assert.Equal(t, "findtern.events", cfg.RabbitMQ.Exchange)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/findtern")
	t.Setenv("SERVER_ENV", "test")
	t.Setenv("SERVER_PORT", "4001")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://env/findtern", cfg.Database.DSN)
	assert.Equal(t, 4001, cfg.Server.Port)
	assert.Equal(t, "Asia/Kolkata", cfg.Scheduling.DefaultTimezone)
	assert.Equal(t, 60, cfg.JWT.TTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "no dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: true},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: true},
		{name: "no secret in prod", mutate: func(c *Config) { c.Server.Env = "production"; c.JWT.Secret = "" }, wantErr: true},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Storage.Type = "s3" }, wantErr: true},
		{name: "calendar without creds", mutate: func(c *Config) { c.Calendar.Enabled = true }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Database.DSN = "postgres://localhost/db"
			cfg.JWT.Secret = "s"
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

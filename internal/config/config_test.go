package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booking4u/booking-service/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileValuesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
user = "booking"
password = "secret"
dbname = "booking4u"

[booking]
customer_can_cancel_confirmed = true
location = "UTC"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.Booking.CustomerCanCancelConfirmed)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "host=db port=5432 user=booking password=secret dbname=booking4u sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
dbname = "booking4u"
`)
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{
			name:    "missing dbname",
			content: "[database]\nhost = \"db\"\n",
		},
		{
			name:    "bad port",
			content: "[server]\nhttp_port = 70000\n[database]\ndbname = \"x\"\n",
		},
		{
			name:    "bad location",
			content: "[database]\ndbname = \"x\"\n[booking]\nlocation = \"Mars/Olympus\"\n",
		},
		{
			name:    "tracing without endpoint",
			content: "[database]\ndbname = \"x\"\n[tracing]\nenabled = true\n",
		},
		{
			name:    "env not a number",
			content: "[database]\ndbname = \"x\"\n",
			env:     map[string]string{"DB_PORT": "five"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(writeConfig(t, tc.content))
			assert.ErrorIs(t, err, config.ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

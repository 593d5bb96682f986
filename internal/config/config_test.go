package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "UTC", cfg.Calendar.DefaultTimeZone)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, cfg.Calendar.DefaultWeekendDays)
	assert.Equal(t, 5*time.Second, cfg.Notification.FlushInterval)
	assert.Empty(t, cfg.Mongo.URI)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/hris")
	t.Setenv("CALENDAR_DEFAULT_TIMEZONE", "Asia/Jakarta")
	t.Setenv("CALENDAR_WEEKEND_DAYS", "Friday, saturday")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("NOTIFICATION_BATCH_SIZE", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/hris", cfg.DatabaseURL())
	assert.Equal(t, []time.Weekday{time.Friday, time.Saturday}, cfg.Calendar.DefaultWeekendDays)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10, cfg.Notification.BatchSize)
	assert.False(t, cfg.Seed.Enabled)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"STORE_DRIVER": "memory"}},
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite", "JWT_SECRET_KEY": "s"}},
		{"postgres without credentials", map[string]string{"STORE_DRIVER": "postgres", "JWT_SECRET_KEY": "s"}},
		{"bad port", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "APP_PORT": "eighty"}},
		{"bad weekday", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "CALENDAR_WEEKEND_DAYS": "caturday"}},
		{"bad zone", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "CALENDAR_DEFAULT_TIMEZONE": "Mars/Olympus"}},
		{"seed without company", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "SEED_COMPANY_DEFAULTS": "true"}},
		{"bad seed flag", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "SEED_COMPANY_DEFAULTS": "sometimes"}},
		{"bad token lifetime", map[string]string{"STORE_DRIVER": "memory", "JWT_SECRET_KEY": "s", "JWT_ACCESS_EXPIRATION_TIME": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			t.Setenv("DATABASE_URL", "")
			t.Setenv("DB_PASSWORD", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL_FromParts(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres", Password: "pw", Name: "hris", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/hris?sslmode=disable", cfg.DatabaseURL())
}

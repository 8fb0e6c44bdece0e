package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, time.UTC.String(), cfg.App.Timezone.String())
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiration)
	assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshExpiration)
	assert.False(t, cfg.Cron.Enabled)
	assert.Equal(t, 6, cfg.Cron.AbsentAfterHour)
	assert.Equal(t, slog.LevelInfo, cfg.App.SlogLevel())

	policy := cfg.Payroll.Policy()
	assert.Equal(t, "0.15", policy.FederalRate.String())
	assert.Equal(t, 25.0, cfg.Leave.Policy().Allocation(leave.TypeAnnual))
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("CRON_ENABLED", "true")
	t.Setenv("PAYROLL_HEALTH_INSURANCE", "250")
	t.Setenv("LEAVE_ALLOCATION_ANNUAL", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "Asia/Jakarta", cfg.App.Timezone.String())
	assert.Equal(t, slog.LevelDebug, cfg.App.SlogLevel())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.App.AllowedOrigins)
	assert.True(t, cfg.Cron.Enabled)
	assert.True(t, decimal.NewFromInt(250).Equal(cfg.Payroll.Policy().HealthInsurance))
	assert.Equal(t, 20.0, cfg.Leave.Policy().Allocation(leave.TypeAnnual))
	assert.Equal(t, 10.0, cfg.Leave.Policy().Allocation(leave.TypeSick))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET_KEY": ""}},
		{"bad port", map[string]string{"APP_PORT": "http"}},
		{"bad duration", map[string]string{"JWT_ACCESS_EXPIRATION_TIME": "soon"}},
		{"refresh shorter than access", map[string]string{"JWT_REFRESH_EXPIRATION_TIME": "30m"}},
		{"short production secret", map[string]string{"APP_ENV": "production", "DB_PASSWORD": "pw"}},
		{"bad rate", map[string]string{"PAYROLL_FEDERAL_TAX_RATE": "fifteen"}},
		{"negative allocation", map[string]string{"LEAVE_ALLOCATION_SICK": "-1"}},
		{"bad absent hour", map[string]string{"CRON_ABSENT_AFTER_HOUR": "24"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "test-secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

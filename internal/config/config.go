package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/vijaygla/HRMS-sub000/internal/domain/leave"
	"github.com/vijaygla/HRMS-sub000/internal/domain/payroll"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Cron     CronConfig
	Payroll  PayrollConfig
	Leave    LeaveConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	AccessExpiration  time.Duration
	RefreshExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       *time.Location
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (a AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(a.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

type CronConfig struct {
	Enabled         bool
	Interval        time.Duration
	AbsentAfterHour int
}

// PayrollConfig overrides the default payroll rates. Zero values keep the default.
type PayrollConfig struct {
	FederalRate     decimal.Decimal
	StateRate       decimal.Decimal
	LocalRate       decimal.Decimal
	HealthInsurance decimal.Decimal
	RetirementRate  decimal.Decimal
}

// Policy returns the default payroll policy with the configured overrides.
func (p PayrollConfig) Policy() payroll.Policy {
	policy := payroll.DefaultPolicy()
	override := func(dst *decimal.Decimal, v decimal.Decimal) {
		if !v.IsZero() {
			*dst = v
		}
	}
	override(&policy.FederalRate, p.FederalRate)
	override(&policy.StateRate, p.StateRate)
	override(&policy.LocalRate, p.LocalRate)
	override(&policy.HealthInsurance, p.HealthInsurance)
	override(&policy.RetirementRate, p.RetirementRate)
	return policy
}

// LeaveConfig overrides yearly allocations per leave type.
type LeaveConfig struct {
	Allocations map[leave.Type]float64
}

func (l LeaveConfig) Policy() leave.Policy {
	return leave.DefaultPolicy().WithOverrides(l.Allocations)
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxConns, err := getEnvInt("DB_MAX_CONNS", 0)
	if err != nil {
		return nil, err
	}
	minConns, err := getEnvInt("DB_MIN_CONNS", 0)
	if err != nil {
		return nil, err
	}
	connLifetime, err := getEnvDuration("DB_MAX_CONN_LIFETIME", 0)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "hrms"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		MaxConnLifetime: connLifetime,
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}
	tz, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	requestTimeout, err := getEnvDuration("APP_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       tz,
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		RequestTimeout: requestTimeout,
	}

	// JWT configuration
	accessExpiration, err := getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", time.Hour)
	if err != nil {
		return nil, err
	}
	refreshExpiration, err := getEnvDuration("JWT_REFRESH_EXPIRATION_TIME", 168*time.Hour)
	if err != nil {
		return nil, err
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration:  accessExpiration,
		RefreshExpiration: refreshExpiration,
	}

	// Background jobs
	cronInterval, err := getEnvDuration("CRON_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	absentAfter, err := getEnvInt("CRON_ABSENT_AFTER_HOUR", 6)
	if err != nil {
		return nil, err
	}

	config.Cron = CronConfig{
		Enabled:         getEnv("CRON_ENABLED", "false") == "true",
		Interval:        cronInterval,
		AbsentAfterHour: absentAfter,
	}

	// Policy overrides
	if config.Payroll, err = loadPayroll(); err != nil {
		return nil, err
	}
	if config.Leave, err = loadLeave(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadPayroll() (PayrollConfig, error) {
	var p PayrollConfig
	fields := map[string]*decimal.Decimal{
		"PAYROLL_FEDERAL_TAX_RATE": &p.FederalRate,
		"PAYROLL_STATE_TAX_RATE":   &p.StateRate,
		"PAYROLL_LOCAL_TAX_RATE":   &p.LocalRate,
		"PAYROLL_HEALTH_INSURANCE": &p.HealthInsurance,
		"PAYROLL_RETIREMENT_RATE":  &p.RetirementRate,
	}
	for key, dst := range fields {
		value := getEnv(key, "")
		if value == "" {
			continue
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return PayrollConfig{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = d
	}
	return p, nil
}

// loadLeave reads LEAVE_ALLOCATION_<TYPE>, e.g. LEAVE_ALLOCATION_ANNUAL=20.
func loadLeave() (LeaveConfig, error) {
	l := LeaveConfig{Allocations: map[leave.Type]float64{}}
	for _, t := range leave.Types() {
		key := "LEAVE_ALLOCATION_" + strings.ToUpper(string(t))
		value := getEnv(key, "")
		if value == "" {
			continue
		}
		days, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return LeaveConfig{}, fmt.Errorf("invalid %s: %w", key, err)
		}
		l.Allocations[t] = days
	}
	return l, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" && c.App.IsProduction() {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.App.IsProduction() && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET_KEY must be at least 32 characters in production")
	}
	if c.JWT.AccessExpiration <= 0 || c.JWT.RefreshExpiration <= c.JWT.AccessExpiration {
		return fmt.Errorf("JWT_REFRESH_EXPIRATION_TIME must be longer than JWT_ACCESS_EXPIRATION_TIME")
	}
	if c.Cron.AbsentAfterHour < 0 || c.Cron.AbsentAfterHour > 23 {
		return fmt.Errorf("CRON_ABSENT_AFTER_HOUR must be between 0 and 23")
	}
	for t, days := range c.Leave.Allocations {
		if days < 0 {
			return fmt.Errorf("LEAVE_ALLOCATION_%s must not be negative", strings.ToUpper(string(t)))
		}
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

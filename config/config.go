// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret (required in production).
	JWTSecret string

	// Server
	Debug bool
	Port  string

	// Upstream PMU open data API.
	PMUBaseURL      string
	PMUFetchTimeout time.Duration
	PMUFetchDelay   time.Duration

	// Settlement scheduler.
	SettleCronSpec string
	SettleGrace    time.Duration

	// Notifications.
	SMTPHost string
	SMTPPort string
	MailFrom string
	PushURL  string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "turfapi")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "turfdata")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("PMU_BASE_URL", "https://online.turfinfo.api.pmu.fr/rest/client/61")
	v.SetDefault("PMU_FETCH_TIMEOUT", "12s")
	v.SetDefault("PMU_FETCH_DELAY", "400ms")
	v.SetDefault("SETTLE_CRON", "0 */5 * * * *")
	v.SetDefault("SETTLE_GRACE", "15m")
	v.SetDefault("SMTP_PORT", "587")

	cfg := &Config{
		DatabaseURL:     v.GetString("DATABASE_URL"),
		DBUser:          v.GetString("DB_USER"),
		DBPass:          v.GetString("DB_PASS"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBName:          v.GetString("DB_NAME"),
		DBSSLMode:       v.GetString("DB_SSLMODE"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		Debug:           v.GetBool("DEBUG"),
		Port:            v.GetString("PORT"),
		PMUBaseURL:      v.GetString("PMU_BASE_URL"),
		PMUFetchTimeout: v.GetDuration("PMU_FETCH_TIMEOUT"),
		PMUFetchDelay:   v.GetDuration("PMU_FETCH_DELAY"),
		SettleCronSpec:  v.GetString("SETTLE_CRON"),
		SettleGrace:     v.GetDuration("SETTLE_GRACE"),
		SMTPHost:        v.GetString("SMTP_HOST"),
		SMTPPort:        v.GetString("SMTP_PORT"),
		MailFrom:        v.GetString("MAIL_FROM"),
		PushURL:         v.GetString("PUSH_URL"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

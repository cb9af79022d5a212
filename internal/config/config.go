package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/prasetia/lending-engine/internal/domain"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Business  BusinessConfig  `mapstructure:"business"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	SnapshotCron string `mapstructure:"SCHEDULER_SNAPSHOT_CRON"`
	ReminderCron string `mapstructure:"SCHEDULER_REMINDER_CRON"`
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	PenaltyRate string `mapstructure:"PENALTY_RATE"`
	PenaltyType string `mapstructure:"PENALTY_TYPE"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_NAME", "lending_engine")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("PENALTY_RATE", "2.0")
	viper.SetDefault("PENALTY_TYPE", domain.PenaltyTypePerDay)
	viper.SetDefault("SCHEDULER_SNAPSHOT_CRON", "0 0 0 * * *")
	viper.SetDefault("SCHEDULER_REMINDER_CRON", "0 0 9 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Host == "" || c.Database.Name == "" {
		return fmt.Errorf("DATABASE_HOST and DATABASE_NAME are required")
	}

	rate, err := decimal.NewFromString(c.Business.PenaltyRate)
	if err != nil {
		return fmt.Errorf("PENALTY_RATE must be a valid decimal: %w", err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("PENALTY_RATE must not be negative")
	}

	if !domain.ValidPenaltyType(c.Business.PenaltyType) {
		return fmt.Errorf("PENALTY_TYPE must be one of per_day, per_week, fixed_total")
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// PenaltySettings returns the configured penalty accrual settings, falling
// back to the engine defaults when unset.
func (c *Config) PenaltySettings() domain.PenaltySettings {
	rate, err := decimal.NewFromString(c.Business.PenaltyRate)
	if err != nil || !domain.ValidPenaltyType(c.Business.PenaltyType) {
		return domain.DefaultPenaltySettings()
	}
	return domain.PenaltySettings{Rate: rate, Type: c.Business.PenaltyType}
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}

// DSN builds the Postgres connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars and an optional config file.
type Config struct {
	Port          string
	StorageDriver string
	DatabaseURL   string
	RedisURL      string

	JWTSecret  string
	JWTIssuer  string
	JWTTTL     time.Duration
	BcryptCost int

	CORSOrigins []string

	LogLevel  string
	LogFormat string

	ReconcileWorkers     int
	ReconcileQueueSize   int
	ReconcileMaxAttempts int
	ReconcileRetryDelay  time.Duration

	RevokedPurgeInterval time.Duration
}

// Load reads configuration from the environment (and config.yaml when present)
// and performs minimal validation.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Port:                 strings.TrimSpace(v.GetString("PORT")),
		StorageDriver:        strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DatabaseURL:          strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:             strings.TrimSpace(v.GetString("REDIS_URL")),
		JWTSecret:            strings.TrimSpace(v.GetString("JWT_SECRET")),
		JWTIssuer:            strings.TrimSpace(v.GetString("JWT_ISSUER")),
		BcryptCost:           v.GetInt("BCRYPT_COST"),
		CORSOrigins:          parseCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFormat:            v.GetString("LOG_FORMAT"),
		ReconcileWorkers:     v.GetInt("RECONCILE_WORKERS"),
		ReconcileQueueSize:   v.GetInt("RECONCILE_QUEUE_SIZE"),
		ReconcileMaxAttempts: v.GetInt("RECONCILE_MAX_ATTEMPTS"),
		ReconcileRetryDelay:  v.GetDuration("RECONCILE_RETRY_DELAY"),
		RevokedPurgeInterval: v.GetDuration("REVOKED_PURGE_INTERVAL"),
	}

	if ttlMinutes := v.GetInt("JWT_TTL_MINUTES"); ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("JWT_ISSUER", "reward-points")
	v.SetDefault("JWT_TTL_MINUTES", 60)
	v.SetDefault("BCRYPT_COST", 0)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("RECONCILE_WORKERS", 2)
	v.SetDefault("RECONCILE_QUEUE_SIZE", 256)
	v.SetDefault("RECONCILE_MAX_ATTEMPTS", 3)
	v.SetDefault("RECONCILE_RETRY_DELAY", 500*time.Millisecond)
	v.SetDefault("REVOKED_PURGE_INTERVAL", time.Hour)
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.ReconcileWorkers <= 0 {
		return errors.New("RECONCILE_WORKERS must be positive")
	}
	if c.ReconcileQueueSize <= 0 {
		return errors.New("RECONCILE_QUEUE_SIZE must be positive")
	}
	if c.ReconcileMaxAttempts <= 0 {
		return errors.New("RECONCILE_MAX_ATTEMPTS must be positive")
	}
	return nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

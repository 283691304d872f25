package config

import (
	"fmt"
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Config is the full service configuration, loaded from environment
// variables with sane development defaults.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig

	// Storage selects the repository backend: "postgres" or "memory"
	// (memory is for dev/demo runs without a database).
	Storage string

	HTTP struct {
		Host string
		Port int
	}

	JWT struct {
		Secret string
		Issuer string
	}

	Sweep struct {
		// PollInterval is the sweep period in seconds.
		PollInterval int
		// DefaultUmbralDias is the threshold used for API-side status
		// reads when the caller does not pass one.
		DefaultUmbralDias int

		Cache struct {
			KeyPrefix string // estado cache key prefix, e.g. "etiquetado:label:"
			KeySuffix string // estado cache key suffix, e.g. ":estado"
			TTL       int    // seconds
		}
	}

	Notifier struct {
		// BaseURL of the mail gateway; empty means log-only notifier.
		BaseURL string
		APIKey  string
		Timeout int // seconds
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "etiquetado")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Storage = getEnv("STORAGE", "postgres")
	if cfg.Storage != "postgres" && cfg.Storage != "memory" {
		return nil, fmt.Errorf("invalid STORAGE %q: must be postgres or memory", cfg.Storage)
	}

	cfg.HTTP.Host = getEnv("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvInt("HTTP_PORT", 8080)

	cfg.JWT.Secret = getEnv("JWT_SECRET", "dev-secret")
	cfg.JWT.Issuer = getEnv("JWT_ISSUER", "etiquetado")

	cfg.Sweep.PollInterval = getEnvInt("SWEEP_POLL_INTERVAL", 3600)
	cfg.Sweep.DefaultUmbralDias = getEnvInt("SWEEP_DEFAULT_UMBRAL_DIAS", 30)
	cfg.Sweep.Cache.KeyPrefix = getEnv("CACHE_ESTADO_PREFIX", "etiquetado:label:")
	cfg.Sweep.Cache.KeySuffix = ":estado"
	cfg.Sweep.Cache.TTL = getEnvInt("CACHE_ESTADO_TTL", 7200)

	cfg.Notifier.BaseURL = getEnv("NOTIFIER_BASE_URL", "")
	cfg.Notifier.APIKey = getEnv("NOTIFIER_API_KEY", "")
	cfg.Notifier.Timeout = getEnvInt("NOTIFIER_TIMEOUT", 10)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if cfg.Sweep.PollInterval <= 0 {
		return nil, fmt.Errorf("SWEEP_POLL_INTERVAL must be > 0, got %d", cfg.Sweep.PollInterval)
	}
	if cfg.Sweep.DefaultUmbralDias < 0 {
		return nil, fmt.Errorf("SWEEP_DEFAULT_UMBRAL_DIAS must be >= 0, got %d", cfg.Sweep.DefaultUmbralDias)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

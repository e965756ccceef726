package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr      string
	ShutdownTimeout time.Duration

	DBDriver     string
	DBPath       string
	DatabaseURL  string
	QueryTimeout time.Duration

	CacheBackend  string
	CacheTTL      time.Duration
	CacheCapacity int
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel  string
	LogFormat string
	LogFile   string

	// loadErrs holds variables that were set but could not be parsed.
	loadErrs []error
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
// Malformed numbers and durations keep their defaults and are reported by
// Validate.
func Load() *Config {
	_ = godotenv.Load()

	var errs []error
	cfg := &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second, &errs),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DBPath:          getEnv("DB_PATH", "/data/roombook.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		QueryTimeout:    getDuration("QUERY_TIMEOUT", 5*time.Second, &errs),
		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		CacheTTL:        getDuration("CACHE_TTL", 30*time.Second, &errs),
		CacheCapacity:   getInt("CACHE_CAPACITY", 1000, &errs),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getInt("REDIS_DB", 0, &errs),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		LogFile:         getEnv("LOG_FILE", ""),
	}
	cfg.loadErrs = errs
	return cfg
}

// Validate reports the first setting that cannot be used to start the server.
func (c *Config) Validate() error {
	if len(c.loadErrs) > 0 {
		return errors.Join(c.loadErrs...)
	}

	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required when DB_DRIVER=sqlite")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.CacheBackend == "memory" && c.CacheCapacity <= 0 {
		return fmt.Errorf("CACHE_CAPACITY must be positive")
	}
	return nil
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration, errs *[]error) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s=%q is not a duration (e.g. 5s, 250ms)", key, val))
		return defaultVal
	}
	return d
}

func getInt(key string, defaultVal int, errs *[]error) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s=%q is not an integer", key, val))
		return defaultVal
	}
	return n
}

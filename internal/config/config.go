// Package config reads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	DB DBConfig

	RedisURL        string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

type DBConfig struct {
	URL      string
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string

	// CloudSQLConnectionName switches the connection to a unix socket at
	// SocketDir/CloudSQLConnectionName and takes precedence over Host/Port.
	CloudSQLConnectionName string
	SocketDir              string

	MaxOpenConns int
	MaxIdleConns int
}

var ErrMissingPassword = errors.New("DB_PASSWORD environment variable is required")

// LoadEnvFiles loads .env.local, falling back to .env. Variables already set
// in the environment are never overridden.
func LoadEnvFiles() {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			logrus.Debug(".env not found, using environment variables")
		}
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8000"),
		AppEnv:          getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RedisURL:        os.Getenv("REDIS_URL"),
		RateLimitMax:    100,
		RateLimitWindow: time.Minute,
	}

	if v := os.Getenv("RATE_LIMIT_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_MAX %q", v)
		}
		cfg.RateLimitMax = n
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW %q", v)
		}
		cfg.RateLimitWindow = d
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	db, err := loadDB()
	if err != nil {
		return nil, err
	}
	cfg.DB = db

	return cfg, nil
}

func loadDB() (DBConfig, error) {
	db := DBConfig{
		URL:                    os.Getenv("DATABASE_URL"),
		Driver:                 getEnv("DB_DRIVER", DriverPostgres),
		Host:                   getEnv("DB_HOST", "localhost"),
		Password:               os.Getenv("DB_PASSWORD"),
		Name:                   getEnv("DB_NAME", "matcha_db"),
		CloudSQLConnectionName: os.Getenv("CLOUD_SQL_CONNECTION_NAME"),
		SocketDir:              getEnv("DB_SOCKET_DIR", "/cloudsql"),
		MaxOpenConns:           10,
		MaxIdleConns:           5,
	}

	switch db.Driver {
	case DriverPostgres:
		db.Port = getEnv("DB_PORT", "5432")
		db.User = getEnv("DB_USER", "postgres")
	case DriverMySQL:
		db.Port = getEnv("DB_PORT", "3306")
		db.User = getEnv("DB_USER", "root")
	default:
		return DBConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", db.Driver)
	}

	var err error
	if db.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", db.MaxOpenConns); err != nil {
		return DBConfig{}, err
	}
	if db.MaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", db.MaxIdleConns); err != nil {
		return DBConfig{}, err
	}

	if db.URL == "" && db.CloudSQLConnectionName == "" && db.Password == "" {
		return DBConfig{}, ErrMissingPassword
	}

	return db, nil
}

// UsesSocket reports whether the managed-database socket mode is active.
func (c DBConfig) UsesSocket() bool {
	return c.CloudSQLConnectionName != ""
}

func (c DBConfig) SocketPath() string {
	return c.SocketDir + "/" + c.CloudSQLConnectionName
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

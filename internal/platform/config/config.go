package config

import (
	"os"
	"path/filepath"
	"time"
)

// Store selects which persistence backend the keeper writes through.
type Store string

const (
	StoreFile     Store = "file"
	StoreRedis    Store = "redis"
	StorePostgres Store = "postgres"
	StoreMemory   Store = "memory"
)

// Config captures process-level configuration for the consent keeper.
type Config struct {
	Store    Store
	StateDir string
	Redis    RedisConfig
	Database DatabaseConfig
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	stateDir := os.Getenv("CONSENT_STATE_DIR")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		stateDir = filepath.Join(home, ".cookie-consent")
	}

	storeKind := Store(os.Getenv("CONSENT_STORE"))
	switch storeKind {
	case StoreFile, StoreRedis, StorePostgres, StoreMemory:
	default:
		storeKind = StoreFile
	}

	return Config{
		Store:    storeKind,
		StateDir: stateDir,
		Redis: RedisConfig{
			URL:          os.Getenv("CONSENT_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("CONSENT_DATABASE_URL"),
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
	}
}

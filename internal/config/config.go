package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		Port            string   `yaml:"port"`
		CORSOrigins     []string `yaml:"cors_origins"`
		ReadTimeout     string   `yaml:"read_timeout"`
		WriteTimeout    string   `yaml:"write_timeout"`
		ShutdownTimeout string   `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Store struct {
		Backend string `yaml:"backend"`
		Seed    bool   `yaml:"seed"`
	} `yaml:"store"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8000"
	cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	cfg.Server.ReadTimeout = "15s"
	cfg.Server.WriteTimeout = "15s"
	cfg.Server.ShutdownTimeout = "5s"
	cfg.Store.Seed = true
	cfg.Log.Level = "info"
	cfg.Log.Format = "pretty"
	return cfg
}

// Load reads YAML config from path on top of the defaults, then applies a
// .env file from the working directory and environment overrides.
// A missing config file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if _, err := cfg.Backend(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Store.Backend, "STORE_BACKEND")
	setString(&cfg.Postgres.URL, "POSTGRES_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.SQLite.Path, "SQLITE_PATH")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")

	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		cfg.Server.CORSOrigins = origins
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}
	if raw := os.Getenv("SEED_SAMPLE"); raw != "" {
		seed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("SEED_SAMPLE: %w", err)
		}
		cfg.Store.Seed = seed
	}
	return nil
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

// Backend resolves the configured store backend. When none is named it is
// inferred from which connection setting is present, falling back to memory.
func (c Config) Backend() (string, error) {
	switch strings.ToLower(c.Store.Backend) {
	case BackendMemory:
		return BackendMemory, nil
	case BackendPostgres:
		return BackendPostgres, nil
	case BackendRedis:
		return BackendRedis, nil
	case BackendSQLite:
		return BackendSQLite, nil
	case "":
	default:
		return "", fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch {
	case c.Postgres.URL != "":
		return BackendPostgres, nil
	case c.Redis.Addr != "":
		return BackendRedis, nil
	case c.SQLite.Path != "":
		return BackendSQLite, nil
	}
	return BackendMemory, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

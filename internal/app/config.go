package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/dori/taskhub/internal/db"
	"github.com/dori/taskhub/internal/model"
	"github.com/dori/taskhub/internal/theme"
)

// Environment variables read by LoadConfig
const (
	EnvDataDir     = "TASKHUB_DATA_DIR"
	EnvDBPath      = "TASKHUB_DB_PATH"
	EnvLogLevel    = "TASKHUB_LOG_LEVEL"
	EnvLogFormat   = "TASKHUB_LOG_FORMAT"
	EnvSystemRoles = "TASKHUB_SYSTEM_ROLES"
	EnvActorID     = "TASKHUB_ACTOR_ID"
	EnvActorRoles  = "TASKHUB_ACTOR_ROLES"
	EnvTheme       = "TASKHUB_THEME"
)

// Config holds application configuration
type Config struct {
	DataDir   string
	DBPath    string
	LogLevel  logrus.Level
	LogFormat string // "text" or "json"
	Theme     string

	// SystemRoles are the role names that can never be deleted.
	SystemRoles []string

	// Actor is the default caller identity for CLI commands.
	Actor model.Actor
}

// DefaultConfig returns the default application configuration
func DefaultConfig() *Config {
	dataDir := db.DefaultDataDir()
	return &Config{
		DataDir:     dataDir,
		DBPath:      filepath.Join(dataDir, "taskhub.db"),
		LogLevel:    logrus.WarnLevel,
		LogFormat:   "text",
		Theme:       theme.Default,
		SystemRoles: []string{model.RoleAdmin, model.RoleMember},
	}
}

// LoadConfig reads envFile (or ./.env when envFile is empty and the file
// exists) into the process environment and builds a Config from it. Variables
// already set in the environment win over the file.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	if v := getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
		cfg.DBPath = filepath.Join(v, "taskhub.db")
	}
	if v := getenv(EnvDBPath); v != "" {
		cfg.DBPath = v
	}

	if v := getenv(EnvLogLevel); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if v := getenv(EnvLogFormat); v != "" {
		v = strings.ToLower(v)
		if v != "text" && v != "json" {
			return nil, fmt.Errorf("invalid %s: %q (want text or json)", EnvLogFormat, v)
		}
		cfg.LogFormat = v
	}

	if v := getenv(EnvTheme); v != "" {
		if _, ok := theme.ByName(v); !ok {
			return nil, fmt.Errorf("invalid %s: unknown theme %q", EnvTheme, v)
		}
		cfg.Theme = v
	}

	if v := getenv(EnvSystemRoles); v != "" {
		cfg.SystemRoles = splitList(v)
	}

	if v := getenv(EnvActorID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvActorID, err)
		}
		cfg.Actor.ID = id
	}
	if v := getenv(EnvActorRoles); v != "" {
		cfg.Actor.Roles = splitList(v)
	}

	return cfg, nil
}

// NewLogger builds the logger described by cfg
func NewLogger(cfg *Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return logger
}

// splitList splits a comma separated list, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

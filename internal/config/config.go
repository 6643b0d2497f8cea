// Package config reads service settings from the environment, optionally seeded
// from a .env file.
package config

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/piwi3910/cabinetquote/internal/project"
)

const (
	defaultPort   = "8080"
	defaultDBFile = "quotes.db"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port          string
	DBPath        string
	CatalogPath   string
	AppConfigPath string
	TemplatesPath string
	LogLevel      slog.Level
}

// Load reads a .env file from the working directory if one exists, then the
// environment. Variables already set in the environment win over the file.
func Load() (Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the process environment, filling defaults under
// ~/.cabinetquote for anything unset.
func FromEnv() Config {
	cfg := Config{
		Port:          os.Getenv("PORT"),
		DBPath:        os.Getenv("DB_PATH"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
		AppConfigPath: os.Getenv("APP_CONFIG_PATH"),
		TemplatesPath: os.Getenv("TEMPLATES_PATH"),
		LogLevel:      ParseLogLevel(os.Getenv("LOG_LEVEL")),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(project.DefaultConfigDir(), defaultDBFile)
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = project.DefaultCatalogPath()
	}
	if cfg.AppConfigPath == "" {
		cfg.AppConfigPath = project.DefaultConfigPath()
	}
	if cfg.TemplatesPath == "" {
		cfg.TemplatesPath = project.DefaultTemplatePath()
	}
	return cfg
}

// ParseLogLevel maps debug, info, warn and error (any case) to a slog level.
// Anything else reads as info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

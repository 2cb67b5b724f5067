// Package config gathers runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/session"
	"taskboard/internal/util"
)

type Config struct {
	Addr            string
	DatabaseURL     string
	SessionLifetime time.Duration
	CookieSecure    bool
	AllowedOrigins  []string
	BcryptCost      int
	LogLevel        slog.Level
}

// Load reads envFile when it exists and then the TASKBOARD_* variables.
// Variables already set in the process environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Addr:            util.EnvOrDefault("TASKBOARD_ADDR", ":8080"),
		DatabaseURL:     util.EnvOrDefault("TASKBOARD_DB", "sqlite3:data/taskboard.db"),
		SessionLifetime: util.EnvDuration("TASKBOARD_SESSION_LIFETIME", session.DefaultLifetime),
		CookieSecure:    util.EnvBool("TASKBOARD_COOKIE_SECURE", false),
		AllowedOrigins:  util.EnvList("TASKBOARD_ALLOWED_ORIGINS"),
		BcryptCost:      util.EnvInt("TASKBOARD_BCRYPT_COST", bcrypt.DefaultCost),
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("TASKBOARD_BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	level, err := parseLevel(util.EnvOrDefault("TASKBOARD_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level
	return cfg, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(raw))); err != nil {
		return 0, fmt.Errorf("TASKBOARD_LOG_LEVEL: %w", err)
	}
	return level, nil
}

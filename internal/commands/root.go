// Package commands implements the taskboard command line.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/storage/sqlite"
)

var version = "dev"

var (
	envFile     string
	databaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "A shared task tracker and board manager",
	Long: `taskboard serves a small team task tracker with per-member ownership,
plus a JSON API for workspaces, boards, lists and cards.

Settings come from TASKBOARD_* environment variables, optionally loaded from
a .env file.`,
	SilenceUsage: true,
}

// SetVersion sets the version reported by the root command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file to load")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db", "", "database URL, overrides TASKBOARD_DB")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(memberCmd)
}

// loadConfig applies the persistent flags on top of the environment.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, err
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

// openStore loads configuration and opens the migrated database.
func openStore() (config.Config, *slog.Logger, *sqlite.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger := newLogger(cfg)
	store, err := sqlite.OpenURL(cfg.DatabaseURL, logger)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, logger, store, nil
}

package commands

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, store, err := openStore()
		if err != nil {
			return err
		}
		logger.Info("database ready", "url", cfg.DatabaseURL)
		return store.Close()
	},
}

// Package cmd holds the yatube command line: the web server and the
// administrative commands that replace an admin UI.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yatube/config"
	"yatube/internal/database"
	"yatube/internal/logging"
)

var (
	// Global flags
	configPath string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "yatube",
	Short: "Yatube - a small blogging platform",
	Long: `Yatube is a blogging platform: users publish posts, optionally in a group
and with an image, comment on them, like them and follow other authors.

Configuration comes from defaults, then a YAML file (--config or config.yaml),
then YATUBE_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: config.yaml if present)")
}

// openStore opens the configured database; the schema is migrated on open.
func openStore(ctx context.Context) (*database.Store, error) {
	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return store, nil
}

func closeStore(store *database.Store) {
	if err := store.Close(); err != nil {
		logging.Error().Err(err).Msg("failed to close database")
	}
}

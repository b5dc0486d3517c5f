package cmd

import (
	"github.com/spf13/cobra"

	"yatube/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Long: `Create the tables and indexes if they are missing and apply pending column
additions. Running it again is harmless.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Open migrates
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore(store)

		logging.Info().Str("driver", cfg.Database.Driver).Msg("schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

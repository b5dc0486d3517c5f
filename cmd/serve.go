package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"yatube/internal/logging"
	"yatube/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the web server and the expired session janitor until SIGINT or SIGTERM.

Examples:
  yatube serve
  yatube serve --config /etc/yatube.yaml
  YATUBE_PORT=9000 yatube serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore(store)

		srv, err := server.New(cfg, store)
		if err != nil {
			return err
		}
		logging.Info().Str("addr", cfg.Addr()).Str("driver", cfg.Database.Driver).Msg("starting yatube")
		if err := srv.Run(ctx); err != nil {
			return err
		}
		logging.Info().Msg("yatube stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/rescuesim/app"
	"github.com/kilianp07/rescuesim/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored optimizer rankings over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, cfg *config.Config, svc *app.Service) error {
			if serveAddr != "" {
				cfg.API.Addr = serveAddr
			}
			return svc.ServeAPI(ctx)
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides api.addr")
	rootCmd.AddCommand(serveCmd)
}

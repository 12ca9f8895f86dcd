package main

import (
	"github.com/bhom/cqdauth/internal/bootstrap"
	"github.com/bhom/cqdauth/internal/config"

	"github.com/spf13/cobra"
)

// runApp blocks serving app until shutdown.
var runApp = (*bootstrap.Application).Run

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bearer token API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("addr") {
				cfg.ServerAddr = addr
			}

			app, err := bootstrap.New(cfg, commandLogger(cmd, cfg))
			if err != nil {
				return err
			}

			runApp(app)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (env SERVER_ADDR)")
	return cmd
}

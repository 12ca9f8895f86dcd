package main

import (
	"fmt"

	"github.com/bhom/cqdauth/internal/auth"
	"github.com/bhom/cqdauth/internal/config"
	"github.com/bhom/cqdauth/internal/metrics"

	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var flags loginFlags

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Log in and print the bearer token",
		Long: "Log in to the CQD API and print the bearer token. When no token can be\n" +
			"extracted the full response body is printed instead and a warning is logged.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			flags.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := commandLogger(cmd, cfg)
			c, err := auth.NewFromConfig(cfg, log, metrics.NewNoopMetrics())
			if err != nil {
				return err
			}

			result, err := c.BearerToken(
				cmd.Context(),
				auth.Credentials{Username: cfg.Username, Password: cfg.Password},
				cfg.APIURL,
			)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Value())
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

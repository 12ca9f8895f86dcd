package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bhom/cqdauth/internal/auth"
	"github.com/bhom/cqdauth/internal/client"
	"github.com/bhom/cqdauth/internal/config"
	"github.com/bhom/cqdauth/internal/cqd"
	"github.com/bhom/cqdauth/internal/metrics"

	"github.com/spf13/cobra"
)

var errNoToken = errors.New("login response did not contain a bearer token")

func newGetCmd() *cobra.Command {
	var (
		flags  loginFlags
		params []string
	)

	cmd := &cobra.Command{
		Use:   "get URI",
		Short: "Log in, then GET a CQD API resource with the bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			flags.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			query, err := parseParams(params)
			if err != nil {
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
			if !result.Extracted {
				return fmt.Errorf("%w: %s", errNoToken, result.Raw)
			}

			req, err := cqd.NewRequest(cmd.Context(), args[0], result.Token, query)
			if err != nil {
				return err
			}

			protocols, err := client.ParseTLSProtocols(cfg.TLSProtocols)
			if err != nil {
				return err
			}
			httpClient, err := client.New(client.Options{
				Protocols:          protocols,
				Timeout:            cfg.Timeout,
				InsecureSkipVerify: cfg.InsecureSkipVerify,
			})
			if err != nil {
				return err
			}

			resp, err := httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				log.Warn().
					Int("status", resp.StatusCode).
					Str("uri", args[0]).
					Msg("CQD API returned an error")
			}

			_, err = io.Copy(cmd.OutOrStdout(), resp.Body)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVarP(
		&params,
		"param",
		"q",
		nil,
		"query parameter as key=value (repeatable)",
	)
	return cmd
}

func parseParams(raw []string) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for _, p := range raw {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --param %q, expected key=value", p)
		}
		params[k] = v
	}
	return params, nil
}

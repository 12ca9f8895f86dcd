package main

import (
	"github.com/bhom/cqdauth/internal/config"
	"github.com/bhom/cqdauth/internal/logger"
	"github.com/bhom/cqdauth/internal/version"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cqdauth",
		Short:        "Carbon Query Database login client",
		Version:      version.GetVersion(),
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newTokenCmd(),
		newGetCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return cmd
}

// loginFlags are shared by every command that performs a login.
type loginFlags struct {
	username     string
	password     string
	endpoint     string
	tlsProtocols string
	insecure     bool
}

func (f *loginFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "CQD username (env CQD_USERNAME)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "CQD password (env CQD_PASSWORD)")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "login endpoint (env CQD_API_URL)")
	cmd.Flags().StringVar(
		&f.tlsProtocols,
		"tls-protocols",
		"",
		"comma separated TLS versions (env CQD_TLS_PROTOCOLS)",
	)
	cmd.Flags().BoolVar(
		&f.insecure,
		"insecure-skip-verify",
		false,
		"skip TLS certificate verification (env CQD_INSECURE_SKIP_VERIFY)",
	)
}

// apply overrides cfg with the flags the user actually set.
func (f *loginFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("username") {
		cfg.Username = f.username
	}
	if flags.Changed("password") {
		cfg.Password = f.password
	}
	if flags.Changed("endpoint") {
		cfg.APIURL = f.endpoint
	}
	if flags.Changed("tls-protocols") {
		cfg.TLSProtocols = f.tlsProtocols
	}
	if flags.Changed("insecure-skip-verify") {
		cfg.InsecureSkipVerify = f.insecure
	}
}

// commandLogger logs to the command's stderr so stdout only carries results.
func commandLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	return logger.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
}

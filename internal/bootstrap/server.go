package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bhom/cqdauth/internal/config"

	"github.com/appleboy/graceful"
	"github.com/rs/zerolog"
)

const (
	serverWriteTimeout = 60 * time.Second

	// loginTimeout leaves room to write the reply before WriteTimeout fires.
	loginTimeout = serverWriteTimeout - 5*time.Second
)

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      serverWriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server, log zerolog.Logger) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("Server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(
	m *graceful.Manager,
	srv *http.Server,
	timeout time.Duration,
	log zerolog.Logger,
) {
	m.AddShutdownJob(func() error {
		log.Info().Msg("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}

		log.Info().Msg("Server exited")
		return nil
	})
}

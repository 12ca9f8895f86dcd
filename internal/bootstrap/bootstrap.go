package bootstrap

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bhom/cqdauth/internal/auth"
	"github.com/bhom/cqdauth/internal/client"
	"github.com/bhom/cqdauth/internal/config"
	"github.com/bhom/cqdauth/internal/metrics"

	"github.com/appleboy/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrOverrideWithAuthMode rejects letting callers choose the login endpoint
// while a gateway secret is attached to every login.
var ErrOverrideWithAuthMode = errors.New(
	"SERVER_ALLOW_ENDPOINT_OVERRIDE cannot be enabled together with CQD_API_AUTH_MODE",
)

// Application holds all initialized components of the serve command
type Application struct {
	Config *config.Config
	Log    zerolog.Logger

	MetricsRecorder metrics.Recorder
	AuthClient      *auth.Client

	Router *gin.Engine
	Server *http.Server
}

// New validates configuration and wires every component without starting
// anything.
func New(cfg *config.Config, log zerolog.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.ServerAllowEndpointOverride && cfg.APIAuthMode != client.AuthModeNone {
		return nil, fmt.Errorf("invalid configuration: %w (mode %s)", ErrOverrideWithAuthMode, cfg.APIAuthMode)
	}

	app := &Application{
		Config: cfg,
		Log:    log,
	}

	app.MetricsRecorder = metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Info().Msg("Prometheus metrics initialized")
	} else {
		log.Info().Msg("Metrics disabled (using noop implementation)")
	}

	authClient, err := auth.NewFromConfig(
		cfg,
		log.With().Str("component", "auth").Logger(),
		app.MetricsRecorder,
	)
	if err != nil {
		return nil, err
	}
	app.AuthClient = authClient

	app.Router, err = setupRouter(cfg, log, app.AuthClient, app.MetricsRecorder)
	if err != nil {
		return nil, err
	}
	app.Server = createHTTPServer(cfg, app.Router)

	return app, nil
}

// Run starts the HTTP server and blocks until a shutdown signal is handled
func (app *Application) Run() {
	m := graceful.NewManager()

	addServerRunningJob(m, app.Server, app.Log)
	addServerShutdownJob(m, app.Server, app.Config.ServerShutdownTimeout, app.Log)

	<-m.Done()
}

package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bhom/cqdauth/internal/client"
	"github.com/bhom/cqdauth/internal/config"
	"github.com/bhom/cqdauth/internal/metrics"

	"github.com/rs/zerolog"
)

// Client logs in to the CQD API and extracts a bearer token from the reply.
// A Client holds settings only; every call builds and discards its own
// transport.
type Client struct {
	protocols          client.TLSProtocols
	timeout            time.Duration
	insecureSkipVerify bool
	authMode           string
	authSecret         string
	authHeader         string

	extract Extractor
	log     zerolog.Logger
	metrics metrics.Recorder

	newHTTPClient func(client.Options) (*http.Client, error)
}

// Option configures a Client.
type Option func(*Client)

// WithTLSProtocols sets the protocol versions the login connection may use.
func WithTLSProtocols(p client.TLSProtocols) Option {
	return func(c *Client) {
		if !p.IsZero() {
			c.protocols = p
		}
	}
}

// WithTimeout bounds each call. Zero leaves only the transport's own timeouts.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithInsecureSkipVerify disables server certificate verification.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		c.insecureSkipVerify = skip
	}
}

// WithHTTPAuth adds go-httpclient request authentication ("simple" or "hmac")
// on top of the login body, for deployments behind an API gateway.
func WithHTTPAuth(mode, secret, header string) Option {
	return func(c *Client) {
		c.authMode = mode
		c.authSecret = secret
		c.authHeader = header
	}
}

// WithExtractor replaces the token extraction strategy.
func WithExtractor(e Extractor) Option {
	return func(c *Client) {
		if e != nil {
			c.extract = e
		}
	}
}

// WithLogger sets the logger that receives the fallback warning.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.metrics = r
		}
	}
}

// New creates a Client. Without options it uses the legacy TLS protocol set,
// split extraction, no logging and no metrics.
func New(opts ...Option) *Client {
	c := &Client{
		protocols:     client.Legacy(),
		authMode:      client.AuthModeNone,
		extract:       SplitExtractor,
		log:           zerolog.Nop(),
		metrics:       metrics.NewNoopMetrics(),
		newHTTPClient: client.New,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewFromConfig creates a Client from loaded configuration.
func NewFromConfig(cfg *config.Config, log zerolog.Logger, rec metrics.Recorder) (*Client, error) {
	protocols, err := client.ParseTLSProtocols(cfg.TLSProtocols)
	if err != nil {
		return nil, fmt.Errorf("invalid TLS protocols: %w", err)
	}

	return New(
		WithTLSProtocols(protocols),
		WithTimeout(cfg.Timeout),
		WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		WithHTTPAuth(cfg.APIAuthMode, cfg.APIAuthSecret, cfg.APIAuthHeader),
		WithLogger(log),
		WithRecorder(rec),
	), nil
}

// BearerToken posts creds to endpoint and extracts the bearer token from the
// response. An empty endpoint selects DefaultEndpoint.
//
// Only transport problems are errors. A response the extractor cannot handle
// is returned with Extracted=false and a warning; the HTTP status code is
// recorded but never checked.
func (c *Client) BearerToken(
	ctx context.Context,
	creds Credentials,
	endpoint string,
) (*Result, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	log := c.log.With().Str("endpoint", endpoint).Logger()

	if c.protocols.IncludesSSL3() {
		log.Warn().
			Str("protocols", c.protocols.String()).
			Msg("ssl3 cannot be negotiated; TLS 1.0 is the lowest version offered")
	}
	if c.insecureSkipVerify {
		log.Warn().Msg("TLS certificate verification is disabled")
	}

	httpClient, err := c.newHTTPClient(client.Options{
		Protocols:          c.protocols,
		Timeout:            c.timeout,
		InsecureSkipVerify: c.insecureSkipVerify,
		AuthMode:           c.authMode,
		AuthSecret:         c.authSecret,
		AuthHeader:         c.authHeader,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint,
		strings.NewReader(LoginPayload(creds)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		c.metrics.RecordLogin(metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordLogin(metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrTransport, err)
	}

	result := &Result{
		Raw:        string(body),
		StatusCode: resp.StatusCode,
	}

	if token, ok := c.extract(result.Raw); ok {
		result.Token = token
		result.Extracted = true
		c.metrics.RecordLogin(metrics.OutcomeToken, time.Since(start))
		log.Debug().Int("status", resp.StatusCode).Msg("bearer token extracted")
		return result, nil
	}

	result.Warning = FallbackWarning
	c.metrics.RecordLogin(metrics.OutcomeFallback, time.Since(start))
	log.Warn().
		Int("status", resp.StatusCode).
		Int("body_bytes", len(body)).
		Msg(FallbackWarning)

	return result, nil
}

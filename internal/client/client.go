package client

import (
	"fmt"
	"net/http"
	"time"

	httpclient "github.com/appleboy/go-httpclient"
)

// Outbound authentication modes, passed through to go-httpclient.
const (
	AuthModeNone   = "none"
	AuthModeSimple = "simple"
	AuthModeHMAC   = "hmac"
)

// Options configures a login HTTP client.
type Options struct {
	Protocols          TLSProtocols
	Timeout            time.Duration // 0 means no client-level timeout
	InsecureSkipVerify bool

	AuthMode   string // "none", "simple", or "hmac"
	AuthSecret string
	AuthHeader string
}

// NewTransport creates a single-use transport restricted to the given protocol
// versions. Keep-alives are disabled so nothing outlives the request.
func NewTransport(protocols TLSProtocols, insecureSkipVerify bool) *http.Transport {
	if protocols.IsZero() {
		protocols = Legacy()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = protocols.Config(insecureSkipVerify)
	transport.DisableKeepAlives = true
	transport.MaxIdleConns = 0
	return transport
}

// New creates an HTTP client for one login call.
func New(opts Options) (*http.Client, error) {
	mode := opts.AuthMode
	if mode == "" {
		mode = AuthModeNone
	}

	header := opts.AuthHeader
	if header == "" {
		header = "X-API-Secret"
	}

	c, err := httpclient.NewAuthClient(
		mode,
		opts.AuthSecret,
		httpclient.WithTimeout(opts.Timeout),
		httpclient.WithTransport(NewTransport(opts.Protocols, opts.InsecureSkipVerify)),
		httpclient.WithHeaderName(header),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	// A zero timeout must stay unbounded regardless of library defaults.
	c.Timeout = opts.Timeout
	return c, nil
}

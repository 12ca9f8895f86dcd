package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bhom/cqdauth/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Authenticator performs one CQD login.
type Authenticator interface {
	BearerToken(ctx context.Context, creds auth.Credentials, endpoint string) (*auth.Result, error)
}

// TokenRequest is the body accepted by the bearer token endpoint
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Endpoint string `json:"endpoint,omitempty"`
}

// TokenResponse mirrors auth.Result. Token holds the raw response body when
// Extracted is false.
type TokenResponse struct {
	Token      string `json:"token"`
	Extracted  bool   `json:"extracted"`
	Warning    string `json:"warning,omitempty"`
	StatusCode int    `json:"status_code"`
}

type TokenHandler struct {
	authenticator   Authenticator
	defaultEndpoint string
	allowOverride   bool
	loginTimeout    time.Duration
}

// TokenHandlerOption configures a TokenHandler.
type TokenHandlerOption func(*TokenHandler)

// WithLoginTimeout bounds each upstream login made for a request. Zero leaves
// the request context as the only bound.
func WithLoginTimeout(d time.Duration) TokenHandlerOption {
	return func(h *TokenHandler) {
		if d > 0 {
			h.loginTimeout = d
		}
	}
}

// NewTokenHandler creates the handler. Callers may only pick their own
// endpoint when allowOverride is set; otherwise defaultEndpoint is used.
func NewTokenHandler(
	a Authenticator,
	defaultEndpoint string,
	allowOverride bool,
	opts ...TokenHandlerOption,
) *TokenHandler {
	h := &TokenHandler{
		authenticator:   a,
		defaultEndpoint: defaultEndpoint,
		allowOverride:   allowOverride,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BearerToken logs in to CQD on behalf of the caller.
func (h *TokenHandler) BearerToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "Request body must be a JSON object with username and password",
		})
		return
	}

	endpoint := h.defaultEndpoint
	if req.Endpoint != "" {
		if !h.allowOverride {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_request",
				"error_description": "Custom endpoints are disabled on this server",
			})
			return
		}
		endpoint = req.Endpoint
	}

	ctx := c.Request.Context()
	if h.loginTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.loginTimeout)
		defer cancel()
	}

	result, err := h.authenticator.BearerToken(
		ctx,
		auth.Credentials{Username: req.Username, Password: req.Password},
		endpoint,
	)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("login failed")

		switch {
		case errors.Is(err, auth.ErrRequest):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_request",
				"error_description": "Login request could not be built",
			})
		case errors.Is(err, context.DeadlineExceeded):
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error":             "upstream_timeout",
				"error_description": "Authentication API did not answer in time",
			})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error":             "upstream_unavailable",
				"error_description": "Authentication API could not be reached",
			})
		}
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:      result.Value(),
		Extracted:  result.Extracted,
		Warning:    result.Warning,
		StatusCode: result.StatusCode,
	})
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

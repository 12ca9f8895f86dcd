package auth

import "errors"

var (
	// ErrRequest means the login request could not be built (bad endpoint URL,
	// unusable transport settings).
	ErrRequest = errors.New("failed to build login request")

	// ErrTransport covers everything between sending the request and reading
	// the last byte of the response: DNS, refused connections, TLS handshake,
	// timeouts and cancellation.
	ErrTransport = errors.New("failed to reach authentication API")
)

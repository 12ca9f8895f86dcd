// Package cqd builds authorized requests against the Carbon Query Database API.
package cqd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

var ErrMissingToken = errors.New("bearer token is required")

// NewRequest creates a GET request for uri carrying the bearer token returned
// by a login. params are merged into the query string, replacing any values
// already present for the same keys.
func NewRequest(
	ctx context.Context,
	uri, token string,
	params map[string]string,
) (*http.Request, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid request uri: %w", err)
	}

	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request uri: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

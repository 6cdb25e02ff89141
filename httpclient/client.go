// Package httpclient builds the two REST clients the rest of the SDK talks
// through: a plain client (no credentials beyond the device headers) and a
// secured client that attaches the bearer token at send time, intercepts 401
// responses, and drives a single-flight refresh-and-retry cycle.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/pharmalink/go-pharmacy-client/appstate"
)

// maxAttempts bounds the 401 retry path: the original request plus exactly
// one retry after a successful token refresh.
const maxAttempts = 2

// StatusError is an HTTP response with a non-success status. Its presence in
// an error chain is what distinguishes "the server rejected this" from "the
// network is down".
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, string(e.Body))
}

// IsStatus reports whether err carries an HTTP response with the given
// status code.
func IsStatus(err error, statusCode int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == statusCode
}

// HasResponse reports whether err carries any HTTP response at all.
func HasResponse(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}

// headerFunc decorates outgoing request headers. Called at send time so
// dynamic values (platform hint, device id) are always current.
type headerFunc func(h http.Header)

// Client is a thin JSON REST client bound to a base URL. When auth is set
// it behaves as the secured client described in the package comment.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    headerFunc
	auth       *authPolicy
	logger     zerolog.Logger
}

// authPolicy is attached to secured clients only.
type authPolicy struct {
	tokens    *appstate.Holder
	refresher *Refresher
}

type requestOption func(*http.Request)

// withBearer overrides the Authorization header for a single request. Used
// by the refresh call, which authenticates with the refresh value instead of
// the access token.
func withBearer(token string) requestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// call performs one logical request: marshal body, attach headers and
// credentials, dispatch, and run the bounded 401 recovery loop for secured
// clients. Retry state (attempt counter, refreshed flag) is explicit
// request-chain state, never a flag smuggled onto the request itself, so the
// chain performs at most one refresh and at most two dispatches.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body any, opts ...requestOption) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "[Client.call] marshal request body")
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, query.Encode())
	}

	refreshed := false
	if c.auth != nil && tokenNeedsRefresh(c.auth.tokens.AccessToken()) {
		// The held token is a JWT that is already expired: a 401 is
		// guaranteed, so spend the chain's one refresh up front and save
		// the wasted round trip.
		if _, err := c.auth.refresher.Refresh(ctx); err != nil {
			return nil, errors.Wrap(err, "[Client.call] token refresh")
		}
		refreshed = true
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			c.logger.Debug().Str("path", path).Msg("retrying request with refreshed token")
		}

		raw, err := c.dispatch(ctx, method, fullURL, payload, opts...)
		if err == nil {
			return raw, nil
		}

		if c.auth == nil || !IsStatus(err, http.StatusUnauthorized) {
			return nil, err
		}

		if refreshed || attempt >= maxAttempts {
			// 401 after this chain already refreshed: the fresh token was
			// rejected too, so the session itself is bad.
			c.auth.refresher.session.SignOut()
			return nil, errors.Wrap(err, "[Client.call] unauthorized after retry")
		}

		if _, refreshErr := c.auth.refresher.Refresh(ctx); refreshErr != nil {
			// Refresh already signed the session out; propagate to the
			// original caller.
			return nil, errors.Wrap(refreshErr, "[Client.call] token refresh")
		}
		refreshed = true
	}
	return nil, errors.New("[Client.call] unreachable")
}

// dispatch performs a single HTTP round trip. A transport failure comes back
// as a plain error; a non-2xx response comes back as a *StatusError.
func (c *Client) dispatch(ctx context.Context, method, fullURL string, payload []byte, opts ...requestOption) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.dispatch] build request")
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.headers != nil {
		c.headers(req.Header)
	}

	if c.auth != nil {
		// Read the access token at send time, not at client construction,
		// so a token refreshed mid-flight by another request is picked up
		// immediately.
		req.Header.Set("Authorization", "Bearer "+c.auth.tokens.AccessToken())
	}

	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.dispatch] round trip")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.dispatch] read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: raw}
	}
	return raw, nil
}

// GetJSON issues a GET and decodes the JSON response into out. A nil out
// discards the body.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	raw, err := c.call(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// PostJSON issues a POST with a JSON body and decodes the JSON response into
// out. A nil out discards the body.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	raw, err := c.call(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

// DeleteJSON issues a DELETE and decodes the JSON response into out.
func (c *Client) DeleteJSON(ctx context.Context, path string, out any) error {
	raw, err := c.call(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	return decode(raw, out)
}

func decode(raw []byte, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "[Client] decode response body")
	}
	return nil
}

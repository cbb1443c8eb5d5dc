// Package remote fetches collection logs from collectionlog.net and the
// item catalog from the catalog backend.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/Tiliavir/collection-log-advisor/internal/config"
	"github.com/Tiliavir/collection-log-advisor/internal/logger"
)

var (
	// ErrNotFound is returned when the remote answers 404.
	ErrNotFound = errors.New("not found")
	// ErrNoBackend is returned by catalog fetches without a backend URL.
	ErrNoBackend = errors.New("remote.backend_url is not configured")
)

const (
	DefaultRetryAttempts = 3
	DefaultRetryBackoff  = 2 * time.Second
)

// Client talks to collectionlog.net and the catalog backend.
type Client struct {
	collectionLogURL string
	backendURL       string

	plain   *http.Client
	backend *http.Client
	limiter *rate.Limiter

	retryAttempts int
	retryBackoff  time.Duration
}

// Option tunes a Client.
type Option func(*Client)

// WithRetry sets how often a failing request is attempted and the pause
// between attempts.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.retryAttempts, c.retryBackoff = attempts, backoff
	}
}

// NewClient builds a Client from the remote config. When an API token is
// configured, requests to the catalog backend carry it as a bearer token.
func NewClient(ctx context.Context, cfg config.RemoteConfig, opts ...Option) *Client {
	base := &http.Client{Timeout: cfg.TimeoutDuration()}

	backend := base
	if cfg.APIToken != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
		backend = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.APIToken,
			TokenType:   "Bearer",
		}))
		backend.Timeout = base.Timeout
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	c := &Client{
		collectionLogURL: strings.TrimRight(cfg.CollectionLogURL, "/"),
		backendURL:       strings.TrimRight(cfg.BackendURL, "/"),
		plain:            base,
		backend:          backend,
		limiter:          rate.NewLimiter(limit, 1),
		retryAttempts:    DefaultRetryAttempts,
		retryBackoff:     DefaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// statusError is a non-200 answer.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("remote error %d: %s", e.code, e.body)
}

// get fetches endpoint, retrying transport errors and 5xx answers.
func (c *Client) get(ctx context.Context, httpClient *http.Client, endpoint string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		body, err := c.do(ctx, httpClient, endpoint)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *statusError
		if ctx.Err() != nil || errors.Is(err, ErrNotFound) || (errors.As(err, &se) && se.code < 500) {
			return nil, err
		}
		if attempt < c.retryAttempts {
			logger.Get(ctx).Warn().
				Str("url", endpoint).
				Int("attempt", attempt).
				Int("max_attempts", c.retryAttempts).
				Dur("backoff", c.retryBackoff).
				Err(err).
				Msg("request failed, retrying")
			select {
			case <-time.After(c.retryBackoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, httpClient *http.Client, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	requestID := logger.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	logger.Get(ctx).Debug().
		Str("url", endpoint).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("remote request")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", endpoint, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

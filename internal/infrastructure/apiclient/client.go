// Package apiclient implements ports.MarketplaceAPI over the course store's
// JSON HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursestore/storefront/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Config configures the API client.
type Config struct {
	// BaseURL is the API root including its path prefix, e.g.
	// http://localhost:8000/api.
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	healthURL  string
	httpClient *http.Client
	log        zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	health := url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/health"}
	return &Client{
		baseURL:    base.String(),
		healthURL:  health.String(),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

// do sends one request and decodes a 2xx body into out (when out is
// non-nil). Non-2xx answers become domain errors; nothing is retried.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(method, path, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := parseDetail(raw)

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrUnauthorized)
	}
	return fmt.Errorf("%s %s: %w", method, path, &domain.APIError{
		StatusCode: resp.StatusCode,
		Detail:     detail,
	})
}

// Ping checks that the API host answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api health: status %d", resp.StatusCode)
	}
	return nil
}

// apiErrorIs reports whether err carries an APIError with the given status.
func apiErrorIs(err error, status int) (*domain.APIError, bool) {
	var ae *domain.APIError
	if errors.As(err, &ae) && ae.StatusCode == status {
		return ae, true
	}
	return nil, false
}

// Package analytics talks to the external statistics service that fits
// forecasts and spatial interpolations. The algorithms live in that
// service; this package only exchanges JSON with it.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// Service is the set of analyses the rest of the application relies on.
type Service interface {
	Forecast(ctx context.Context, input ForecastInput) (*ForecastResult, error)
	Interpolate(ctx context.Context, input KrigingInput) (*KrigingResult, error)
	Health(ctx context.Context) (*HealthStatus, error)
}

// Client is the HTTP client for the analytics service.
type Client struct {
	config *Config
	http   *http.Client
	logger *slog.Logger
}

var _ Service = (*Client)(nil)

// NewClient creates a new analytics client.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	config.SetDefaults()

	return &Client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
		},
		logger: slog.Default(),
	}, nil
}

// WithLogger returns the client after replacing its logger.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// Forecast fits a time-series model to input.Values and projects it
// input.Periods steps ahead.
func (c *Client) Forecast(ctx context.Context, input ForecastInput) (*ForecastResult, error) {
	if len(input.Values) == 0 {
		return nil, NewValidationError("forecast needs at least one value")
	}
	if input.Periods < 1 {
		return nil, NewValidationError("forecast periods must be positive")
	}
	return call[ForecastResult](ctx, c, http.MethodPost, "/forecast/arima", input)
}

// Interpolate kriges input.Points onto a regular grid.
func (c *Client) Interpolate(ctx context.Context, input KrigingInput) (*KrigingResult, error) {
	if len(input.Points) < 3 {
		return nil, NewValidationError("interpolation needs at least three points")
	}
	return call[KrigingResult](ctx, c, http.MethodPost, "/interpolate/kriging", input)
}

// Health probes the service.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	return call[HealthStatus](ctx, c, http.MethodGet, "/health", nil)
}

// call performs a request, retrying network failures up to MaxAttempts.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var lastErr error

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		c.logger.Info("analytics request attempt",
			"attempt", attempt,
			"method", method,
			"path", path,
		)

		result, err := do[T](ctx, c, method, path, body)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var aErr *Error
		if !errors.As(err, &aErr) || !aErr.Retryable() || ctx.Err() != nil {
			return nil, err
		}
		c.logger.Warn("analytics request failed, retrying",
			"attempt", attempt,
			"error", err.Error(),
		)
	}

	return nil, fmt.Errorf("analytics request failed after %d attempts: %w", c.config.MaxAttempts, lastErr)
}

// do makes a single HTTP exchange.
func do[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("analytics HTTP request failed",
			"error", err.Error(),
			"duration", duration,
		)
		if isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewNetworkError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", "error", err)
		}
	}()

	c.logger.Info("analytics HTTP request completed",
		"path", path,
		"status_code", resp.StatusCode,
		"duration", duration,
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, NewTimeoutError(err)
		}
		return nil, NewNetworkError(err)
	}

	if resp.StatusCode != http.StatusOK {
		// Services report analysis failures as JSON even on error statuses
		var env envelope
		if json.Unmarshal(data, &env) == nil && env.Success != nil && !*env.Success {
			return nil, NewRemoteError(env.Error)
		}
		return nil, NewAPIError(resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, NewParseError(string(data), err)
	}
	if env.Success != nil && !*env.Success {
		return nil, NewRemoteError(env.Error)
	}

	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, NewParseError(string(data), err)
	}

	return &result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

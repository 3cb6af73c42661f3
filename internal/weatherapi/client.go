// Package weatherapi is the HTTP client for the upstream weather provider.
package weatherapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Document kinds the upstream serves.
const (
	KindCurrent  = "current"
	KindForecast = "forecast"
)

const defaultBaseURL = "https://api.weatherapi.com/v1"

// UpstreamError reports a failed fetch. Transport errors, non-2xx responses
// and an open circuit all normalize to this type; StatusCode is zero when no
// HTTP response was received.
type UpstreamError struct {
	Location   string
	Kind       string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("weatherapi: fetch %s for %q: status %d", e.Kind, e.Location, e.StatusCode)
	}
	return fmt.Sprintf("weatherapi: fetch %s for %q: %v", e.Kind, e.Location, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Client fetches raw documents from the upstream API. One GET per call, no
// retries, no caching; a circuit breaker fails fast while the upstream is
// down and a rate limiter keeps us inside the provider quota.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
}

// NewClient creates a Client using the given HTTP client and API key.
func NewClient(httpClient *http.Client, apiKey string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		circuit:    cb,
		// The free upstream tier allows ~1M calls/month; 1 rps with a
		// small burst stays far under it even with many locations.
		limiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

// SetBaseURL overrides the upstream base URL. Used by tests.
func (c *Client) SetBaseURL(base string) { c.baseURL = base }

// Fetch issues one GET for the given location and kind and returns the raw
// response body. The caller decodes it; the client has no knowledge of the
// payload shape.
func (c *Client) Fetch(ctx context.Context, location, kind string) ([]byte, error) {
	if kind != KindCurrent && kind != KindForecast {
		return nil, &UpstreamError{Location: location, Kind: kind, Err: fmt.Errorf("unknown document kind %q", kind)}
	}
	if c.apiKey == "" {
		return nil, &UpstreamError{Location: location, Kind: kind, Err: fmt.Errorf("api key is not configured")}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &UpstreamError{Location: location, Kind: kind, Err: err}
	}

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("q", location)
	u := fmt.Sprintf("%s/%s.json?%s", c.baseURL, kind, values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &UpstreamError{Location: location, Kind: kind, Err: err}
	}

	var status int
	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.httpClient.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			status = resp.StatusCode
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, readErr
		}
		return body, nil
	})
	if err != nil {
		return nil, &UpstreamError{Location: location, Kind: kind, StatusCode: status, Err: err}
	}

	return result.([]byte), nil
}

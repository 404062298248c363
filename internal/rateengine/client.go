// Package rateengine is the HTTP client for the external rate engine.
//
// The engine prices a whole batch in one POST. The client makes exactly one
// attempt per batch; the caller's context and the http.Client timeout bound
// it. Every failure is returned as *UnavailableError so the core gateway can
// switch the batch to its local fallback.
package rateengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/rateaudit/internal/core"
)

// DefaultBaseURL is used when no engine URL is configured.
const DefaultBaseURL = "http://localhost:8001"

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 512

// Client calls the rate engine. It is safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client for the engine at baseURL. A non-positive
// timeout uses core.DefaultEngineTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse rate engine url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("rate engine url %q: scheme must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = core.DefaultEngineTimeout
	}

	return &Client{
		endpoint: u.String() + calculatePath,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// Endpoint returns the full URL the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// CalculateRates implements core.RateEngine.
func (c *Client) CalculateRates(ctx context.Context, shipments []core.NormalizedShipment, settings core.RateCalculationSettings) ([]core.RateResult, core.Summary, error) {
	body, err := json.Marshal(buildRequest(shipments, settings))
	if err != nil {
		return nil, core.Summary{}, &UnavailableError{Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, core.Summary{}, &UnavailableError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, core.Summary{}, &UnavailableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, core.Summary{}, &UnavailableError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(excerpt)),
		}
	}

	var out calculateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, core.Summary{}, &UnavailableError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = "engine reported failure"
		}
		return nil, core.Summary{}, &UnavailableError{Message: msg}
	}
	if len(out.Results) != len(shipments) {
		return nil, core.Summary{}, &UnavailableError{
			Err: fmt.Errorf("engine returned %d results for %d shipments", len(out.Results), len(shipments)),
		}
	}

	return out.Results, out.Summary, nil
}

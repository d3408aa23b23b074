package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// StatusError is returned when the EPI service responds with a non-success
// status code. It carries the status and the endpoint so callers can report
// which request failed without parsing error strings.
type StatusError struct {
	StatusCode int
	Status     string
	Endpoint   string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d (%s) from %s", e.StatusCode, e.Status, e.Endpoint)
}

// Client wraps HTTP operations against the EPI service.
//
// Client provides:
//   - A fixed base URL so callers deal in endpoint paths only
//   - Deterministic query encoding (url.Values encodes keys sorted)
//   - Configured User-Agent header
//   - Timeout handling
//
// Example usage:
//
//	client := NewClient("https://vizhub.healthdata.org/epi")
//	body, err := client.GetString(ctx, "/api/metadata", nil)
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a new HTTP client for the EPI service at baseURL.
//
// The client is configured with:
//   - 60 second timeout
//   - "epi-downloader" User-Agent header
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:   baseURL,
		userAgent: "epi-downloader",
	}
}

// Get performs a GET request against an endpoint path and returns the
// response body.
//
// params may be nil for endpoints without query parameters.
//
// Returns an error if:
//   - The request fails or times out
//   - The response status is not in the 2xx range (a *StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Endpoint:   endpoint,
		}
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for the text formats the EPI
// service serves (JSON metadata, CSV datasets).
func (c *Client) GetString(ctx context.Context, endpoint string, params url.Values) (string, error) {
	body, err := c.Get(ctx, endpoint, params)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Package http provides an HTTP client configured for the EPI service API.
//
// The Client in this package handles:
//   - Base URL handling so callers pass endpoint paths only
//   - Deterministic query string encoding
//   - User-Agent headers and timeouts
//   - Typed status errors via StatusError
//
// # Basic Usage
//
//	client := http.NewClient("https://vizhub.healthdata.org/epi")
//
//	body, err := client.GetString(ctx, "/api/metadata", nil)
//
//	params := url.Values{}
//	params.Set("model", "2145")
//	body, err = client.GetString(ctx, "/api/model/versions", params)
//
// # Status Errors
//
// Non-2xx responses are returned as *StatusError, so callers can inspect the
// status code:
//
//	var statusErr *http.StatusError
//	if errors.As(err, &statusErr) {
//	    fmt.Println(statusErr.StatusCode, statusErr.Endpoint)
//	}
package http

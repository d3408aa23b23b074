package cache

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	epihttp "github.com/epitools/epi-downloader/internal/http"
)

// Client is a disk-cached wrapper around the HTTP client.
//
// Responses are stored one file per logical request under the cache
// directory, keyed by a caller-supplied file name derived from the request
// (endpoint plus sorted parameters), never from a hash of the URL. Entries
// are never invalidated automatically; the only way past a cached entry is
// the ignore-cache flag, which skips reads but still writes.
type Client struct {
	http        *epihttp.Client
	dir         string
	ignoreCache bool
}

// NewClient creates a cache client storing responses under dir.
//
// If ignoreCache is true, cached entries are not read (every Get issues a
// network request) but fresh responses still overwrite the cache. This is
// useful for checking whether new data has become available since the last
// run.
func NewClient(httpClient *epihttp.Client, dir string, ignoreCache bool) *Client {
	return &Client{
		http:        httpClient,
		dir:         dir,
		ignoreCache: ignoreCache,
	}
}

// Get returns the response body for an endpoint, from cache when possible.
//
// If caching is enabled and fileName exists under the cache directory its
// contents are returned verbatim with no network call. Otherwise the request
// is issued; failed requests are not cached, successful non-empty bodies are
// persisted under fileName before being returned.
func (c *Client) Get(ctx context.Context, endpoint, fileName string, params url.Values) (string, error) {
	path := filepath.Join(c.dir, fileName)

	if !c.ignoreCache {
		if data, err := os.ReadFile(path); err == nil {
			return string(data), nil
		}
	}

	text, err := c.http.GetString(ctx, endpoint, params)
	if err != nil {
		return "", err
	}

	// An empty body is not worth caching; it usually means the service had
	// no data for the request.
	if text != "" {
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return "", err
		}
	}

	return text, nil
}

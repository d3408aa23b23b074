package cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	epihttp "github.com/epitools/epi-downloader/internal/http"
)

func newTestServer(t *testing.T, body string, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func TestClient_CacheRoundTrip(t *testing.T) {
	server, calls := newTestServer(t, "hello,world\n1,2\n", http.StatusOK)
	dir := t.TempDir()
	client := NewClient(epihttp.NewClient(server.URL), dir, false)

	first, err := client.Get(context.Background(), "/api/data", "data.csv", nil)
	if err != nil {
		t.Fatalf("first Get failed: %v", err)
	}
	second, err := client.Get(context.Background(), "/api/data", "data.csv", nil)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}

	if first != second {
		t.Errorf("cached response %q differs from original %q", second, first)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1 (second Get must be served from cache)", got)
	}
}

func TestClient_IgnoreCacheBypassesReads(t *testing.T) {
	server, calls := newTestServer(t, "fresh", http.StatusOK)
	dir := t.TempDir()

	// Pre-populate a stale cache entry.
	if err := os.WriteFile(filepath.Join(dir, "data.csv"), []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	client := NewClient(epihttp.NewClient(server.URL), dir, true)
	got, err := client.Get(context.Background(), "/api/data", "data.csv", nil)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got != "fresh" {
		t.Errorf("Get = %q, want %q", got, "fresh")
	}
	if calls.Load() != 1 {
		t.Errorf("server saw %d calls, want 1", calls.Load())
	}

	// The fresh response must overwrite the stale entry.
	data, err := os.ReadFile(filepath.Join(dir, "data.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fresh" {
		t.Errorf("cache entry = %q, want %q", string(data), "fresh")
	}
}

func TestClient_ErrorNotCached(t *testing.T) {
	server, _ := newTestServer(t, "boom", http.StatusInternalServerError)
	dir := t.TempDir()
	client := NewClient(epihttp.NewClient(server.URL), dir, false)

	_, err := client.Get(context.Background(), "/api/data", "data.csv", nil)

	var statusErr *epihttp.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *http.StatusError", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusInternalServerError)
	}

	if _, err := os.Stat(filepath.Join(dir, "data.csv")); !os.IsNotExist(err) {
		t.Error("failed response must not be cached")
	}
}

func TestClient_EmptyBodyNotCached(t *testing.T) {
	server, _ := newTestServer(t, "", http.StatusOK)
	dir := t.TempDir()
	client := NewClient(epihttp.NewClient(server.URL), dir, false)

	text, err := client.Get(context.Background(), "/api/data", "data.csv", url.Values{})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if text != "" {
		t.Errorf("Get = %q, want empty", text)
	}

	if _, err := os.Stat(filepath.Join(dir, "data.csv")); !os.IsNotExist(err) {
		t.Error("empty response must not be cached")
	}
}

// Package cache provides a disk-cached HTTP client for EPI service
// responses.
//
// Every network-bound step of the download pipeline goes through this
// package. Cached entries live one file per logical request in a cache
// directory, so re-running the same grid config hits the disk instead of the
// network.
//
//	httpClient := http.NewClient(baseURL)
//	client := cache.NewClient(httpClient, cacheDir, false)
//
//	text, err := client.Get(ctx, "/api/metadata", "metadata.json", nil)
//
// Concurrent fetches write to distinct keys, so no locking is needed. Two
// runs racing on the same key is harmless: the content for a given key is
// idempotent given the same remote state, so last-writer-wins.
package cache

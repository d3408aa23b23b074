package epi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/epitools/epi-downloader/internal/cache"
	"github.com/epitools/epi-downloader/internal/epi/dto"
	"github.com/epitools/epi-downloader/internal/model"
)

// ErrBadMetadata is returned when the metadata endpoint serves a blob the
// resolver cannot reshape into name→ID tables.
//
// Metadata failures are fatal for the whole run: nothing downstream is
// meaningful without the ID mappings, so there is no partial loading.
var ErrBadMetadata = errors.New("malformed metadata")

// Resolver fetches and reshapes the EPI service's metadata.
//
// The raw metadata is version-inconsistent: each category's items carry a
// differently named ID field ("model_id", "measure_id", ...), item keys are
// arbitrary, and names are sometimes numbers. Resolver normalizes all of
// that into model.Metadata.
//
// Example usage:
//
//	resolver := NewResolver(cacheClient)
//	md, err := resolver.Metadata(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(md["measure"]["Prevalence"])
type Resolver struct {
	client *cache.Client
}

// NewResolver creates a Resolver fetching through the given cache client.
func NewResolver(client *cache.Client) *Resolver {
	return &Resolver{client: client}
}

// Metadata fetches the metadata endpoint once and builds the per-category
// name→ID tables.
//
// Returns an error wrapping ErrBadMetadata if a required category or an
// item's expected ID field is absent. There are no retries here; one failure
// aborts metadata loading.
func (r *Resolver) Metadata(ctx context.Context) (model.Metadata, error) {
	text, err := r.client.Get(ctx, "/api/metadata", "metadata.json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}
	return parseMetadata([]byte(text))
}

// parseMetadata reshapes the raw metadata blob into model.Metadata.
func parseMetadata(data []byte) (model.Metadata, error) {
	var raw dto.JSONMetadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadMetadata, err)
	}

	md := make(model.Metadata, len(model.Categories))
	for _, category := range model.Categories {
		items, ok := raw.Data[category]
		if !ok {
			return nil, fmt.Errorf("%w: category %q missing", ErrBadMetadata, category)
		}

		idField := category + "_id"
		names := make(map[string]int, len(items))
		for key, rawItem := range items {
			var item map[string]any
			if err := json.Unmarshal(rawItem, &item); err != nil {
				return nil, fmt.Errorf("%w: item %q in category %q: %v", ErrBadMetadata, key, category, err)
			}

			id, ok := item[idField].(float64)
			if !ok {
				return nil, fmt.Errorf("%w: item %q in category %q has no numeric %q field", ErrBadMetadata, key, category, idField)
			}

			names[itemName(item["name"])] = int(id)
		}
		md[category] = names
	}
	return md, nil
}

// itemName renders a metadata item name as a string. Year names in
// particular arrive as JSON numbers in some metadata versions.
func itemName(v any) string {
	switch name := v.(type) {
	case string:
		return name
	case float64:
		return strconv.FormatFloat(name, 'f', -1, 64)
	default:
		return fmt.Sprint(name)
	}
}

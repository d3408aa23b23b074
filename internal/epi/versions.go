package epi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/epitools/epi-downloader/internal/epi/dto"
)

// Version is one entry from a model's version listing.
//
// Measure is nil when the catalog left the version generic; such versions
// still serve data for any measure.
type Version struct {
	ID      int
	Measure *int
}

// NoVersionError is returned by SelectVersion when a model has neither an
// exact-measure version nor a generic fallback for the requested measure.
type NoVersionError struct {
	Measure int
}

// Error implements the error interface.
func (e *NoVersionError) Error() string {
	return fmt.Sprintf("no dataset version available for measure %d", e.Measure)
}

// SelectVersion picks the best version ID for the requested measure.
//
// The catalog sometimes tags a version with an explicit measure and
// sometimes leaves the field null while still serving all measures. Exact
// matches take priority; generic versions are the fallback; having neither
// is a *NoVersionError. Within a step the highest version ID wins, since
// newer datasets are assumed to have higher IDs (no timestamp is available).
func SelectVersion(versions []Version, measure int) (int, error) {
	if id, ok := latest(versions, &measure); ok {
		return id, nil
	}
	if id, ok := latest(versions, nil); ok {
		return id, nil
	}
	return 0, &NoVersionError{Measure: measure}
}

// latest returns the highest version ID whose measure field matches.
// A nil measure matches only versions whose measure field is null.
func latest(versions []Version, measure *int) (int, bool) {
	best, found := 0, false
	for _, v := range versions {
		match := (measure == nil && v.Measure == nil) ||
			(measure != nil && v.Measure != nil && *v.Measure == *measure)
		if match && (!found || v.ID > best) {
			best, found = v.ID, true
		}
	}
	return best, found
}

// ModelVersions fetches the version listing for a model.
//
// The step parameter is sent empty; its meaning is undocumented upstream but
// the service requires it.
func (r *Resolver) ModelVersions(ctx context.Context, modelID int) ([]Version, error) {
	params := url.Values{}
	params.Set("model", strconv.Itoa(modelID))
	params.Set("step", "")

	fileName := fmt.Sprintf("versions_model%d.json", modelID)
	text, err := r.client.Get(ctx, "/api/model/versions", fileName, params)
	if err != nil {
		return nil, err
	}

	var raw dto.JSONVersions
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse version listing for model %d: %w", modelID, err)
	}

	versions := make([]Version, 0, len(raw.Data))
	for _, v := range raw.Data {
		versions = append(versions, Version{ID: v.Version, Measure: v.Measure})
	}
	return versions, nil
}

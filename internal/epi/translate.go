package epi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/epitools/epi-downloader/internal/model"
)

// TranslationError reports every problem found while translating a grid
// config, so the user sees all of them in one pass instead of fixing values
// one at a time.
type TranslationError struct {
	// Invalid maps a category to the values that could not be resolved.
	// Unknown categories appear here with all of their values.
	Invalid map[string][]string

	// Missing lists required categories absent from the config.
	Missing []string
}

// Error implements the error interface.
func (e *TranslationError) Error() string {
	var parts []string

	categories := make([]string, 0, len(e.Invalid))
	for c := range e.Invalid {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		parts = append(parts, fmt.Sprintf("%s: %s", c, strings.Join(e.Invalid[c], ", ")))
	}

	msg := ""
	if len(parts) > 0 {
		msg = "invalid config values: " + strings.Join(parts, "; ")
	}
	if len(e.Missing) > 0 {
		if msg != "" {
			msg += "; "
		}
		msg += "missing categories: " + strings.Join(e.Missing, ", ")
	}
	return msg
}

// Translate converts a raw grid config (human-readable names) into a fully
// resolved ID grid using the metadata tables.
//
// Every value under every category is looked up; all failures are collected
// before returning a *TranslationError. Value order within each category is
// preserved. Unknown categories and missing required categories are reported
// in the same error.
func Translate(raw map[string][]string, md model.Metadata) (model.Grid, error) {
	grid := make(model.Grid, len(raw))
	terr := &TranslationError{Invalid: make(map[string][]string)}

	for category, values := range raw {
		if !model.IsCategory(category) {
			terr.Invalid[category] = append(terr.Invalid[category], values...)
			continue
		}

		ids := make([]int, 0, len(values))
		for _, value := range values {
			id, ok := md[category][value]
			if !ok {
				terr.Invalid[category] = append(terr.Invalid[category], value)
				continue
			}
			ids = append(ids, id)
		}
		grid[category] = ids
	}

	for _, category := range model.Categories {
		if _, ok := raw[category]; !ok {
			terr.Missing = append(terr.Missing, category)
		}
	}
	sort.Strings(terr.Missing)

	if len(terr.Invalid) > 0 || len(terr.Missing) > 0 {
		return nil, terr
	}
	return grid, nil
}

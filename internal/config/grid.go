package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Grid is a raw parameter grid as read from the user's config file: each
// category mapped to the human-readable values to download. Translation to
// integer IDs happens against the service metadata, not here.
type Grid map[string][]string

// ExampleGrid returns the example grid config written by the dump-config
// mode. It resolves to a single parameter combination.
func ExampleGrid() Grid {
	return Grid{
		"model":   {"Diabetes Mellitus - Total"},
		"measure": {"Prevalence"},
		"year":    {"2015"},
		"age":     {"20-24 years"},
		"sex":     {"Male"},
	}
}

// LoadGrid reads a grid config file from disk.
//
// The file is a JSON object mapping each category to either a single value
// or a list of values; values may be strings or numbers:
//
//	{
//	    "model": "Diabetes Mellitus - Total",
//	    "year": [2015, 2017],
//	    "sex": ["Male", "Female"]
//	}
func LoadGrid(path string) (Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseGrid(data)
}

func parseGrid(data []byte) (Grid, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse grid config: %w", err)
	}

	grid := make(Grid, len(raw))
	for category, rawValue := range raw {
		values, err := parseValues(rawValue)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", category, err)
		}
		grid[category] = values
	}
	return grid, nil
}

// parseValues accepts a single scalar or a list of scalars.
func parseValues(raw json.RawMessage) ([]string, error) {
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		values := make([]string, 0, len(list))
		for _, v := range list {
			s, err := valueString(v)
			if err != nil {
				return nil, err
			}
			values = append(values, s)
		}
		return values, nil
	}

	var single any
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	s, err := valueString(single)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

func valueString(v any) (string, error) {
	switch value := v.(type) {
	case string:
		return value, nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value %v (want string or number)", v)
	}
}

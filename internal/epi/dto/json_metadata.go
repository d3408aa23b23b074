package dto

import "encoding/json"

// JSONMetadata is the envelope returned by the /api/metadata endpoint.
//
// Each category maps arbitrary item keys to objects carrying a display
// "name" and a category-specific ID field such as "model_id". The ID field
// name varies per category, so items are kept raw and decoded by the caller.
type JSONMetadata struct {
	Data map[string]map[string]json.RawMessage `json:"data"`
}

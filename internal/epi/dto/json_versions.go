package dto

// JSONVersions is the envelope returned by the /api/model/versions endpoint.
type JSONVersions struct {
	Data map[string]JSONVersion `json:"data"`
}

// JSONVersion is one dataset version record. Measure is null for generic
// versions that serve all measures.
type JSONVersion struct {
	Version int  `json:"version"`
	Measure *int `json:"measure"`
}

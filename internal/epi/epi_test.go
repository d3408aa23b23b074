package epi

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/epitools/epi-downloader/internal/model"
)

func intPtr(v int) *int { return &v }

func TestParseMetadata(t *testing.T) {
	blob := `{"data": {
		"model":   {"10": {"name": "Diabetes", "model_id": 2145}},
		"measure": {"1": {"name": "Prevalence", "measure_id": 5}, "2": {"name": "Incidence", "measure_id": 6}},
		"year":    {"1": {"name": 2015, "year_id": 2015}},
		"age":     {"1": {"name": "20-24 years", "age_id": 9}},
		"sex":     {"1": {"name": "Male", "sex_id": 1}}
	}}`

	md, err := parseMetadata([]byte(blob))
	if err != nil {
		t.Fatalf("parseMetadata failed: %v", err)
	}

	if got := md["model"]["Diabetes"]; got != 2145 {
		t.Errorf(`md["model"]["Diabetes"] = %d, want 2145`, got)
	}
	if got := md["measure"]["Incidence"]; got != 6 {
		t.Errorf(`md["measure"]["Incidence"] = %d, want 6`, got)
	}
	// Numeric names are rendered as strings.
	if got := md["year"]["2015"]; got != 2015 {
		t.Errorf(`md["year"]["2015"] = %d, want 2015`, got)
	}
}

func TestParseMetadata_Errors(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{
			name: "missing category",
			blob: `{"data": {"model": {}, "measure": {}, "year": {}, "age": {}}}`,
		},
		{
			name: "missing ID field",
			blob: `{"data": {
				"model":   {"10": {"name": "Diabetes"}},
				"measure": {}, "year": {}, "age": {}, "sex": {}
			}}`,
		},
		{
			name: "not JSON",
			blob: `<html>maintenance</html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMetadata([]byte(tt.blob))
			if !errors.Is(err, ErrBadMetadata) {
				t.Errorf("error = %v, want ErrBadMetadata", err)
			}
		})
	}
}

func TestSelectVersion(t *testing.T) {
	tests := []struct {
		name     string
		versions []Version
		measure  int
		want     int
		wantErr  bool
	}{
		{
			name: "exact match wins, highest version",
			versions: []Version{
				{ID: 1, Measure: intPtr(5)},
				{ID: 3, Measure: intPtr(5)},
				{ID: 2, Measure: nil},
			},
			measure: 5,
			want:    3,
		},
		{
			name: "fallback to generic, highest version",
			versions: []Version{
				{ID: 2, Measure: nil},
				{ID: 4, Measure: nil},
			},
			measure: 9,
			want:    4,
		},
		{
			name: "generic ignored when exact match exists",
			versions: []Version{
				{ID: 9, Measure: nil},
				{ID: 3, Measure: intPtr(5)},
			},
			measure: 5,
			want:    3,
		},
		{
			name: "no exact and no generic",
			versions: []Version{
				{ID: 7, Measure: intPtr(6)},
			},
			measure: 9,
			wantErr: true,
		},
		{
			name:     "empty listing",
			versions: nil,
			measure:  5,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectVersion(tt.versions, tt.measure)
			if tt.wantErr {
				var noVersion *NoVersionError
				if !errors.As(err, &noVersion) {
					t.Fatalf("error = %v, want *NoVersionError", err)
				}
				if noVersion.Measure != tt.measure {
					t.Errorf("NoVersionError.Measure = %d, want %d", noVersion.Measure, tt.measure)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SelectVersion() = %d, want %d", got, tt.want)
			}
		})
	}
}

func testMetadata() model.Metadata {
	return model.Metadata{
		"model":   {"Diabetes": 2145},
		"measure": {"Prevalence": 5},
		"year":    {"2015": 2015},
		"age":     {"20-24 years": 9},
		"sex":     {"Male": 1, "Female": 2},
	}
}

func TestTranslate(t *testing.T) {
	raw := map[string][]string{
		"model":   {"Diabetes"},
		"measure": {"Prevalence"},
		"year":    {"2015"},
		"age":     {"20-24 years"},
		"sex":     {"Female", "Male"},
	}

	grid, err := Translate(raw, testMetadata())
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	// Value order from the config is preserved.
	if !reflect.DeepEqual(grid["sex"], []int{2, 1}) {
		t.Errorf(`grid["sex"] = %v, want [2 1]`, grid["sex"])
	}
	if grid.Size() != 2 {
		t.Errorf("grid.Size() = %d, want 2", grid.Size())
	}
}

func TestTranslate_CollectsAllInvalidValues(t *testing.T) {
	raw := map[string][]string{
		"model":   {"Diabetes"},
		"measure": {"Prevalence"},
		"year":    {"2015"},
		"age":     {"20-24 years"},
		"sex":     {"Unknown1", "Unknown2"},
	}

	_, err := Translate(raw, testMetadata())

	var terr *TranslationError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TranslationError", err)
	}

	got := terr.Invalid["sex"]
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"Unknown1", "Unknown2"}) {
		t.Errorf(`Invalid["sex"] = %v, want both unknown values`, got)
	}
}

func TestTranslate_UnknownAndMissingCategories(t *testing.T) {
	raw := map[string][]string{
		"model":    {"Diabetes"},
		"measure":  {"Prevalence"},
		"year":     {"2015"},
		"age":      {"20-24 years"},
		"location": {"Global"},
	}

	_, err := Translate(raw, testMetadata())

	var terr *TranslationError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TranslationError", err)
	}
	if !reflect.DeepEqual(terr.Invalid["location"], []string{"Global"}) {
		t.Errorf(`Invalid["location"] = %v, want [Global]`, terr.Invalid["location"])
	}
	if !reflect.DeepEqual(terr.Missing, []string{"sex"}) {
		t.Errorf("Missing = %v, want [sex]", terr.Missing)
	}
}

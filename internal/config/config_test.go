package config

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseGrid(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		want    Grid
		wantErr bool
	}{
		{
			name: "lists of strings",
			json: `{"model": ["Diabetes"], "sex": ["Male", "Female"]}`,
			want: Grid{"model": {"Diabetes"}, "sex": {"Male", "Female"}},
		},
		{
			name: "single value shorthand",
			json: `{"measure": "Prevalence"}`,
			want: Grid{"measure": {"Prevalence"}},
		},
		{
			name: "numbers become strings",
			json: `{"year": [2015, 2017]}`,
			want: Grid{"year": {"2015", "2017"}},
		},
		{
			name: "single number",
			json: `{"year": 2015}`,
			want: Grid{"year": {"2015"}},
		},
		{
			name:    "unsupported value type",
			json:    `{"year": {"from": 2015}}`,
			wantErr: true,
		},
		{
			name:    "not an object",
			json:    `[1, 2, 3]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGrid([]byte(tt.json))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseGrid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettings_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	settings := DefaultSettings()
	settings.MaxConcurrentDownloads = 3
	settings.BaseURL = "http://localhost:8080"

	if err := settings.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !reflect.DeepEqual(loaded, settings) {
		t.Errorf("Load() = %+v, want %+v", loaded, settings)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, DefaultSettings()) {
		t.Errorf("Load() = %+v, want defaults", loaded)
	}
}

func TestExampleGrid_CoversAllCategories(t *testing.T) {
	grid := ExampleGrid()
	for _, category := range []string{"model", "measure", "year", "age", "sex"} {
		if len(grid[category]) == 0 {
			t.Errorf("ExampleGrid() missing category %q", category)
		}
	}
}

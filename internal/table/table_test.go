package table

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCols []string
		wantRows int
		wantErr  bool
	}{
		{
			name:     "simple table",
			text:     "model,measure,mean\n2145,5,0.12\n2145,5,0.34\n",
			wantCols: []string{"model", "measure", "mean"},
			wantRows: 2,
		},
		{
			name:     "header only",
			text:     "model,measure,mean\n",
			wantCols: []string{"model", "measure", "mean"},
			wantRows: 0,
		},
		{
			name:     "short record tolerated",
			text:     "a,b,c\n1,2\n",
			wantCols: []string{"a", "b", "c"},
			wantRows: 1,
		},
		{
			name:    "no header",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Parse(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(tbl.Columns, tt.wantCols) {
				t.Errorf("Columns = %v, want %v", tbl.Columns, tt.wantCols)
			}
			if len(tbl.Rows) != tt.wantRows {
				t.Errorf("got %d rows, want %d", len(tbl.Rows), tt.wantRows)
			}
		})
	}
}

func TestMerge_DisjointColumns(t *testing.T) {
	a, err := Parse("x,y\n1,2\n3,4\n")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("y,z\n5,6\n")
	if err != nil {
		t.Fatal(err)
	}

	merged, err := Merge([]*Table{a, b})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if got := len(merged.Rows); got != 3 {
		t.Errorf("merged row count = %d, want 3", got)
	}

	wantCols := []string{"x", "y", "z"}
	if !reflect.DeepEqual(merged.Columns, wantCols) {
		t.Errorf("merged columns = %v, want %v", merged.Columns, wantCols)
	}

	// Rows keep input order, and cells the source table never had are absent.
	if merged.Rows[0]["x"] != "1" || merged.Rows[2]["z"] != "6" {
		t.Errorf("unexpected merged rows: %v", merged.Rows)
	}
	if _, ok := merged.Rows[2]["x"]; ok {
		t.Error("row from second table should not have an x cell")
	}
}

func TestMerge_Empty(t *testing.T) {
	_, err := Merge(nil)
	if !errors.Is(err, ErrNoTables) {
		t.Errorf("Merge(nil) error = %v, want ErrNoTables", err)
	}
}

func TestWriteCSV(t *testing.T) {
	a, _ := Parse("x,y\n1,2\n")
	b, _ := Parse("y,z\n3,4\n")
	merged, err := Merge([]*Table{a, b})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := merged.WriteCSV(path); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	want := "x,y,z\n1,2,\n,3,4\n"
	if string(data) != want {
		t.Errorf("WriteCSV output = %q, want %q", string(data), want)
	}
}

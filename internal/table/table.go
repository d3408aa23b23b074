package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoTables is returned by Merge when there is nothing to merge.
//
// Callers are expected to surface all-failure batches before reaching the
// merge step, so hitting this error means the run produced no data at all.
var ErrNoTables = errors.New("no tables to merge")

// Table is a simple row-oriented table.
//
// Columns preserves the column order of the source data; Rows hold cell
// values keyed by column name. A row may lack entries for some columns,
// which is how heterogeneous merges represent absent values.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Parse reads CSV text into a Table.
//
// The first record is the header. Short records are tolerated: missing
// trailing cells are simply absent from the row map.
func Parse(text string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("CSV has no header row")
	}

	t := &Table{Columns: records[0]}
	for _, record := range records[1:] {
		row := make(map[string]string, len(t.Columns))
		for i, cell := range record {
			if i < len(t.Columns) {
				row[t.Columns[i]] = cell
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Merge concatenates tables into one.
//
// Rows keep their input order. The merged column set is the union of all
// input column sets, in first-appearance order; cells a table never had stay
// absent rather than failing the merge.
func Merge(tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	merged := &Table{}
	seen := make(map[string]struct{})
	for _, t := range tables {
		for _, col := range t.Columns {
			if _, ok := seen[col]; !ok {
				seen[col] = struct{}{}
				merged.Columns = append(merged.Columns, col)
			}
		}
		merged.Rows = append(merged.Rows, t.Rows...)
	}
	return merged, nil
}

// WriteCSV writes the table to path as CSV. Absent cells are written as
// empty strings.
func (t *Table) WriteCSV(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(t.Columns); err != nil {
		return err
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

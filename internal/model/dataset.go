package model

import (
	"strconv"
	"strings"
)

// MultiChoiceSeparator joins the selected codes of a multi_choice cell.
const MultiChoiceSeparator = ";"

// Dataset is the read-only respondent table: one row per respondent, one
// column per question. The empty string is the missing-value marker. Loaded
// once per session; never mutated afterwards.
type Dataset struct {
	columns map[string][]string
	order   []string
	rows    int
}

// NewDataset builds a column-major dataset from a header and row slices.
// Short rows are padded with the missing marker.
func NewDataset(header []string, rows [][]string) *Dataset {
	cols := make(map[string][]string, len(header))
	order := make([]string, 0, len(header))
	for i, name := range header {
		col := make([]string, len(rows))
		for r, row := range rows {
			if i < len(row) {
				col[r] = strings.TrimSpace(row[i])
			}
		}
		cols[name] = col
		order = append(order, name)
	}
	return &Dataset{columns: cols, order: order, rows: len(rows)}
}

// Len returns the respondent count.
func (d *Dataset) Len() int { return d.rows }

// ColumnIDs returns the column names in file order.
func (d *Dataset) ColumnIDs() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// HasColumn reports whether a question column exists.
func (d *Dataset) HasColumn(id string) bool {
	_, ok := d.columns[id]
	return ok
}

// Column returns the raw cell values for a question column.
func (d *Dataset) Column(id string) ([]string, bool) {
	col, ok := d.columns[id]
	return col, ok
}

// CellMissing reports whether a raw cell carries no value.
func CellMissing(raw string) bool { return raw == "" }

// CellCodes splits a raw cell into its selected option codes.
// Single-valued cells yield one code.
func CellCodes(raw string) []string {
	if CellMissing(raw) {
		return nil
	}
	parts := strings.Split(raw, MultiChoiceSeparator)
	codes := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}

// CellNumber parses a raw cell as a number. Missing or non-numeric cells
// report ok=false and are never treated as zero.
func CellNumber(raw string) (float64, bool) {
	if CellMissing(raw) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

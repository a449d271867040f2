// Package statement reshapes columnar financial statements into display tables.
package statement

import (
	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"stockly/internal/provider"
)

// Row is one labelled statement line. Invalid cells had no value upstream.
type Row struct {
	Field string        `json:"field"`
	Label string        `json:"label"`
	Cells []null.String `json:"cells"`
}

// Table is a statement ready for display: formatted cells, most recent column first.
type Table struct {
	Symbol    string                 `json:"symbol"`
	Kind      provider.StatementKind `json:"kind"`
	Frequency provider.Frequency     `json:"frequency"`
	Columns   []string               `json:"columns"`
	Rows      []Row                  `json:"rows"`
}

// Trim is the number of most recent columns dropped for a frequency. The
// provider reports the in-progress period as a partial column (two of them
// for quarterly data).
func Trim(freq provider.Frequency) int {
	if freq == provider.Quarterly {
		return 2
	}
	return 1
}

// Reshape labels every row, formats every cell and drops the partial columns.
// A table narrower than the trim comes back with no columns.
func Reshape(src *provider.StatementTable, freq provider.Frequency) Table {
	out := Table{Frequency: freq, Columns: []string{}, Rows: []Row{}}
	if src == nil {
		return out
	}
	out.Symbol = src.Symbol
	out.Kind = src.Kind

	drop := min(Trim(freq), len(src.Columns))
	out.Columns = append(out.Columns, src.Columns[drop:]...)

	for _, r := range src.Rows {
		row := Row{Field: r.Field, Label: Label(src.Kind, r.Field), Cells: make([]null.String, 0, len(out.Columns))}
		for i := drop; i < len(src.Columns); i++ {
			var v *float64
			if i < len(r.Values) {
				v = r.Values[i]
			}
			row.Cells = append(row.Cells, FormatCell(v))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// FormatCell renders a value with thousands separators and no decimals
// (1234567.8 -> "1,234,568"). nil stays null.
func FormatCell(v *float64) null.String {
	if v == nil {
		return null.String{}
	}
	n := decimal.NewFromFloat(*v).Round(0).IntPart()
	return null.StringFrom(humanize.Comma(n))
}

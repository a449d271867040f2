// Package series turns raw provider records into ordered, chart-ready metric series.
//
// Every function here is pure: callers fetch first, then hand the decoded
// records over. Nothing in this package performs I/O or recovers from panics.
package series

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/guregu/null/v6"

	"stockly/internal/provider"
)

// TTM is the synthetic period label of the trailing-twelve-months point.
const TTM = "TTM"

// Point is one period of a metric. Value is null when the provider had no
// usable number for the period.
type Point struct {
	Period string     `json:"period"`
	Value  null.Float `json:"value"`
}

// Series is the ordered sequence of points for one symbol and one metric.
type Series []Point

// Periods returns the period labels in series order.
func (s Series) Periods() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Period
	}
	return out
}

// Reversed returns a reversed copy; the receiver is not modified.
func (s Series) Reversed() Series {
	out := make(Series, len(s))
	for i, p := range s {
		out[len(s)-1-i] = p
	}
	return out
}

// Extract maps records to {date, record[field]} points. When ttm is non-nil its
// first element contributes a leading "TTM" point read from ttmField.
//
// Passing a non-nil, empty ttm slice is a programming error and panics the same
// way an out-of-range index does; pass nil when there is no TTM record.
func Extract(records []provider.RawRecord, ttm []provider.RawRecord, field, ttmField string) Series {
	return ExtractDated(records, ttm, "date", field, ttmField)
}

// ExtractDated is Extract with a custom period field (employee counts are keyed
// by filingDate, for example).
func ExtractDated(records []provider.RawRecord, ttm []provider.RawRecord, dateField, field, ttmField string) Series {
	n := len(records)
	if ttm != nil {
		n++
	}
	out := make(Series, 0, n)
	if ttm != nil {
		if len(ttm) == 0 {
			panic(fmt.Sprintf("series: empty TTM collection for field %q (pass nil instead)", ttmField))
		}
		out = append(out, Point{Period: TTM, Value: Number(ttm[0], ttmField)})
	}
	for _, r := range records {
		out = append(out, Point{Period: Label(r, dateField), Value: Number(r, field)})
	}
	return out
}

// Number reads field from r as a nullable float. Absent keys, JSON nulls and
// values that are not numbers all yield an invalid (null) value, never zero.
func Number(r provider.RawRecord, field string) null.Float {
	f, ok := toFloat(r[field])
	if !ok {
		return null.Float{}
	}
	return null.FloatFrom(f)
}

// Label reads a string field, returning "" when absent.
func Label(r provider.RawRecord, field string) string {
	switch v := r[field].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		x, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = x
	case string:
		// some endpoints quote numbers
		x, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = x
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

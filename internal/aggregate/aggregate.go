package aggregate

import (
    "fmt"
    "strings"

    "stockly/internal/series"
)

// Color is an RGB triple; it serializes as the CSS "rgb(r,g,b)" form.
type Color struct {
    R, G, B uint8
}

func (c Color) String() string { return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B) }

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
    if _, err := fmt.Sscanf(string(b), "rgb(%d,%d,%d)", &c.R, &c.G, &c.B); err != nil {
        return fmt.Errorf("parse color %q: %w", b, err)
    }
    return nil
}

// Palette colours comparison symbols by position.
var Palette = []Color{
    {158, 202, 225},
    {255, 127, 80},
    {34, 139, 34},
    {255, 215, 0},
    {75, 0, 130},
}

// ColorAt returns the palette colour for the i-th series.
func ColorAt(i int) Color { return Palette[i%len(Palette)] }

// SymbolSeries is one symbol's extracted series, in provider order.
type SymbolSeries struct {
    Symbol string
    Series series.Series
}

// Entry is one symbol of a comparison, chronological left to right.
type Entry struct {
    Symbol string        `json:"symbol"`
    Color  Color         `json:"color"`
    Points series.Series `json:"points"`
}

// Labels returns the axis label of every point: the year, or "TTM".
func (e Entry) Labels() []string {
    out := make([]string, len(e.Points))
    for i, p := range e.Points { out[i] = DisplayLabel(p.Period) }
    return out
}

// ComparisonSet is the per-request merge of several symbols' series.
type ComparisonSet struct {
    FloorYear string  `json:"floor_year,omitempty"`
    Entries   []Entry `json:"entries"`
}

// Categories is the union of display labels across entries in first-seen order.
// Entries are not aligned to it; each keeps its own periods.
func (c ComparisonSet) Categories() []string {
    seen := map[string]struct{}{}
    var out []string
    for _, e := range c.Entries {
        for _, l := range e.Labels() {
            if _, ok := seen[l]; ok { continue }
            seen[l] = struct{}{}
            out = append(out, l)
        }
    }
    return out
}

// Aggregate filters every series by floorYear, flips it to chronological order
// and assigns colours by input position.
// Rules:
// - a non-TTM point is dropped when its year (first 4 chars) <= floorYear
// - TTM points always survive and end up last
// - empty floorYear keeps everything
// - symbols whose series ends up empty are kept as empty entries
func Aggregate(in []SymbolSeries, floorYear string) ComparisonSet {
    out := ComparisonSet{FloorYear: floorYear, Entries: make([]Entry, 0, len(in))}
    for i, s := range in {
        out.Entries = append(out.Entries, Entry{
            Symbol: s.Symbol,
            Color:  ColorAt(i),
            Points: Chronological(Filter(s.Series, floorYear)),
        })
    }
    return out
}

// Filter drops non-TTM points whose year is <= floorYear. Order is preserved.
func Filter(s series.Series, floorYear string) series.Series {
    out := make(series.Series, 0, len(s))
    for _, p := range s {
        if floorYear != "" && p.Period != series.TTM && year(p.Period) <= floorYear { continue }
        out = append(out, p)
    }
    return out
}

// Chronological reverses a most-recent-first series and moves TTM to the end.
func Chronological(s series.Series) series.Series {
    out := make(series.Series, 0, len(s))
    var ttm []series.Point
    for i := len(s) - 1; i >= 0; i-- {
        if s[i].Period == series.TTM {
            ttm = append(ttm, s[i])
            continue
        }
        out = append(out, s[i])
    }
    return append(out, ttm...)
}

// DisplayLabel shortens an ISO date to its year; "TTM" passes through.
func DisplayLabel(period string) string {
    if period == series.TTM { return period }
    return year(period)
}

func year(period string) string {
    period = strings.TrimSpace(period)
    if len(period) < 4 { return period }
    return period[:4]
}

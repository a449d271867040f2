package aggregate

import (
    "sort"

    "github.com/guregu/null/v6"

    "stockly/internal/provider"
    "stockly/internal/series"
)

// Overlay is two series joined on the periods they share.
type Overlay struct {
    Periods []string     `json:"periods"`
    A       []null.Float `json:"a"`
    B       []null.Float `json:"b"`
}

// Intersect keeps the periods present in both a and b, ascending.
func Intersect(a, b series.Series) Overlay {
    av := make(map[string]null.Float, len(a))
    for _, p := range a { av[p.Period] = p.Value }
    bv := make(map[string]null.Float, len(b))
    for _, p := range b { bv[p.Period] = p.Value }

    var periods []string
    for k := range av {
        if _, ok := bv[k]; ok { periods = append(periods, k) }
    }
    sort.Strings(periods)

    out := Overlay{Periods: periods, A: make([]null.Float, len(periods)), B: make([]null.Float, len(periods))}
    for i, k := range periods {
        out.A[i] = av[k]
        out.B[i] = bv[k]
    }
    return out
}

// SegmentPalette colours stacked revenue segments.
var SegmentPalette = []Color{
    {158, 202, 225},
    {255, 127, 80},
    {34, 139, 34},
    {255, 215, 0},
    {75, 0, 130},
    {255, 69, 0},
    {0, 191, 255},
    {255, 20, 147},
    {0, 128, 0},
    {128, 0, 128},
}

// DefaultSegmentFloor is the first year shown on segment charts.
const DefaultSegmentFloor = "2012"

// Segment is one revenue segment across SegmentSet.Dates; gaps are 0.
type Segment struct {
    Name   string    `json:"name"`
    Color  Color     `json:"color"`
    Values []float64 `json:"values"`
}

type SegmentSet struct {
    Dates    []string  `json:"dates"`
    Segments []Segment `json:"segments"`
}

// Segments pivots segmentation records of the form {"2023-09-30": {"iPhone": 2e11, ...}}
// into one stacked series per segment. Periods whose year is >= floorYear are
// kept (the boundary year is included); output is chronological and segment
// names are sorted.
func Segments(records []provider.RawRecord, floorYear string) SegmentSet {
    if floorYear == "" { floorYear = DefaultSegmentFloor }

    type period struct {
        date   string
        values map[string]any
    }
    var periods []period
    names := map[string]struct{}{}
    for _, r := range records {
        // most recent first, matching the provider's record order
        dates := make([]string, 0, len(r))
        for date := range r { dates = append(dates, date) }
        sort.Sort(sort.Reverse(sort.StringSlice(dates)))
        for _, date := range dates {
            if year(date) < floorYear { continue }
            vals, _ := r[date].(map[string]any)
            periods = append(periods, period{date: date, values: vals})
            for name := range vals { names[name] = struct{}{} }
        }
    }

    sorted := make([]string, 0, len(names))
    for n := range names { sorted = append(sorted, n) }
    sort.Strings(sorted)

    out := SegmentSet{Dates: make([]string, len(periods))}
    // provider lists most recent first
    for i, p := range periods { out.Dates[len(periods)-1-i] = p.date }
    for i, name := range sorted {
        seg := Segment{Name: name, Color: SegmentPalette[i%len(SegmentPalette)], Values: make([]float64, len(periods))}
        for j, p := range periods {
            v := series.Number(p.values, name)
            if v.Valid { seg.Values[len(periods)-1-j] = v.Float64 }
        }
        out.Segments = append(out.Segments, seg)
    }
    return out
}

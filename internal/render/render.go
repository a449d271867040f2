// Package render draws dashboard charts as PNG or SVG.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"stockly/internal/aggregate"
	"stockly/internal/metrics"
	"stockly/internal/provider"
	"stockly/internal/series"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	}
	return "", fmt.Errorf("unknown chart format %q", s)
}

func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() chart.RendererProvider {
	if f == SVG {
		return chart.SVG
	}
	return chart.PNG
}

// Options are shared by every chart.
type Options struct {
	Title  string
	Axis   string
	Unit   metrics.Unit
	Width  int
	Height int
	Format Format
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 900
	}
	if h <= 0 {
		h = 400
	}
	return w, h
}

// MetricBars draws one symbol's metric as a bar per period. Null points are
// drawn as empty slots.
func MetricBars(w io.Writer, o Options, labels []string, points series.Series, c aggregate.Color) error {
	if len(points) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, len(points))
	var vals []float64
	for i, p := range points {
		label := p.Period
		if i < len(labels) {
			label = labels[i]
		}
		bars[i] = chart.Value{
			Label: label,
			Style: chart.Style{FillColor: color(c), StrokeColor: color(c)},
		}
		if p.Value.Valid {
			bars[i].Value = p.Value.Float64
			vals = append(vals, p.Value.Float64)
		}
	}
	if len(vals) == 0 {
		return ErrNoData
	}
	lo, hi := bounds(append(vals, 0))

	width, height := o.size()
	graph := chart.BarChart{
		Title:  o.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth:     barWidth(width, len(bars)),
		BarSpacing:   barWidth(width, len(bars)),
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Name:           o.Axis,
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: formatter(o.Unit),
		},
		Bars: bars,
	}
	if err := graph.Render(o.Format.provider(), w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

// Comparison draws one line per symbol over the union of period labels. Each
// symbol keeps its own periods; a label it lacks is a gap.
func Comparison(w io.Writer, o Options, set aggregate.ComparisonSet) error {
	cats := set.Categories()
	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c] = i
	}

	var lines []chart.Series
	var all []float64
	for _, e := range set.Entries {
		var xs, ys []float64
		for _, p := range e.Points {
			if !p.Value.Valid {
				continue
			}
			xs = append(xs, float64(index[aggregate.DisplayLabel(p.Period)]))
			ys = append(ys, p.Value.Float64)
		}
		if len(xs) == 0 {
			continue
		}
		all = append(all, ys...)
		lines = append(lines, chart.ContinuousSeries{
			Name: e.Symbol,
			Style: chart.Style{
				StrokeColor: color(e.Color),
				StrokeWidth: 2.5,
				DotColor:    color(e.Color),
				DotWidth:    3,
			},
			XValues: xs,
			YValues: ys,
		})
	}
	if len(lines) == 0 {
		return ErrNoData
	}
	lo, hi := bounds(all)

	ticks := make([]chart.Tick, len(cats))
	for i, c := range cats {
		ticks[i] = chart.Tick{Value: float64(i), Label: c}
	}

	width, height := o.size()
	graph := chart.Chart{
		Title:  o.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(cats)) - 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           o.Axis,
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: formatter(o.Unit),
		},
		Series: lines,
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}
	if err := graph.Render(o.Format.provider(), w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

// PriceHistory draws closing prices over time.
func PriceHistory(w io.Writer, o Options, symbol string, bars []provider.Bar) error {
	if len(bars) < 2 {
		return fmt.Errorf("need at least 2 bars, got %d: %w", len(bars), ErrNoData)
	}
	xs := make([]time.Time, len(bars))
	ys := make([]float64, len(bars))
	for i, b := range bars {
		xs[i] = b.Time
		ys[i] = b.Close
	}
	lo, hi := bounds(ys)

	layout := "Jan 06"
	if bars[len(bars)-1].Time.Sub(bars[0].Time) < 90*24*time.Hour {
		layout = "Jan 02"
	}

	width, height := o.size()
	graph := chart.Chart{
		Title:  o.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format(layout)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name:           o.Axis,
			Range:          &chart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: formatter(metrics.Currency),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: symbol,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	if err := graph.Render(o.Format.provider(), w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

func color(c aggregate.Color) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

// bounds pads the value range by 5% and never returns an empty range.
func bounds(vals []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		pad := math.Max(math.Abs(hi)*0.1, 1)
		return lo - pad, hi + pad
	}
	pad := (hi - lo) * 0.05
	if lo >= 0 && lo-pad < 0 {
		return 0, hi + pad
	}
	return lo - pad, hi + pad
}

func barWidth(width, n int) int {
	bw := (width - 100) / (n * 2)
	return max(8, min(bw, 60))
}

// formatter renders axis values for a unit: percents arrive as fractions,
// currency and counts are shortened with SI prefixes.
func formatter(u metrics.Unit) chart.ValueFormatter {
	return func(v interface{}) string {
		f, ok := v.(float64)
		if !ok {
			return ""
		}
		return FormatValue(u, f)
	}
}

// FormatValue is the human form of a metric value.
func FormatValue(u metrics.Unit, f float64) string {
	switch u {
	case metrics.Percent:
		return humanize.FormatFloat("#,###.#", f*100) + "%"
	case metrics.Currency:
		if math.Abs(f) < 1000 {
			return humanize.FormatFloat("#,###.##", f)
		}
		return strings.ReplaceAll(humanize.SIWithDigits(f, 1, ""), " ", "")
	case metrics.Count:
		return humanize.Comma(int64(math.Round(f)))
	default:
		return humanize.FormatFloat("#,###.##", f)
	}
}

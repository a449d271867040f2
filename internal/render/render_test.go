package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/require"

	"stockly/internal/aggregate"
	"stockly/internal/metrics"
	"stockly/internal/provider"
	"stockly/internal/series"
)

func pts(vals map[string]float64, order ...string) series.Series {
	out := make(series.Series, len(order))
	for i, p := range order {
		out[i] = series.Point{Period: p}
		if v, ok := vals[p]; ok {
			out[i].Value = null.FloatFrom(v)
		}
	}
	return out
}

func TestMetricBars_PNG(t *testing.T) {
	t.Parallel()

	// Arrange
	s := pts(map[string]float64{"2022-09-30": 24.4, "TTM": 28.5}, "2021-09-30", "2022-09-30", "TTM")
	var buf bytes.Buffer

	// Act
	err := MetricBars(&buf, Options{Title: "PE Ratio", Unit: metrics.Ratio}, []string{"2021", "2022", "TTM"}, s, aggregate.Palette[0])

	// Assert
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestMetricBars_AllNull(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := MetricBars(&buf, Options{}, nil, pts(nil, "2022-09-30"), aggregate.Palette[0])
	require.ErrorIs(t, err, ErrNoData)
}

func TestComparison_SVG(t *testing.T) {
	t.Parallel()

	set := aggregate.Aggregate([]aggregate.SymbolSeries{
		{Symbol: "AAPL", Series: pts(map[string]float64{"TTM": 30, "2023-09-30": 29, "2022-09-30": 24}, "TTM", "2023-09-30", "2022-09-30")},
		{Symbol: "MSFT", Series: pts(map[string]float64{"2023-06-30": 35}, "2023-06-30")},
		{Symbol: "ZZZZ"},
	}, "2014")
	var buf bytes.Buffer

	err := Comparison(&buf, Options{Title: "PE Ratio", Format: SVG, Unit: metrics.Ratio}, set)

	require.NoError(t, err)
	require.Contains(t, buf.String(), "<svg")
	require.Contains(t, buf.String(), "AAPL")
}

func TestComparison_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Comparison(&buf, Options{}, aggregate.Aggregate([]aggregate.SymbolSeries{{Symbol: "AAPL"}}, ""))
	require.ErrorIs(t, err, ErrNoData)
}

func TestPriceHistory(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []provider.Bar{{Time: day, Close: 185.6}, {Time: day.AddDate(0, 0, 1), Close: 184.2}, {Time: day.AddDate(0, 0, 2), Close: 181.9}}
	var buf bytes.Buffer

	require.NoError(t, PriceHistory(&buf, Options{Title: "AAPL"}, "AAPL", bars))
	require.NotZero(t, buf.Len())

	require.ErrorIs(t, PriceHistory(&buf, Options{}, "AAPL", bars[:1]), ErrNoData)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("SVG")
	require.NoError(t, err)
	require.Equal(t, "image/svg+xml", f.ContentType())

	f, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, PNG, f)

	_, err = ParseFormat("gif")
	require.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	require.Equal(t, "43.1%", FormatValue(metrics.Percent, 0.4312))
	require.Equal(t, "383.3G", FormatValue(metrics.Currency, 383285000000))
	require.Equal(t, "12,345", FormatValue(metrics.Count, 12345.4))
	require.Equal(t, "28.46", FormatValue(metrics.Ratio, 28.456))
}

func TestBounds(t *testing.T) {
	t.Parallel()

	lo, hi := bounds([]float64{5, 5})
	require.Less(t, lo, hi)

	lo, _ = bounds([]float64{1, 100})
	require.Equal(t, 0.0, lo)
}

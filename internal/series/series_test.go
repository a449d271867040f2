package series

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockly/internal/provider"
)

func TestExtract_TTMFirstThenInputOrder(t *testing.T) {
	t.Parallel()

	// Arrange
	records := []provider.RawRecord{
		{"date": "2023-12-31", "peRatio": 15.2},
		{"date": "2022-12-31", "peRatio": 18.0},
	}
	ttm := []provider.RawRecord{{"peRatioTTM": 14.0}}

	// Act
	got := Extract(records, ttm, "peRatio", "peRatioTTM")

	// Assert
	require.Equal(t, []string{"TTM", "2023-12-31", "2022-12-31"}, got.Periods())
	require.InDelta(t, 14.0, got[0].Value.Float64, 1e-9)
	require.InDelta(t, 15.2, got[1].Value.Float64, 1e-9)
	require.InDelta(t, 18.0, got[2].Value.Float64, 1e-9)
}

func TestExtract_WithoutTTM_KeepsLengthAndLabels(t *testing.T) {
	t.Parallel()

	records := []provider.RawRecord{
		{"date": "2019-12-31", "revenue": 1.0},
		{"date": "2021-12-31", "revenue": 3.0},
		{"date": "2020-12-31", "revenue": 2.0},
	}

	got := Extract(records, nil, "revenue", "")

	require.Len(t, got, len(records))
	for i, r := range records {
		assert.Equal(t, r["date"], got[i].Period)
	}
}

func TestExtract_TTMShiftsWithoutReordering(t *testing.T) {
	t.Parallel()

	records := []provider.RawRecord{
		{"date": "2020-12-31", "roe": 0.1},
		{"date": "2022-12-31", "roe": 0.3},
	}

	plain := Extract(records, nil, "roe", "roeTTM")
	withTTM := Extract(records, []provider.RawRecord{{"roeTTM": 0.4}}, "roe", "roeTTM")

	require.Len(t, withTTM, len(plain)+1)
	require.Equal(t, TTM, withTTM[0].Period)
	require.Equal(t, plain, withTTM[1:])
}

func TestExtract_MissingValuesAreNullNotZero(t *testing.T) {
	t.Parallel()

	records := []provider.RawRecord{
		{"date": "2023-12-31"},
		{"date": "2022-12-31", "peRatio": nil},
		{"date": "2021-12-31", "peRatio": "n/a"},
		{"date": "2020-12-31", "peRatio": 0.0},
	}

	got := Extract(records, []provider.RawRecord{{}}, "peRatio", "peRatioTTM")

	require.False(t, got[0].Value.Valid)
	require.False(t, got[1].Value.Valid)
	require.False(t, got[2].Value.Valid)
	require.False(t, got[3].Value.Valid)
	require.True(t, got[4].Value.Valid)
	require.Zero(t, got[4].Value.Float64)
}

func TestExtract_EmptyRecords(t *testing.T) {
	t.Parallel()

	got := Extract(nil, nil, "revenue", "")
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestExtract_EmptyTTMPanics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		Extract(nil, []provider.RawRecord{}, "peRatio", "peRatioTTM")
	})
}

func TestExtractDated_UsesCustomDateField(t *testing.T) {
	t.Parallel()

	records := []provider.RawRecord{
		{"filingDate": "2024-02-01", "employeeCount": json.Number("161000")},
	}

	got := ExtractDated(records, nil, "filingDate", "employeeCount", "")

	require.Len(t, got, 1)
	require.Equal(t, "2024-02-01", got[0].Period)
	require.InDelta(t, 161000.0, got[0].Value.Float64, 1e-9)
}

func TestSeries_ReversedIsInvolution(t *testing.T) {
	t.Parallel()

	s := Extract([]provider.RawRecord{
		{"date": "2023-12-31", "x": 1.0},
		{"date": "2022-12-31", "x": 2.0},
	}, nil, "x", "")

	require.Equal(t, []string{"2022-12-31", "2023-12-31"}, s.Reversed().Periods())
	require.Equal(t, s, s.Reversed().Reversed())
}

func TestNumber_Coercions(t *testing.T) {
	t.Parallel()

	r := provider.RawRecord{"a": 3, "b": int64(4), "c": "5.5", "d": json.Number("6"), "e": true}

	assert.InDelta(t, 3.0, Number(r, "a").Float64, 1e-9)
	assert.InDelta(t, 4.0, Number(r, "b").Float64, 1e-9)
	assert.InDelta(t, 5.5, Number(r, "c").Float64, 1e-9)
	assert.InDelta(t, 6.0, Number(r, "d").Float64, 1e-9)
	assert.False(t, Number(r, "e").Valid)
}

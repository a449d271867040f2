package ratelimit

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
    "golang.org/x/time/rate"

    "stockly/internal/provider"
)

type countingFundamentals struct{ calls int }

func (c *countingFundamentals) Name() string { return "counting" }

func (c *countingFundamentals) Records(context.Context, string, provider.Family, provider.Period) ([]provider.RawRecord, error) {
    c.calls++
    return []provider.RawRecord{{"date": "2024-12-31"}}, nil
}

func (c *countingFundamentals) TTM(context.Context, string, provider.Family) ([]provider.RawRecord, error) {
    c.calls++
    return nil, nil
}

func (c *countingFundamentals) Search(context.Context, string) ([]provider.Company, error) {
    c.calls++
    return nil, nil
}

func TestNewLimiter_DisabledWhenZero(t *testing.T) {
    require.Nil(t, NewLimiter(0, 5))
    l := NewLimiter(300, 0)
    require.NotNil(t, l)
    require.Equal(t, 1, l.Burst())
    require.InDelta(t, 5.0, float64(l.Limit()), 1e-9)
}

func TestFundamentals_PassesThroughWithoutLimiter(t *testing.T) {
    inner := &countingFundamentals{}
    f := &Fundamentals{P: inner}

    _, err := f.Records(t.Context(), "AAPL", provider.KeyMetrics, provider.Annual)
    require.NoError(t, err)
    _, err = f.TTM(t.Context(), "AAPL", provider.KeyMetrics)
    require.NoError(t, err)
    require.Equal(t, 2, inner.calls)
    require.Equal(t, "counting", f.Name())
}

func TestFundamentals_CanceledWhileWaiting(t *testing.T) {
    inner := &countingFundamentals{}
    // one token, refilled once an hour
    f := &Fundamentals{P: inner, L: rate.NewLimiter(rate.Every(time.Hour), 1)}

    _, err := f.Records(t.Context(), "AAPL", provider.Ratios, provider.Annual)
    require.NoError(t, err)

    ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
    defer cancel()
    _, err = f.Search(ctx, "apple")
    require.Error(t, err)
    require.Equal(t, 1, inner.calls)
}

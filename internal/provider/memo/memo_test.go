package memo

import (
    "context"
    "errors"
    "sync"
    "sync/atomic"
    "testing"

    "github.com/stretchr/testify/require"

    "stockly/internal/provider"
)

type fakeFundamentals struct {
    calls atomic.Int32
    err   error
}

func (f *fakeFundamentals) Name() string { return "fake" }

func (f *fakeFundamentals) Records(_ context.Context, symbol string, family provider.Family, _ provider.Period) ([]provider.RawRecord, error) {
    f.calls.Add(1)
    if f.err != nil { return nil, f.err }
    return []provider.RawRecord{{"date": "2024-12-31", "symbol": symbol, "family": string(family)}}, nil
}

func (f *fakeFundamentals) TTM(context.Context, string, provider.Family) ([]provider.RawRecord, error) {
    f.calls.Add(1)
    return []provider.RawRecord{{"peRatioTTM": 20.0}}, nil
}

func (f *fakeFundamentals) Search(context.Context, string) ([]provider.Company, error) {
    f.calls.Add(1)
    return []provider.Company{{Symbol: "AAPL"}}, nil
}

func TestFundamentals_SameCallFetchedOnce(t *testing.T) {
    inner := &fakeFundamentals{}
    m := NewFundamentals(inner)

    var wg sync.WaitGroup
    for i := 0; i < 8; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            recs, err := m.Records(t.Context(), "AAPL", provider.KeyMetrics, provider.Annual)
            require.NoError(t, err)
            require.Len(t, recs, 1)
        }()
    }
    wg.Wait()

    require.Equal(t, int32(1), inner.calls.Load())
    require.Equal(t, 1, m.Len())
}

func TestFundamentals_KeysSeparateFamiliesAndTTM(t *testing.T) {
    inner := &fakeFundamentals{}
    m := NewFundamentals(inner)

    _, _ = m.Records(t.Context(), "AAPL", provider.KeyMetrics, provider.Annual)
    _, _ = m.Records(t.Context(), "AAPL", provider.KeyMetrics, provider.Quarter)
    _, _ = m.Records(t.Context(), "AAPL", provider.Ratios, provider.Annual)
    _, _ = m.TTM(t.Context(), "AAPL", provider.KeyMetrics)
    _, _ = m.TTM(t.Context(), "AAPL", provider.KeyMetrics)

    require.Equal(t, int32(4), inner.calls.Load())
}

func TestFundamentals_ErrorsAreNotStored(t *testing.T) {
    inner := &fakeFundamentals{err: errors.New("boom")}
    m := NewFundamentals(inner)

    _, err := m.Records(t.Context(), "AAPL", provider.KeyMetrics, provider.Annual)
    require.Error(t, err)
    _, err = m.Records(t.Context(), "AAPL", provider.KeyMetrics, provider.Annual)
    require.Error(t, err)

    require.Equal(t, int32(2), inner.calls.Load())
    require.Zero(t, m.Len())
}

package dashboard_test

import (
	"context"
	"fmt"
	"sync"

	"stockly/internal/provider"
)

// fakeFundamentals serves canned records keyed by "SYMBOL|family|period" and
// TTM records keyed by "SYMBOL|family". It counts every call. Records calls
// whose symbol or full key is in hang block until the caller's context ends.
type fakeFundamentals struct {
	records map[string][]provider.RawRecord
	ttm     map[string][]provider.RawRecord
	errs    map[string]error
	hang    map[string]bool
	hits    []provider.Company

	mu    sync.Mutex
	calls map[string]int
}

func newFakeFundamentals() *fakeFundamentals {
	return &fakeFundamentals{
		records: map[string][]provider.RawRecord{},
		ttm:     map[string][]provider.RawRecord{},
		errs:    map[string]error{},
		hang:    map[string]bool{},
		calls:   map[string]int{},
	}
}

func (f *fakeFundamentals) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeFundamentals) record(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
	return f.errs[key]
}

func (f *fakeFundamentals) Name() string { return "fake-fundamentals" }

func (f *fakeFundamentals) Records(ctx context.Context, symbol string, family provider.Family, period provider.Period) ([]provider.RawRecord, error) {
	key := fmt.Sprintf("%s|%s|%s", symbol, family, period)
	if err := f.record(key); err != nil {
		return nil, err
	}
	if f.hang[symbol] || f.hang[key] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	recs, ok := f.records[key]
	if !ok {
		return nil, fmt.Errorf("no records for %s: %w", symbol, provider.ErrInvalidSymbol)
	}
	return recs, nil
}

func (f *fakeFundamentals) TTM(_ context.Context, symbol string, family provider.Family) ([]provider.RawRecord, error) {
	key := fmt.Sprintf("%s|%s", symbol, family)
	if err := f.record(key); err != nil {
		return nil, err
	}
	return f.ttm[key], nil
}

func (f *fakeFundamentals) Search(_ context.Context, query string) ([]provider.Company, error) {
	if err := f.record("search|" + query); err != nil {
		return nil, err
	}
	return f.hits, nil
}

// fakeMarket serves canned provider B data by symbol.
type fakeMarket struct {
	statements map[string]*provider.StatementTable
	stats      map[string]provider.RawRecord
	bars       map[string][]provider.Bar
	err        error
}

func (m *fakeMarket) Name() string { return "fake-market" }

func (m *fakeMarket) Statement(_ context.Context, symbol string, _ provider.StatementKind, _ provider.Frequency) (*provider.StatementTable, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.statements[symbol], nil
}

func (m *fakeMarket) Stats(_ context.Context, symbol string) (provider.RawRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats[symbol], nil
}

func (m *fakeMarket) History(_ context.Context, symbol string, _ provider.Window) ([]provider.Bar, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bars[symbol], nil
}

func keyMetrics(dates ...string) []provider.RawRecord {
	out := make([]provider.RawRecord, len(dates))
	for i, d := range dates {
		out[i] = provider.RawRecord{"date": d, "peRatio": float64(20 + i), "pbRatio": 3.0, "dividendYield": 0.01}
	}
	return out
}

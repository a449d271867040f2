// Package memo deduplicates identical provider calls made while serving one
// request. A memo is created per request and dropped with it; nothing outlives
// the request.
package memo

import (
    "context"
    "fmt"
    "sync"

    "golang.org/x/sync/singleflight"

    "stockly/internal/provider"
)

// table stores successful results by call key. Concurrent callers for the
// same key share one upstream call; errors are not stored.
type table[T any] struct {
    group singleflight.Group

    mu    sync.RWMutex
    items map[string]T
}

func (t *table[T]) get(key string, fetch func() (T, error)) (T, error) {
    t.mu.RLock()
    v, ok := t.items[key]
    t.mu.RUnlock()
    if ok { return v, nil }

    res, err, _ := t.group.Do(key, func() (any, error) {
        // a call for key may have finished between the read above and Do
        t.mu.RLock()
        v, ok := t.items[key]
        t.mu.RUnlock()
        if ok { return v, nil }

        v, err := fetch()
        if err != nil { return v, err }
        t.mu.Lock()
        if t.items == nil { t.items = make(map[string]T) }
        t.items[key] = v
        t.mu.Unlock()
        return v, nil
    })
    if err != nil {
        var zero T
        return zero, err
    }
    return res.(T), nil
}

func (t *table[T]) len() int {
    t.mu.RLock()
    defer t.mu.RUnlock()
    return len(t.items)
}

// Fundamentals memoizes a provider A for the lifetime of one request.
type Fundamentals struct {
    P provider.Fundamentals

    records table[[]provider.RawRecord]
    search  table[[]provider.Company]
}

func NewFundamentals(p provider.Fundamentals) *Fundamentals { return &Fundamentals{P: p} }

func (f *Fundamentals) Name() string { return f.P.Name() }

func (f *Fundamentals) Records(ctx context.Context, symbol string, family provider.Family, period provider.Period) ([]provider.RawRecord, error) {
    key := fmt.Sprintf("records|%s|%s|%s", symbol, family, period)
    return f.records.get(key, func() ([]provider.RawRecord, error) {
        return f.P.Records(ctx, symbol, family, period)
    })
}

func (f *Fundamentals) TTM(ctx context.Context, symbol string, family provider.Family) ([]provider.RawRecord, error) {
    key := fmt.Sprintf("ttm|%s|%s", symbol, family)
    return f.records.get(key, func() ([]provider.RawRecord, error) {
        return f.P.TTM(ctx, symbol, family)
    })
}

func (f *Fundamentals) Search(ctx context.Context, query string) ([]provider.Company, error) {
    return f.search.get(query, func() ([]provider.Company, error) {
        return f.P.Search(ctx, query)
    })
}

// Len is the number of stored results.
func (f *Fundamentals) Len() int { return f.records.len() + f.search.len() }

// Market memoizes a provider B for the lifetime of one request.
type Market struct {
    P provider.Market

    statements table[*provider.StatementTable]
    stats      table[provider.RawRecord]
    history    table[[]provider.Bar]
}

func NewMarket(p provider.Market) *Market { return &Market{P: p} }

func (m *Market) Name() string { return m.P.Name() }

func (m *Market) Statement(ctx context.Context, symbol string, kind provider.StatementKind, freq provider.Frequency) (*provider.StatementTable, error) {
    key := fmt.Sprintf("%s|%s|%s", symbol, kind, freq)
    return m.statements.get(key, func() (*provider.StatementTable, error) {
        return m.P.Statement(ctx, symbol, kind, freq)
    })
}

func (m *Market) Stats(ctx context.Context, symbol string) (provider.RawRecord, error) {
    return m.stats.get(symbol, func() (provider.RawRecord, error) {
        return m.P.Stats(ctx, symbol)
    })
}

func (m *Market) History(ctx context.Context, symbol string, window provider.Window) ([]provider.Bar, error) {
    key := fmt.Sprintf("%s|%s", symbol, window)
    return m.history.get(key, func() ([]provider.Bar, error) {
        return m.P.History(ctx, symbol, window)
    })
}

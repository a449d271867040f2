package ratelimit

import (
    "context"
    "time"

    "golang.org/x/time/rate"

    "stockly/internal/provider"
)

// NewLimiter allows perMinute calls per minute with the given burst.
// perMinute <= 0 disables limiting (nil limiter).
func NewLimiter(perMinute, burst int) *rate.Limiter {
    if perMinute <= 0 { return nil }
    if burst <= 0 { burst = 1 }
    return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

// Fundamentals gates every provider A call on a shared limiter.
// Concurrent callers queue on the limiter, or return early if ctx is canceled.
type Fundamentals struct {
    P provider.Fundamentals
    L *rate.Limiter
}

func (f *Fundamentals) Name() string { return f.P.Name() }

func (f *Fundamentals) Records(ctx context.Context, symbol string, family provider.Family, period provider.Period) ([]provider.RawRecord, error) {
    if err := wait(ctx, f.L); err != nil { return nil, err }
    return f.P.Records(ctx, symbol, family, period)
}

func (f *Fundamentals) TTM(ctx context.Context, symbol string, family provider.Family) ([]provider.RawRecord, error) {
    if err := wait(ctx, f.L); err != nil { return nil, err }
    return f.P.TTM(ctx, symbol, family)
}

func (f *Fundamentals) Search(ctx context.Context, query string) ([]provider.Company, error) {
    if err := wait(ctx, f.L); err != nil { return nil, err }
    return f.P.Search(ctx, query)
}

// Market is the provider B counterpart of Fundamentals.
type Market struct {
    P provider.Market
    L *rate.Limiter
}

func (m *Market) Name() string { return m.P.Name() }

func (m *Market) Statement(ctx context.Context, symbol string, kind provider.StatementKind, freq provider.Frequency) (*provider.StatementTable, error) {
    if err := wait(ctx, m.L); err != nil { return nil, err }
    return m.P.Statement(ctx, symbol, kind, freq)
}

func (m *Market) Stats(ctx context.Context, symbol string) (provider.RawRecord, error) {
    if err := wait(ctx, m.L); err != nil { return nil, err }
    return m.P.Stats(ctx, symbol)
}

func (m *Market) History(ctx context.Context, symbol string, window provider.Window) ([]provider.Bar, error) {
    if err := wait(ctx, m.L); err != nil { return nil, err }
    return m.P.History(ctx, symbol, window)
}

func wait(ctx context.Context, l *rate.Limiter) error {
    if l == nil { return nil }
    return l.Wait(ctx)
}

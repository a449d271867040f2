package provider

import (
	"context"
	"errors"

	"stockly/internal/logging"
)

// passThrough reports errors that must reach the caller: an unknown ticker,
// an unsupported request, or the caller giving up.
func passThrough(err error) bool {
	return errors.Is(err, ErrInvalidSymbol) ||
		errors.Is(err, ErrUnsupported) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// QuietFundamentals logs provider A failures and answers with no data instead.
// Calls are never retried.
type QuietFundamentals struct {
	P   Fundamentals
	Log *logging.Logger
}

func NewQuietFundamentals(p Fundamentals, log *logging.Logger) *QuietFundamentals {
	return &QuietFundamentals{P: p, Log: logging.OrSilent(log)}
}

func (q *QuietFundamentals) Name() string { return q.P.Name() }

func (q *QuietFundamentals) Records(ctx context.Context, symbol string, family Family, period Period) ([]RawRecord, error) {
	recs, err := q.P.Records(ctx, symbol, family, period)
	if err != nil && !passThrough(err) {
		q.Log.Warn().Err(err).Str("provider", q.P.Name()).Str("symbol", symbol).Str("family", string(family)).Msg("records unavailable")
		return nil, nil
	}
	return recs, err
}

// TTM answers nil (not an empty slice) on failure so callers treat the TTM
// point as absent.
func (q *QuietFundamentals) TTM(ctx context.Context, symbol string, family Family) ([]RawRecord, error) {
	recs, err := q.P.TTM(ctx, symbol, family)
	if err != nil && !passThrough(err) {
		q.Log.Warn().Err(err).Str("provider", q.P.Name()).Str("symbol", symbol).Str("family", string(family)).Msg("ttm unavailable")
		return nil, nil
	}
	return recs, err
}

func (q *QuietFundamentals) Search(ctx context.Context, query string) ([]Company, error) {
	hits, err := q.P.Search(ctx, query)
	if err != nil && !passThrough(err) {
		q.Log.Warn().Err(err).Str("provider", q.P.Name()).Str("query", query).Msg("search failed")
		return []Company{}, nil
	}
	return hits, err
}

// QuietMarket is the provider B counterpart of QuietFundamentals.
type QuietMarket struct {
	P   Market
	Log *logging.Logger
}

func NewQuietMarket(p Market, log *logging.Logger) *QuietMarket {
	return &QuietMarket{P: p, Log: logging.OrSilent(log)}
}

func (q *QuietMarket) Name() string { return q.P.Name() }

func (q *QuietMarket) Statement(ctx context.Context, symbol string, kind StatementKind, freq Frequency) (*StatementTable, error) {
	t, err := q.P.Statement(ctx, symbol, kind, freq)
	if err != nil && !passThrough(err) {
		q.Log.Warn().Err(err).Str("provider", q.P.Name()).Str("symbol", symbol).Str("statement", string(kind)).Msg("statement unavailable")
		return &StatementTable{Symbol: symbol, Kind: kind}, nil
	}
	return t, err
}

func (q *QuietMarket) Stats(ctx context.Context, symbol string) (RawRecord, error) {
	info, err := q.P.Stats(ctx, symbol)
	if err != nil && !passThrough(err) {
		q.Log.Warn().Err(err).Str("provider", q.P.Name()).Str("symbol", symbol).Msg("stats unavailable")
		return RawRecord{}, nil
	}
	return info, err
}

func (q *QuietMarket) History(ctx context.Context, symbol string, window Window) ([]Bar, error) {
	bars, err := q.P.History(ctx, symbol, window)
	if err != nil && !passThrough(err) {
		q.Log.Warn().Err(err).Str("provider", q.P.Name()).Str("symbol", symbol).Str("window", string(window)).Msg("history unavailable")
		return nil, nil
	}
	return bars, err
}

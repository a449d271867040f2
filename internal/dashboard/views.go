package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"stockly/internal/aggregate"
	"stockly/internal/provider"
	"stockly/internal/series"
	"stockly/internal/statement"
	"stockly/internal/stats"
)

// Statement returns a labelled, formatted statement with the partial
// in-progress columns removed.
func (s *Service) Statement(ctx context.Context, symbol string, kind provider.StatementKind, freq provider.Frequency) (statement.Table, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return statement.Table{}, err
	}
	src, err := s.scope().market.Statement(ctx, symbol, kind, freq)
	if err != nil {
		return statement.Table{}, fmt.Errorf("%s statement for %s: %w", kind, symbol, err)
	}
	if src == nil {
		src = &provider.StatementTable{Symbol: symbol, Kind: kind}
	}
	return statement.Reshape(src, freq), nil
}

// EarningsResult lists every reconciled quarter (provider order, most recent
// first) and the recent quarters in chronological order.
type EarningsResult struct {
	Symbol string                 `json:"symbol"`
	All    []series.EarningsPoint `json:"all"`
	Recent []series.EarningsPoint `json:"recent"`
}

func (s *Service) Earnings(ctx context.Context, symbol string) (EarningsResult, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return EarningsResult{}, err
	}
	recs, err := s.scope().fund.Records(ctx, symbol, provider.EarningsCalendar, provider.Quarter)
	if err != nil {
		return EarningsResult{}, fmt.Errorf("earnings for %s: %w", symbol, err)
	}
	all := series.Reconcile(recs)
	return EarningsResult{
		Symbol: symbol,
		All:    all,
		Recent: series.RecentEarnings(all, s.cfg.EarningsQuarters),
	}, nil
}

// SegmentKind selects product or geographic revenue segmentation.
type SegmentKind string

const (
	ProductSegments    SegmentKind = "product"
	GeographicSegments SegmentKind = "geographic"
)

func ParseSegmentKind(s string) (SegmentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "product", "products":
		return ProductSegments, nil
	case "geographic", "geo", "geography", "region":
		return GeographicSegments, nil
	}
	return "", fmt.Errorf("%w: segment kind %q", provider.ErrUnsupported, s)
}

func (k SegmentKind) family() provider.Family {
	if k == GeographicSegments {
		return provider.GeoSegments
	}
	return provider.ProductSegments
}

// SegmentsResult is a stacked revenue breakdown for one symbol.
type SegmentsResult struct {
	Symbol string      `json:"symbol"`
	Kind   SegmentKind `json:"kind"`
	aggregate.SegmentSet
}

func (s *Service) Segments(ctx context.Context, symbol string, kind SegmentKind, period provider.Period) (SegmentsResult, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return SegmentsResult{}, err
	}
	recs, err := s.scope().fund.Records(ctx, symbol, kind.family(), period)
	if err != nil {
		return SegmentsResult{}, fmt.Errorf("%s segments for %s: %w", kind, symbol, err)
	}
	return SegmentsResult{
		Symbol:     symbol,
		Kind:       kind,
		SegmentSet: aggregate.Segments(recs, s.cfg.SegmentFloorYear),
	}, nil
}

// Stats returns the basic stock statistics panel.
func (s *Service) Stats(ctx context.Context, symbol string) (stats.Stats, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return stats.Stats{}, err
	}
	info, err := s.scope().market.Stats(ctx, symbol)
	if err != nil {
		return stats.Stats{}, fmt.Errorf("stats for %s: %w", symbol, err)
	}
	return stats.Build(symbol, info)
}

// HistoryResult is a window of daily bars and the move across it.
type HistoryResult struct {
	Symbol string          `json:"symbol"`
	Window provider.Window `json:"window"`
	Bars   []provider.Bar  `json:"bars"`
	// ChangePercent is (last-first)/first*100 on closes, 2 decimals.
	ChangePercent null.Float `json:"change_percent"`
}

func (s *Service) History(ctx context.Context, symbol string, window provider.Window) (HistoryResult, error) {
	symbol, err := normalizeSymbol(symbol)
	if err != nil {
		return HistoryResult{}, err
	}
	bars, err := s.scope().market.History(ctx, symbol, window)
	if err != nil {
		return HistoryResult{}, fmt.Errorf("%s history for %s: %w", window, symbol, err)
	}
	if bars == nil {
		bars = []provider.Bar{}
	}
	return HistoryResult{Symbol: symbol, Window: window, Bars: bars, ChangePercent: ChangePercent(bars)}, nil
}

// ChangePercent is null for fewer than two bars or a zero first close.
func ChangePercent(bars []provider.Bar) null.Float {
	if len(bars) < 2 || bars[0].Close == 0 {
		return null.Float{}
	}
	first := decimal.NewFromFloat(bars[0].Close)
	last := decimal.NewFromFloat(bars[len(bars)-1].Close)
	pct := last.Sub(first).Div(first).Mul(decimal.NewFromInt(100))
	return null.FloatFrom(pct.Round(2).InexactFloat64())
}

// Search looks companies up by name or ticker fragment.
func (s *Service) Search(ctx context.Context, query string) ([]provider.Company, error) {
	hits, err := s.scope().fund.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if hits == nil {
		hits = []provider.Company{}
	}
	return hits, nil
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"stockly/internal/aggregate"
	"stockly/internal/metrics"
	"stockly/internal/provider"
	"stockly/internal/series"
)

// MetricChart is one metric for one symbol, chronological left to right.
type MetricChart struct {
	Metric metrics.Metric  `json:"metric"`
	Symbol string          `json:"symbol"`
	Period provider.Period `json:"period"`
	Color  aggregate.Color `json:"color"`
	Labels []string        `json:"labels"`
	Points series.Series   `json:"points"`
}

// ComparisonResult is one metric across several symbols. Errors holds the
// symbols that produced no data and why; their entries are present but empty.
type ComparisonResult struct {
	Metric     metrics.Metric          `json:"metric"`
	Period     provider.Period         `json:"period"`
	Categories []string                `json:"categories"`
	Set        aggregate.ComparisonSet `json:"set"`
	Errors     map[string]string       `json:"errors,omitempty"`
}

// PageResult is every chart of a metric page for one symbol.
type PageResult struct {
	Page   metrics.Page      `json:"page"`
	Symbol string            `json:"symbol"`
	Charts []MetricChart     `json:"charts"`
	Errors map[string]string `json:"errors,omitempty"`
}

// OverlayResult joins two metrics of one symbol on their common periods.
type OverlayResult struct {
	Symbol  string          `json:"symbol"`
	MetricA metrics.Metric  `json:"metric_a"`
	MetricB metrics.Metric  `json:"metric_b"`
	Period  provider.Period `json:"period"`
	aggregate.Overlay
}

// fetchSeries pulls a metric's records (and TTM record when the metric has
// one) and extracts the series in provider order, most recent first.
func fetchSeries(ctx context.Context, sc scope, symbol string, m metrics.Metric, period provider.Period) (series.Series, error) {
	records, err := sc.fund.Records(ctx, symbol, m.Family, period)
	if err != nil {
		return nil, err
	}
	var ttm []provider.RawRecord
	if m.HasTTM() {
		ttm, err = sc.fund.TTM(ctx, symbol, m.Family)
		if err != nil && !errors.Is(err, provider.ErrInvalidSymbol) {
			return nil, err
		}
		// an unavailable TTM record means no TTM point
		if len(ttm) == 0 {
			ttm = nil
		}
	}
	return series.ExtractDated(records, ttm, m.DateKey(), m.Field, m.TTMField), nil
}

// Metric charts one catalog metric for one symbol, hiding periods at or
// before the metric's floor year.
func (s *Service) Metric(ctx context.Context, symbol, metricID string, period provider.Period) (MetricChart, error) {
	m, err := metrics.Lookup(metricID)
	if err != nil {
		return MetricChart{}, err
	}
	symbol, err = normalizeSymbol(symbol)
	if err != nil {
		return MetricChart{}, err
	}
	return s.metric(ctx, s.scope(), symbol, m, period)
}

func (s *Service) metric(ctx context.Context, sc scope, symbol string, m metrics.Metric, period provider.Period) (MetricChart, error) {
	raw, err := fetchSeries(ctx, sc, symbol, m, period)
	if err != nil {
		return MetricChart{}, fmt.Errorf("%s for %s: %w", m.ID, symbol, err)
	}
	entry := aggregate.Aggregate([]aggregate.SymbolSeries{{Symbol: symbol, Series: raw}}, m.Floor).Entries[0]
	return MetricChart{
		Metric: m,
		Symbol: symbol,
		Period: period,
		Color:  entry.Color,
		Labels: entry.Labels(),
		Points: entry.Points,
	}, nil
}

// Compare charts one metric across symbols. Symbols are fetched in parallel
// and keep their input order; a symbol that fails or exceeds its own timeout
// is reported in Errors and kept as an empty entry.
func (s *Service) Compare(ctx context.Context, symbols []string, metricID string, period provider.Period) (ComparisonResult, error) {
	m, err := metrics.Lookup(metricID)
	if err != nil {
		return ComparisonResult{}, err
	}
	symbols, err = s.normalizeSymbols(symbols)
	if err != nil {
		return ComparisonResult{}, err
	}

	sc := s.scope()
	in := make([]aggregate.SymbolSeries, len(symbols))
	var (
		mu   sync.Mutex
		errs map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, sym := range symbols {
		in[i].Symbol = sym
		g.Go(func() error {
			fctx, cancel := s.withSymbolTimeout(gctx)
			defer cancel()
			ser, err := fetchSeries(fctx, sc, sym, m, period)
			if err != nil {
				// only the caller's own cancellation aborts the view
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.log.Debug().Err(err).Str("symbol", sym).Str("metric", m.ID).Msg("comparison symbol has no data")
				mu.Lock()
				if errs == nil {
					errs = map[string]string{}
				}
				errs[sym] = err.Error()
				mu.Unlock()
				return nil
			}
			in[i].Series = ser
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ComparisonResult{}, err
	}

	set := aggregate.Aggregate(in, s.cfg.FloorYear)
	return ComparisonResult{
		Metric:     m,
		Period:     period,
		Categories: set.Categories(),
		Set:        set,
		Errors:     errs,
	}, nil
}

// Page charts every metric of a page for one symbol. Metrics sharing a
// provider family share one fetch. The call fails only when no chart could be
// built at all.
func (s *Service) Page(ctx context.Context, symbol, pageID string, period provider.Period) (PageResult, error) {
	page, ms, err := metrics.LookupPage(pageID)
	if err != nil {
		return PageResult{}, err
	}
	symbol, err = normalizeSymbol(symbol)
	if err != nil {
		return PageResult{}, err
	}

	sc := s.scope()
	charts := make([]MetricChart, len(ms))
	failed := make([]error, len(ms))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, m := range ms {
		g.Go(func() error {
			fctx, cancel := s.withSymbolTimeout(gctx)
			defer cancel()
			charts[i], failed[i] = s.metric(fctx, sc, symbol, m, period)
			if failed[i] != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PageResult{}, err
	}

	out := PageResult{Page: page, Symbol: symbol, Charts: make([]MetricChart, 0, len(ms))}
	var first error
	for i, err := range failed {
		if err != nil {
			if first == nil {
				first = err
			}
			if out.Errors == nil {
				out.Errors = map[string]string{}
			}
			out.Errors[ms[i].ID] = err.Error()
			continue
		}
		out.Charts = append(out.Charts, charts[i])
	}
	if len(out.Charts) == 0 && first != nil {
		return PageResult{}, first
	}
	return out, nil
}

// Overlay joins two metrics of one symbol on the periods both report,
// ascending. The dashboard uses it for free cash flow against net income.
func (s *Service) Overlay(ctx context.Context, symbol, metricA, metricB string, period provider.Period) (OverlayResult, error) {
	a, err := metrics.Lookup(metricA)
	if err != nil {
		return OverlayResult{}, err
	}
	b, err := metrics.Lookup(metricB)
	if err != nil {
		return OverlayResult{}, err
	}
	symbol, err = normalizeSymbol(symbol)
	if err != nil {
		return OverlayResult{}, err
	}

	sc := s.scope()
	var as, bs series.Series
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		as, err = fetchSeries(gctx, sc, symbol, a, period)
		return err
	})
	g.Go(func() (err error) {
		bs, err = fetchSeries(gctx, sc, symbol, b, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return OverlayResult{}, fmt.Errorf("overlay %s/%s for %s: %w", a.ID, b.ID, symbol, err)
	}
	return OverlayResult{Symbol: symbol, MetricA: a, MetricB: b, Period: period, Overlay: aggregate.Intersect(as, bs)}, nil
}

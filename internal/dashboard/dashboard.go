// Package dashboard runs the fetch, normalize and aggregate cycle behind every
// dashboard view. Each call builds a fresh request scope: provider failures
// are logged and downgraded to empty data, and identical fetches made while
// answering the call share one upstream request.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockly/internal/config"
	"stockly/internal/logging"
	"stockly/internal/provider"
	"stockly/internal/provider/memo"
)

var (
	ErrNoSymbols      = errors.New("no symbols given")
	ErrTooManySymbols = errors.New("too many symbols")
)

// Service answers dashboard views from a fundamentals provider and a market
// data provider.
type Service struct {
	fund   provider.Fundamentals
	market provider.Market
	cfg    config.Dashboard
	log    *logging.Logger
}

// NewService wraps both providers so that upstream failures never abort a
// view. Rate limiting, if any, belongs to the providers passed in.
func NewService(fund provider.Fundamentals, market provider.Market, cfg config.Dashboard, log *logging.Logger) *Service {
	log = logging.OrSilent(log)
	def := config.Default().Dashboard
	if cfg.MaxCompareSymbols < 1 {
		cfg.MaxCompareSymbols = def.MaxCompareSymbols
	}
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = def.MaxConcurrency
	}
	if cfg.EarningsQuarters < 1 {
		cfg.EarningsQuarters = def.EarningsQuarters
	}
	if cfg.SymbolTimeoutSec < 1 {
		cfg.SymbolTimeoutSec = def.SymbolTimeoutSec
	}
	return &Service{
		fund:   provider.NewQuietFundamentals(fund, log),
		market: provider.NewQuietMarket(market, log),
		cfg:    cfg,
		log:    log,
	}
}

// Config returns the effective dashboard settings.
func (s *Service) Config() config.Dashboard { return s.cfg }

// scope is the per-call view of the providers.
type scope struct {
	fund   provider.Fundamentals
	market provider.Market
}

func (s *Service) scope() scope {
	return scope{fund: memo.NewFundamentals(s.fund), market: memo.NewMarket(s.market)}
}

// withSymbolTimeout bounds the fetches for one symbol or chart of a view.
func (s *Service) withSymbolTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(s.cfg.SymbolTimeoutSec)*time.Second)
}

func normalizeSymbol(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", fmt.Errorf("empty symbol: %w", provider.ErrInvalidSymbol)
	}
	return symbol, nil
}

// normalizeSymbols upper-cases, drops blanks and duplicates, and enforces the
// comparison limit.
func (s *Service) normalizeSymbols(symbols []string) ([]string, error) {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	if len(out) == 0 {
		return nil, ErrNoSymbols
	}
	if len(out) > s.cfg.MaxCompareSymbols {
		return nil, fmt.Errorf("%w: %d given, at most %d", ErrTooManySymbols, len(out), s.cfg.MaxCompareSymbols)
	}
	return out, nil
}

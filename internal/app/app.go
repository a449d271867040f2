// Package app wires configuration into a ready dashboard service. Both
// binaries share it.
package app

import (
    "net/http"
    "time"

    "stockly/internal/config"
    "stockly/internal/dashboard"
    "stockly/internal/httpx"
    "stockly/internal/logging"
    "stockly/internal/provider"
    "stockly/internal/provider/fmp"
    "stockly/internal/provider/ratelimit"
    "stockly/internal/provider/yahoo"
)

// Providers builds both upstream clients with rate limiting applied.
func Providers(cfg config.Config, log *logging.Logger) (provider.Fundamentals, provider.Market, error) {
    log = logging.OrSilent(log)
    if cfg.FMP.APIKey == "" {
        log.Warn().Msg("FMP_API_KEY not set; fundamentals requests will be rejected upstream")
    }

    // one upstream call never outlives the per-symbol budget
    timeout := cfg.Dashboard.SymbolTimeoutSec
    if timeout <= 0 { timeout = cfg.Server.RequestTimeoutSec }
    httpClient := httpx.New(time.Duration(timeout) * time.Second)

    fc, err := fmp.NewClient(
        cfg.FMP.APIKey,
        fmp.WithBaseURL(cfg.FMP.BaseURL),
        fmp.WithHTTPClient(httpClient),
        fmp.WithSearchExchange(cfg.FMP.SearchExchange),
        fmp.WithLogger(log),
    )
    if err != nil { return nil, nil, err }

    yopts := []yahoo.ClientOption{
        yahoo.WithBaseURL(cfg.Yahoo.BaseURL),
        yahoo.WithHTTPClient(httpClient),
        yahoo.WithCrumb(cfg.Yahoo.Crumb),
        yahoo.WithLogger(log),
    }
    if cfg.Yahoo.Cookie != "" {
        yopts = append(yopts, yahoo.WithHeader(http.Header{"Cookie": []string{cfg.Yahoo.Cookie}}))
    }
    yc, err := yahoo.NewClient(yopts...)
    if err != nil { return nil, nil, err }

    var fund provider.Fundamentals = fc
    if l := ratelimit.NewLimiter(cfg.FMP.MaxRequestsPerMinute, cfg.FMP.Burst); l != nil {
        fund = &ratelimit.Fundamentals{P: fund, L: l}
    }
    var market provider.Market = yc
    if l := ratelimit.NewLimiter(cfg.Yahoo.MaxRequestsPerMinute, cfg.Yahoo.Burst); l != nil {
        market = &ratelimit.Market{P: market, L: l}
    }
    return fund, market, nil
}

// NewService builds the providers and the dashboard on top of them.
func NewService(cfg config.Config, log *logging.Logger) (*dashboard.Service, error) {
    fund, market, err := Providers(cfg, log)
    if err != nil { return nil, err }
    return dashboard.NewService(fund, market, cfg.Dashboard, log), nil
}

package main

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strings"
    "time"

    "stockly/internal/config"
    "stockly/internal/dashboard"
    "stockly/internal/logging"
    "stockly/internal/metrics"
    "stockly/internal/provider"
    "stockly/internal/render"
)

type api struct {
    svc     *dashboard.Service
    log     *logging.Logger
    timeout time.Duration
}

func (a *api) routes() *http.ServeMux {
    mux := http.NewServeMux()
    mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "text/plain; charset=utf-8")
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    })
    mux.HandleFunc("GET /api/metrics", a.handleCatalog)
    mux.HandleFunc("GET /api/metric", a.handleMetric)
    mux.HandleFunc("/api/compare", func(w http.ResponseWriter, r *http.Request) {
        switch r.Method {
        case http.MethodGet:
            q := r.URL.Query()
            a.writeCompare(w, r, config.SplitSymbols(q.Get("symbols")), q.Get("metric"), q.Get("period"))
        case http.MethodPost:
            a.handlePostCompare(w, r)
        default:
            writeError(w, http.StatusMethodNotAllowed, "method not allowed")
        }
    })
    mux.HandleFunc("GET /api/page", a.handlePage)
    mux.HandleFunc("GET /api/overlay", a.handleOverlay)
    mux.HandleFunc("GET /api/statement", a.handleStatement)
    mux.HandleFunc("GET /api/earnings", a.handleEarnings)
    mux.HandleFunc("GET /api/segments", a.handleSegments)
    mux.HandleFunc("GET /api/stats", a.handleStats)
    mux.HandleFunc("GET /api/history", a.handleHistory)
    mux.HandleFunc("GET /api/search", a.handleSearch)
    mux.HandleFunc("GET /api/chart", a.handleChart)
    return mux
}

func (a *api) ctx(r *http.Request) (context.Context, context.CancelFunc) {
    if a.timeout <= 0 { return context.WithCancel(r.Context()) }
    return context.WithTimeout(r.Context(), a.timeout)
}

type catalogResponse struct {
    Metrics []metrics.Metric `json:"metrics"`
    Pages   []metrics.Page   `json:"pages"`
}

func (a *api) handleCatalog(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, http.StatusOK, catalogResponse{Metrics: metrics.All(), Pages: metrics.Pages()})
}

func (a *api) handleMetric(w http.ResponseWriter, r *http.Request) {
    q := r.URL.Query()
    period, err := provider.ParsePeriod(q.Get("period"))
    if err != nil { a.fail(w, r, err); return }
    ctx, cancel := a.ctx(r)
    defer cancel()
    chart, err := a.svc.Metric(ctx, q.Get("symbol"), q.Get("metric"), period)
    if err != nil { a.fail(w, r, err); return }
    writeJSON(w, http.StatusOK, chart)
}

type compareBody struct {
    Symbols []string `json:"symbols"`
    Metric  string   `json:"metric"`
    Period  string   `json:"period"`
}

func (a *api) handlePostCompare(w http.ResponseWriter, r *http.Request) {
    var b compareBody
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(&b); err != nil {
        writeError(w, http.StatusBadRequest, "invalid JSON body")
        return
    }
    a.writeCompare(w, r, b.Symbols, b.Metric, b.Period)
}

// writeCompare falls back to the configured default symbols when none are given.
func (a *api) writeCompare(w http.ResponseWriter, r *http.Request, symbols []string, metric, rawPeriod string) {
    period, err := provider.ParsePeriod(rawPeriod)
    if err != nil { a.fail(w, r, err); return }
    if len(symbols) == 0 { symbols = a.svc.Config().DefaultCompare }
    ctx, cancel := a.ctx(r)
    defer cancel()
    res, err := a.svc.Compare(ctx, symbols, metric, period)
    if err != nil { a.fail(w, r, err); return }
    writeJSON(w, http.StatusOK, res)
}

func (a *api) handlePage(w http.ResponseWriter, r *http.Request) {
    q := r.URL.Query()
    period, err := provider.ParsePeriod(q.Get("period"))
    if err != nil { a.fail(w, r, err); return }
    ctx, cancel := a.ctx(r)
    defer cancel()
    res, err := a.svc.Page(ctx, q.Get("symbol"), q.Get("page"), period)
    if err != nil { a.fail(w, r, err); return }
    writeJSON(w, http.StatusOK, res)
}

func (a *api) handleOverlay(w http.ResponseWriter, r *http.Request) {
    q := r.URL.Query()
    period, err := provider.ParsePeriod(q.Get("period"))
    if err != nil { a.fail(w, r, err); return }
    ma, mb := q.Get("a"), q.Get("b")
    if ma == "" { ma = "free_cash_flow" }
    if mb == "" { mb = "net_income" }
    ctx, cancel := a.ctx(r)
    defer cancel()
    res, err := a.svc.Overlay(ctx, q.Get("symbol"), ma, mb, period)
    if err != nil { a.fail(w, r, err); return }
    writeJSON(w, http.StatusOK, res)
}

func (a *api) handleStatement(w http.ResponseWriter, r *http.Request) {
    q := r.URL.Query()
    kind, err := provider.ParseStatementKind(q.Get("statement"))
    if err != nil { a.fail(w, r, err); return }
    freq, err := provider.ParseFrequency(q.Get("timeframe"))
    if err != nil { a.fail(w, r, err); return }
    ctx, cancel := a.ctx(r)
    defer cancel()
    table, err := a.svc.Statement(ctx, q.Get("symbol"), kind, freq)
    if err != nil { a.fail(w, r, err); return }
    writeJSON(w, http.StatusOK, table)
}

func (a *api) handleEarnings(w http.ResponseWriter, r *http.Request) {
    ctx, cancel := a.ctx(r)
    defer cancel()
    res, err := a.svc.Earnings(ctx, r.URL.Query().Get("symbol"))
    if err != nil { a.fail(w, r, err); return }
    writeJSON(w, http.StatusOK, res)
}

func (a *api) handleSegments(w http.ResponseWriter, r *http.Request) {
    q := r.URL.Query()
    kind, err := dashboard.ParseSegmentKind(q.Get("kind"))
    if err != nil { a.fail(w, r, err); return }
    period, err := provider.ParsePeriod(q.Get("period"))
    if err != nil { a.fail(w, r, err); return }
    ctx, cancel := a.ctx(r)
    defer cancel()
    res, err := a.svc.Segments(ctx, q.Get("symbol"), kind, period)
    if err != nil { a.fail(w, r, err); return }
    writeJSON(w, http.StatusOK, res)
}

func (a *api) handleStats(w http.ResponseWriter, r *http.Request) {
    ctx, cancel := a.ctx(r)
    defer cancel()
    res, err := a.svc.Stats(ctx, r.URL.Query().Get("symbol"))
    if err != nil { a.fail(w, r, err); return }
    writeJSON(w, http.StatusOK, res)
}

func (a *api) handleHistory(w http.ResponseWriter, r *http.Request) {
    q := r.URL.Query()
    window, err := provider.ParseWindow(q.Get("window"))
    if err != nil { a.fail(w, r, err); return }
    ctx, cancel := a.ctx(r)
    defer cancel()
    res, err := a.svc.History(ctx, q.Get("symbol"), window)
    if err != nil { a.fail(w, r, err); return }
    writeJSON(w, http.StatusOK, res)
}

type searchResponse struct {
    Results []provider.Company `json:"results"`
}

func (a *api) handleSearch(w http.ResponseWriter, r *http.Request) {
    q := r.URL.Query().Get("q")
    if strings.TrimSpace(q) == "" {
        writeError(w, http.StatusBadRequest, "missing q query param")
        return
    }
    ctx, cancel := a.ctx(r)
    defer cancel()
    hits, err := a.svc.Search(ctx, q)
    if err != nil { a.fail(w, r, err); return }
    writeJSON(w, http.StatusOK, searchResponse{Results: hits})
}

// handleChart renders a metric, comparison or price history chart.
// type=metric|compare|history; format=png|svg.
func (a *api) handleChart(w http.ResponseWriter, r *http.Request) {
    q := r.URL.Query()
    format, err := render.ParseFormat(q.Get("format"))
    if err != nil { writeError(w, http.StatusBadRequest, err.Error()); return }
    ctx, cancel := a.ctx(r)
    defer cancel()

    var buf bytes.Buffer
    opts := render.Options{Format: format}
    switch strings.ToLower(q.Get("type")) {
    case "", "metric":
        period, err := provider.ParsePeriod(q.Get("period"))
        if err != nil { a.fail(w, r, err); return }
        chart, err := a.svc.Metric(ctx, q.Get("symbol"), q.Get("metric"), period)
        if err != nil { a.fail(w, r, err); return }
        opts.Title, opts.Axis, opts.Unit = chart.Metric.Title, chart.Metric.Axis, chart.Metric.Unit
        err = render.MetricBars(&buf, opts, chart.Labels, chart.Points, chart.Color)
        if err != nil { a.fail(w, r, err); return }

    case "compare":
        period, err := provider.ParsePeriod(q.Get("period"))
        if err != nil { a.fail(w, r, err); return }
        symbols := config.SplitSymbols(q.Get("symbols"))
        if len(symbols) == 0 { symbols = a.svc.Config().DefaultCompare }
        res, err := a.svc.Compare(ctx, symbols, q.Get("metric"), period)
        if err != nil { a.fail(w, r, err); return }
        opts.Title, opts.Axis, opts.Unit = res.Metric.Title, res.Metric.Axis, res.Metric.Unit
        if err := render.Comparison(&buf, opts, res.Set); err != nil { a.fail(w, r, err); return }

    case "history":
        window, err := provider.ParseWindow(q.Get("window"))
        if err != nil { a.fail(w, r, err); return }
        res, err := a.svc.History(ctx, q.Get("symbol"), window)
        if err != nil { a.fail(w, r, err); return }
        opts.Title = fmt.Sprintf("%s (%s)", res.Symbol, res.Window)
        opts.Axis = "Close"
        if err := render.PriceHistory(&buf, opts, res.Symbol, res.Bars); err != nil { a.fail(w, r, err); return }

    default:
        writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown chart type %q", q.Get("type")))
        return
    }

    w.Header().Set("Content-Type", format.ContentType())
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(buf.Bytes())
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
    switch {
    case errors.Is(err, provider.ErrInvalidSymbol), errors.Is(err, render.ErrNoData):
        return http.StatusNotFound
    case errors.Is(err, provider.ErrUnsupported),
        errors.Is(err, metrics.ErrUnknownMetric),
        errors.Is(err, dashboard.ErrNoSymbols),
        errors.Is(err, dashboard.ErrTooManySymbols):
        return http.StatusBadRequest
    case errors.Is(err, context.DeadlineExceeded):
        return http.StatusGatewayTimeout
    default:
        return http.StatusBadGateway
    }
}

func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
    status := statusFor(err)
    if status >= http.StatusInternalServerError {
        a.log.Warn().Err(err).Str("path", r.URL.Path).Msg("request failed")
    }
    writeError(w, status, err.Error())
}

type errorResponse struct {
    Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
    writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json; charset=utf-8")
    w.WriteHeader(status)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}

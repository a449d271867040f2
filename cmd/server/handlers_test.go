package main

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "stockly/internal/config"
    "stockly/internal/dashboard"
    "stockly/internal/logging"
    "stockly/internal/provider"
)

type fakeFundamentals struct{ records map[string][]provider.RawRecord }

func (f fakeFundamentals) Name() string { return "fake" }
func (f fakeFundamentals) Records(_ context.Context, symbol string, family provider.Family, _ provider.Period) ([]provider.RawRecord, error) {
    recs, ok := f.records[symbol+"|"+string(family)]
    if !ok { return nil, provider.ErrInvalidSymbol }
    return recs, nil
}
func (f fakeFundamentals) TTM(_ context.Context, symbol string, family provider.Family) ([]provider.RawRecord, error) {
    return f.records[symbol+"|"+string(family)+"|ttm"], nil
}
func (f fakeFundamentals) Search(_ context.Context, query string) ([]provider.Company, error) {
    return []provider.Company{{Symbol: "AAPL", Name: "Apple Inc."}}, nil
}

type fakeMarket struct{ bars []provider.Bar }

func (m fakeMarket) Name() string { return "fake" }
func (m fakeMarket) Statement(_ context.Context, symbol string, kind provider.StatementKind, _ provider.Frequency) (*provider.StatementTable, error) {
    return nil, provider.ErrInvalidSymbol
}
func (m fakeMarket) Stats(_ context.Context, symbol string) (provider.RawRecord, error) {
    return provider.RawRecord{"currentPrice": 101.0, "open": 100.0}, nil
}
func (m fakeMarket) History(_ context.Context, symbol string, _ provider.Window) ([]provider.Bar, error) {
    return m.bars, nil
}

func newTestAPI() *api {
    fund := fakeFundamentals{records: map[string][]provider.RawRecord{
        "AAPL|key-metrics":     {{"date": "2023-09-30", "peRatio": 29.0}, {"date": "2022-09-30", "peRatio": 24.0}},
        "AAPL|key-metrics|ttm": {{"peRatioTTM": 30.0}},
        "MSFT|key-metrics":     {{"date": "2023-06-30", "peRatio": 35.0}},
    }}
    day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
    market := fakeMarket{bars: []provider.Bar{{Time: day, Close: 100}, {Time: day.AddDate(0, 0, 1), Close: 102}}}
    cfg := config.Default().Dashboard
    cfg.DefaultCompare = []string{"AAPL", "MSFT"}
    log := logging.NewSilentLogger()
    return &api{svc: dashboard.NewService(fund, market, cfg, log), log: log, timeout: time.Second}
}

func serve(a *api, req *http.Request) *httptest.ResponseRecorder {
    rr := httptest.NewRecorder()
    recoverPanic(a.log, a.routes()).ServeHTTP(rr, req)
    return rr
}

func TestMetric_OK(t *testing.T) {
    rr := serve(newTestAPI(), httptest.NewRequest(http.MethodGet, "/api/metric?symbol=aapl&metric=pe_ratio", nil))
    if rr.Code != http.StatusOK { t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String()) }
    var resp dashboard.MetricChart
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil { t.Fatalf("decode: %v", err) }
    got := strings.Join(resp.Labels, ",")
    if got != "2022,2023,TTM" { t.Fatalf("labels=%s", got) }
}

func TestMetric_ErrorStatuses(t *testing.T) {
    a := newTestAPI()
    cases := map[string]int{
        "/api/metric?symbol=AAPL&metric=nope":                 http.StatusBadRequest,
        "/api/metric?symbol=ZZZZ&metric=pe_ratio":              http.StatusNotFound,
        "/api/metric?symbol=AAPL&metric=pe_ratio&period=daily": http.StatusBadRequest,
    }
    for url, want := range cases {
        rr := serve(a, httptest.NewRequest(http.MethodGet, url, nil))
        if rr.Code != want { t.Fatalf("%s: status=%d want %d body=%s", url, rr.Code, want, rr.Body.String()) }
        var e errorResponse
        if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil || e.Error == "" { t.Fatalf("%s: error body %q", url, rr.Body.String()) }
    }
}

func TestCompare_DefaultSymbolsAndPost(t *testing.T) {
    a := newTestAPI()

    rr := serve(a, httptest.NewRequest(http.MethodGet, "/api/compare?metric=pe_ratio", nil))
    if rr.Code != http.StatusOK { t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String()) }
    var resp dashboard.ComparisonResult
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil { t.Fatalf("decode: %v", err) }
    if len(resp.Set.Entries) != 2 || resp.Set.Entries[0].Symbol != "AAPL" || resp.Set.Entries[1].Symbol != "MSFT" {
        t.Fatalf("unexpected entries: %+v", resp.Set.Entries)
    }

    body := bytes.NewBufferString(`{"symbols":["msft"],"metric":"pe_ratio"}`)
    rr = serve(a, httptest.NewRequest(http.MethodPost, "/api/compare", body))
    if rr.Code != http.StatusOK { t.Fatalf("post status=%d body=%s", rr.Code, rr.Body.String()) }

    rr = serve(a, httptest.NewRequest(http.MethodPost, "/api/compare", bytes.NewBufferString(`{"tickers":[]}`)))
    if rr.Code != http.StatusBadRequest { t.Fatalf("unknown field status=%d", rr.Code) }

    rr = serve(a, httptest.NewRequest(http.MethodGet, "/api/compare?metric=pe_ratio&symbols=a,b,c,d,e,f", nil))
    if rr.Code != http.StatusBadRequest { t.Fatalf("too many status=%d", rr.Code) }
}

func TestStatsHistorySearch(t *testing.T) {
    a := newTestAPI()
    for _, url := range []string{"/api/stats?symbol=AAPL", "/api/history?symbol=AAPL&window=1mo", "/api/search?q=apple", "/api/metrics", "/healthz"} {
        rr := serve(a, httptest.NewRequest(http.MethodGet, url, nil))
        if rr.Code != http.StatusOK { t.Fatalf("%s: status=%d body=%s", url, rr.Code, rr.Body.String()) }
    }
    rr := serve(a, httptest.NewRequest(http.MethodGet, "/api/search", nil))
    if rr.Code != http.StatusBadRequest { t.Fatalf("empty search status=%d", rr.Code) }
    rr = serve(a, httptest.NewRequest(http.MethodGet, "/api/statement?symbol=AAPL&statement=income", nil))
    if rr.Code != http.StatusNotFound { t.Fatalf("statement status=%d", rr.Code) }
}

func TestChart_ContentTypes(t *testing.T) {
    a := newTestAPI()

    rr := serve(a, httptest.NewRequest(http.MethodGet, "/api/chart?type=metric&symbol=AAPL&metric=pe_ratio", nil))
    if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "image/png" {
        t.Fatalf("metric chart status=%d type=%s", rr.Code, rr.Header().Get("Content-Type"))
    }
    rr = serve(a, httptest.NewRequest(http.MethodGet, "/api/chart?type=compare&metric=pe_ratio&format=svg", nil))
    if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "image/svg+xml" {
        t.Fatalf("compare chart status=%d type=%s body=%s", rr.Code, rr.Header().Get("Content-Type"), rr.Body.String())
    }
    rr = serve(a, httptest.NewRequest(http.MethodGet, "/api/chart?type=pie", nil))
    if rr.Code != http.StatusBadRequest { t.Fatalf("unknown type status=%d", rr.Code) }
}

func TestRequestID_EchoedOrGenerated(t *testing.T) {
    h := withRequestID(logging.NewSilentLogger(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

    rr := httptest.NewRecorder()
    req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
    req.Header.Set("X-Request-ID", "abc")
    h.ServeHTTP(rr, req)
    if rr.Header().Get("X-Request-ID") != "abc" { t.Fatalf("id=%q", rr.Header().Get("X-Request-ID")) }

    rr = httptest.NewRecorder()
    h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
    if len(rr.Header().Get("X-Request-ID")) != 36 { t.Fatalf("generated id=%q", rr.Header().Get("X-Request-ID")) }
}

func TestRecoverPanic(t *testing.T) {
    h := recoverPanic(logging.NewSilentLogger(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }))
    rr := httptest.NewRecorder()
    h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
    if rr.Code != http.StatusInternalServerError { t.Fatalf("status=%d", rr.Code) }
}

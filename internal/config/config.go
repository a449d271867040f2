package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strconv"
    "strings"

    "gopkg.in/yaml.v3"
)

type Server struct {
    Port              string `json:"port" yaml:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// FMP configures provider A (fundamentals).
type FMP struct {
    APIKey               string `json:"api_key" yaml:"api_key"`
    BaseURL              string `json:"base_url" yaml:"base_url"`
    SearchExchange       string `json:"search_exchange" yaml:"search_exchange"`
    MaxRequestsPerMinute int    `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
    Burst                int    `json:"burst" yaml:"burst"`
}

// Yahoo configures provider B (statements, stats, prices).
type Yahoo struct {
    BaseURL              string `json:"base_url" yaml:"base_url"`
    Crumb                string `json:"crumb" yaml:"crumb"`
    Cookie               string `json:"cookie" yaml:"cookie"`
    MaxRequestsPerMinute int    `json:"max_requests_per_minute" yaml:"max_requests_per_minute"`
    Burst                int    `json:"burst" yaml:"burst"`
}

type Dashboard struct {
    // FloorYear hides comparison periods at or before this year.
    FloorYear         string   `json:"floor_year" yaml:"floor_year"`
    SegmentFloorYear  string   `json:"segment_floor_year" yaml:"segment_floor_year"`
    MaxCompareSymbols int      `json:"max_compare_symbols" yaml:"max_compare_symbols"`
    MaxConcurrency    int      `json:"max_concurrency" yaml:"max_concurrency"`
    DefaultCompare    []string `json:"default_compare" yaml:"default_compare"`
    EarningsQuarters  int      `json:"earnings_quarters" yaml:"earnings_quarters"`
    // SymbolTimeoutSec bounds the fetches behind one symbol or chart. It must
    // stay below Server.RequestTimeoutSec.
    SymbolTimeoutSec  int      `json:"symbol_timeout_sec" yaml:"symbol_timeout_sec"`
}

type Log struct {
    Level string `json:"level" yaml:"level"`
}

type Config struct {
    Server    Server    `json:"server" yaml:"server"`
    FMP       FMP       `json:"fmp" yaml:"fmp"`
    Yahoo     Yahoo     `json:"yahoo" yaml:"yahoo"`
    Dashboard Dashboard `json:"dashboard" yaml:"dashboard"`
    Log       Log       `json:"log" yaml:"log"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 20},
        FMP: FMP{
            BaseURL:              "https://financialmodelingprep.com/api",
            SearchExchange:       "NASDAQ",
            MaxRequestsPerMinute: 300,
            Burst:                10,
        },
        Yahoo: Yahoo{
            BaseURL:              "https://query2.finance.yahoo.com",
            MaxRequestsPerMinute: 60,
            Burst:                5,
        },
        Dashboard: Dashboard{
            FloorYear:         "2014",
            SegmentFloorYear:  "2012",
            MaxCompareSymbols: 5,
            MaxConcurrency:    4,
            DefaultCompare:    []string{"AAPL", "MSFT", "GOOGL", "AMZN"},
            EarningsQuarters:  4,
            SymbolTimeoutSec:  8,
        },
        Log: Log{Level: "info"},
    }
}

// Load reads config from path (.json, .yaml or .yml). With an empty path it
// tries config.json then config.yaml in the working directory; a missing file
// yields defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        for _, p := range []string{"config.json", "config.yaml"} {
            if _, err := os.Stat(p); err == nil { path = p; break }
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := decode(path, b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, cfg.Validate()
}

func decode(path string, b []byte, cfg *Config) error {
    switch strings.ToLower(filepath.Ext(path)) {
    case ".yaml", ".yml":
        return yaml.Unmarshal(b, cfg)
    default:
        return json.Unmarshal(b, cfg)
    }
}

// Validate checks ranges the rest of the program relies on.
func (c Config) Validate() error {
    var errs []error
    if strings.TrimSpace(c.Server.Port) == "" { errs = append(errs, errors.New("server.port is empty")) }
    if c.Server.RequestTimeoutSec <= 0 { errs = append(errs, errors.New("server.request_timeout_sec must be > 0")) }
    if !validYear(c.Dashboard.FloorYear) { errs = append(errs, fmt.Errorf("dashboard.floor_year %q is not a year", c.Dashboard.FloorYear)) }
    if !validYear(c.Dashboard.SegmentFloorYear) { errs = append(errs, fmt.Errorf("dashboard.segment_floor_year %q is not a year", c.Dashboard.SegmentFloorYear)) }
    if c.Dashboard.MaxCompareSymbols < 1 { errs = append(errs, errors.New("dashboard.max_compare_symbols must be >= 1")) }
    if c.Dashboard.MaxConcurrency < 1 { errs = append(errs, errors.New("dashboard.max_concurrency must be >= 1")) }
    if c.Dashboard.SymbolTimeoutSec < 1 || c.Dashboard.SymbolTimeoutSec >= c.Server.RequestTimeoutSec {
        errs = append(errs, errors.New("dashboard.symbol_timeout_sec must be >= 1 and below server.request_timeout_sec"))
    }
    if c.FMP.MaxRequestsPerMinute < 0 || c.Yahoo.MaxRequestsPerMinute < 0 { errs = append(errs, errors.New("max_requests_per_minute must be >= 0")) }
    return errors.Join(errs...)
}

// validYear accepts "" (no floor) or four digits.
func validYear(s string) bool {
    if s == "" { return true }
    if len(s) != 4 { return false }
    for _, r := range s {
        if r < '0' || r > '9' { return false }
    }
    return true
}

// envInt reads an integer variable; unset or malformed values report false.
func envInt(key string) (int, bool) {
    v := strings.TrimSpace(os.Getenv(key))
    if v == "" { return 0, false }
    x, err := strconv.Atoi(v)
    if err != nil { return 0, false }
    return x, true
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if x, ok := envInt("REQUEST_TIMEOUT_SEC"); ok && x > 0 { cfg.Server.RequestTimeoutSec = x }

    // API_KEY is the name the original deployment used
    if v := os.Getenv("API_KEY"); v != "" { cfg.FMP.APIKey = v }
    if v := os.Getenv("FMP_API_KEY"); v != "" { cfg.FMP.APIKey = v }
    if v := os.Getenv("FMP_BASE_URL"); v != "" { cfg.FMP.BaseURL = v }
    if v, ok := os.LookupEnv("FMP_SEARCH_EXCHANGE"); ok { cfg.FMP.SearchExchange = v }
    if x, ok := envInt("FMP_MAX_RPM"); ok && x >= 0 { cfg.FMP.MaxRequestsPerMinute = x }
    if x, ok := envInt("FMP_BURST"); ok && x > 0 { cfg.FMP.Burst = x }

    if v := os.Getenv("YAHOO_BASE_URL"); v != "" { cfg.Yahoo.BaseURL = v }
    if v := os.Getenv("YAHOO_CRUMB"); v != "" { cfg.Yahoo.Crumb = v }
    if v := os.Getenv("YAHOO_COOKIE"); v != "" { cfg.Yahoo.Cookie = v }
    if x, ok := envInt("YAHOO_MAX_RPM"); ok && x >= 0 { cfg.Yahoo.MaxRequestsPerMinute = x }

    if v, ok := os.LookupEnv("FLOOR_YEAR"); ok { cfg.Dashboard.FloorYear = strings.TrimSpace(v) }
    if x, ok := envInt("MAX_COMPARE_SYMBOLS"); ok && x > 0 { cfg.Dashboard.MaxCompareSymbols = x }
    if x, ok := envInt("DASHBOARD_MAX_CONCURRENCY"); ok && x > 0 { cfg.Dashboard.MaxConcurrency = x }
    if x, ok := envInt("DASHBOARD_SYMBOL_TIMEOUT_SEC"); ok && x > 0 { cfg.Dashboard.SymbolTimeoutSec = x }
    if v := os.Getenv("DEFAULT_COMPARE"); v != "" { cfg.Dashboard.DefaultCompare = splitCSV(v) }

    if v := os.Getenv("LOG_LEVEL"); v != "" { cfg.Log.Level = v }
}

func splitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" { out = append(out, p) }
    }
    return out
}

// SplitSymbols parses a comma separated ticker list, upper-cased and de-duplicated.
func SplitSymbols(s string) []string {
    seen := map[string]struct{}{}
    var out []string
    for _, p := range splitCSV(s) {
        p = strings.ToUpper(p)
        if _, dup := seen[p]; dup { continue }
        seen[p] = struct{}{}
        out = append(out, p)
    }
    return out
}

package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/tidwall/gjson"

	"stockly/internal/provider"
	"stockly/internal/statement"
)

// earliest statement period requested (1985-08-22, as the web UI does)
const period1 = 493590046

var summaryModules = []string{"price", "summaryDetail", "defaultKeyStatistics", "financialData"}

// Statement returns a columnar statement, most recent column first.
func (c *Client) Statement(ctx context.Context, symbol string, kind provider.StatementKind, freq provider.Frequency) (*provider.StatementTable, error) {
	symbol, err := normalize(symbol)
	if err != nil {
		return nil, err
	}
	fields := statement.Fields(kind)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: statement %q", provider.ErrUnsupported, kind)
	}

	prefix := "annual"
	if freq == provider.Quarterly {
		prefix = "quarterly"
	}
	types := make([]string, len(fields))
	for i, f := range fields {
		types[i] = prefix + f.Name
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("type", strings.Join(types, ","))
	query.Set("period1", strconv.Itoa(period1))
	query.Set("period2", strconv.FormatInt(c.now().Unix(), 10))

	path := "/ws/fundamentals-timeseries/v1/finance/timeseries/" + url.PathEscape(symbol)
	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("fetching %s %s statement for %s: %w", freq, kind, symbol, err)
	}

	// {"timeseries":{"result":[{"meta":{"type":["annualTotalRevenue"]},
	//   "annualTotalRevenue":[{"asOfDate":"2023-09-30","reportedValue":{"raw":3.8e11}}, null]}]}}
	values := map[string]map[string]float64{}
	dates := map[string]struct{}{}
	gjson.GetBytes(body, "timeseries.result").ForEach(func(_, r gjson.Result) bool {
		typ := r.Get("meta.type.0").String()
		field := strings.TrimPrefix(typ, prefix)
		if typ == "" || field == typ {
			return true
		}
		r.Get(typ).ForEach(func(_, p gjson.Result) bool {
			date := p.Get("asOfDate").String()
			raw := p.Get("reportedValue.raw")
			if date == "" || !raw.Exists() {
				return true
			}
			if values[field] == nil {
				values[field] = map[string]float64{}
			}
			values[field][date] = raw.Float()
			dates[date] = struct{}{}
			return true
		})
		return true
	})
	if len(values) == 0 {
		return nil, fmt.Errorf("no %s statement for %s: %w", kind, symbol, provider.ErrInvalidSymbol)
	}

	table := &provider.StatementTable{Symbol: symbol, Kind: kind}
	for d := range dates {
		table.Columns = append(table.Columns, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(table.Columns)))

	for _, f := range fields {
		byDate, ok := values[f.Name]
		if !ok {
			continue
		}
		row := provider.StatementRow{Field: f.Name, Values: make([]*float64, len(table.Columns))}
		for i, d := range table.Columns {
			if v, ok := byDate[d]; ok {
				row.Values[i] = &v
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Stats returns the quote summary flattened into one record keyed the way the
// web "info" view names things (currentPrice, marketCap, 52WeekChange, ...).
func (c *Client) Stats(ctx context.Context, symbol string) (provider.RawRecord, error) {
	symbol, err := normalize(symbol)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("modules", strings.Join(summaryModules, ","))
	if c.crumb != "" {
		query.Set("crumb", c.crumb)
	}

	body, err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), query)
	if err != nil {
		return nil, fmt.Errorf("fetching stats for %s: %w", symbol, err)
	}

	result := gjson.GetBytes(body, "quoteSummary.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("no quote summary for %s: %w", symbol, provider.ErrInvalidSymbol)
	}

	info := provider.RawRecord{}
	for _, module := range summaryModules {
		result.Get(module).ForEach(func(k, v gjson.Result) bool {
			key := k.String()
			if _, dup := info[key]; dup {
				return true
			}
			switch {
			case v.IsObject():
				// {"raw": 1.23, "fmt": "1.23"}; empty objects mean "no value"
				if raw := v.Get("raw"); raw.Exists() {
					info[key] = raw.Value()
				}
			case v.Type == gjson.Null:
			default:
				info[key] = v.Value()
			}
			return true
		})
	}
	if _, ok := info["currentPrice"]; !ok {
		if p, ok := info["regularMarketPrice"]; ok {
			info["currentPrice"] = p
		}
	}
	info["symbol"] = symbol
	return info, nil
}

// History returns daily bars for a lookback window, oldest first.
func (c *Client) History(ctx context.Context, symbol string, window provider.Window) ([]provider.Bar, error) {
	symbol, err := normalize(symbol)
	if err != nil {
		return nil, err
	}
	rng := string(window)
	if window == "1wk" {
		// chart ranges use days for the shortest window
		rng = "5d"
	}

	query := url.Values{}
	query.Set("interval", "1d")
	query.Set("range", rng)

	body, err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), query)
	if err != nil {
		return nil, fmt.Errorf("fetching %s history for %s: %w", window, symbol, err)
	}

	result := gjson.GetBytes(body, "chart.result.0")
	stamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	bars := make([]provider.Bar, 0, len(stamps))
	for i, ts := range stamps {
		if i >= len(closes) || closes[i].Type == gjson.Null {
			continue
		}
		bars = append(bars, provider.Bar{
			Time:   time.Unix(ts.Int(), 0).UTC(),
			Open:   at(opens, i),
			High:   at(highs, i),
			Low:    at(lows, i),
			Close:  closes[i].Float(),
			Volume: at(volumes, i),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no price history for %s: %w", symbol, provider.ErrInvalidSymbol)
	}
	return bars, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	url := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	c.log.Debug().Str("endpoint", path).Msg("yahoo request")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusNotFound:
		return nil, provider.ErrInvalidSymbol

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("unauthorized (crumb or cookie rejected)")

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")

	default:
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decoding %s response: invalid json", path)
	}
	return body, nil
}

// at reads the i-th cell of a quote column; absent and null cells are null.
func at(values []gjson.Result, i int) null.Float {
	if i >= len(values) || values[i].Type != gjson.Number {
		return null.Float{}
	}
	return null.FloatFrom(values[i].Float())
}

func normalize(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", fmt.Errorf("empty symbol: %w", provider.ErrInvalidSymbol)
	}
	return symbol, nil
}

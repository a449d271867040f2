package fmp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"stockly/internal/provider"
)

// APIError is a non-success answer from the API: either an HTTP error status or
// a 200 carrying an {"Error Message": ...} body.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	// Err is provider.ErrInvalidSymbol for error-object bodies.
	Err error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fmp %s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("fmp %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// Records returns the per-period records of a family, most recent first.
func (c *Client) Records(ctx context.Context, symbol string, family provider.Family, period provider.Period) ([]provider.RawRecord, error) {
	symbol, err := normalize(symbol)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	var path string
	switch family {
	case provider.KeyMetrics, provider.Ratios, provider.IncomeStatement, provider.IncomeGrowth,
		provider.BalanceSheet, provider.CashFlow:
		path = fmt.Sprintf("/v3/%s/%s", family, url.PathEscape(symbol))
		query.Set("period", string(period))
	case provider.EarningsCalendar:
		path = "/v3/historical/earning_calendar/" + url.PathEscape(symbol)
	case provider.ProductSegments, provider.GeoSegments:
		path = "/v4/" + string(family)
		query.Set("symbol", symbol)
		query.Set("structure", "flat")
		query.Set("period", string(period))
	case provider.EmployeeCount:
		path = "/v4/historical/employee_count"
		query.Set("symbol", symbol)
	default:
		return nil, fmt.Errorf("%w: family %q", provider.ErrUnsupported, family)
	}

	records, err := c.records(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("fetching %s for %s: %w", family, symbol, err)
	}
	return records, nil
}

// TTM returns the one-element trailing-twelve-months collection of a family.
func (c *Client) TTM(ctx context.Context, symbol string, family provider.Family) ([]provider.RawRecord, error) {
	symbol, err := normalize(symbol)
	if err != nil {
		return nil, err
	}
	if !family.HasTTM() {
		return nil, fmt.Errorf("%w: no TTM endpoint for %q", provider.ErrUnsupported, family)
	}

	path := fmt.Sprintf("/v3/%s-ttm/%s", family, url.PathEscape(symbol))
	records, err := c.records(ctx, path, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("fetching %s TTM for %s: %w", family, symbol, err)
	}
	return records, nil
}

// Search looks up companies by name or ticker fragment. No match is not an error.
func (c *Client) Search(ctx context.Context, q string) ([]provider.Company, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []provider.Company{}, nil
	}
	query := url.Values{}
	query.Set("query", q)
	if c.exchange != "" {
		query.Set("exchange", c.exchange)
	}

	payload, err := c.get(ctx, "/v3/search", query)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", q, err)
	}
	list, _ := payload.([]any)

	out := make([]provider.Company, 0, len(list))
	for _, raw := range list {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		symbol, _ := parseNullableValue[string](item, "symbol")
		if symbol == nil {
			continue
		}
		name, _ := parseNullableValue[string](item, "name")
		currency, _ := parseNullableValue[string](item, "currency")
		exchange, _ := parseNullableValue[string](item, "exchangeShortName")
		out = append(out, provider.Company{
			Symbol:   *symbol,
			Name:     deref(name),
			Currency: deref(currency),
			Exchange: deref(exchange),
		})
	}
	return out, nil
}

func (c *Client) records(ctx context.Context, path string, query url.Values) ([]provider.RawRecord, error) {
	payload, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var out []provider.RawRecord
	switch v := payload.(type) {
	case []any:
		out = make([]provider.RawRecord, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
	case map[string]any:
		// a few endpoints answer a single object instead of a list
		if len(v) > 0 {
			out = []provider.RawRecord{v}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty payload: %w", path, provider.ErrInvalidSymbol)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, extra url.Values) (any, error) {
	query := maps.Clone(c.query)
	for k, vs := range extra {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	url := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	c.log.Debug().Str("endpoint", path).Msg("fmp request")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &APIError{StatusCode: res.StatusCode, Message: "unauthorized", Endpoint: path}

	case http.StatusTooManyRequests:
		return nil, &APIError{StatusCode: res.StatusCode, Message: "rate limited", Endpoint: path}

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &APIError{StatusCode: res.StatusCode, Message: strings.TrimSpace(string(b)), Endpoint: path}
	}

	var payload any
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding %s response: %w", path, err)
	}

	if obj, ok := payload.(map[string]any); ok {
		msg, _ := parseNullableValue[string](obj, "Error Message")
		if msg != nil {
			return nil, &APIError{StatusCode: res.StatusCode, Message: *msg, Endpoint: path, Err: provider.ErrInvalidSymbol}
		}
	}
	return payload, nil
}

func normalize(symbol string) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", fmt.Errorf("empty symbol: %w", provider.ErrInvalidSymbol)
	}
	return symbol, nil
}

// parseNullableValue is a helper function to parse a nullable value.
func parseNullableValue[T any](data map[string]any, key string) (*T, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return nil, nil
	}
	if v, ok := v.(T); ok {
		return &v, nil
	}
	return nil, fmt.Errorf("unexpected type: %T", v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// ErrInvalidSymbol is returned when a provider has no data at all for a ticker.
var ErrInvalidSymbol = errors.New("invalid symbol")

// ErrUnsupported is returned for a family/period combination a provider does not serve.
var ErrUnsupported = errors.New("unsupported request")

// RawRecord is one loosely typed provider record (usually one reporting period).
type RawRecord map[string]any

// Family names a provider A endpoint family.
type Family string

const (
	KeyMetrics       Family = "key-metrics"
	Ratios           Family = "ratios"
	IncomeStatement  Family = "income-statement"
	IncomeGrowth     Family = "income-statement-growth"
	BalanceSheet     Family = "balance-sheet-statement"
	CashFlow         Family = "cash-flow-statement"
	EarningsCalendar Family = "earning-calendar"
	ProductSegments  Family = "revenue-product-segmentation"
	GeoSegments      Family = "revenue-geographic-segmentation"
	EmployeeCount    Family = "employee-count"
)

// HasTTM reports whether the family has a trailing-twelve-months endpoint.
func (f Family) HasTTM() bool { return f == KeyMetrics || f == Ratios }

// Period is the annual/quarterly granularity understood by provider A.
type Period string

const (
	Annual  Period = "annual"
	Quarter Period = "quarter"
)

// ParsePeriod accepts the spellings used by the UI ("Annual", "quarterly", ...).
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "annual", "yearly", "year":
		return Annual, nil
	case "quarter", "quarterly":
		return Quarter, nil
	}
	return "", fmt.Errorf("%w: period %q", ErrUnsupported, s)
}

// StatementKind selects one of the three provider B financial statements.
type StatementKind string

const (
	Income       StatementKind = "income"
	Balance      StatementKind = "balance"
	CashFlowStmt StatementKind = "cashflow"
)

func ParseStatementKind(s string) (StatementKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "income-statement", "income_statement":
		return Income, nil
	case "balance", "balance-sheet", "balance_sheet":
		return Balance, nil
	case "cashflow", "cash-flow", "cash_flow":
		return CashFlowStmt, nil
	}
	return "", fmt.Errorf("%w: statement %q", ErrUnsupported, s)
}

// Frequency is the coarse yearly/quarterly enum of provider B.
type Frequency string

const (
	Yearly    Frequency = "yearly"
	Quarterly Frequency = "quarterly"
)

func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yearly", "annual":
		return Yearly, nil
	case "quarterly", "quarter":
		return Quarterly, nil
	}
	return "", fmt.Errorf("%w: timeframe %q", ErrUnsupported, s)
}

// Window is a price-history lookback token.
type Window string

var Windows = []Window{"1wk", "1mo", "3mo", "6mo", "1y", "2y", "5y", "10y", "max"}

func ParseWindow(s string) (Window, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "1y", nil
	}
	for _, w := range Windows {
		if string(w) == s {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: window %q", ErrUnsupported, s)
}

// StatementTable is a columnar statement: one row per internal field name,
// one column per reporting period (most recent first).
type StatementTable struct {
	Symbol  string
	Kind    StatementKind
	Columns []string
	Rows    []StatementRow
}

// StatementRow holds one field across all columns; nil marks a missing cell.
type StatementRow struct {
	Field  string
	Values []*float64
}

// Bar is a single daily price bar. Only the close is guaranteed; the other
// cells are null when the provider left them out.
type Bar struct {
	Time   time.Time  `json:"time"`
	Open   null.Float `json:"open"`
	High   null.Float `json:"high"`
	Low    null.Float `json:"low"`
	Close  float64    `json:"close"`
	Volume null.Float `json:"volume"`
}

// Company is a search hit.
type Company struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Exchange string `json:"exchange"`
}

// Fundamentals is provider A: per-period records by metric family.
type Fundamentals interface {
	Name() string
	Records(ctx context.Context, symbol string, family Family, period Period) ([]RawRecord, error)
	TTM(ctx context.Context, symbol string, family Family) ([]RawRecord, error)
	Search(ctx context.Context, query string) ([]Company, error)
}

// Market is provider B: statements, point-in-time statistics and price bars.
type Market interface {
	Name() string
	Statement(ctx context.Context, symbol string, kind StatementKind, freq Frequency) (*StatementTable, error)
	Stats(ctx context.Context, symbol string) (RawRecord, error)
	History(ctx context.Context, symbol string, window Window) ([]Bar, error)
}

// Package metrics is the catalog of chartable fundamentals: which provider
// family and field each metric reads, and how it is titled on a chart.
package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"stockly/internal/provider"
)

var ErrUnknownMetric = errors.New("unknown metric")

type Unit string

const (
	Currency Unit = "currency"
	Ratio    Unit = "ratio"
	Percent  Unit = "percent" // fractions upstream, e.g. 0.43 for 43%
	Count    Unit = "count"
)

// Default floor years. Points at or before the floor are hidden.
const (
	CompareFloor = "2014"
	MarginFloor  = "1999"
)

// Metric describes one chartable series.
type Metric struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Axis      string          `json:"axis"`
	Unit      Unit            `json:"unit"`
	Family    provider.Family `json:"family"`
	Field     string          `json:"field"`
	TTMField  string          `json:"ttm_field,omitempty"`
	DateField string          `json:"-"`
	// Floor applies to single-symbol charts; empty shows every period.
	Floor string `json:"floor,omitempty"`
}

// HasTTM reports whether the metric gets a leading trailing-twelve-months point.
func (m Metric) HasTTM() bool { return m.TTMField != "" && m.Family.HasTTM() }

// DateKey is the record field holding the period label.
func (m Metric) DateKey() string {
	if m.DateField == "" {
		return "date"
	}
	return m.DateField
}

var catalog = []Metric{
	// income statement
	{ID: "revenue", Title: "Revenue", Axis: "Revenue", Unit: Currency, Family: provider.IncomeStatement, Field: "revenue"},
	{ID: "gross_profit", Title: "Gross Profit", Axis: "Gross Profit", Unit: Currency, Family: provider.IncomeStatement, Field: "grossProfit"},
	{ID: "net_income", Title: "Net Income", Axis: "Net Income", Unit: Currency, Family: provider.IncomeStatement, Field: "netIncome"},
	{ID: "operating_income", Title: "Operating Income", Axis: "Operating Income", Unit: Currency, Family: provider.IncomeStatement, Field: "operatingIncome"},
	{ID: "cost_of_revenue", Title: "Cost of Revenue", Axis: "Cost of Revenue", Unit: Currency, Family: provider.IncomeStatement, Field: "costOfRevenue"},
	{ID: "revenue_growth", Title: "Revenue Growth", Axis: "Growth", Unit: Percent, Family: provider.IncomeGrowth, Field: "growthRevenue"},
	{ID: "net_income_growth", Title: "Net Income Growth", Axis: "Growth", Unit: Percent, Family: provider.IncomeGrowth, Field: "growthNetIncome"},
	{ID: "operating_income_growth", Title: "Operating Income Growth", Axis: "Growth", Unit: Percent, Family: provider.IncomeGrowth, Field: "growthOperatingIncome"},

	// ratios
	{ID: "gross_profit_margin", Title: "Gross Profit Margin", Axis: "Gross Profit Margin", Unit: Percent, Family: provider.Ratios, Field: "grossProfitMargin", TTMField: "grossProfitMarginTTM", Floor: MarginFloor},
	{ID: "net_income_margin", Title: "Net Income Margin", Axis: "Net Income Margin", Unit: Percent, Family: provider.Ratios, Field: "netProfitMargin", TTMField: "netProfitMarginTTM", Floor: MarginFloor},
	{ID: "operating_profit_margin", Title: "Operating Profit Margin", Axis: "Operating Profit Margin", Unit: Percent, Family: provider.Ratios, Field: "operatingProfitMargin", TTMField: "operatingProfitMarginTTM", Floor: MarginFloor},
	{ID: "roe", Title: "Return on Equity", Axis: "Return on Equity", Unit: Percent, Family: provider.Ratios, Field: "returnOnEquity", TTMField: "returnOnEquityTTM"},
	{ID: "roa", Title: "Return on Assets", Axis: "Return on Assets", Unit: Percent, Family: provider.Ratios, Field: "returnOnAssets", TTMField: "returnOnAssetsTTM"},
	{ID: "roce", Title: "Return on Capital Employed", Axis: "Return on Capital Employed", Unit: Percent, Family: provider.Ratios, Field: "returnOnCapitalEmployed", TTMField: "returnOnCapitalEmployedTTM"},
	{ID: "peg_ratio", Title: "Price to Earnings to Growth (PEG) Ratio", Axis: "PEG Ratio", Unit: Ratio, Family: provider.Ratios, Field: "priceEarningsToGrowthRatio", TTMField: "priceEarningsToGrowthRatioTTM"},
	{ID: "debt_to_equity", Title: "Debt to Equity Ratio", Axis: "Debt to Equity Ratio", Unit: Ratio, Family: provider.Ratios, Field: "debtEquityRatio", TTMField: "debtEquityRatioTTM"},
	{ID: "total_debt_to_cap", Title: "Total Debt to Capitalization", Axis: "Total Debt to Capitalization", Unit: Ratio, Family: provider.Ratios, Field: "totalDebtToCapitalization", TTMField: "totalDebtToCapitalizationTTM"},
	{ID: "current_ratio", Title: "Current Ratio", Axis: "Current Ratio", Unit: Ratio, Family: provider.Ratios, Field: "currentRatio", TTMField: "currentRatioTTM"},
	{ID: "quick_ratio", Title: "Quick Ratio", Axis: "Quick Ratio", Unit: Ratio, Family: provider.Ratios, Field: "quickRatio", TTMField: "quickRatioTTM"},

	// key metrics
	{ID: "pe_ratio", Title: "Price to Earnings (PE) Ratio", Axis: "PE Ratio", Unit: Ratio, Family: provider.KeyMetrics, Field: "peRatio", TTMField: "peRatioTTM"},
	{ID: "pb_ratio", Title: "Price to Book (PB) Ratio", Axis: "PB Ratio", Unit: Ratio, Family: provider.KeyMetrics, Field: "pbRatio", TTMField: "pbRatioTTM"},
	{ID: "ps_ratio", Title: "Price to Sales (PS) Ratio", Axis: "PS Ratio", Unit: Ratio, Family: provider.KeyMetrics, Field: "priceToSalesRatio", TTMField: "priceToSalesRatioTTM"},
	{ID: "ev_ebitda", Title: "Enterprise Value to EBITDA (EV/EBITDA)", Axis: "EV/EBITDA", Unit: Ratio, Family: provider.KeyMetrics, Field: "enterpriseValueOverEBITDA", TTMField: "enterpriseValueOverEBITDATTM"},
	{ID: "price_to_fcf", Title: "Price to Free Cash Flow (P/FCF)", Axis: "P/FCF", Unit: Ratio, Family: provider.KeyMetrics, Field: "pfcfRatio", TTMField: "pfcfRatioTTM"},
	{ID: "price_to_ocf", Title: "Price to Operating Cash Flow (P/OCF)", Axis: "P/OCF", Unit: Ratio, Family: provider.KeyMetrics, Field: "pocfratio", TTMField: "pocfratioTTM"},
	{ID: "ev_to_sales", Title: "Enterprise Value to Sales (EV/Sales)", Axis: "EV/Sales", Unit: Ratio, Family: provider.KeyMetrics, Field: "evToSales", TTMField: "evToSalesTTM"},
	{ID: "ev_to_ocf", Title: "Enterprise Value to Operating Cash Flow (EV/OCF)", Axis: "EV/OCF", Unit: Ratio, Family: provider.KeyMetrics, Field: "evToOperatingCashFlow", TTMField: "evToOperatingCashFlowTTM"},
	{ID: "ev_to_fcf", Title: "Enterprise Value to Free Cash Flow (EV/FCF)", Axis: "EV/FCF", Unit: Ratio, Family: provider.KeyMetrics, Field: "evToFreeCashFlow", TTMField: "evToFreeCashFlowTTM"},
	{ID: "dividend_yield", Title: "Dividend Yield", Axis: "Dividend Yield", Unit: Percent, Family: provider.KeyMetrics, Field: "dividendYield", TTMField: "dividendYieldTTM"},
	{ID: "working_capital", Title: "Working Capital", Axis: "Working Capital", Unit: Currency, Family: provider.KeyMetrics, Field: "workingCapital", TTMField: "workingCapitalTTM"},
	{ID: "capex_to_ocf", Title: "Capex to Operating Cash Flow", Axis: "Capex to Operating Cash Flow", Unit: Ratio, Family: provider.KeyMetrics, Field: "capexToOperatingCashFlow", TTMField: "capexToOperatingCashFlowTTM"},
	{ID: "capex_per_share", Title: "Capex per Share", Axis: "Capex per Share", Unit: Currency, Family: provider.KeyMetrics, Field: "capexPerShare", TTMField: "capexPerShareTTM"},

	// cash flow and company
	{ID: "free_cash_flow", Title: "Free Cash Flow", Axis: "Free Cash Flow", Unit: Currency, Family: provider.CashFlow, Field: "freeCashFlow"},
	{ID: "employee_count", Title: "Annual Employee Count", Axis: "Employee Count", Unit: Count, Family: provider.EmployeeCount, Field: "employeeCount", DateField: "filingDate"},
}

var byID = func() map[string]Metric {
	m := make(map[string]Metric, len(catalog))
	for _, x := range catalog {
		m[x.ID] = x
	}
	return m
}()

// Lookup finds a metric by id (case-insensitive, '-' and '_' interchangeable).
func Lookup(id string) (Metric, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), "-", "_")
	m, ok := byID[key]
	if !ok {
		return Metric{}, fmt.Errorf("%w: %q", ErrUnknownMetric, id)
	}
	return m, nil
}

// All returns the catalog sorted by id.
func All() []Metric {
	out := make([]Metric, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Page is a named group of metrics rendered together.
type Page struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Metrics []string `json:"metrics"`
}

var pages = []Page{
	{ID: "profitability", Title: "Profitability Metrics", Metrics: []string{
		"revenue", "gross_profit", "net_income", "operating_income", "cost_of_revenue",
		"revenue_growth", "net_income_growth", "operating_income_growth",
		"gross_profit_margin", "net_income_margin", "operating_profit_margin",
		"roe", "roa", "roce", "free_cash_flow",
	}},
	{ID: "valuation", Title: "Valuation Metrics", Metrics: []string{
		"pe_ratio", "peg_ratio", "pb_ratio", "ps_ratio", "price_to_fcf", "price_to_ocf",
		"ev_ebitda", "ev_to_sales", "ev_to_ocf", "ev_to_fcf", "dividend_yield",
	}},
	{ID: "health", Title: "Financial Health Metrics", Metrics: []string{
		"debt_to_equity", "total_debt_to_cap", "current_ratio", "quick_ratio",
		"working_capital", "capex_to_ocf", "capex_per_share", "employee_count",
	}},
}

func Pages() []Page { return pages }

// LookupPage returns a page and its resolved metrics.
func LookupPage(id string) (Page, []Metric, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range pages {
		if p.ID != id {
			continue
		}
		ms := make([]Metric, 0, len(p.Metrics))
		for _, mid := range p.Metrics {
			m, err := Lookup(mid)
			if err != nil {
				return Page{}, nil, err
			}
			ms = append(ms, m)
		}
		return p, ms, nil
	}
	return Page{}, nil, fmt.Errorf("%w: page %q", ErrUnknownMetric, id)
}

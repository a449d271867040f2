// Package stats builds the point-in-time statistics panel from a provider info record.
package stats

import (
	"fmt"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"stockly/internal/provider"
	"stockly/internal/series"
)

type mode int

const (
	twoDP   mode = iota // rounded to 2 decimals
	whole               // rounded to an integer (counts and amounts)
	percent             // fraction upstream, x100 then 2 decimals
	raw                 // as reported
)

type field struct {
	label string
	key   string
	mode  mode
}

// Panel order. Labels are what the dashboard shows.
var fields = []field{
	{"Current Price", "currentPrice", twoDP},
	{"Previous Close", "previousClose", twoDP},
	{"Open", "open", twoDP},
	{"Day Low", "dayLow", twoDP},
	{"Day High", "dayHigh", twoDP},
	{"Volume", "volume", whole},
	{"Market Cap", "marketCap", whole},
	{"52 Week High", "fiftyTwoWeekHigh", twoDP},
	{"52 Week Low", "fiftyTwoWeekLow", twoDP},
	{"Profit Margin", "profitMargins", percent},
	{"PE Ratio (TTM)", "trailingPE", twoDP},
	{"Forward PE Ratio", "forwardPE", twoDP},
	{"EPS (TTM)", "trailingEps", twoDP},
	{"Forward EPS", "forwardEps", twoDP},
	{"Price to Book", "priceToBook", twoDP},
	{"Dividend Yield", "dividendYield", raw},
	{"Beta (5Y Monthly)", "beta", twoDP},
	{"5Y Avg Dividend Yield", "fiveYearAvgDividendYield", raw},
	{"50 Day Average", "fiftyDayAverage", twoDP},
	{"200 Day Average", "twoHundredDayAverage", twoDP},
	{"Enterprise Value", "enterpriseValue", whole},
	{"Shares", "floatShares", whole},
	{"Outstanding Shares", "sharesOutstanding", whole},
	{"Book Value", "bookValue", twoDP},
	{"52-Week Change", "52WeekChange", percent},
	{"S&P500 52-Week Change", "SandP52WeekChange", percent},
	{"Total Cash", "totalCash", whole},
	{"Total Cash Per Share", "totalCashPerShare", twoDP},
	{"Total Debt", "totalDebt", whole},
	{"EBITDA", "ebitda", whole},
	{"Current Ratio", "currentRatio", twoDP},
	{"Revenue Per Share", "revenuePerShare", twoDP},
	{"Return on Equity", "returnOnEquity", percent},
	{"Gross Margin", "grossMargins", percent},
	{"Operating Margin", "operatingMargins", percent},
	{"EBITDA Margin", "ebitdaMargins", percent},
}

// Stat is one labelled value. Value is null when the provider omitted it.
type Stat struct {
	Label   string     `json:"label"`
	Value   null.Float `json:"value"`
	Percent bool       `json:"percent,omitempty"`
}

type Stats struct {
	Symbol   string      `json:"symbol"`
	Currency null.String `json:"currency"`
	// DayChange is the move from today's open to the current price, in percent.
	DayChange null.Float `json:"day_change_percent"`
	Items     []Stat     `json:"items"`
}

// Get returns the value for a label.
func (s Stats) Get(label string) null.Float {
	for _, it := range s.Items {
		if it.Label == label {
			return it.Value
		}
	}
	return null.Float{}
}

// Build converts an info record into the stats panel. A record without a
// current price is treated as an unknown ticker.
func Build(symbol string, info provider.RawRecord) (Stats, error) {
	price := series.Number(info, "currentPrice")
	if !price.Valid {
		return Stats{}, fmt.Errorf("stats for %s: %w", symbol, provider.ErrInvalidSymbol)
	}

	out := Stats{Symbol: symbol, Items: make([]Stat, 0, len(fields))}
	if c := series.Label(info, "currency"); c != "" {
		out.Currency = null.StringFrom(c)
	}
	for _, f := range fields {
		out.Items = append(out.Items, Stat{
			Label:   f.label,
			Value:   convert(series.Number(info, f.key), f.mode),
			Percent: f.mode == percent,
		})
	}
	out.DayChange = DayChange(out.Get("Current Price"), out.Get("Open"))
	return out, nil
}

// DayChange is (current-open)/open*100 rounded to 2 decimals; null when open is
// missing or zero.
func DayChange(current, open null.Float) null.Float {
	if !current.Valid || !open.Valid || open.Float64 == 0 {
		return null.Float{}
	}
	d := decimal.NewFromFloat(current.Float64).
		Sub(decimal.NewFromFloat(open.Float64)).
		Div(decimal.NewFromFloat(open.Float64)).
		Mul(decimal.NewFromInt(100))
	return null.FloatFrom(d.Round(2).InexactFloat64())
}

func convert(v null.Float, m mode) null.Float {
	if !v.Valid {
		return v
	}
	d := decimal.NewFromFloat(v.Float64)
	switch m {
	case twoDP:
		d = d.Round(2)
	case whole:
		d = d.Round(0)
	case percent:
		d = d.Mul(decimal.NewFromInt(100)).Round(2)
	case raw:
	}
	return null.FloatFrom(d.InexactFloat64())
}

package series

import (
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"stockly/internal/provider"
)

// EarningsPoint is one reconciled earnings report.
type EarningsPoint struct {
	Date            string     `json:"date"`
	EPS             float64    `json:"eps"`
	EPSEstimate     float64    `json:"eps_estimate"`
	SurprisePercent null.Float `json:"surprise_percent"`
	Revenue         float64    `json:"revenue"`
	RevenueEstimate float64    `json:"revenue_estimate"`
}

// Beat reports whether the actual EPS came in above the estimate.
func (p EarningsPoint) Beat() bool { return p.EPS > p.EPSEstimate }

// Reconcile keeps the earnings-calendar entries that carry an actual and an
// estimate for both EPS and revenue. A missing actual is read as 0 when its
// estimate is present, so reported-but-not-yet-filled quarters still chart.
// Everything else is dropped silently.
//
// A zero EPS estimate leaves SurprisePercent null.
func Reconcile(entries []provider.RawRecord) []EarningsPoint {
	out := make([]EarningsPoint, 0, len(entries))
	for _, e := range entries {
		eps := Number(e, "eps")
		epsEst := Number(e, "epsEstimated")
		rev := Number(e, "revenue")
		revEst := Number(e, "revenueEstimated")

		if !eps.Valid && epsEst.Valid {
			eps = null.FloatFrom(0)
		}
		if !rev.Valid && revEst.Valid {
			rev = null.FloatFrom(0)
		}
		if !eps.Valid || !epsEst.Valid || !rev.Valid || !revEst.Valid {
			continue
		}

		out = append(out, EarningsPoint{
			Date:            Label(e, "fiscalDateEnding"),
			EPS:             eps.Float64,
			EPSEstimate:     epsEst.Float64,
			SurprisePercent: SurprisePercent(eps.Float64, epsEst.Float64),
			Revenue:         rev.Float64,
			RevenueEstimate: revEst.Float64,
		})
	}
	return out
}

// SurprisePercent is (actual-estimate)/estimate*100 rounded to one decimal.
func SurprisePercent(actual, estimate float64) null.Float {
	if estimate == 0 {
		return null.Float{}
	}
	pct := decimal.NewFromFloat(actual - estimate).
		Div(decimal.NewFromFloat(estimate)).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	return null.FloatFrom(pct.InexactFloat64())
}

// RecentEarnings returns the first n points (the provider lists most recent
// first) in chronological order.
func RecentEarnings(points []EarningsPoint, n int) []EarningsPoint {
	if n < 0 || n > len(points) {
		n = len(points)
	}
	out := make([]EarningsPoint, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = points[i]
	}
	return out
}

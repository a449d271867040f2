package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"

	"stockly/internal/dashboard"
	"stockly/internal/metrics"
	"stockly/internal/provider"
	"stockly/internal/render"
	"stockly/internal/stats"
	"stockly/internal/statement"
)

const missing = "-"

func cell(u metrics.Unit, v null.Float) string {
	if !v.Valid {
		return missing
	}
	return render.FormatValue(u, v.Float64)
}

func row(cells ...string) string {
	return "| " + strings.Join(cells, " | ") + " |\n"
}

func header(cols ...string) string {
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	return row(cols...) + row(seps...)
}

func catalogMarkdown(ms []metrics.Metric, pages []metrics.Page) string {
	var b strings.Builder
	b.WriteString("# Metrics\n\n")
	b.WriteString(header("ID", "Title", "Unit", "Source", "TTM"))
	for _, m := range ms {
		ttm := ""
		if m.HasTTM() {
			ttm = "yes"
		}
		b.WriteString(row(m.ID, m.Title, string(m.Unit), string(m.Family), ttm))
	}
	b.WriteString("\n# Pages\n\n")
	for _, p := range pages {
		fmt.Fprintf(&b, "- **%s** (%s): %s\n", p.Title, p.ID, strings.Join(p.Metrics, ", "))
	}
	return b.String()
}

func metricMarkdown(c dashboard.MetricChart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n\n", c.Symbol, c.Metric.Title)
	if len(c.Points) == 0 {
		b.WriteString("No data.\n")
		return b.String()
	}
	b.WriteString(header("Period", c.Metric.Axis))
	for i, p := range c.Points {
		b.WriteString(row(c.Labels[i], cell(c.Metric.Unit, p.Value)))
	}
	return b.String()
}

func compareMarkdown(r dashboard.ComparisonResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Metric.Title)
	if r.Set.FloorYear != "" {
		fmt.Fprintf(&b, "Periods after %s.\n\n", r.Set.FloorYear)
	}
	cols := append([]string{"Symbol"}, r.Categories...)
	b.WriteString(header(cols...))
	for _, e := range r.Set.Entries {
		byLabel := make(map[string]null.Float, len(e.Points))
		for i, l := range e.Labels() {
			byLabel[l] = e.Points[i].Value
		}
		cells := []string{e.Symbol}
		for _, c := range r.Categories {
			cells = append(cells, cell(r.Metric.Unit, byLabel[c]))
		}
		b.WriteString(row(cells...))
	}
	if len(r.Errors) > 0 {
		b.WriteString("\n")
		for _, e := range r.Set.Entries {
			if msg, ok := r.Errors[e.Symbol]; ok {
				fmt.Fprintf(&b, "- %s: %s\n", e.Symbol, msg)
			}
		}
	}
	return b.String()
}

func pageMarkdown(r dashboard.PageResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n\n", r.Symbol, r.Page.Title)
	for _, c := range r.Charts {
		fmt.Fprintf(&b, "## %s\n\n", c.Metric.Title)
		if len(c.Points) == 0 {
			b.WriteString("No data.\n\n")
			continue
		}
		b.WriteString(header(c.Labels...))
		cells := make([]string, len(c.Points))
		for i, p := range c.Points {
			cells[i] = cell(c.Metric.Unit, p.Value)
		}
		b.WriteString(row(cells...))
		b.WriteString("\n")
	}
	return b.String()
}

func overlayMarkdown(r dashboard.OverlayResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s vs %s\n\n", r.Symbol, r.MetricA.Title, r.MetricB.Title)
	b.WriteString(header("Period", r.MetricA.Title, r.MetricB.Title))
	for i, p := range r.Periods {
		b.WriteString(row(p, cell(r.MetricA.Unit, r.A[i]), cell(r.MetricB.Unit, r.B[i])))
	}
	return b.String()
}

func statementMarkdown(t statement.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s statement (%s)\n\n", t.Symbol, t.Kind, t.Frequency)
	if len(t.Columns) == 0 {
		b.WriteString("No data.\n")
		return b.String()
	}
	b.WriteString(header(append([]string{"Breakdown"}, t.Columns...)...))
	for _, r := range t.Rows {
		cells := []string{r.Label}
		for _, c := range r.Cells {
			if c.Valid {
				cells = append(cells, c.String)
			} else {
				cells = append(cells, missing)
			}
		}
		b.WriteString(row(cells...))
	}
	return b.String()
}

func earningsMarkdown(r dashboard.EarningsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s earnings\n\n", r.Symbol)
	b.WriteString(header("Quarter", "EPS", "Estimate", "Surprise", "Revenue", "Revenue estimate"))
	for _, p := range r.Recent {
		surprise := missing
		if p.SurprisePercent.Valid {
			surprise = fmt.Sprintf("%+.1f%%", p.SurprisePercent.Float64)
		}
		b.WriteString(row(
			p.Date,
			fmt.Sprintf("%.2f", p.EPS),
			fmt.Sprintf("%.2f", p.EPSEstimate),
			surprise,
			render.FormatValue(metrics.Currency, p.Revenue),
			render.FormatValue(metrics.Currency, p.RevenueEstimate),
		))
	}
	return b.String()
}

func segmentsMarkdown(r dashboard.SegmentsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s revenue by %s\n\n", r.Symbol, r.Kind)
	if len(r.Dates) == 0 {
		b.WriteString("No data.\n")
		return b.String()
	}
	b.WriteString(header(append([]string{"Segment"}, r.Dates...)...))
	for _, s := range r.Segments {
		cells := []string{s.Name}
		for _, v := range s.Values {
			cells = append(cells, render.FormatValue(metrics.Currency, v))
		}
		b.WriteString(row(cells...))
	}
	return b.String()
}

func statsMarkdown(s stats.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s", s.Symbol)
	if s.Currency.Valid {
		fmt.Fprintf(&b, " (%s)", s.Currency.String)
	}
	b.WriteString("\n\n")
	if s.DayChange.Valid {
		fmt.Fprintf(&b, "Today: %+.2f%%\n\n", s.DayChange.Float64)
	}
	b.WriteString(header("Statistic", "Value"))
	for _, it := range s.Items {
		v := missing
		if it.Value.Valid {
			v = humanize.FormatFloat("#,###.##", it.Value.Float64)
			if it.Percent {
				v += "%"
			}
		}
		b.WriteString(row(it.Label, v))
	}
	return b.String()
}

func historyMarkdown(r dashboard.HistoryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", r.Symbol, r.Window)
	if r.ChangePercent.Valid {
		fmt.Fprintf(&b, "Change: %+.2f%%\n\n", r.ChangePercent.Float64)
	}
	b.WriteString(header("Date", "Open", "High", "Low", "Close", "Volume"))
	for _, bar := range r.Bars {
		b.WriteString(row(
			bar.Time.Format("2006-01-02"),
			cell(metrics.Ratio, bar.Open),
			cell(metrics.Ratio, bar.High),
			cell(metrics.Ratio, bar.Low),
			fmt.Sprintf("%.2f", bar.Close),
			cell(metrics.Count, bar.Volume),
		))
	}
	return b.String()
}

func searchMarkdown(hits []provider.Company) string {
	if len(hits) == 0 {
		return "No matches.\n"
	}
	var b strings.Builder
	b.WriteString(header("Symbol", "Name", "Exchange", "Currency"))
	for _, h := range hits {
		b.WriteString(row(h.Symbol, h.Name, h.Exchange, h.Currency))
	}
	return b.String()
}

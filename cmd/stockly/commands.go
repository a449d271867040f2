package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"stockly/internal/config"
	"stockly/internal/dashboard"
	"stockly/internal/metrics"
	"stockly/internal/provider"
	"stockly/internal/render"
	"stockly/internal/stats"
	"stockly/internal/statement"
)

var commands = []subcommands.Command{
	&metricsCmd{},
	&metricCmd{},
	&compareCmd{},
	&pageCmd{},
	&overlayCmd{},
	&statementCmd{},
	&earningsCmd{},
	&segmentsCmd{},
	&statsCmd{},
	&historyCmd{},
	&searchCmd{},
	&chartCmd{},
}

// execute builds the service, fetches one view and prints it.
func execute[T any](ctx context.Context, fetch func(context.Context, *dashboard.Service) (T, error), markdown func(T) string) subcommands.ExitStatus {
	svc, err := service()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	v, err := fetch(ctx, svc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(markdown(v))
	return subcommands.ExitSuccess
}

func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func usageError(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

type metricsCmd struct{}

func (*metricsCmd) Name() string           { return "metrics" }
func (*metricsCmd) Synopsis() string       { return "list chartable metrics and pages" }
func (*metricsCmd) Usage() string          { return "stockly metrics\n" }
func (*metricsCmd) SetFlags(*flag.FlagSet) {}
func (*metricsCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	if *asJSON {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]any{"metrics": metrics.All(), "pages": metrics.Pages()})
		return subcommands.ExitSuccess
	}
	printMarkdown(catalogMarkdown(metrics.All(), metrics.Pages()))
	return subcommands.ExitSuccess
}

type metricCmd struct {
	metric, period string
}

func (*metricCmd) Name() string     { return "metric" }
func (*metricCmd) Synopsis() string { return "chart one metric for one symbol" }
func (*metricCmd) Usage() string {
	return `stockly metric -m <metric> [-p annual|quarter] <symbol>

  Prints a metric per period, oldest first, TTM last when available.
`
}

func (c *metricCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.metric, "m", "pe_ratio", "metric id (see 'stockly metrics')")
	f.StringVar(&c.period, "p", "annual", "period (annual, quarter)")
}

func (c *metricCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one symbol")
	}
	period, err := provider.ParsePeriod(c.period)
	if err != nil {
		return usageError("%v", err)
	}
	return execute(ctx, func(ctx context.Context, svc *dashboard.Service) (dashboard.MetricChart, error) {
		return svc.Metric(ctx, f.Arg(0), c.metric, period)
	}, metricMarkdown)
}

type compareCmd struct {
	metric, period string
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare one metric across symbols" }
func (*compareCmd) Usage() string {
	return `stockly compare -m <metric> [-p annual|quarter] [symbol...]

  Without symbols the configured default comparison set is used.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.metric, "m", "pe_ratio", "metric id")
	f.StringVar(&c.period, "p", "annual", "period (annual, quarter)")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := provider.ParsePeriod(c.period)
	if err != nil {
		return usageError("%v", err)
	}
	symbols := config.SplitSymbols(strings.Join(f.Args(), ","))
	return execute(ctx, func(ctx context.Context, svc *dashboard.Service) (dashboard.ComparisonResult, error) {
		if len(symbols) == 0 {
			symbols = svc.Config().DefaultCompare
		}
		return svc.Compare(ctx, symbols, c.metric, period)
	}, compareMarkdown)
}

type pageCmd struct {
	page, period string
}

func (*pageCmd) Name() string     { return "page" }
func (*pageCmd) Synopsis() string { return "print every metric of a page for one symbol" }
func (*pageCmd) Usage() string {
	return "stockly page -page profitability|valuation|health [-p annual|quarter] <symbol>\n"
}

func (c *pageCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.page, "page", "valuation", "page id")
	f.StringVar(&c.period, "p", "annual", "period (annual, quarter)")
}

func (c *pageCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one symbol")
	}
	period, err := provider.ParsePeriod(c.period)
	if err != nil {
		return usageError("%v", err)
	}
	return execute(ctx, func(ctx context.Context, svc *dashboard.Service) (dashboard.PageResult, error) {
		return svc.Page(ctx, f.Arg(0), c.page, period)
	}, pageMarkdown)
}

type overlayCmd struct {
	a, b, period string
}

func (*overlayCmd) Name() string     { return "overlay" }
func (*overlayCmd) Synopsis() string { return "join two metrics of one symbol on common periods" }
func (*overlayCmd) Usage() string {
	return "stockly overlay [-a free_cash_flow] [-b net_income] <symbol>\n"
}

func (c *overlayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.a, "a", "free_cash_flow", "first metric")
	f.StringVar(&c.b, "b", "net_income", "second metric")
	f.StringVar(&c.period, "p", "annual", "period (annual, quarter)")
}

func (c *overlayCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one symbol")
	}
	period, err := provider.ParsePeriod(c.period)
	if err != nil {
		return usageError("%v", err)
	}
	return execute(ctx, func(ctx context.Context, svc *dashboard.Service) (dashboard.OverlayResult, error) {
		return svc.Overlay(ctx, f.Arg(0), c.a, c.b, period)
	}, overlayMarkdown)
}

type statementCmd struct {
	kind, freq string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "print a financial statement" }
func (*statementCmd) Usage() string {
	return "stockly statement [-t income|balance|cashflow] [-f yearly|quarterly] <symbol>\n"
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "t", "income", "statement (income, balance, cashflow)")
	f.StringVar(&c.freq, "f", "yearly", "timeframe (yearly, quarterly)")
}

func (c *statementCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one symbol")
	}
	kind, err := provider.ParseStatementKind(c.kind)
	if err != nil {
		return usageError("%v", err)
	}
	freq, err := provider.ParseFrequency(c.freq)
	if err != nil {
		return usageError("%v", err)
	}
	return execute(ctx, func(ctx context.Context, svc *dashboard.Service) (statement.Table, error) {
		return svc.Statement(ctx, f.Arg(0), kind, freq)
	}, statementMarkdown)
}

type earningsCmd struct{}

func (*earningsCmd) Name() string           { return "earnings" }
func (*earningsCmd) Synopsis() string       { return "print reported against estimated earnings" }
func (*earningsCmd) Usage() string          { return "stockly earnings <symbol>\n" }
func (*earningsCmd) SetFlags(*flag.FlagSet) {}

func (c *earningsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one symbol")
	}
	return execute(ctx, func(ctx context.Context, svc *dashboard.Service) (dashboard.EarningsResult, error) {
		return svc.Earnings(ctx, f.Arg(0))
	}, earningsMarkdown)
}

type segmentsCmd struct {
	kind, period string
}

func (*segmentsCmd) Name() string     { return "segments" }
func (*segmentsCmd) Synopsis() string { return "print revenue by product or region" }
func (*segmentsCmd) Usage() string {
	return "stockly segments [-k product|geographic] [-p annual|quarter] <symbol>\n"
}

func (c *segmentsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "product", "segmentation (product, geographic)")
	f.StringVar(&c.period, "p", "annual", "period (annual, quarter)")
}

func (c *segmentsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one symbol")
	}
	kind, err := dashboard.ParseSegmentKind(c.kind)
	if err != nil {
		return usageError("%v", err)
	}
	period, err := provider.ParsePeriod(c.period)
	if err != nil {
		return usageError("%v", err)
	}
	return execute(ctx, func(ctx context.Context, svc *dashboard.Service) (dashboard.SegmentsResult, error) {
		return svc.Segments(ctx, f.Arg(0), kind, period)
	}, segmentsMarkdown)
}

type statsCmd struct{}

func (*statsCmd) Name() string           { return "stats" }
func (*statsCmd) Synopsis() string       { return "print basic stock statistics" }
func (*statsCmd) Usage() string          { return "stockly stats <symbol>\n" }
func (*statsCmd) SetFlags(*flag.FlagSet) {}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one symbol")
	}
	return execute(ctx, func(ctx context.Context, svc *dashboard.Service) (stats.Stats, error) {
		return svc.Stats(ctx, f.Arg(0))
	}, statsMarkdown)
}

type historyCmd struct {
	window string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "print daily closes and the change over a window" }
func (*historyCmd) Usage() string {
	return "stockly history [-w 1wk|1mo|3mo|6mo|1y|2y|5y|10y|max] <symbol>\n"
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.window, "w", "1mo", "lookback window")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageError("want exactly one symbol")
	}
	window, err := provider.ParseWindow(c.window)
	if err != nil {
		return usageError("%v", err)
	}
	return execute(ctx, func(ctx context.Context, svc *dashboard.Service) (dashboard.HistoryResult, error) {
		return svc.History(ctx, f.Arg(0), window)
	}, historyMarkdown)
}

type searchCmd struct{}

func (*searchCmd) Name() string           { return "search" }
func (*searchCmd) Synopsis() string       { return "find companies by name or ticker" }
func (*searchCmd) Usage() string          { return "stockly search <query...>\n" }
func (*searchCmd) SetFlags(*flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return usageError("missing query")
	}
	return execute(ctx, func(ctx context.Context, svc *dashboard.Service) ([]provider.Company, error) {
		return svc.Search(ctx, query)
	}, searchMarkdown)
}

type chartCmd struct {
	kind, metric, period, window, format, out string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render a chart image" }
func (*chartCmd) Usage() string {
	return `stockly chart [-type metric|compare|history] [-m metric] [-w window] [-format png|svg] -o <file> <symbol...>
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "type", "metric", "chart type (metric, compare, history)")
	f.StringVar(&c.metric, "m", "pe_ratio", "metric id")
	f.StringVar(&c.period, "p", "annual", "period (annual, quarter)")
	f.StringVar(&c.window, "w", "1y", "history window")
	f.StringVar(&c.format, "format", "png", "image format (png, svg)")
	f.StringVar(&c.out, "o", "", "output file")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.out == "" {
		return usageError("missing -o output file")
	}
	format, err := render.ParseFormat(c.format)
	if err != nil {
		return usageError("%v", err)
	}
	svc, err := service()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	var buf bytes.Buffer
	if err := c.draw(ctx, svc, &buf, format, f.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.out, buf.Bytes(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("wrote %s\n", c.out)
	return subcommands.ExitSuccess
}

func (c *chartCmd) draw(ctx context.Context, svc *dashboard.Service, buf *bytes.Buffer, format render.Format, args []string) error {
	opts := render.Options{Format: format}
	switch c.kind {
	case "metric", "":
		if len(args) != 1 {
			return fmt.Errorf("want exactly one symbol")
		}
		period, err := provider.ParsePeriod(c.period)
		if err != nil {
			return err
		}
		chart, err := svc.Metric(ctx, args[0], c.metric, period)
		if err != nil {
			return err
		}
		opts.Title, opts.Axis, opts.Unit = fmt.Sprintf("%s: %s", chart.Symbol, chart.Metric.Title), chart.Metric.Axis, chart.Metric.Unit
		return render.MetricBars(buf, opts, chart.Labels, chart.Points, chart.Color)
	case "compare":
		period, err := provider.ParsePeriod(c.period)
		if err != nil {
			return err
		}
		symbols := config.SplitSymbols(strings.Join(args, ","))
		if len(symbols) == 0 {
			symbols = svc.Config().DefaultCompare
		}
		res, err := svc.Compare(ctx, symbols, c.metric, period)
		if err != nil {
			return err
		}
		opts.Title, opts.Axis, opts.Unit = res.Metric.Title, res.Metric.Axis, res.Metric.Unit
		return render.Comparison(buf, opts, res.Set)
	case "history":
		if len(args) != 1 {
			return fmt.Errorf("want exactly one symbol")
		}
		window, err := provider.ParseWindow(c.window)
		if err != nil {
			return err
		}
		res, err := svc.History(ctx, args[0], window)
		if err != nil {
			return err
		}
		opts.Title, opts.Axis = fmt.Sprintf("%s (%s)", res.Symbol, res.Window), "Close"
		return render.PriceHistory(buf, opts, res.Symbol, res.Bars)
	}
	return fmt.Errorf("unknown chart type %q", c.kind)
}

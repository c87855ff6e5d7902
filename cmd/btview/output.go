package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/newthinker/btview/internal/chart"
)

// Output formats
const (
	formatSummary = "summary"
	formatJSON    = "json"
)

func writeView(w io.Writer, view chart.View, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case formatSummary, "":
		return writeSummary(w, view)
	}
	return fmt.Errorf("unknown output format %q (want summary or json)", format)
}

func writeSummary(w io.Writer, view chart.View) error {
	s := view.Summary

	fmt.Fprintln(w, "=== Backtest Result ===")
	fmt.Fprintf(w, "Strategy: %s\n", s.StrategyName)
	fmt.Fprintf(w, "Symbol:   %s\n", s.Symbol)
	fmt.Fprintf(w, "Period:   %s to %s\n", s.StartDate, s.EndDate)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Initial capital: %.2f\n", s.InitialCapital)
	fmt.Fprintf(w, "Final value:     %.2f\n", s.FinalValue)
	fmt.Fprintf(w, "Total return:    %.2f%%\n", s.TotalReturnPct)
	fmt.Fprintf(w, "Annual return:   %.2f%%\n", s.AnnualReturnPct)
	fmt.Fprintf(w, "Sharpe ratio:    %.2f\n", s.SharpeRatio)
	fmt.Fprintf(w, "Max drawdown:    %.2f%%\n", s.MaxDrawdownPct)
	fmt.Fprintf(w, "Trades:          %d (win rate %.2f%%)\n", s.TotalTrades, s.WinRatePct)

	if view.Chart != nil {
		dd := view.Chart.Drawdown
		if !dd.Degenerate() && dd.PeakIndex < len(view.Chart.EquitySeries) && dd.TroughIndex < len(view.Chart.EquitySeries) {
			peak := view.Chart.EquitySeries[dd.PeakIndex]
			trough := view.Chart.EquitySeries[dd.TroughIndex]
			fmt.Fprintf(w, "Equity drawdown: %.2f%% (%s -> %s)\n",
				chart.RoundCents(dd.Ratio*100), peak.Date, trough.Date)
		}
		if len(view.Chart.Omitted) > 0 {
			fmt.Fprintf(w, "Omitted:         %v\n", view.Chart.Omitted)
		}
	}

	if len(view.Trades) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tENTRY\tPRICE\tEXIT\tPRICE\tQTY\tPNL\tRESULT\tON CHART")
	for _, t := range view.Trades {
		result := "loss"
		if t.Win {
			result = "win"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%.2f\t%d\t%.2f\t%s\t%t\n",
			t.ID, t.EntryDate, t.EntryPrice, t.ExitDate, t.ExitPrice, t.Quantity, t.PnL, result, t.OnChart)
	}
	return tw.Flush()
}

package chart

import "github.com/newthinker/btview/internal/core"

// Summary is the headline block shown above the charts.
// Percentages are scaled by 100 and rounded to cents.
type Summary struct {
	Symbol          string  `json:"symbol"`
	StrategyName    string  `json:"strategy_name"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	InitialCapital  float64 `json:"initial_capital"`
	FinalValue      float64 `json:"final_value"`
	TotalReturnPct  float64 `json:"total_return_pct"`
	AnnualReturnPct float64 `json:"annual_return_pct"`
	SharpeRatio     float64 `json:"sharpe_ratio"`
	MaxDrawdownPct  float64 `json:"max_drawdown_pct"`
	TotalTrades     int     `json:"total_trades"`
	WinRatePct      float64 `json:"win_rate_pct"`
	ProfitLossRatio float64 `json:"profit_loss_ratio"`
}

// TradeRow is one line of the trade log
type TradeRow struct {
	core.Trade
	EntryAmount float64 `json:"entry_amount"`
	ExitAmount  float64 `json:"exit_amount"`
	Win         bool    `json:"win"`
	OnChart     bool    `json:"on_chart"`
}

// View is everything a client needs to render a backtest result
type View struct {
	Summary Summary    `json:"summary"`
	Trades  []TradeRow `json:"trades"`
	Chart   *ChartData `json:"chart"`
}

// NewView builds the presentation view of result from its chart data
func NewView(result *core.BacktestResult, data *ChartData) View {
	v := View{
		Summary: Summary{
			Symbol:          result.Symbol,
			StrategyName:    result.StrategyName,
			StartDate:       result.StartDate,
			EndDate:         result.EndDate,
			InitialCapital:  result.InitialCapital,
			FinalValue:      RoundCents(result.FinalValue),
			TotalReturnPct:  RoundCents(result.TotalReturn * 100),
			AnnualReturnPct: RoundCents(result.Metrics.AnnualReturn * 100),
			SharpeRatio:     RoundCents(result.SharpeRatio),
			MaxDrawdownPct:  RoundCents(result.MaxDrawdown * 100),
			TotalTrades:     result.TotalTrades,
			WinRatePct:      RoundCents(result.WinRate * 100),
			ProfitLossRatio: RoundCents(result.Metrics.ProfitLossRatio),
		},
		Trades: make([]TradeRow, len(result.Trades)),
		Chart:  data,
	}

	// a trade is on the chart when both its dates are candles
	dates := make(DateSet)
	if data != nil {
		for _, p := range data.PriceSeries {
			dates.Add(p.Date)
		}
	}

	for i, t := range result.Trades {
		v.Trades[i] = TradeRow{
			Trade:       t,
			EntryAmount: RoundCents(t.EntryAmount()),
			ExitAmount:  RoundCents(t.ExitAmount()),
			Win:         t.IsWin(),
			OnChart:     dates.Has(t.EntryDate) && dates.Has(t.ExitDate),
		}
	}

	return v
}

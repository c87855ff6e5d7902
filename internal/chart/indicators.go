package chart

import (
	"fmt"

	"github.com/newthinker/btview/internal/core"
	"github.com/newthinker/btview/internal/indicator"
)

// Panels an indicator series is drawn on
const (
	PanelPrice      = "price"
	PanelOscillator = "oscillator"
)

// Indicator windows, matching the engine's default strategy parameters
const (
	ShortMAWindow = 5
	LongMAWindow  = 20
	RSIPeriod     = 14
)

// IndicatorSeries is a line drawn alongside the candles. Values has one
// entry per candle; nil marks warm-up positions with no value.
type IndicatorSeries struct {
	Name   string     `json:"name"`
	Panel  string     `json:"panel"`
	Values []*float64 `json:"values"`
}

// Indicators returns the indicator lines for the result's strategy: RSI for
// rsi results, short and long moving averages of close otherwise.
func Indicators(result *core.BacktestResult) []IndicatorSeries {
	if !result.HasKline() {
		return nil
	}

	closes := make([]float64, len(result.Kline))
	for i, c := range result.Kline {
		closes[i] = c.Close
	}

	if result.StrategyName == "rsi" {
		return []IndicatorSeries{
			newIndicatorSeries(fmt.Sprintf("rsi%d", RSIPeriod), PanelOscillator, indicator.RSI(closes, RSIPeriod), len(closes)),
		}
	}
	return []IndicatorSeries{
		newIndicatorSeries(fmt.Sprintf("ma%d", ShortMAWindow), PanelPrice, indicator.SMA(closes, ShortMAWindow), len(closes)),
		newIndicatorSeries(fmt.Sprintf("ma%d", LongMAWindow), PanelPrice, indicator.SMA(closes, LongMAWindow), len(closes)),
	}
}

func newIndicatorSeries(name, panel string, values []float64, n int) IndicatorSeries {
	padded := indicator.Pad(values, n)
	for _, v := range padded {
		if v != nil {
			*v = RoundCents(*v)
		}
	}
	return IndicatorSeries{Name: name, Panel: panel, Values: padded}
}

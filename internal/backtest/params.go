package backtest

import (
	"encoding/json"
	"fmt"
)

// Strategy identifiers understood by the engine
const (
	StrategyMACross = "ma_cross"
	StrategyRSI     = "rsi"
)

// StrategyInfo describes one entry of the engine's strategy catalog
type StrategyInfo struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Params []string `json:"params"`
}

// Catalog lists the strategies the engine accepts
var Catalog = []StrategyInfo{
	{ID: StrategyMACross, Name: "MA cross", Params: []string{"short_window", "long_window", "position_ratio"}},
	{ID: StrategyRSI, Name: "RSI (14, 30/70)", Params: []string{"period", "oversold", "overbought", "position_ratio"}},
}

// KnownStrategy reports whether id is in the catalog
func KnownStrategy(id string) bool {
	for _, s := range Catalog {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Params is the strategy-specific parameter block of a request.
// Implementations are MACrossParams and RSIParams.
type Params interface {
	Strategy() string
	Validate() error
}

// MACrossParams configures the moving-average crossover strategy
type MACrossParams struct {
	ShortWindow   int     `json:"short_window"`
	LongWindow    int     `json:"long_window"`
	PositionRatio float64 `json:"position_ratio"`
}

// DefaultMACrossParams returns the engine's defaults
func DefaultMACrossParams() MACrossParams {
	return MACrossParams{ShortWindow: 5, LongWindow: 20, PositionRatio: 1.0}
}

func (p MACrossParams) Strategy() string { return StrategyMACross }

func (p MACrossParams) Validate() error {
	if p.ShortWindow < 1 {
		return fmt.Errorf("short_window must be positive, got %d", p.ShortWindow)
	}
	if p.LongWindow <= p.ShortWindow {
		return fmt.Errorf("long_window (%d) must exceed short_window (%d)", p.LongWindow, p.ShortWindow)
	}
	return validateRatio(p.PositionRatio)
}

// RSIParams configures the RSI threshold strategy
type RSIParams struct {
	Period        int     `json:"period"`
	Oversold      float64 `json:"oversold"`
	Overbought    float64 `json:"overbought"`
	PositionRatio float64 `json:"position_ratio"`
}

// DefaultRSIParams returns the engine's defaults
func DefaultRSIParams() RSIParams {
	return RSIParams{Period: 14, Oversold: 30, Overbought: 70, PositionRatio: 1.0}
}

func (p RSIParams) Strategy() string { return StrategyRSI }

func (p RSIParams) Validate() error {
	if p.Period < 2 {
		return fmt.Errorf("period must be at least 2, got %d", p.Period)
	}
	if p.Oversold < 0 || p.Overbought > 100 || p.Oversold >= p.Overbought {
		return fmt.Errorf("thresholds must satisfy 0 <= oversold < overbought <= 100, got %g/%g", p.Oversold, p.Overbought)
	}
	return validateRatio(p.PositionRatio)
}

func validateRatio(r float64) error {
	if r <= 0 || r > 1 {
		return fmt.Errorf("position_ratio must be in (0, 1], got %g", r)
	}
	return nil
}

// DefaultParams returns the default parameter block for strategy
func DefaultParams(strategy string) (Params, error) {
	switch strategy {
	case StrategyMACross:
		return DefaultMACrossParams(), nil
	case StrategyRSI:
		return DefaultRSIParams(), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", strategy)
}

// DecodeParams decodes raw over the strategy's defaults, so omitted
// fields keep their default values. Unknown fields are rejected.
func DecodeParams(strategy string, raw json.RawMessage) (Params, error) {
	switch strategy {
	case StrategyMACross:
		p := DefaultMACrossParams()
		if err := decodeStrict(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case StrategyRSI:
		p := DefaultRSIParams()
		if err := decodeStrict(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", strategy)
}

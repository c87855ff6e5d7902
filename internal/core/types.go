package core

// Side is the direction of a trade as reported by the engine
type Side string

// Adjustment is the price adjustment mode used when loading daily bars
type Adjustment string

const (
	AdjustForward  Adjustment = "qfq"
	AdjustBackward Adjustment = "hfq"
	AdjustNone     Adjustment = "none"
)

// Valid reports whether a is one of the known adjustment modes
func (a Adjustment) Valid() bool {
	switch a {
	case AdjustForward, AdjustBackward, AdjustNone:
		return true
	}
	return false
}

// EquityPoint is the portfolio net worth at the close of one trading day
type EquityPoint struct {
	Index int     `json:"index"`
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Candle represents one daily OHLCV bar
type Candle struct {
	Date     string   `json:"date"`
	Open     float64  `json:"open"`
	High     float64  `json:"high"`
	Low      float64  `json:"low"`
	Close    float64  `json:"close"`
	Volume   float64  `json:"volume"`
	Turnover *float64 `json:"turnover,omitempty"`
}

// Trade is a round trip executed by the engine
type Trade struct {
	ID         string  `json:"trade_id"`
	EntryDate  string  `json:"entry_date"`
	EntryPrice float64 `json:"entry_price"`
	ExitDate   string  `json:"exit_date"`
	ExitPrice  float64 `json:"exit_price"`
	Quantity   int     `json:"quantity"`
	PnL        float64 `json:"pnl"`
	PnLRate    float64 `json:"pnl_rate"`
	Side       Side    `json:"side"`
	Commission float64 `json:"commission"`
	Reason     string  `json:"reason"`
}

// EntryAmount returns the notional value at entry
func (t Trade) EntryAmount() float64 {
	return t.EntryPrice * float64(t.Quantity)
}

// ExitAmount returns the notional value at exit
func (t Trade) ExitAmount() float64 {
	return t.ExitPrice * float64(t.Quantity)
}

// IsWin returns true if the trade was profitable
func (t Trade) IsWin() bool {
	return t.PnL > 0
}

// Metrics holds the performance figures computed by the engine.
// They are passed through untouched.
type Metrics struct {
	ReturnRate      float64 `json:"return_rate"`
	AnnualReturn    float64 `json:"annual_return"`
	Volatility      float64 `json:"volatility"`
	SharpeRatio     float64 `json:"sharpe_ratio"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	WinRate         float64 `json:"win_rate"`
	ProfitLossRatio float64 `json:"profit_loss_ratio"`
}

// BacktestResult is the immutable snapshot returned by the engine for one run.
// EquityCurve and Kline are index-aligned: position i in both is the same day.
type BacktestResult struct {
	Symbol         string    `json:"symbol"`
	StrategyName   string    `json:"strategy_name"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	InitialCapital float64   `json:"initial_capital"`
	FinalValue     float64   `json:"final_value"`
	TotalReturn    float64   `json:"total_return"`
	TotalTrades    int       `json:"total_trades"`
	WinRate        float64   `json:"win_rate"`
	SharpeRatio    float64   `json:"sharpe_ratio"`
	MaxDrawdown    float64   `json:"max_drawdown"`
	Metrics        Metrics   `json:"metrics"`
	EquityCurve    []float64 `json:"equity_curve"`
	Kline          []Candle  `json:"kline"`
	Trades         []Trade   `json:"trades"`
}

// EquityPoints pairs each equity value with the date of the candle at the
// same index. Dates are left empty past the end of the kline.
//
// A seeded curve opens with the initial capital before the first bar; that
// value is skipped so the remaining points line up with the kline.
func (r *BacktestResult) EquityPoints() []EquityPoint {
	values := r.EquityCurve
	if r.Seeded() {
		values = values[1:]
	}

	points := make([]EquityPoint, len(values))
	for i, v := range values {
		points[i] = EquityPoint{Index: i, Value: v}
		if i < len(r.Kline) {
			points[i].Date = r.Kline[i].Date
		}
	}
	return points
}

// Seeded reports whether the equity curve carries one extra leading value,
// the initial capital recorded before the first bar.
func (r *BacktestResult) Seeded() bool {
	return len(r.Kline) > 0 && len(r.EquityCurve) == len(r.Kline)+1
}

// HasKline reports whether the result carries a usable candle series
func (r *BacktestResult) HasKline() bool {
	return len(r.Kline) > 0
}

// Aligned reports whether every equity point can be dated by the kline.
// A seeded curve counts as aligned, and so does a result without a kline.
func (r *BacktestResult) Aligned() bool {
	if !r.HasKline() {
		return true
	}
	return len(r.EquityCurve) == len(r.Kline) || r.Seeded()
}

package chart

import (
	"math"

	"github.com/newthinker/btview/internal/core"
	"github.com/shopspring/decimal"
)

// Sections that can be left out of ChartData when the result lacks their input
const (
	SectionPrice  = "price"
	SectionEquity = "equity"
)

// PricePoint is one candle of the price/volume chart
type PricePoint struct {
	Date            string    `json:"date"`
	Open            float64   `json:"open"`
	High            float64   `json:"high"`
	Low             float64   `json:"low"`
	Close           float64   `json:"close"`
	Volume          float64   `json:"volume"`
	Direction       Direction `json:"direction"`
	BodyMagnitude   float64   `json:"body_magnitude"`
	ShadowMagnitude float64   `json:"shadow_magnitude"`
	HasBuyMarker    bool      `json:"has_buy_marker"`
	HasSellMarker   bool      `json:"has_sell_marker"`
}

// EquitySample is one point of the equity chart
type EquitySample struct {
	Day      int     `json:"day"`
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
	IsPeak   bool    `json:"is_peak"`
	IsTrough bool    `json:"is_trough"`
}

// ChartData is the render-ready form of a backtest result
type ChartData struct {
	PriceSeries  []PricePoint      `json:"price_series,omitempty"`
	EquitySeries []EquitySample    `json:"equity_series,omitempty"`
	Drawdown     DrawdownWindow    `json:"drawdown"`
	Overlay      []AlignedTrade    `json:"overlay,omitempty"`
	Indicators   []IndicatorSeries `json:"indicators,omitempty"`
	Unresolved   int               `json:"unresolved"`
	Omitted      []string          `json:"omitted,omitempty"`
}

// RoundCents rounds v to two decimal places, halves away from zero.
// The decimal is built from the shortest representation of v, so 123.455
// becomes 123.46 even though its binary value sits just below the half.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Assemble combines the derived structures into chart series.
//
// Equity values are rounded here and nowhere else. Peak and trough flags are
// set on the drawdown window's indices only when the window is not degenerate.
// Geometry missing for a candle is derived on the spot.
func Assemble(candles []core.Candle, geometry []CandleGeometry, alignment Alignment, curve []core.EquityPoint, window DrawdownWindow) ChartData {
	data := ChartData{
		Drawdown:   window,
		Overlay:    alignment.Overlay(),
		Unresolved: alignment.UnresolvedCount(),
	}

	if len(candles) > 0 {
		data.PriceSeries = make([]PricePoint, len(candles))
		for i, c := range candles {
			g := geometryAt(geometry, candles, i)
			data.PriceSeries[i] = PricePoint{
				Date:            c.Date,
				Open:            c.Open,
				High:            c.High,
				Low:             c.Low,
				Close:           c.Close,
				Volume:          c.Volume,
				Direction:       g.Direction,
				BodyMagnitude:   g.BodyMagnitude,
				ShadowMagnitude: g.ShadowMagnitude,
				HasBuyMarker:    alignment.BuyMarked.Has(c.Date),
				HasSellMarker:   alignment.SellMarked.Has(c.Date),
			}
		}
	} else {
		data.Omitted = append(data.Omitted, SectionPrice)
	}

	if len(curve) > 0 {
		marked := !window.Degenerate()
		data.EquitySeries = make([]EquitySample, len(curve))
		for i, p := range curve {
			data.EquitySeries[i] = EquitySample{
				Day:      i + 1,
				Date:     p.Date,
				Value:    RoundCents(p.Value),
				IsPeak:   marked && i == window.PeakIndex,
				IsTrough: marked && i == window.TroughIndex,
			}
		}
	} else {
		data.Omitted = append(data.Omitted, SectionEquity)
	}

	return data
}

func geometryAt(geometry []CandleGeometry, candles []core.Candle, i int) CandleGeometry {
	if i < len(geometry) {
		return geometry[i]
	}
	return Geometry(candles[i])
}

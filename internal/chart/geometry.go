package chart

import (
	"math"

	"github.com/newthinker/btview/internal/core"
)

// Direction is the colour class of a candle
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// CandleGeometry holds the values a chart needs to draw one candle
type CandleGeometry struct {
	Direction       Direction `json:"direction"`
	BodyMagnitude   float64   `json:"body_magnitude"`
	ShadowMagnitude float64   `json:"shadow_magnitude"`
}

// Geometry derives the rendering attributes of a single candle.
//
// A flat candle (close == open) counts as up. BodyMagnitude is signed
// (close - open). ShadowMagnitude is max(high-close, open-low), a single
// combined wick length that the chart renders as-is; it is not the sum or
// max of the upper and lower wicks.
func Geometry(c core.Candle) CandleGeometry {
	dir := DirectionDown
	if c.Close >= c.Open {
		dir = DirectionUp
	}
	return CandleGeometry{
		Direction:       dir,
		BodyMagnitude:   c.Close - c.Open,
		ShadowMagnitude: math.Max(c.High-c.Close, c.Open-c.Low),
	}
}

// GeometrySeries derives geometry for every candle, index-aligned with the input
func GeometrySeries(candles []core.Candle) []CandleGeometry {
	result := make([]CandleGeometry, len(candles))
	for i, c := range candles {
		result[i] = Geometry(c)
	}
	return result
}

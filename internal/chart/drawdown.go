package chart

import "github.com/newthinker/btview/internal/core"

// DrawdownWindow is the worst peak-to-trough decline of an equity curve.
// A zero Ratio means no decline was found and both indices are 0.
type DrawdownWindow struct {
	Ratio       float64 `json:"ratio"`
	PeakIndex   int     `json:"peak_index"`
	TroughIndex int     `json:"trough_index"`
}

// Degenerate reports whether the window marks no decline
func (w DrawdownWindow) Degenerate() bool {
	return w.Ratio == 0
}

// FindDrawdown returns the pair p < t maximizing (value[p]-value[t])/value[p]
// over peaks with a positive value.
//
// Ties resolve to the earliest peak, then the earliest trough, which is the
// first maximum met by a pairwise scan ordered by peak then trough. The scan
// here is linear: for each trough it picks the best earlier peak (the highest
// positive value when the trough is positive, the first positive value when it
// is zero, the lowest positive value when it is negative).
func FindDrawdown(curve []core.EquityPoint) DrawdownWindow {
	var best DrawdownWindow
	if len(curve) < 2 {
		return best
	}

	// earliest index of the max, of the min positive and of the first positive value so far
	maxIdx, minPosIdx, firstPosIdx := -1, -1, -1

	for t := 0; t < len(curve); t++ {
		v := curve[t].Value

		if t > 0 {
			p := -1
			switch {
			case v > 0:
				if maxIdx >= 0 && curve[maxIdx].Value > 0 {
					p = maxIdx
				}
			case v == 0:
				p = firstPosIdx
			default:
				p = minPosIdx
			}

			if p >= 0 {
				peak := curve[p].Value
				ratio := (peak - v) / peak
				if ratio > best.Ratio || (ratio == best.Ratio && best.Ratio > 0 && p < best.PeakIndex) {
					best = DrawdownWindow{Ratio: ratio, PeakIndex: p, TroughIndex: t}
				}
			}
		}

		if maxIdx < 0 || v > curve[maxIdx].Value {
			maxIdx = t
		}
		if v > 0 {
			if firstPosIdx < 0 {
				firstPosIdx = t
			}
			if minPosIdx < 0 || v < curve[minPosIdx].Value {
				minPosIdx = t
			}
		}
	}

	return best
}

// FindDrawdownValues is FindDrawdown over a bare value series
func FindDrawdownValues(values []float64) DrawdownWindow {
	curve := make([]core.EquityPoint, len(values))
	for i, v := range values {
		curve[i] = core.EquityPoint{Index: i, Value: v}
	}
	return FindDrawdown(curve)
}

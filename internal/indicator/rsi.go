package indicator

import "math"

// RSI calculates the Relative Strength Index using simple rolling means of
// gains and losses. The first price contributes a zero change, so the first
// value covers prices[0:period].
// Returns slice of length: len(prices) - period + 1. A window with no
// movement at all yields NaN.
func RSI(prices []float64, period int) []float64 {
	if period < 1 || len(prices) < period {
		return []float64{}
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)

	result := make([]float64, len(avgGain))
	for i := range avgGain {
		switch {
		case avgGain[i] == 0 && avgLoss[i] == 0:
			result[i] = math.NaN()
		case avgLoss[i] == 0:
			result[i] = 100
		default:
			result[i] = 100 - 100/(1+avgGain[i]/avgLoss[i])
		}
	}
	return result
}

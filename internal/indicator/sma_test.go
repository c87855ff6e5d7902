package indicator

import (
	"math"
	"testing"
)

func TestSMA_Calculate(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}

	sma := SMA(prices, 3)

	// SMA(3) for [10,11,12,13,14,15]:
	// [0] = (10+11+12)/3 = 11
	// [1] = (11+12+13)/3 = 12
	// [2] = (12+13+14)/3 = 13
	// [3] = (13+14+15)/3 = 14

	expected := []float64{11, 12, 13, 14}

	if len(sma) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(sma))
	}

	for i, v := range expected {
		if sma[i] != v {
			t.Errorf("sma[%d] = %f, want %f", i, sma[i], v)
		}
	}
}

func TestSMA_NotEnoughData(t *testing.T) {
	prices := []float64{10, 11}
	sma := SMA(prices, 5)

	if len(sma) != 0 {
		t.Errorf("expected empty slice, got %d values", len(sma))
	}
}

func TestSMA_InvalidPeriod(t *testing.T) {
	if got := SMA([]float64{1, 2, 3}, 0); len(got) != 0 {
		t.Errorf("expected empty slice for period 0, got %v", got)
	}
}

func TestRSI_Calculate(t *testing.T) {
	prices := []float64{10, 11, 10, 12, 11}

	rsi := RSI(prices, 3)

	// changes: [0, +1, -1, +2, -1]
	// [0] gains 0,1,0 losses 0,0,1 -> 100 - 100/(1+1) = 50
	// [1] gains 1,0,2 losses 0,1,0 -> rs 3 -> 75
	// [2] gains 0,2,0 losses 1,0,1 -> rs 1 -> 50
	expected := []float64{50, 75, 50}

	if len(rsi) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(rsi))
	}
	for i, v := range expected {
		if !almostEqual(rsi[i], v, 1e-9) {
			t.Errorf("rsi[%d] = %f, want %f", i, rsi[i], v)
		}
	}
}

func TestRSI_OnlyGains(t *testing.T) {
	rsi := RSI([]float64{1, 2, 3, 4}, 2)

	for i, v := range rsi {
		if v != 100 {
			t.Errorf("rsi[%d] = %f, want 100", i, v)
		}
	}
}

func TestRSI_Flat(t *testing.T) {
	rsi := RSI([]float64{5, 5, 5}, 2)

	if len(rsi) != 2 {
		t.Fatalf("expected 2 values, got %d", len(rsi))
	}
	for i, v := range rsi {
		if !math.IsNaN(v) {
			t.Errorf("rsi[%d] = %f, want NaN", i, v)
		}
	}
}

func TestPad(t *testing.T) {
	padded := Pad([]float64{1, math.NaN(), 3}, 5)

	if len(padded) != 5 {
		t.Fatalf("expected 5 values, got %d", len(padded))
	}
	for i, want := range []*float64{nil, nil, ptr(1), nil, ptr(3)} {
		got := padded[i]
		if (got == nil) != (want == nil) || (got != nil && *got != *want) {
			t.Errorf("padded[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestPad_Empty(t *testing.T) {
	padded := Pad(nil, 3)

	for i, v := range padded {
		if v != nil {
			t.Errorf("padded[%d] = %v, want nil", i, *v)
		}
	}
}

func ptr(v float64) *float64 { return &v }

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

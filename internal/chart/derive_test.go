package chart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/newthinker/btview/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *core.BacktestResult {
	return &core.BacktestResult{
		Symbol:         "600519",
		StrategyName:   "ma_cross",
		StartDate:      "2024-01-02",
		EndDate:        "2024-01-09",
		InitialCapital: 100000,
		FinalValue:     104000,
		TotalReturn:    0.04,
		TotalTrades:    2,
		EquityCurve:    []float64{100000, 102000.455, 98000, 103000, 101000, 104000},
		Kline: []core.Candle{
			{Date: "2024-01-02", Open: 10, High: 12, Low: 9, Close: 10, Volume: 1000},
			{Date: "2024-01-03", Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 1200},
			{Date: "2024-01-04", Open: 10.5, High: 10.6, Low: 9.8, Close: 9.9, Volume: 900},
			{Date: "2024-01-05", Open: 9.9, High: 10.8, Low: 9.9, Close: 10.7, Volume: 1500},
			{Date: "2024-01-08", Open: 10.7, High: 10.9, Low: 10.1, Close: 10.2, Volume: 800},
			{Date: "2024-01-09", Open: 10.2, High: 11, Low: 10.2, Close: 10.9, Volume: 1300},
		},
		Trades: []core.Trade{
			{ID: "1", EntryDate: "2024-01-02", ExitDate: "2024-01-05", EntryPrice: 10, ExitPrice: 10.7, Quantity: 1000},
			{ID: "2", EntryDate: "2024-01-08", ExitDate: "2024-01-09", EntryPrice: 10.2, ExitPrice: 10.9, Quantity: 1000},
			{ID: "3", EntryDate: "2023-12-29", ExitDate: "2024-01-03", EntryPrice: 9.8, ExitPrice: 10.5, Quantity: 100},
		},
	}
}

func TestDerive(t *testing.T) {
	data, err := Derive(context.Background(), sampleResult())
	require.NoError(t, err)

	require.Len(t, data.PriceSeries, 6)
	require.Len(t, data.EquitySeries, 6)
	assert.Equal(t, "2024-01-03", data.EquitySeries[1].Date)
	assert.Equal(t, 102000.46, data.EquitySeries[1].Value)

	assert.Equal(t, 1, data.Drawdown.PeakIndex)
	assert.Equal(t, 2, data.Drawdown.TroughIndex)
	assert.True(t, data.EquitySeries[1].IsPeak)
	assert.True(t, data.EquitySeries[2].IsTrough)

	assert.True(t, data.PriceSeries[0].HasBuyMarker)
	assert.True(t, data.PriceSeries[3].HasSellMarker)
	assert.False(t, data.PriceSeries[1].HasSellMarker, "unresolved trade must not mark the chart")
	assert.Len(t, data.Overlay, 2)
	assert.Equal(t, 1, data.Unresolved)
	assert.Empty(t, data.Omitted)
}

func TestDerive_SeededEquityCurve(t *testing.T) {
	result := &core.BacktestResult{
		EquityCurve: []float64{100000, 100000, 90000, 95000},
		Kline: []core.Candle{
			{Date: "2024-01-02", Open: 10, High: 10, Low: 10, Close: 10},
			{Date: "2024-01-03", Open: 10, High: 10, Low: 9, Close: 9},
			{Date: "2024-01-04", Open: 9, High: 9.5, Low: 9, Close: 9.5},
		},
	}

	data, err := Derive(context.Background(), result)
	require.NoError(t, err)

	require.Len(t, data.EquitySeries, 3)
	assert.Equal(t, EquitySample{Day: 1, Date: "2024-01-02", Value: 100000, IsPeak: true}, data.EquitySeries[0])
	assert.Equal(t, EquitySample{Day: 2, Date: "2024-01-03", Value: 90000, IsTrough: true}, data.EquitySeries[1])
	assert.Equal(t, "2024-01-04", data.EquitySeries[2].Date)
	assert.Equal(t, 0, data.Drawdown.PeakIndex)
	assert.Equal(t, 1, data.Drawdown.TroughIndex)
	assert.InDelta(t, 0.1, data.Drawdown.Ratio, 1e-9)
	assert.Empty(t, data.Omitted)
}

func TestDerive_MisalignedEquityCurve(t *testing.T) {
	result := sampleResult()
	result.EquityCurve = result.EquityCurve[:4]

	data, err := Derive(context.Background(), result)
	require.NoError(t, err)

	assert.Nil(t, data.EquitySeries)
	assert.True(t, data.Drawdown.Degenerate())
	assert.Equal(t, []string{SectionEquity}, data.Omitted)
	assert.Len(t, data.PriceSeries, 6)
}

func TestDerive_MissingKline(t *testing.T) {
	result := sampleResult()
	result.Kline = nil

	data, err := Derive(context.Background(), result)
	require.NoError(t, err)

	assert.Nil(t, data.PriceSeries)
	assert.Len(t, data.EquitySeries, 6)
	assert.Equal(t, []string{SectionPrice}, data.Omitted)
	assert.Empty(t, data.Overlay)
}

func TestDerive_NilResult(t *testing.T) {
	_, err := Derive(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrNoData)
}

func TestDerive_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Derive(ctx, sampleResult())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDerive_ByteStable(t *testing.T) {
	result := sampleResult()

	first, err := Derive(context.Background(), result)
	require.NoError(t, err)
	second, err := Derive(context.Background(), result)
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, a, b)
}

package chart

import (
	"context"

	"github.com/newthinker/btview/internal/core"
	"golang.org/x/sync/errgroup"
)

// Derive turns a backtest result into chart data.
//
// Geometry, drawdown, alignment and indicators do not depend on each other
// and run concurrently; assembly waits for all of them. The only errors are a nil
// result and context cancellation.
//
// An equity curve that cannot be dated by the kline is left out and the
// equity section is reported as omitted.
func Derive(ctx context.Context, result *core.BacktestResult) (*ChartData, error) {
	if result == nil {
		return nil, core.WrapError(core.ErrNoData, nil)
	}

	var curve []core.EquityPoint
	if result.Aligned() {
		curve = result.EquityPoints()
	}

	var (
		geometry   []CandleGeometry
		window     DrawdownWindow
		alignment  Alignment
		indicators []IndicatorSeries
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		geometry = GeometrySeries(result.Kline)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		window = FindDrawdown(curve)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		alignment = Align(result.Trades, result.Kline)
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		indicators = Indicators(result)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := Assemble(result.Kline, geometry, alignment, curve, window)
	data.Indicators = indicators
	return &data, nil
}

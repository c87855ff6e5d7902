package chart

import (
	"context"
	"sync"
	"time"

	"github.com/newthinker/btview/internal/core"
	"go.uber.org/zap"
)

// Recorder receives derivation metrics
type Recorder interface {
	RecordDerivation(status string, duration float64)
	RecordCacheLookup(hit bool)
	AddUnresolvedTrades(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordDerivation(string, float64) {}
func (nopRecorder) RecordCacheLookup(bool)           {}
func (nopRecorder) AddUnresolvedTrades(int)          {}

// Derivation statuses reported to the Recorder
const (
	StatusOK         = "ok"
	StatusFailed     = "failed"
	StatusSuperseded = "superseded"
)

// Renderer derives chart data for the latest submitted result.
//
// Each call to Render supersedes the previous one: the older computation is
// cancelled and its output is dropped with ErrSuperseded, so results from
// two submissions are never mixed or cached out of order.
type Renderer struct {
	cache    *Cache
	recorder Recorder
	logger   *zap.Logger
	derive   func(context.Context, *core.BacktestResult) (*ChartData, error)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewRenderer creates a renderer backed by cache. recorder and logger may be nil.
func NewRenderer(cache *Cache, recorder Recorder, logger *zap.Logger) *Renderer {
	if cache == nil {
		cache = NewCache()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		cache:    cache,
		recorder: recorder,
		logger:   logger,
		derive:   Derive,
	}
}

// Cache returns the renderer's result cache
func (r *Renderer) Cache() *Cache {
	return r.cache
}

// Render returns chart data for result, reusing the cached data when the
// snapshot content matches the latest rendered one.
func (r *Renderer) Render(ctx context.Context, result *core.BacktestResult) (*ChartData, error) {
	if result == nil {
		return nil, core.WrapError(core.ErrNoData, nil)
	}

	ctx, gen, cancel := r.begin(ctx)
	defer cancel()

	key, err := Key(result)
	if err != nil {
		return nil, core.WrapError(core.ErrInvalidResult, err)
	}

	if data, ok := r.cache.Get(key); ok {
		r.recorder.RecordCacheLookup(true)
		return data, nil
	}
	r.recorder.RecordCacheLookup(false)

	start := time.Now()
	data, err := r.derive(ctx, result)
	elapsed := time.Since(start).Seconds()

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen {
		r.recorder.RecordDerivation(StatusSuperseded, elapsed)
		r.logger.Debug("dropping superseded chart derivation",
			zap.String("symbol", result.Symbol),
			zap.Uint64("generation", gen),
		)
		return nil, core.WrapError(core.ErrSuperseded, nil)
	}
	if err != nil {
		r.recorder.RecordDerivation(StatusFailed, elapsed)
		return nil, err
	}

	r.cache.Put(&Entry{Key: key, Result: result, Data: data})
	r.recorder.RecordDerivation(StatusOK, elapsed)

	// counted once per derivation; cache hits replay the same trades
	if data.Unresolved > 0 {
		r.recorder.AddUnresolvedTrades(data.Unresolved)
		r.logger.Warn("trades not found in candle series",
			zap.String("symbol", result.Symbol),
			zap.Int("unresolved", data.Unresolved),
		)
	}
	if !result.Aligned() {
		r.logger.Warn("equity curve does not match kline, equity chart omitted",
			zap.String("symbol", result.Symbol),
			zap.Int("equity_points", len(result.EquityCurve)),
			zap.Int("candles", len(result.Kline)),
		)
	}

	r.logger.Debug("chart derived",
		zap.String("symbol", result.Symbol),
		zap.String("strategy", result.StrategyName),
		zap.Int("candles", len(result.Kline)),
		zap.Int("trades", len(result.Trades)),
		zap.Float64("drawdown", data.Drawdown.Ratio),
	)

	return data, nil
}

// begin starts a new generation and cancels the one in flight
func (r *Renderer) begin(ctx context.Context) (context.Context, uint64, context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	return ctx, r.gen, cancel
}

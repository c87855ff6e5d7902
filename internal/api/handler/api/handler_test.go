// internal/api/handler/api/handler_test.go
package api

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/newthinker/btview/internal/backtest"
	"github.com/newthinker/btview/internal/chart"
)

const engineReply = `{
	"success": true,
	"result": {
		"symbol": "000001",
		"strategy_name": "ma_cross",
		"start_date": "2024-01-02",
		"end_date": "2024-01-04",
		"initial_capital": 100000.0,
		"final_value": 101500.0,
		"total_return": 0.015,
		"total_trades": 2,
		"win_rate": 0.5,
		"equity_curve": [100000.0, 99000.0, 101500.0],
		"kline": [
			{"date": "2024-01-02", "open": 10, "high": 10.5, "low": 9.8, "close": 10.2, "volume": 12000},
			{"date": "2024-01-03", "open": 10.2, "high": 10.3, "low": 9.9, "close": 10.0, "volume": 9000},
			{"date": "2024-01-04", "open": 10.0, "high": 10.6, "low": 10.0, "close": 10.5, "volume": 15000}
		],
		"trades": [
			{"trade_id": "1", "entry_date": "2024-01-02", "entry_price": 10.2, "exit_date": "2024-01-04",
			 "exit_price": 10.5, "quantity": 5000, "pnl": 1500, "side": "long"},
			{"trade_id": "2", "entry_date": "2023-12-29", "entry_price": 10.0, "exit_date": "2024-01-03",
			 "exit_price": 10.0, "quantity": 100, "pnl": 0, "side": "long"}
		]
	}
}`

// fakeEngine returns canned replies and records the last request
type fakeEngine struct {
	mu      sync.Mutex
	last    backtest.Request
	keyword string
	err     error
}

func (e *fakeEngine) Run(ctx context.Context, req backtest.Request) (*backtest.Decoded, error) {
	e.mu.Lock()
	e.last = req
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	return backtest.DecodeResponse([]byte(engineReply))
}

func (e *fakeEngine) Strategies(ctx context.Context) (json.RawMessage, error) {
	if e.err != nil {
		return nil, e.err
	}
	return json.RawMessage(`{"strategies":[{"id":"ma_cross"},{"id":"rsi"}]}`), nil
}

func (e *fakeEngine) SearchStocks(ctx context.Context, keyword string) (json.RawMessage, error) {
	e.mu.Lock()
	e.keyword = keyword
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	return json.RawMessage(`{"stocks":[{"symbol":"000001","name":"Ping An Bank"}]}`), nil
}

// fakeMetrics counts handler and renderer measurements
type fakeMetrics struct {
	mu         sync.Mutex
	engine     map[string]int
	derived    int
	unresolved int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{engine: make(map[string]int)}
}

func (m *fakeMetrics) RecordEngineRequest(operation, status string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine[operation+"/"+status]++
}

func (m *fakeMetrics) RecordDerivation(status string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if status == chart.StatusOK {
		m.derived++
	}
}

func (m *fakeMetrics) RecordCacheLookup(hit bool) {}

func (m *fakeMetrics) AddUnresolvedTrades(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unresolved += n
}

var _ backtest.Engine = (*fakeEngine)(nil)
var _ Metrics = (*fakeMetrics)(nil)
var _ chart.Recorder = (*fakeMetrics)(nil)

func newChartsHandler(m *fakeMetrics) *ChartsHandler {
	var rec chart.Recorder
	if m != nil {
		rec = m
	}
	return NewChartsHandler(chart.NewRenderer(nil, rec, nil), nil)
}

// internal/api/handler/api/backtest_test.go
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/newthinker/btview/internal/api/response"
	"github.com/newthinker/btview/internal/backtest"
	"github.com/newthinker/btview/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBacktestHandler_Create(t *testing.T) {
	engine := &fakeEngine{}
	m := newFakeMetrics()
	handler := NewBacktestHandler(engine, newChartsHandler(m), m)

	body := `{
		"symbol": "000001",
		"strategy": "rsi",
		"start_date": "2024-01-02",
		"end_date": "2024-06-28",
		"params": {"period": 10}
	}`
	req := httptest.NewRequest("POST", "/api/v1/backtest", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp chartEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "000001", resp.Data.Summary.Symbol)
	assert.Len(t, resp.Data.Chart.EquitySeries, 3)

	assert.Equal(t, backtest.DefaultInitialCapital, engine.last.InitialCapital)
	params, ok := engine.last.Params.(backtest.RSIParams)
	require.True(t, ok)
	assert.Equal(t, 10, params.Period)
	assert.Equal(t, 70.0, params.Overbought)

	assert.Equal(t, 1, m.engine["backtest/ok"])
}

func TestBacktestHandler_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing symbol", `{"strategy": "ma_cross", "start_date": "2024-01-02", "end_date": "2024-06-28"}`},
		{"unknown strategy", `{"symbol": "000001", "strategy": "magic", "start_date": "2024-01-02", "end_date": "2024-06-28"}`},
		{"reversed dates", `{"symbol": "000001", "strategy": "ma_cross", "start_date": "2024-06-28", "end_date": "2024-01-02"}`},
		{"bad params", `{"symbol": "000001", "strategy": "ma_cross", "start_date": "2024-01-02", "end_date": "2024-06-28", "params": {"short_window": 30, "long_window": 10}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{}
			handler := NewBacktestHandler(engine, newChartsHandler(nil), nil)

			req := httptest.NewRequest("POST", "/api/v1/backtest", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, engine.last.Symbol, "engine must not be called")
		})
	}
}

func TestBacktestHandler_Create_EngineErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
		code string
	}{
		{core.WrapError(core.ErrEngineFailed, nil), http.StatusBadGateway, "ENGINE_FAILED"},
		{core.WrapError(core.ErrEngineTimeout, nil), http.StatusGatewayTimeout, "ENGINE_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			m := newFakeMetrics()
			handler := NewBacktestHandler(&fakeEngine{err: tt.err}, newChartsHandler(m), m)

			body := `{"symbol": "000001", "strategy": "ma_cross", "start_date": "2024-01-02", "end_date": "2024-06-28"}`
			w := httptest.NewRecorder()
			handler.Create(w, httptest.NewRequest("POST", "/api/v1/backtest", strings.NewReader(body)))

			assert.Equal(t, tt.want, w.Code)

			var resp response.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, 1, m.engine["backtest/failed"])
		})
	}
}

func TestBacktestHandler_Strategies(t *testing.T) {
	handler := NewBacktestHandler(&fakeEngine{}, newChartsHandler(nil), nil)

	w := httptest.NewRecorder()
	handler.Strategies(w, httptest.NewRequest("GET", "/api/v1/strategies", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"strategies":[{"id":"ma_cross"},{"id":"rsi"}]}`, w.Body.String())
}

func TestBacktestHandler_SearchStocks(t *testing.T) {
	engine := &fakeEngine{}
	handler := NewBacktestHandler(engine, newChartsHandler(nil), nil)

	w := httptest.NewRecorder()
	handler.SearchStocks(w, httptest.NewRequest("GET", "/api/v1/stocks/search?keyword=ping+an", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ping an", engine.keyword)
	assert.Contains(t, w.Body.String(), "000001")

	w = httptest.NewRecorder()
	handler.SearchStocks(w, httptest.NewRequest("GET", "/api/v1/stocks/search", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// internal/api/handler/api/backtest.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/newthinker/btview/internal/api/response"
	"github.com/newthinker/btview/internal/backtest"
	"github.com/newthinker/btview/internal/core"
)

// Engine operations reported to Metrics
const (
	opBacktest   = "backtest"
	opStrategies = "strategies"
	opSearch     = "search"
)

// BacktestHandler submits backtests to the engine and renders the results.
type BacktestHandler struct {
	engine  backtest.Engine
	charts  *ChartsHandler
	metrics Metrics
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(engine backtest.Engine, charts *ChartsHandler, metrics Metrics) *BacktestHandler {
	return &BacktestHandler{
		engine:  engine,
		charts:  charts,
		metrics: orNop(metrics),
	}
}

// Create validates the request, runs it on the engine and returns the
// rendered result.
func (h *BacktestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req backtest.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrParamsInvalid, err))
		return
	}

	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	var decoded *backtest.Decoded
	err := h.observe(opBacktest, func() error {
		var err error
		decoded, err = h.engine.Run(r.Context(), req)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.charts.render(r.Context(), decoded)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Strategies passes the engine's strategy catalog through.
func (h *BacktestHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	h.passThrough(w, r, opStrategies, func(ctx context.Context) (json.RawMessage, error) {
		return h.engine.Strategies(ctx)
	})
}

// SearchStocks passes a symbol search through to the engine.
func (h *BacktestHandler) SearchStocks(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrParamsInvalid, fmt.Errorf("keyword is required")))
		return
	}

	h.passThrough(w, r, opSearch, func(ctx context.Context) (json.RawMessage, error) {
		return h.engine.SearchStocks(ctx, keyword)
	})
}

// passThrough writes the engine's JSON reply unchanged
func (h *BacktestHandler) passThrough(w http.ResponseWriter, r *http.Request, op string, call func(context.Context) (json.RawMessage, error)) {
	var raw json.RawMessage
	err := h.observe(op, func() error {
		var err error
		raw, err = call(r.Context())
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (h *BacktestHandler) observe(op string, call func() error) error {
	start := time.Now()
	err := call()
	status := "ok"
	if err != nil {
		status = "failed"
	}
	h.metrics.RecordEngineRequest(op, status, time.Since(start).Seconds())
	return err
}

// internal/api/handler/api/charts.go
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/newthinker/btview/internal/api/response"
	"github.com/newthinker/btview/internal/backtest"
	"github.com/newthinker/btview/internal/chart"
	"github.com/newthinker/btview/internal/core"
	"go.uber.org/zap"
)

const maxResultBytes = 64 << 20

// ChartResponse is a rendered view plus the result fields that were
// malformed and left out.
type ChartResponse struct {
	chart.View
	Dropped []string `json:"dropped,omitempty"`
}

// ChartsHandler renders submitted backtest results.
type ChartsHandler struct {
	renderer *chart.Renderer
	logger   *zap.Logger
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(renderer *chart.Renderer, logger *zap.Logger) *ChartsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChartsHandler{
		renderer: renderer,
		logger:   logger,
	}
}

// Create renders a backtest result. The body is an engine response
// envelope or a bare result.
func (h *ChartsHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxResultBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrInvalidResult, err))
		return
	}

	decoded, err := backtest.DecodeResponse(body)
	if err != nil {
		writeError(w, err)
		return
	}
	if !decoded.Success {
		writeError(w, core.WrapError(core.ErrEngineFailed, errors.New(decoded.Error)))
		return
	}

	resp, err := h.render(r.Context(), decoded)
	if err != nil {
		writeError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Latest returns the most recently rendered chart.
func (h *ChartsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.renderer.Cache().Latest()
	if !ok {
		response.Error(w, http.StatusNotFound,
			core.WrapError(core.ErrNotFound, fmt.Errorf("no chart rendered yet")))
		return
	}

	response.JSON(w, http.StatusOK, ChartResponse{View: chart.NewView(entry.Result, entry.Data)})
}

// render derives chart data for a decoded engine reply
func (h *ChartsHandler) render(ctx context.Context, decoded *backtest.Decoded) (*ChartResponse, error) {
	if decoded.Result == nil {
		return nil, core.WrapError(core.ErrNoData, nil)
	}

	data, err := h.renderer.Render(ctx, decoded.Result)
	if err != nil {
		return nil, err
	}

	if len(decoded.Dropped) > 0 {
		h.logger.Warn("result has malformed fields",
			zap.String("symbol", decoded.Result.Symbol),
			zap.Strings("dropped", decoded.Dropped),
		)
	}

	return &ChartResponse{
		View:    chart.NewView(decoded.Result, data),
		Dropped: decoded.Dropped,
	}, nil
}

package backtest

import (
	"encoding/json"
	"fmt"

	"github.com/newthinker/btview/internal/core"
)

// Response is the engine's reply to a backtest request
type Response struct {
	Success bool                 `json:"success"`
	Result  *core.BacktestResult `json:"result,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// Decoded is a response together with the result fields that could not be
// decoded and were left at their zero value.
type Decoded struct {
	Response
	Dropped []string `json:"dropped,omitempty"`
}

// DecodeResponse parses an engine response. A malformed field inside the
// result does not fail the decode: the field is dropped and named in
// Decoded.Dropped so the section relying on it can be omitted.
//
// A body that is a bare result (no success envelope) is accepted as a
// successful response.
func DecodeResponse(data []byte) (*Decoded, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, core.WrapError(core.ErrInvalidResult, err)
	}

	rawResult, hasResult := envelope["result"]
	_, hasSuccess := envelope["success"]

	if !hasSuccess && !hasResult {
		result, dropped, err := DecodeResult(data)
		if err != nil {
			return nil, err
		}
		return &Decoded{Response: Response{Success: true, Result: result}, Dropped: dropped}, nil
	}

	out := &Decoded{}
	if raw, ok := envelope["success"]; ok {
		if err := json.Unmarshal(raw, &out.Success); err != nil {
			return nil, core.WrapError(core.ErrInvalidResult, fmt.Errorf("success: %w", err))
		}
	}
	if raw, ok := envelope["error"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &out.Error); err != nil {
			out.Error = string(raw)
		}
	}
	if hasResult && !isNull(rawResult) {
		result, dropped, err := DecodeResult(rawResult)
		if err != nil {
			return nil, err
		}
		out.Result = result
		out.Dropped = dropped
	}

	return out, nil
}

// DecodeResult decodes a result object field by field
func DecodeResult(data []byte) (*core.BacktestResult, []string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, nil, core.WrapError(core.ErrInvalidResult, err)
	}

	r := &core.BacktestResult{}
	var dropped []string

	decodeField(fields, "symbol", &r.Symbol, &dropped)
	decodeField(fields, "strategy_name", &r.StrategyName, &dropped)
	decodeField(fields, "start_date", &r.StartDate, &dropped)
	decodeField(fields, "end_date", &r.EndDate, &dropped)
	decodeField(fields, "initial_capital", &r.InitialCapital, &dropped)
	decodeField(fields, "final_value", &r.FinalValue, &dropped)
	decodeField(fields, "total_return", &r.TotalReturn, &dropped)
	decodeField(fields, "total_trades", &r.TotalTrades, &dropped)
	decodeField(fields, "win_rate", &r.WinRate, &dropped)
	decodeField(fields, "sharpe_ratio", &r.SharpeRatio, &dropped)
	decodeField(fields, "max_drawdown", &r.MaxDrawdown, &dropped)
	decodeField(fields, "metrics", &r.Metrics, &dropped)
	decodeField(fields, "equity_curve", &r.EquityCurve, &dropped)
	decodeField(fields, "kline", &r.Kline, &dropped)
	decodeField(fields, "trades", &r.Trades, &dropped)

	return r, dropped, nil
}

// decodeField assigns dst only when the whole value decodes
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T, dropped *[]string) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		*dropped = append(*dropped, key)
		return
	}
	*dst = v
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

package backtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/newthinker/btview/internal/core"
)

const dateLayout = "2006-01-02"

// Engine request defaults
const (
	DefaultInitialCapital = 100000.0
	DefaultFeeRate        = 0.0003
	DefaultAdjustment     = core.AdjustForward
)

// Request is the body sent to the engine's backtest endpoint
type Request struct {
	Symbol         string          `json:"symbol"`
	Strategy       string          `json:"strategy"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
	InitialCapital float64         `json:"initial_capital"`
	FeeRate        float64         `json:"fee_rate"`
	Adjustment     core.Adjustment `json:"adjustment"`
	Params         Params          `json:"params,omitempty"`
}

// UnmarshalJSON decodes the params block into the variant named by strategy
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	aux := struct {
		*plain
		Params json.RawMessage `json:"params,omitempty"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Params = nil
	if len(aux.Params) == 0 || string(aux.Params) == "null" {
		return nil
	}
	if !KnownStrategy(r.Strategy) {
		return fmt.Errorf("params given for unknown strategy %q", r.Strategy)
	}
	params, err := DecodeParams(r.Strategy, aux.Params)
	if err != nil {
		return fmt.Errorf("decoding %s params: %w", r.Strategy, err)
	}
	r.Params = params
	return nil
}

// WithDefaults fills zero fields with the engine defaults
func (r Request) WithDefaults() Request {
	if r.InitialCapital == 0 {
		r.InitialCapital = DefaultInitialCapital
	}
	if r.FeeRate == 0 {
		r.FeeRate = DefaultFeeRate
	}
	if r.Adjustment == "" {
		r.Adjustment = DefaultAdjustment
	}
	if r.Params == nil {
		if p, err := DefaultParams(r.Strategy); err == nil {
			r.Params = p
		}
	}
	return r
}

// Validate checks the request once, before it leaves the process
func (r Request) Validate() error {
	if r.Symbol == "" || r.Strategy == "" {
		return core.WrapError(core.ErrParamsInvalid, fmt.Errorf("symbol and strategy are required"))
	}
	if !KnownStrategy(r.Strategy) {
		return core.WrapError(core.ErrParamsInvalid, fmt.Errorf("unknown strategy %q", r.Strategy))
	}

	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return core.WrapError(core.ErrParamsInvalid, fmt.Errorf("invalid start_date (expected YYYY-MM-DD): %w", err))
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return core.WrapError(core.ErrParamsInvalid, fmt.Errorf("invalid end_date (expected YYYY-MM-DD): %w", err))
	}
	if end.Before(start) {
		return core.WrapError(core.ErrParamsInvalid, fmt.Errorf("end_date must not precede start_date"))
	}

	if r.InitialCapital <= 0 {
		return core.WrapError(core.ErrParamsInvalid, fmt.Errorf("initial_capital must be positive, got %g", r.InitialCapital))
	}
	if r.FeeRate < 0 || r.FeeRate >= 1 {
		return core.WrapError(core.ErrParamsInvalid, fmt.Errorf("fee_rate must be in [0, 1), got %g", r.FeeRate))
	}
	if !r.Adjustment.Valid() {
		return core.WrapError(core.ErrParamsInvalid, fmt.Errorf("adjustment must be qfq, hfq or none, got %q", r.Adjustment))
	}

	if r.Params != nil {
		if r.Params.Strategy() != r.Strategy {
			return core.WrapError(core.ErrParamsInvalid,
				fmt.Errorf("%s params given for strategy %s", r.Params.Strategy(), r.Strategy))
		}
		if err := r.Params.Validate(); err != nil {
			return core.WrapError(core.ErrParamsInvalid, err)
		}
	}

	return nil
}

func decodeStrict(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

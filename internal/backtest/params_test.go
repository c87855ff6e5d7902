package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMACrossParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  MACrossParams
		wantErr bool
	}{
		{"defaults", DefaultMACrossParams(), false},
		{"zero short window", MACrossParams{ShortWindow: 0, LongWindow: 20, PositionRatio: 1}, true},
		{"equal windows", MACrossParams{ShortWindow: 10, LongWindow: 10, PositionRatio: 1}, true},
		{"ratio above one", MACrossParams{ShortWindow: 5, LongWindow: 20, PositionRatio: 1.5}, true},
		{"half position", MACrossParams{ShortWindow: 5, LongWindow: 20, PositionRatio: 0.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRSIParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  RSIParams
		wantErr bool
	}{
		{"defaults", DefaultRSIParams(), false},
		{"period too short", RSIParams{Period: 1, Oversold: 30, Overbought: 70, PositionRatio: 1}, true},
		{"inverted thresholds", RSIParams{Period: 14, Oversold: 70, Overbought: 30, PositionRatio: 1}, true},
		{"overbought above 100", RSIParams{Period: 14, Oversold: 30, Overbought: 120, PositionRatio: 1}, true},
		{"zero ratio", RSIParams{Period: 14, Oversold: 30, Overbought: 70, PositionRatio: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p, err := DefaultParams(StrategyRSI)
	assert.NoError(t, err)
	assert.Equal(t, StrategyRSI, p.Strategy())

	_, err = DefaultParams("macd")
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	assert.True(t, KnownStrategy(StrategyMACross))
	assert.True(t, KnownStrategy(StrategyRSI))
	assert.False(t, KnownStrategy("macd"))
	assert.Len(t, Catalog, 2)
}

package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeSlippageRatio(t *testing.T) {
	testCases := []struct {
		name    string
		percent float64
		want    string
		wantErr bool
	}{
		{name: "zero", percent: 0, want: "0"},
		{name: "default", percent: 1, want: "0.01"},
		{name: "fractional", percent: 0.5, want: "0.005"},
		{name: "max form value", percent: 50, want: "0.5"},
		{name: "negative", percent: -1, wantErr: true},
		{name: "whole amount", percent: 100, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := makeSlippageRatio(tc.percent)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestApplySlippage(t *testing.T) {
	amount := decimal.RequireFromString("3")
	ratio := decimal.RequireFromString("0.01")

	floor, err := applySlippageFloor(amount, ratio)
	require.NoError(t, err)
	assert.Equal(t, "2.97", floor.String())
	assert.Equal(t, "3.03", applySlippageCeil(amount, ratio).String())

	// rounding happens at atomic precision, away from the user
	tiny := decimal.New(1, -18)
	third := decimal.RequireFromString("0.333")
	assert.True(t, applySlippageCeil(tiny, third).Equal(decimal.New(2, -18)))
	floor, err = applySlippageFloor(tiny, third)
	require.NoError(t, err)
	assert.True(t, floor.IsZero())

	_, err = applySlippageFloor(amount, decimal.NewFromInt(1))
	assert.Error(t, err)
}

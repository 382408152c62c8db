package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFmtForMath(t *testing.T) {
	got, err := fmtForMath("1.5", 18)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1500000000000000000")), "got %s", got)

	got, err = fmtForMath(" 42 ", 0)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(42)), "got %s", got)
}

func TestFmtForMathRejects(t *testing.T) {
	testCases := []struct {
		name     string
		amount   string
		decimals int32
	}{
		{name: "not a number", amount: "abc", decimals: 18},
		{name: "empty", amount: "", decimals: 18},
		{name: "negative", amount: "-1", decimals: 18},
		{name: "too precise", amount: "1.234", decimals: 2},
		{name: "finer than atomic", amount: "0.0000000000000000001", decimals: 18},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fmtForMath(tc.amount, tc.decimals)
			assert.Error(t, err)
		})
	}
}

func TestFmtForDisplay(t *testing.T) {
	assert.Equal(t, "1.5", fmtForDisplay(decimal.RequireFromString("1500000000000000000"), 18, 8))
	assert.Equal(t, "0", fmtForDisplay(decimal.NewFromInt(1), 18, 8), "a single atomic unit rounds away at 8 places")
}

func TestPrettifyAmount(t *testing.T) {
	testCases := []struct {
		in        string
		precision int32
		want      string
	}{
		{in: "1.50000", precision: 8, want: "1.5"},
		{in: "2", precision: 8, want: "2"},
		{in: "0", precision: 8, want: "0"},
		{in: "0.123456789", precision: 8, want: "0.12345679"},
		{in: "1172.775", precision: 2, want: "1172.78"},
		{in: "-0.000000001", precision: 2, want: "0"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, prettifyAmount(decimal.RequireFromString(tc.in), tc.precision))
		})
	}
}

func TestShortenAmount(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0"},
		{in: "1500", want: "1.5k"},
		{in: "1234567", want: "1.23M"},
		{in: "2500000000", want: "2.5B"},
		{in: "3000000000000", want: "3T"},
		{in: "12.345678", want: "12.3457"},
		{in: "0.5", want: "0.5"},
		{in: "0.000123456", want: "0.0001235"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, shortenAmount(decimal.RequireFromString(tc.in)))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "1%", formatPercent(1))
	assert.Equal(t, "0.5%", formatPercent(0.5))
	assert.Equal(t, "0.5%", formatFeeRate(0.005))
	assert.Equal(t, "1.23%", formatDecimalPercent(decimal.RequireFromString("1.234")))
}

package main

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfigPasses(t *testing.T) {
	mode, supply, slippage := "buy", "1000", 1.5
	specs := []FlagSpec{
		{Name: "mode", Value: &mode, Rules: []FlagRule{NotEmpty(), OneOf("buy", "sell")}},
		{Name: "supply", Value: &supply, Rules: []FlagRule{DecimalString(), Requires("mode")}},
		{Name: "slippage", Value: &slippage, Rules: []FlagRule{InRange(0, 50)}},
	}
	var out bytes.Buffer
	require.NoError(t, ValidateConfig(flag.NewFlagSet("test", flag.ContinueOnError), specs, &out))
	assert.Zero(t, out.Len(), "expected no usage output, got %q", out.String())
}

func TestValidateConfigFailures(t *testing.T) {
	testCases := []struct {
		name    string
		specs   func() []FlagSpec
		message string
	}{
		{
			name: "blank",
			specs: func() []FlagSpec {
				v := "  "
				return []FlagSpec{{Name: "mode", Value: &v, Rules: []FlagRule{NotEmpty()}}}
			},
			message: "must not be empty",
		},
		{
			name: "not one of",
			specs: func() []FlagSpec {
				v := "hold"
				return []FlagSpec{{Name: "mode", Value: &v, Rules: []FlagRule{OneOf("buy", "sell")}}}
			},
			message: "must be one of [buy, sell]",
		},
		{
			name: "negative decimal",
			specs: func() []FlagSpec {
				v := "-3"
				return []FlagSpec{{Name: "supply", Value: &v, Rules: []FlagRule{DecimalString()}}}
			},
			message: "must not be negative",
		},
		{
			name: "not a decimal",
			specs: func() []FlagSpec {
				v := "ten"
				return []FlagSpec{{Name: "supply", Value: &v, Rules: []FlagRule{DecimalString()}}}
			},
			message: "must be a decimal number",
		},
		{
			name: "out of range",
			specs: func() []FlagSpec {
				v := 75.0
				return []FlagSpec{{Name: "slippage", Value: &v, Rules: []FlagRule{InRange(0, 50)}}}
			},
			message: "must be within [0, 50]",
		},
		{
			name: "excluded",
			specs: func() []FlagSpec {
				tokens, currency := "1", "2"
				return []FlagSpec{
					{Name: "tokens", Value: &tokens, Rules: []FlagRule{ExcludedBy("currency")}},
					{Name: "currency", Value: &currency},
				}
			},
			message: "cannot be used together",
		},
		{
			name: "requires invalid dependency",
			specs: func() []FlagSpec {
				balance, mode := "5", "hold"
				return []FlagSpec{
					{Name: "balance", Value: &balance, Rules: []FlagRule{Requires("mode")}},
					{Name: "mode", Value: &mode, Rules: []FlagRule{OneOf("buy", "sell")}},
				}
			},
			message: "flag -balance requires -mode",
		},
		{
			name: "requires unregistered dependency",
			specs: func() []FlagSpec {
				balance := "5"
				return []FlagSpec{{Name: "balance", Value: &balance, Rules: []FlagRule{Requires("mode")}}}
			},
			message: "dependency is not registered",
		},
		{
			name: "duplicate",
			specs: func() []FlagSpec {
				a, b := "x", "y"
				return []FlagSpec{{Name: "mode", Value: &a}, {Name: "mode", Value: &b}}
			},
			message: "defined more than once",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.String("mode", "buy", "trade direction")
			err := ValidateConfig(fs, tc.specs(), &out)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tc.message)
			assert.Contains(t, out.String(), "Usage of test")
		})
	}
}

func TestOptionalRulesSkipUnsetFlags(t *testing.T) {
	v := ""
	specs := []FlagSpec{{Name: "balance", Value: &v, Rules: []FlagRule{DecimalString(), ExcludedBy("other"), Requires("other")}}}
	assert.NoError(t, ValidateConfig(flag.NewFlagSet("test", flag.ContinueOnError), specs, &bytes.Buffer{}))
}

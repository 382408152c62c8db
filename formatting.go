package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"hadydotai/bonding-curve-client/curve"
)

var (
	thousand = decimal.NewFromInt(1_000)
	// shortenSuffixes is ordered from the largest magnitude down
	shortenSuffixes = []struct {
		scale  decimal.Decimal
		suffix string
	}{
		{decimal.New(1, 12), "T"},
		{decimal.New(1, 9), "B"},
		{decimal.New(1, 6), "M"},
		{thousand, "k"},
	}
)

func fmtForDisplay(raw decimal.Decimal, decimals int32, precision int32) string {
	return prettifyAmount(curve.FromAtomic(raw, decimals), precision)
}

// fmtForMath turns a user supplied whole amount into atomic units, refusing
// anything finer than the token's decimals.
func fmtForMath(amountStr string, decimals int32) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil {
		return decimal.Zero, fmt.Errorf("the amount provided is an invalid decimal number: %q", amountStr)
	}
	if amount.IsNegative() {
		return decimal.Zero, errors.New("amount must not be negative")
	}
	atomic := curve.ToAtomic(amount, decimals)
	if !atomic.Equal(atomic.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("amount %s exceeds decimal precision of %d", amountStr, decimals)
	}
	return atomic, nil
}

// prettifyAmount rounds to precision places and drops trailing zeros.
func prettifyAmount(d decimal.Decimal, precision int32) string {
	formatted := d.StringFixed(precision)
	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimSuffix(formatted, ".")
	}
	if formatted == "" || formatted == "-0" {
		formatted = "0"
	}
	return formatted
}

// shortenAmount keeps amounts readable in a narrow column: large values get a
// k/M/B/T suffix, tiny ones keep four significant digits.
func shortenAmount(d decimal.Decimal) string {
	abs := d.Abs()
	if abs.IsZero() {
		return "0"
	}
	for _, s := range shortenSuffixes {
		if abs.GreaterThanOrEqual(s.scale) {
			return prettifyAmount(d.Div(s.scale), 2) + s.suffix
		}
	}
	if abs.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return prettifyAmount(d, 4)
	}
	// leading zeros after the point, then four significant digits
	places := int32(-1)
	for probe := abs; probe.LessThan(decimal.NewFromInt(1)); probe = probe.Shift(1) {
		places++
	}
	return prettifyAmount(d, places+4)
}

func formatFeeRate(rate float64) string {
	return formatPercent(rate * 100)
}

func formatPercent(p float64) string {
	str := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", p), "0"), ".")
	if str == "" {
		str = "0"
	}
	return fmt.Sprintf("%s%%", str)
}

func formatDecimalPercent(p decimal.Decimal) string {
	return prettifyAmount(p, 2) + "%"
}

package trade

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"hadydotai/bonding-curve-client/curve"
)

var hundred = decimal.NewFromInt(100)

func makeSlippageRatio(percent float64) (decimal.Decimal, error) {
	if percent < 0 {
		return decimal.Zero, fmt.Errorf("slippage percent must be >= 0")
	}
	if percent >= 100 {
		return decimal.Zero, fmt.Errorf("slippage percent must be less than 100")
	}
	if percent == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromFloat(percent).Div(hundred), nil
}

// applySlippageFloor shrinks amount by ratio, rounding down at atomic currency precision.
func applySlippageFloor(amount, ratio decimal.Decimal) (decimal.Decimal, error) {
	factor := decimal.NewFromInt(1).Sub(ratio)
	if !factor.IsPositive() {
		return decimal.Zero, errors.New("slippage factor must be positive")
	}
	return amount.Mul(factor).RoundFloor(curve.CurrencyDecimals), nil
}

// applySlippageCeil grows amount by ratio, rounding up at atomic currency precision.
func applySlippageCeil(amount, ratio decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(ratio)
	return amount.Mul(factor).RoundCeil(curve.CurrencyDecimals)
}

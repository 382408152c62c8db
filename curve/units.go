package curve

import (
	"github.com/shopspring/decimal"
)

const (
	// DefaultDecimals is the token scaling exponent used when a token does not declare one.
	DefaultDecimals int32 = 18
	// CurrencyDecimals is the AE scaling exponent: 1 AE = 10^18 atomic units.
	CurrencyDecimals int32 = 18
)

// ToAtomic scales a whole-unit amount up by 10^decimals.
func ToAtomic(whole decimal.Decimal, decimals int32) decimal.Decimal {
	return whole.Shift(decimals)
}

// FromAtomic scales an atomic amount down by 10^decimals.
func FromAtomic(atomic decimal.Decimal, decimals int32) decimal.Decimal {
	return atomic.Shift(-decimals)
}

// Supply is a snapshot of a token's cumulative issued amount, in atomic units.
// The engine only ever reads it; callers refresh it after on-chain trades.
type Supply struct {
	Amount   decimal.Decimal
	Decimals int32
}

// NewSupply builds a snapshot from a whole-token amount.
func NewSupply(whole decimal.Decimal, decimals int32) Supply {
	return Supply{Amount: ToAtomic(whole, decimals), Decimals: decimals}
}

// Whole returns the supply in whole tokens.
func (s Supply) Whole() decimal.Decimal {
	return FromAtomic(s.Amount, s.Decimals)
}

// Add returns the snapshot after count atomic tokens were minted.
func (s Supply) Add(count decimal.Decimal) Supply {
	return Supply{Amount: s.Amount.Add(count), Decimals: s.Decimals}
}

// Sub returns the snapshot after count atomic tokens were burned.
func (s Supply) Sub(count decimal.Decimal) Supply {
	return Supply{Amount: s.Amount.Sub(count), Decimals: s.Decimals}
}

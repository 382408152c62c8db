package trade

import (
	"github.com/shopspring/decimal"

	"hadydotai/bonding-curve-client/curve"
)

// Balances are the wallet amounts used for sufficiency checks. Spendable is the
// currency a buy may quote against, already net of Reserve, the part of the
// wallet held back for slippage and fees. Tokens is the held balance of the
// traded token.
type Balances struct {
	Spendable decimal.Decimal
	Reserve   decimal.Decimal
	Tokens    decimal.Decimal
}

// Wallet is the raw currency balance, Spendable plus Reserve.
func (b Balances) Wallet() decimal.Decimal {
	return b.Spendable.Add(b.Reserve)
}

// NewBalances splits wallet into a spendable part and a reserve so that a buy
// quoting the whole spendable amount still fits the wallet once the slippage
// ceiling and the buy surcharge are applied on top of it.
func NewBalances(wallet, tokens decimal.Decimal, slippagePercent float64, fees curve.FeeSettings) Balances {
	if !wallet.IsPositive() {
		return Balances{Spendable: decimal.Zero, Reserve: decimal.Zero, Tokens: tokens}
	}
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(slippagePercent).Div(hundred)).Mul(fees.BuyMultiplier())
	if !factor.IsPositive() {
		return Balances{Spendable: decimal.Zero, Reserve: wallet, Tokens: tokens}
	}
	atomicUnit := decimal.New(1, -curve.CurrencyDecimals)
	spendable := wallet.DivRound(factor, curve.CurrencyDecimals).RoundFloor(curve.CurrencyDecimals)
	for spendable.IsPositive() && spendable.Mul(factor).GreaterThan(wallet) {
		spendable = spendable.Sub(atomicUnit)
	}
	if spendable.IsNegative() {
		spendable = decimal.Zero
	}
	return Balances{Spendable: spendable, Reserve: wallet.Sub(spendable), Tokens: tokens}
}

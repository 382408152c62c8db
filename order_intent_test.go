package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hadydotai/bonding-curve-client/trade"
)

func TestNewOrderIntentRequiresAmounts(t *testing.T) {
	_, err := NewOrderIntent(newQuotedSession(t, 1000), defaultSettings())
	assert.ErrorIs(t, err, ErrIncompleteOrder)

	_, err = NewOrderIntent(nil, defaultSettings())
	assert.Error(t, err)
}

func TestNewOrderIntentRequiresBalance(t *testing.T) {
	session := newQuotedSession(t, 1000)
	require.NoError(t, session.SetTokenAmount("10"))
	_, err := NewOrderIntent(session, defaultSettings())
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestNewOrderIntentRefusesSlippageCeilingAboveWallet(t *testing.T) {
	session := newQuotedSession(t, 0)
	session.SetSlippage(5)
	require.NoError(t, session.SetTokenAmount("100"))
	cost := session.CurrencyAmount().Decimal

	// the quote alone fits, the slippage ceiling does not
	session.SetBalances(trade.Balances{Spendable: cost})
	require.False(t, session.IsInsufficientBalance())
	_, err := NewOrderIntent(session, defaultSettings())
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// a reserved wallet equal to the quote is short as well
	session.SetWallet(cost, decimal.Zero)
	_, err = NewOrderIntent(session, defaultSettings())
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	ceiling, err := session.MaxCurrencyIn()
	require.NoError(t, err)
	session.SetBalances(trade.Balances{Spendable: cost, Reserve: ceiling.Decimal.Sub(cost)})
	intent, err := NewOrderIntent(session, defaultSettings())
	require.NoError(t, err)
	assert.True(t, intent.RequiredInputAmount().Equal(session.Balances().Wallet()))
}

func TestNewOrderIntentBuyExactTokens(t *testing.T) {
	session := newQuotedSession(t, 1000)
	session.SetBalances(trade.Balances{Spendable: decimal.NewFromInt(100)})
	require.NoError(t, session.SetTokenAmount("10"))

	intent, err := NewOrderIntent(session, defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "buy", intent.Verb)
	assert.Equal(t, OrderKindExactTokens, intent.Kind)
	require.True(t, intent.MaxCurrencyIn.Valid)
	assert.False(t, intent.MinCurrencyOut.Valid, "buy intents carry only the max-in bound")
	assert.True(t, intent.MaxCurrencyIn.Decimal.GreaterThan(intent.CurrencyAmount))
	assert.True(t, intent.RequiredInputAmount().Equal(intent.MaxCurrencyIn.Decimal))
	assert.Equal(t, "buy 10 TKN", intent.String())

	summary := intent.Summary()
	assert.Regexp(t, `^buy 10 TKN \(exact-tokens\), requires [0-9.]+ AE at 1% slippage$`, summary)
}

func TestNewOrderIntentSellExactCurrency(t *testing.T) {
	session := newQuotedSession(t, 1000)
	session.SetBuying(false)
	session.SetBalances(trade.Balances{Tokens: decimal.NewFromInt(1000)})
	require.NoError(t, session.SetCurrencyAmount("0.00005"))

	intent, err := NewOrderIntent(session, defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "sell", intent.Verb)
	assert.Equal(t, OrderKindExactCurrency, intent.Kind)
	assert.False(t, intent.MaxCurrencyIn.Valid)
	assert.True(t, intent.MinCurrencyOut.Valid, "sell intents carry only the min-out bound")
	assert.True(t, intent.RequiredInputAmount().Equal(intent.TokenAmount))
	assert.Equal(t, "sell 0.00005 AE worth of TKN", intent.String())
	assert.Contains(t, intent.Summary(), "TKN at 1% slippage")
}

func TestOrderKindString(t *testing.T) {
	assert.Equal(t, "unknown", OrderKindUnknown.String())
	assert.Equal(t, "exact-tokens", OrderKindExactTokens.String())
	assert.Equal(t, "exact-currency", OrderKindExactCurrency.String())

	var intent *OrderIntent
	assert.Empty(t, intent.String())
	assert.Empty(t, intent.Summary())
	assert.True(t, intent.RequiredInputAmount().IsZero())
}

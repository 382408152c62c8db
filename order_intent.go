package main

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"hadydotai/bonding-curve-client/trade"
)

// OrderKind identifies which side of the order the user fixed.
type OrderKind uint8

const (
	OrderKindUnknown OrderKind = iota
	OrderKindExactTokens
	OrderKindExactCurrency
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindExactTokens:
		return "exact-tokens"
	case OrderKindExactCurrency:
		return "exact-currency"
	default:
		return "unknown"
	}
}

var (
	ErrIncompleteOrder     = errors.New("order has no amounts")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// OrderIntent is the settled form of a trade session, ready to hand to whatever submits it.
type OrderIntent struct {
	Verb     string
	Kind     OrderKind
	Slippage float64

	TokenAmount    decimal.Decimal
	CurrencyAmount decimal.Decimal
	// only one bound is set, MaxCurrencyIn when buying and MinCurrencyOut when selling
	MaxCurrencyIn  decimal.NullDecimal
	MinCurrencyOut decimal.NullDecimal
	ProtocolReward decimal.Decimal

	TokenSymbol    string
	CurrencySymbol string
}

// NewOrderIntent freezes the session's current quote. Sessions with a blank
// field, or a wallet that cannot cover the trade at its slippage ceiling, are
// refused.
func NewOrderIntent(session *trade.Session, settings Settings) (*OrderIntent, error) {
	if session == nil {
		return nil, errors.New("trade session missing")
	}
	tokens, currency := session.TokenAmount(), session.CurrencyAmount()
	if !tokens.Valid || !currency.Valid {
		return nil, ErrIncompleteOrder
	}
	if session.IsInsufficientBalance() {
		return nil, ErrInsufficientBalance
	}

	intent := &OrderIntent{
		Verb:           "sell",
		Kind:           OrderKindExactCurrency,
		Slippage:       session.Slippage(),
		TokenAmount:    tokens.Decimal,
		CurrencyAmount: currency.Decimal,
		ProtocolReward: session.ProtocolReward(),
		TokenSymbol:    settings.Session.TokenSymbol,
		CurrencySymbol: settings.Session.CurrencySymbol,
	}
	if session.TokenFieldIsDriver() {
		intent.Kind = OrderKindExactTokens
	}

	var err error
	if session.IsBuying() {
		intent.Verb = "buy"
		intent.MaxCurrencyIn, err = session.MaxCurrencyIn()
	} else {
		intent.MinCurrencyOut, err = session.MinCurrencyOut()
	}
	if err != nil {
		return nil, fmt.Errorf("slippage bound: %w", err)
	}
	if intent.Verb == "buy" && intent.RequiredInputAmount().GreaterThan(session.Balances().Wallet()) {
		return nil, fmt.Errorf("%w: order may spend up to %s %s", ErrInsufficientBalance,
			prettifyAmount(intent.RequiredInputAmount(), displayPrecision), intent.CurrencySymbol)
	}
	return intent, nil
}

// String renders the order the way the user would say it.
func (oi *OrderIntent) String() string {
	if oi == nil {
		return ""
	}
	if oi.Kind == OrderKindExactCurrency {
		return fmt.Sprintf("%s %s worth of %s", oi.Verb, prettifyAmount(oi.CurrencyAmount, displayPrecision)+" "+oi.CurrencySymbol, oi.TokenSymbol)
	}
	return fmt.Sprintf("%s %s %s", oi.Verb, prettifyAmount(oi.TokenAmount, displayPrecision), oi.TokenSymbol)
}

// RequiredInputAmount is what the wallet must hold for the order to go through:
// the slippage-adjusted currency ceiling when buying, the tokens when selling.
func (oi *OrderIntent) RequiredInputAmount() decimal.Decimal {
	if oi == nil {
		return decimal.Zero
	}
	if oi.Verb == "buy" {
		if oi.MaxCurrencyIn.Valid {
			return oi.MaxCurrencyIn.Decimal
		}
		return oi.CurrencyAmount
	}
	return oi.TokenAmount
}

func (oi *OrderIntent) inputSymbol() string {
	if oi.Verb == "buy" {
		return oi.CurrencySymbol
	}
	return oi.TokenSymbol
}

// Summary is the one line printed once the user confirms.
func (oi *OrderIntent) Summary() string {
	if oi == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s), requires %s %s at %s slippage",
		oi.String(), oi.Kind, prettifyAmount(oi.RequiredInputAmount(), displayPrecision), oi.inputSymbol(), formatPercent(oi.Slippage))
}

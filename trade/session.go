// Package trade keeps the two linked fields of a trade form (token amount and
// currency amount) consistent with the bonding curve while the user edits
// either of them.
package trade

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"hadydotai/bonding-curve-client/curve"
)

// Field identifies which of the two linked inputs was edited.
type Field uint8

const (
	FieldUnknown Field = iota
	FieldToken
	FieldCurrency
)

func (f Field) String() string {
	switch f {
	case FieldToken:
		return "token"
	case FieldCurrency:
		return "currency"
	default:
		return "unknown"
	}
}

const (
	DefaultSlippage = 1.0
	MaxSlippage     = 50.0
)

// Market carries the currently quoted spot prices, in whole currency per whole token.
type Market struct {
	SpotBuyPrice  decimal.Decimal
	SpotSellPrice decimal.Decimal
}

// Session is the state behind one open trade form. It is owned by that form
// alone and is not safe for concurrent use.
type Session struct {
	curve  *curve.Curve
	supply curve.Supply
	logger *slog.Logger

	isBuying           bool
	tokenAmount        decimal.NullDecimal
	currencyAmount     decimal.NullDecimal
	tokenFieldIsDriver bool
	slippage           float64
	nextMarginalPrice  decimal.Decimal

	market   Market
	balances Balances
	// set by SetWallet, the reserve then follows slippage changes
	reserveFromWallet bool
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithSlippage(percent float64) Option {
	return func(s *Session) {
		s.slippage = percent
	}
}

// NewSession opens a buying session for the token whose supply snapshot is given.
func NewSession(c *curve.Curve, supply curve.Supply, opts ...Option) *Session {
	s := &Session{
		curve:              c,
		supply:             supply,
		logger:             slog.New(slog.DiscardHandler),
		isBuying:           true,
		tokenFieldIsDriver: true,
		slippage:           DefaultSlippage,
		nextMarginalPrice:  decimal.Zero,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnFieldEdited records a raw edit of field and synchronously recomputes the
// paired field and the post-trade marginal price. Empty, non-numeric and
// non-positive input clears both fields. The only error returned is a wrapped
// curve.ErrInvalidArgument, which means the session was handed a bad supply.
func (s *Session) OnFieldEdited(field Field, raw string) error {
	switch field {
	case FieldToken:
		s.tokenFieldIsDriver = true
	case FieldCurrency:
		s.tokenFieldIsDriver = false
	default:
		return fmt.Errorf("%w: unknown field %d", curve.ErrInvalidArgument, field)
	}
	value, ok := parseAmount(raw)
	if !ok {
		s.logger.Debug("clearing trade fields", "field", field, "input", raw)
		s.clearAmounts()
		return nil
	}
	if field == FieldToken {
		s.tokenAmount = decimal.NewNullDecimal(value)
	} else {
		s.currencyAmount = decimal.NewNullDecimal(value)
	}
	return s.recompute()
}

func (s *Session) SetTokenAmount(raw string) error {
	return s.OnFieldEdited(FieldToken, raw)
}

func (s *Session) SetCurrencyAmount(raw string) error {
	return s.OnFieldEdited(FieldCurrency, raw)
}

// SetBuying switches between buying and selling. A switch clears both amounts
// and hands the driver role back to the token field; slippage is kept.
func (s *Session) SetBuying(buying bool) {
	if s.isBuying == buying {
		return
	}
	s.isBuying = buying
	s.clearAmounts()
	s.tokenFieldIsDriver = true
}

// SetSlippage stores percent as is. Callers clamp to [0, MaxSlippage].
func (s *Session) SetSlippage(percent float64) {
	s.slippage = percent
	if s.reserveFromWallet {
		s.balances = NewBalances(s.balances.Wallet(), s.balances.Tokens, s.slippage, s.curve.Settings().Fees)
	}
}

// Reset clears both amounts and returns the driver role to the token field.
func (s *Session) Reset() {
	s.clearAmounts()
	s.tokenFieldIsDriver = true
}

// SetToken points the session at another token. Everything tied to the old
// token, its quotes and balances included, is dropped.
func (s *Session) SetToken(supply curve.Supply) {
	s.supply = supply
	s.market = Market{}
	s.balances = Balances{}
	s.reserveFromWallet = false
	s.Reset()
}

// UpdateSupply swaps in a fresh supply snapshot for the same token and
// recomputes the derived field from the current driver value.
func (s *Session) UpdateSupply(supply curve.Supply) error {
	s.supply = supply
	driver := s.currencyAmount
	if s.tokenFieldIsDriver {
		driver = s.tokenAmount
	}
	if !driver.Valid {
		return nil
	}
	return s.recompute()
}

func (s *Session) SetMarket(market Market) {
	s.market = market
}

// SetBalances takes balances as given, Spendable already net of any reserve.
func (s *Session) SetBalances(balances Balances) {
	s.balances = balances
	s.reserveFromWallet = false
}

// SetWallet takes raw wallet amounts and holds back the slippage and fee
// reserve from the currency side at the session's current slippage.
func (s *Session) SetWallet(currency, tokens decimal.Decimal) {
	s.balances = NewBalances(currency, tokens, s.slippage, s.curve.Settings().Fees)
	s.reserveFromWallet = true
}

func (s *Session) recompute() error {
	var (
		derived decimal.Decimal
		post    curve.Supply
		err     error
	)
	if s.tokenFieldIsDriver {
		derived, post, err = s.quoteTokens(s.tokenAmount.Decimal)
	} else {
		derived, post, err = s.quoteCurrency(s.currencyAmount.Decimal)
	}
	if err == nil {
		s.nextMarginalPrice, err = s.curve.MarginalPrice(post)
	}
	if err != nil {
		if errors.Is(err, curve.ErrInvalidArgument) {
			s.clearDerived()
			return err
		}
		s.logger.Debug("trade quote degenerate, clearing derived field", "buying", s.isBuying, "token_driver", s.tokenFieldIsDriver, "error", err)
		s.clearDerived()
		return nil
	}
	if s.tokenFieldIsDriver {
		s.currencyAmount = decimal.NewNullDecimal(derived)
	} else {
		s.tokenAmount = decimal.NewNullDecimal(derived)
	}
	s.logger.Debug("trade quote recomputed",
		"buying", s.isBuying,
		"token_amount", s.tokenAmount.Decimal.String(),
		"currency_amount", s.currencyAmount.Decimal.String(),
		"next_marginal_price", s.nextMarginalPrice.String(),
	)
	return nil
}

// quoteTokens prices a whole-token amount and returns the whole-currency
// counter amount along with the post-trade supply.
func (s *Session) quoteTokens(tokens decimal.Decimal) (decimal.Decimal, curve.Supply, error) {
	count := curve.ToAtomic(tokens, s.supply.Decimals)
	if s.isBuying {
		cost, err := s.curve.BuyPriceWithFee(s.supply, count)
		if err != nil {
			return decimal.Zero, curve.Supply{}, err
		}
		return curve.FromAtomic(cost, curve.CurrencyDecimals), s.supply.Add(count), nil
	}
	if count.GreaterThan(s.supply.Amount) {
		return decimal.Zero, curve.Supply{}, fmt.Errorf("%w: selling %s of %s", curve.ErrExceedsSupply, tokens, s.supply.Whole())
	}
	ret, err := s.curve.SellReturn(s.supply, count)
	if err != nil {
		return decimal.Zero, curve.Supply{}, err
	}
	return curve.FromAtomic(ret, curve.CurrencyDecimals), s.supply.Sub(count), nil
}

// quoteCurrency inverts the curve for a whole-currency amount and returns the
// whole-token counter amount, rounded down to what the token can represent,
// along with the post-trade supply.
func (s *Session) quoteCurrency(amount decimal.Decimal) (decimal.Decimal, curve.Supply, error) {
	if s.isBuying {
		tokens, err := s.curve.TokensForBudget(s.supply, amount)
		if err != nil {
			return decimal.Zero, curve.Supply{}, err
		}
		tokens = tokens.RoundFloor(s.supply.Decimals)
		return tokens, s.supply.Add(curve.ToAtomic(tokens, s.supply.Decimals)), nil
	}
	tokens, err := s.curve.TokensForProceeds(s.supply, amount)
	if err != nil {
		return decimal.Zero, curve.Supply{}, err
	}
	tokens = tokens.RoundFloor(s.supply.Decimals)
	post := s.supply.Sub(curve.ToAtomic(tokens, s.supply.Decimals))
	if post.Amount.IsNegative() {
		post.Amount = decimal.Zero
	}
	return tokens, post, nil
}

func (s *Session) clearAmounts() {
	s.tokenAmount = decimal.NullDecimal{}
	s.currencyAmount = decimal.NullDecimal{}
	s.nextMarginalPrice = decimal.Zero
}

func (s *Session) clearDerived() {
	if s.tokenFieldIsDriver {
		s.currencyAmount = decimal.NullDecimal{}
	} else {
		s.tokenAmount = decimal.NullDecimal{}
	}
	s.nextMarginalPrice = decimal.Zero
}

// parseAmount accepts a positive decimal; anything else means "clear the form".
func parseAmount(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, false
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || !value.IsPositive() {
		return decimal.Zero, false
	}
	return value, true
}

func (s *Session) IsBuying() bool                      { return s.isBuying }
func (s *Session) TokenAmount() decimal.NullDecimal    { return s.tokenAmount }
func (s *Session) CurrencyAmount() decimal.NullDecimal { return s.currencyAmount }
func (s *Session) TokenFieldIsDriver() bool            { return s.tokenFieldIsDriver }
func (s *Session) Slippage() float64                   { return s.slippage }
func (s *Session) NextMarginalPrice() decimal.Decimal  { return s.nextMarginalPrice }
func (s *Session) Supply() curve.Supply                { return s.supply }
func (s *Session) Market() Market                      { return s.market }
func (s *Session) Balances() Balances                  { return s.balances }

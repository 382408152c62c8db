package trade

import (
	"github.com/shopspring/decimal"
)

// SpotPrice is the pre-trade quoted price for the current direction.
func (s *Session) SpotPrice() decimal.Decimal {
	if s.isBuying {
		return s.market.SpotBuyPrice
	}
	return s.market.SpotSellPrice
}

// AveragePrice is currency per token across the whole trade. Without both
// amounts it falls back to the spot price, which is zero when unquoted.
func (s *Session) AveragePrice() decimal.Decimal {
	if s.tokenAmount.Valid && s.currencyAmount.Valid && s.tokenAmount.Decimal.IsPositive() {
		return s.currencyAmount.Decimal.Div(s.tokenAmount.Decimal)
	}
	return s.SpotPrice()
}

// PriceImpact is how far the trade moves the marginal price away from spot,
// always reported as a non-negative magnitude. A missing spot or post-trade
// price yields zero.
func (s *Session) PriceImpact() decimal.Decimal {
	spot := s.SpotPrice()
	if !spot.IsPositive() || !s.nextMarginalPrice.IsPositive() {
		return decimal.Zero
	}
	diff := s.nextMarginalPrice.Sub(spot)
	if s.isBuying && !diff.IsNegative() {
		return diff
	}
	// sells push the price down; a stale spot can do the same to a buy
	return spot.Sub(s.nextMarginalPrice).Abs()
}

// PriceImpactPercent is PriceImpact relative to spot, in percent.
func (s *Session) PriceImpactPercent() decimal.Decimal {
	spot := s.SpotPrice()
	if !spot.IsPositive() {
		return decimal.Zero
	}
	return s.PriceImpact().Div(spot).Mul(hundred)
}

// IsInsufficientBalance compares the trade against the wallet: the currency
// cost when buying, the token amount when selling. Exact equality is enough.
func (s *Session) IsInsufficientBalance() bool {
	if s.isBuying {
		return s.currencyAmount.Valid && s.currencyAmount.Decimal.GreaterThan(s.balances.Spendable)
	}
	return s.tokenAmount.Valid && s.tokenAmount.Decimal.GreaterThan(s.balances.Tokens)
}

// ProtocolReward is the reward token amount a buy of the current currency amount mints.
func (s *Session) ProtocolReward() decimal.Decimal {
	if !s.currencyAmount.Valid {
		return decimal.Zero
	}
	return s.curve.ProtocolReward(s.currencyAmount.Decimal, s.isBuying)
}

// MaxCurrencyIn is the most currency a buy may spend once slippage is allowed for.
// It is null outside buy mode or without a currency amount.
func (s *Session) MaxCurrencyIn() (decimal.NullDecimal, error) {
	if !s.isBuying || !s.currencyAmount.Valid {
		return decimal.NullDecimal{}, nil
	}
	ratio, err := makeSlippageRatio(s.slippage)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(applySlippageCeil(s.currencyAmount.Decimal, ratio)), nil
}

// MinCurrencyOut is the least currency a sell may return once slippage is allowed for.
// It is null outside sell mode or without a currency amount.
func (s *Session) MinCurrencyOut() (decimal.NullDecimal, error) {
	if s.isBuying || !s.currencyAmount.Valid {
		return decimal.NullDecimal{}, nil
	}
	ratio, err := makeSlippageRatio(s.slippage)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	minOut, err := applySlippageFloor(s.currencyAmount.Decimal, ratio)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(minOut), nil
}

// Quote is a point-in-time copy of a session and everything derived from it.
type Quote struct {
	IsBuying           bool
	TokenAmount        decimal.NullDecimal
	CurrencyAmount     decimal.NullDecimal
	TokenFieldIsDriver bool
	Slippage           float64
	Supply             decimal.Decimal
	SpotPrice          decimal.Decimal
	NextMarginalPrice  decimal.Decimal
	AveragePrice       decimal.Decimal
	PriceImpact        decimal.Decimal
	PriceImpactPercent decimal.Decimal
	ProtocolReward     decimal.Decimal
	Insufficient       bool
	// SlippageBound is MaxCurrencyIn when buying and MinCurrencyOut when selling.
	SlippageBound decimal.NullDecimal
	SlippageErr   error
}

// Snapshot collects the current state and derived values in one value.
func (s *Session) Snapshot() Quote {
	q := Quote{
		IsBuying:           s.isBuying,
		TokenAmount:        s.tokenAmount,
		CurrencyAmount:     s.currencyAmount,
		TokenFieldIsDriver: s.tokenFieldIsDriver,
		Slippage:           s.slippage,
		Supply:             s.supply.Whole(),
		SpotPrice:          s.SpotPrice(),
		NextMarginalPrice:  s.nextMarginalPrice,
		AveragePrice:       s.AveragePrice(),
		PriceImpact:        s.PriceImpact(),
		PriceImpactPercent: s.PriceImpactPercent(),
		ProtocolReward:     s.ProtocolReward(),
		Insufficient:       s.IsInsufficientBalance(),
	}
	if s.isBuying {
		q.SlippageBound, q.SlippageErr = s.MaxCurrencyIn()
	} else {
		q.SlippageBound, q.SlippageErr = s.MinCurrencyOut()
	}
	return q
}

// Package curve prices trades along the exponential bonding curve used by the
// token sale contracts. Supply and currency amounts cross the package boundary
// as atomic-unit decimals; integration itself runs in float64 on whole-token
// values so the exponent stays in a stable range.
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidArgument is returned when the curve is asked to integrate over a negative supply or count.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNumericDegenerate is returned when integration produces a non-finite value.
	ErrNumericDegenerate = errors.New("numeric result is degenerate")
	// ErrExceedsSupply is returned when a sell would need more tokens than the supply holds.
	ErrExceedsSupply = errors.New("amount exceeds available supply")
	// ErrInvalidSettings is returned by New for settings that break monotonicity or the solver.
	ErrInvalidSettings = errors.New("invalid curve settings")
)

// Settings parameterise the price density f(x) = A*e^(K*x) - C and the
// numerical machinery built on top of it.
type Settings struct {
	A            float64        `toml:"a"`
	K            float64        `toml:"k"`
	C            float64        `toml:"c"`
	Subintervals int            `toml:"subintervals"`
	Solver       SolverSettings `toml:"solver"`
	Fees         FeeSettings    `toml:"fees"`
}

// DefaultSettings mirrors the constants deployed with the sale contracts.
func DefaultSettings() Settings {
	return Settings{
		A:            0.001,
		K:            0.00000001,
		C:            0.0009999,
		Subintervals: 100,
		Solver:       DefaultSolverSettings(),
		Fees:         DefaultFeeSettings(),
	}
}

// Validate reports the first setting that would make the curve non-monotonic or
// the solver unable to terminate.
func (s Settings) Validate() error {
	switch {
	case !isFinite(s.A) || s.A <= 0:
		return fmt.Errorf("%w: a must be positive, got %v", ErrInvalidSettings, s.A)
	case !isFinite(s.K) || s.K <= 0:
		return fmt.Errorf("%w: k must be positive, got %v", ErrInvalidSettings, s.K)
	case !isFinite(s.C) || s.C < 0:
		return fmt.Errorf("%w: c must be non-negative, got %v", ErrInvalidSettings, s.C)
	case s.A <= s.C:
		// f(0) = a - c has to stay positive or the first tokens would be free
		return fmt.Errorf("%w: a (%v) must exceed c (%v)", ErrInvalidSettings, s.A, s.C)
	case s.Subintervals <= 0:
		return fmt.Errorf("%w: subintervals must be positive, got %d", ErrInvalidSettings, s.Subintervals)
	}
	if err := s.Solver.validate(); err != nil {
		return err
	}
	return s.Fees.validate()
}

// Curve evaluates the bonding curve. It holds no mutable state and is safe for
// concurrent use.
type Curve struct {
	settings Settings
}

// New validates settings and returns a curve using them.
func New(settings Settings) (*Curve, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Curve{settings: settings}, nil
}

// Default returns a curve with DefaultSettings.
func Default() *Curve {
	return &Curve{settings: DefaultSettings()}
}

func (c *Curve) Settings() Settings {
	return c.settings
}

// Density is the instantaneous price, in whole currency per whole token, at a
// cumulative whole-token supply x.
func (c *Curve) Density(x float64) float64 {
	return c.settings.A*math.Exp(c.settings.K*x) - c.settings.C
}

// integrate applies the composite trapezoidal rule to the density over
// [from, from+count], both in whole tokens.
func (c *Curve) integrate(from, count float64) float64 {
	n := c.settings.Subintervals
	h := count / float64(n)
	sum := (c.Density(from) + c.Density(from+count)) / 2
	for i := 1; i < n; i++ {
		sum += c.Density(from + float64(i)*h)
	}
	return sum * h
}

// IntegralCost returns the currency, in atomic units, needed to move the
// supply from totalSupply to totalSupply+count. Both inputs are atomic token
// amounts scaled by decimals.
func (c *Curve) IntegralCost(totalSupply, count decimal.Decimal, decimals int32) (decimal.Decimal, error) {
	if totalSupply.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: supply must be non-negative, got %s", ErrInvalidArgument, totalSupply)
	}
	if count.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: count must be non-negative, got %s", ErrInvalidArgument, count)
	}
	if count.IsZero() {
		return decimal.Zero, nil
	}
	from := FromAtomic(totalSupply, decimals).InexactFloat64()
	n := FromAtomic(count, decimals).InexactFloat64()
	area := c.integrate(from, n)
	if !isFinite(area) {
		return decimal.Zero, fmt.Errorf("%w: integral over [%v, %v] is %v", ErrNumericDegenerate, from, from+n, area)
	}
	return ToAtomic(decimal.NewFromFloat(area), CurrencyDecimals), nil
}

// BuyPrice is the atomic currency cost of minting count atomic tokens on top of supply.
func (c *Curve) BuyPrice(supply Supply, count decimal.Decimal) (decimal.Decimal, error) {
	return c.IntegralCost(supply.Amount, count, supply.Decimals)
}

// SellReturn is the atomic currency returned for burning count atomic tokens
// out of supply. It integrates the exact segment a buy of count at
// supply-count would have covered.
func (c *Curve) SellReturn(supply Supply, count decimal.Decimal) (decimal.Decimal, error) {
	if count.GreaterThan(supply.Amount) {
		return decimal.Zero, fmt.Errorf("%w: cannot sell %s out of supply %s", ErrInvalidArgument, count, supply.Amount)
	}
	return c.IntegralCost(supply.Amount.Sub(count), count, supply.Decimals)
}

// MarginalPrice is the density evaluated at the supply snapshot, in whole
// currency per whole token.
func (c *Curve) MarginalPrice(supply Supply) (decimal.Decimal, error) {
	if supply.Amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: supply must be non-negative, got %s", ErrInvalidArgument, supply.Amount)
	}
	price := c.Density(supply.Whole().InexactFloat64())
	if !isFinite(price) {
		return decimal.Zero, fmt.Errorf("%w: marginal price at supply %s is %v", ErrNumericDegenerate, supply.Whole(), price)
	}
	return decimal.NewFromFloat(price), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

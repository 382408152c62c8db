package curve

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// SolverSettings bound the bisection used to invert the curve. None of these
// come from a documented error budget; tune them if round trips drift.
type SolverSettings struct {
	Tolerance     float64 `toml:"tolerance"`
	MaxIterations int     `toml:"max_iterations"`
	// UpperBound is the largest whole-token count the buy-side search considers.
	UpperBound float64 `toml:"upper_bound"`
}

func DefaultSolverSettings() SolverSettings {
	return SolverSettings{
		Tolerance:     1e-3,
		MaxIterations: 1000,
		UpperBound:    1e12,
	}
}

func (s SolverSettings) validate() error {
	switch {
	case !isFinite(s.Tolerance) || s.Tolerance <= 0:
		return fmt.Errorf("%w: solver tolerance must be positive, got %v", ErrInvalidSettings, s.Tolerance)
	case s.MaxIterations <= 0:
		return fmt.Errorf("%w: solver max iterations must be positive, got %d", ErrInvalidSettings, s.MaxIterations)
	case !isFinite(s.UpperBound) || s.UpperBound <= 0:
		return fmt.Errorf("%w: solver upper bound must be positive, got %v", ErrInvalidSettings, s.UpperBound)
	}
	return nil
}

// TokensForBudget returns how many whole tokens a budget of whole currency buys
// at supply, using the configured tolerance.
func (c *Curve) TokensForBudget(supply Supply, budget decimal.Decimal) (decimal.Decimal, error) {
	return c.TokensForBudgetTolerance(supply, budget, c.settings.Solver.Tolerance)
}

// TokensForBudgetTolerance bisects over [0, UpperBound] until the integral cost
// lands within tolerance of budget or the iteration cap is hit. The midpoint
// reached at that moment is returned.
func (c *Curve) TokensForBudgetTolerance(supply Supply, budget decimal.Decimal, tolerance float64) (decimal.Decimal, error) {
	if supply.Amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: supply must be non-negative, got %s", ErrInvalidArgument, supply.Amount)
	}
	if !budget.IsPositive() {
		return decimal.Zero, nil
	}
	if !isFinite(tolerance) || tolerance <= 0 {
		return decimal.Zero, fmt.Errorf("%w: tolerance must be positive, got %v", ErrInvalidArgument, tolerance)
	}
	from := supply.Whole().InexactFloat64()
	target := budget.InexactFloat64()
	count := c.bisect(c.settings.Solver.UpperBound, target, tolerance, func(n float64) float64 {
		return c.integrate(from, n)
	})
	return decimal.NewFromFloat(count), nil
}

// TokensForProceeds returns how many whole tokens must be sold at supply to
// receive proceeds whole currency. The search is bounded by the supply itself;
// proceeds above what the whole supply returns yield ErrExceedsSupply.
func (c *Curve) TokensForProceeds(supply Supply, proceeds decimal.Decimal) (decimal.Decimal, error) {
	if supply.Amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: supply must be non-negative, got %s", ErrInvalidArgument, supply.Amount)
	}
	if !proceeds.IsPositive() {
		return decimal.Zero, nil
	}
	total := supply.Whole().InexactFloat64()
	target := proceeds.InexactFloat64()
	tolerance := c.settings.Solver.Tolerance
	if total <= 0 {
		return decimal.Zero, fmt.Errorf("%w: supply is empty", ErrExceedsSupply)
	}
	if ceiling := c.integrate(0, total); isFinite(ceiling) && target > ceiling+tolerance {
		return decimal.Zero, fmt.Errorf("%w: selling the whole supply returns %v, requested %v", ErrExceedsSupply, ceiling, target)
	}
	count := c.bisect(total, target, tolerance, func(n float64) float64 {
		return c.integrate(total-n, n)
	})
	return decimal.NewFromFloat(count), nil
}

// bisect narrows [0, hi] toward the count whose cost hits target. cost must be
// increasing in its argument.
func (c *Curve) bisect(hi, target, tolerance float64, cost func(float64) float64) float64 {
	lo := 0.0
	mid := (lo + hi) / 2
	for i := 0; i < c.settings.Solver.MaxIterations; i++ {
		mid = (lo + hi) / 2
		got := cost(mid)
		if math.Abs(got-target) < tolerance {
			break
		}
		if got < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return mid
}

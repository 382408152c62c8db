package curve

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FeeSettings hold the protocol surcharges layered on top of raw curve math.
type FeeSettings struct {
	// BuySurcharge is added to the raw integral on fee-adjusted buys, 0.005 = 0.5%.
	BuySurcharge float64 `toml:"buy_surcharge"`
	// RewardRatio is how many reward tokens are minted per whole currency spent.
	RewardRatio float64 `toml:"reward_ratio"`
	// AffiliationFee is withheld from the reward, 0.05 = 5%.
	AffiliationFee float64 `toml:"affiliation_fee"`
}

func DefaultFeeSettings() FeeSettings {
	return FeeSettings{
		BuySurcharge:   0.005,
		RewardRatio:    1000,
		AffiliationFee: 0.05,
	}
}

func (f FeeSettings) validate() error {
	switch {
	case !isFinite(f.BuySurcharge) || f.BuySurcharge < 0:
		return fmt.Errorf("%w: buy surcharge must be non-negative, got %v", ErrInvalidSettings, f.BuySurcharge)
	case !isFinite(f.RewardRatio) || f.RewardRatio < 0:
		return fmt.Errorf("%w: reward ratio must be non-negative, got %v", ErrInvalidSettings, f.RewardRatio)
	case !isFinite(f.AffiliationFee) || f.AffiliationFee < 0 || f.AffiliationFee >= 1:
		return fmt.Errorf("%w: affiliation fee must be in [0, 1), got %v", ErrInvalidSettings, f.AffiliationFee)
	}
	return nil
}

// BuyMultiplier is 1 + BuySurcharge, built in decimal so 0.005 stays exact.
func (f FeeSettings) BuyMultiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Add(decimal.NewFromFloat(f.BuySurcharge))
}

// BuyPriceWithFee is BuyPrice scaled by the protocol surcharge.
func (c *Curve) BuyPriceWithFee(supply Supply, count decimal.Decimal) (decimal.Decimal, error) {
	cost, err := c.BuyPrice(supply, count)
	if err != nil {
		return decimal.Zero, err
	}
	return cost.Mul(c.settings.Fees.BuyMultiplier()), nil
}

// ProtocolReward is the reward token amount minted alongside a buy, rounded to
// two decimals. Sells earn nothing. The reward never feeds back into pricing.
func (c *Curve) ProtocolReward(currencySpent decimal.Decimal, isBuying bool) decimal.Decimal {
	if !isBuying || !currencySpent.IsPositive() {
		return decimal.Zero
	}
	net := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(c.settings.Fees.AffiliationFee))
	return net.Mul(decimal.NewFromFloat(c.settings.Fees.RewardRatio)).Mul(currencySpent).Round(2)
}

package core

import (
	"github.com/holiman/uint256"
)

// InterestRateConfig is the two-segment utilization curve: linear up to the
// optimal utilization, then a steeper line from the plateau rate to the max
// rate at full utilization. All parameters are WAD-scaled annual rates.
type InterestRateConfig struct {
	OptimalUtilizationRate *uint256.Int `json:"optimalUtilizationRate"`
	PlateauInterestRate    *uint256.Int `json:"plateauInterestRate"`
	MaxInterestRate        *uint256.Int `json:"maxInterestRate"`
}

func (c *InterestRateConfig) Validate() error {
	if c.OptimalUtilizationRate.IsZero() || !c.OptimalUtilizationRate.Lt(WAD) {
		return ErrOptimalUr
	}
	if c.PlateauInterestRate.IsZero() {
		return ErrPlateauIr
	}
	if c.MaxInterestRate.IsZero() {
		return ErrMaxIr
	}
	if !c.PlateauInterestRate.Lt(c.MaxInterestRate) {
		return ErrPlateauGreaterThanMax
	}
	return nil
}

// InterestRateCurve returns the annual borrow rate for a WAD utilization
// ratio.
func (c *InterestRateConfig) InterestRateCurve(utilization *uint256.Int) (*uint256.Int, error) {
	if !utilization.Gt(c.OptimalUtilizationRate) {
		// ur / optimal_ur * plateau_ir
		scaled, err := DivWad(utilization, c.OptimalUtilizationRate)
		if err != nil {
			return nil, err
		}
		return MulWad(scaled, c.PlateauInterestRate)
	}

	// (ur - optimal_ur) / (1 - optimal_ur) * (max_ir - plateau_ir) + plateau_ir
	excess := new(uint256.Int).Sub(utilization, c.OptimalUtilizationRate)
	span := new(uint256.Int).Sub(WAD, c.OptimalUtilizationRate)
	slope := new(uint256.Int).Sub(c.MaxInterestRate, c.PlateauInterestRate)

	ratio, err := DivWad(excess, span)
	if err != nil {
		return nil, err
	}
	extra, err := MulWad(ratio, slope)
	if err != nil {
		return nil, err
	}
	return addChecked(extra, c.PlateauInterestRate)
}

// RatePerPeriod scales the annual rate down to an elapsed period in seconds.
func (c *InterestRateConfig) RatePerPeriod(utilization *uint256.Int, seconds int64) (*uint256.Int, error) {
	if seconds <= 0 {
		return uint256.NewInt(0), nil
	}
	annual, err := c.InterestRateCurve(utilization)
	if err != nil {
		return nil, err
	}
	return mulDiv(annual, uint256.NewInt(uint64(seconds)), uint256.NewInt(SECONDS_PER_YEAR))
}

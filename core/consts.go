package core

import (
	"github.com/holiman/uint256"
)

const (
	SECONDS_PER_YEAR = 31_536_000
)

var (
	// WAD is the fixed-point scale factor representing 1.0.
	WAD = uint256.NewInt(1e18)

	// MaxAmount is the "take everything" sentinel accepted by Borrow and
	// CollateralNeededForBorrow.
	MaxAmount = new(uint256.Int).SetAllOne()

	// MIN_LIQUIDITY_THRESHOLD is the floor for the configurable liquidity
	// threshold, 1%.
	MIN_LIQUIDITY_THRESHOLD = uint256.NewInt(1e16)

	// MIN_LIQUIDITY_HEALTH_RATE is the pool health floor below which no
	// liquidity may be extracted, 2%.
	MIN_LIQUIDITY_HEALTH_RATE = uint256.NewInt(2e16)
)

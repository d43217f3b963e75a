package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
)

// PriceOracle converts a collateral-token amount into base-asset value. The
// amount parameter is in the token's native unit; the returned value is WAD
// base-asset units, already rescaled by the feed's decimals. Implementations
// fail StaleOrInvalidRate when the underlying feed reports a non-positive
// rate and OracleInvalidAmount on a zero amount.
type PriceOracle interface {
	Quote(ctx context.Context, priceSource uuid.UUID, amount *uint256.Int) (*uint256.Int, error)
	Decimals(ctx context.Context, priceSource uuid.UUID) (uint8, error)
}

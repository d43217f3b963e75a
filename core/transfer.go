package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
)

// AssetTransferor is the outbound/inbound asset movement capability. Calls
// are synchronous; a failure aborts the enclosing vault operation, which then
// rolls its ledger mutations back. Pull transfers follow an approve-then-pull
// allowance model enforced by the implementation.
type AssetTransferor interface {
	// PushBase sends base-asset out of the pool to an account.
	PushBase(ctx context.Context, to uuid.UUID, amount *uint256.Int) error
	// PushToken sends collateral-token units to an account.
	PushToken(ctx context.Context, token, to uuid.UUID, amount *uint256.Int) error
	// PullToken draws collateral-token units from an account into the pool.
	// Fails InsufficientAllowance when the account's pre-authorized transfer
	// allowance is below amount.
	PullToken(ctx context.Context, token, from uuid.UUID, amount *uint256.Int) error
}

package core

import (
	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
)

type (
	// VaultStats is the read-only aggregate snapshot of the vault.
	VaultStats struct {
		DepositIndex       *uint256.Int `json:"depositIndex"`
		BorrowIndex        *uint256.Int `json:"borrowIndex"`
		TotalLiquidity     *uint256.Int `json:"totalLiquidity"`
		TotalBorrowScaled  *uint256.Int `json:"totalBorrowScaled"`
		InterestCollected  *uint256.Int `json:"interestCollected"`
		LiquidityThreshold *uint256.Int `json:"liquidityThreshold"`
		LiquidityPrecision *uint256.Int `json:"liquidityPrecision"`
	}

	// PositionView is the read-only per-(account, token) snapshot.
	PositionView struct {
		AccountId           uuid.UUID    `json:"accountId"`
		TokenId             uuid.UUID    `json:"tokenId"`
		ScaledDebt          *uint256.Int `json:"scaledDebt"`
		AccruedDebt         *uint256.Int `json:"accruedDebt"`
		LockedCollateral    *uint256.Int `json:"lockedCollateral"`
		AvailableCollateral *uint256.Int `json:"availableCollateral"`
		Healthy             bool         `json:"healthy"`
	}
)

package core

import (
	"context"

	"github.com/ethervault/core/utils"
	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
	"gorm.io/gorm"
)

type (
	PositionStore interface {
		FindPosition(ctx context.Context, accountId, tokenId uuid.UUID) (*DebtPosition, error)
		UpsertPosition(ctx context.Context, position *DebtPosition) error
		ListPositions(ctx context.Context, accountId uuid.UUID) ([]*DebtPosition, error)
	}

	// DebtPosition is the per-(account, token) debt record. Debt is scaled by
	// the borrow index at last touch; locked collateral moves only in
	// lockstep with debt, available collateral only via deposit and borrow.
	// Positions return to all-zero on full repayment or full liquidation and
	// are never deleted.
	DebtPosition struct {
		Id        uuid.UUID `json:"id"`
		AccountId uuid.UUID `json:"accountId"`
		TokenId   uuid.UUID `json:"tokenId"`

		Debt                *uint256.Int `json:"debt"`
		LockedCollateral    *uint256.Int `json:"lockedCollateral"`
		AvailableCollateral *uint256.Int `json:"availableCollateral"`

		CreatedAt  int64 `json:"createdAt"`
		LastUpdate int64 `json:"lastUpdate"`
	}
)

func NewDebtPosition(clk clock.Clock, accountId, tokenId uuid.UUID) *DebtPosition {
	return &DebtPosition{
		Id:                  uuid.Must(uuid.FromString(utils.GenUuidFromStrings(accountId.String(), tokenId.String()))),
		AccountId:           accountId,
		TokenId:             tokenId,
		Debt:                uint256.NewInt(0),
		LockedCollateral:    uint256.NewInt(0),
		AvailableCollateral: uint256.NewInt(0),
		CreatedAt:           clk.Now().Unix(),
		LastUpdate:          clk.Now().Unix(),
	}
}

func FindOrCreatePosition(ctx context.Context, clk clock.Clock, store PositionStore, accountId, tokenId uuid.UUID) (*DebtPosition, error) {
	position, err := store.FindPosition(ctx, accountId, tokenId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			position = NewDebtPosition(clk, accountId, tokenId)
			if err := store.UpsertPosition(ctx, position); err != nil {
				return nil, err
			}
			return position, nil
		}
		return nil, err
	}
	return position, nil
}

func (p *DebtPosition) Clone() *DebtPosition {
	return &DebtPosition{
		Id:                  p.Id,
		AccountId:           p.AccountId,
		TokenId:             p.TokenId,
		Debt:                p.Debt.Clone(),
		LockedCollateral:    p.LockedCollateral.Clone(),
		AvailableCollateral: p.AvailableCollateral.Clone(),
		CreatedAt:           p.CreatedAt,
		LastUpdate:          p.LastUpdate,
	}
}

func (p *DebtPosition) IsEmpty() bool {
	return p.Debt.IsZero() && p.LockedCollateral.IsZero() && p.AvailableCollateral.IsZero()
}

// AccruedDebt is the real amount owed right now: debt * borrowIndex / WAD.
func (p *DebtPosition) AccruedDebt(borrowIndex *uint256.Int) (*uint256.Int, error) {
	return MulWad(p.Debt, borrowIndex)
}

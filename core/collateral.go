package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
	"gorm.io/gorm"
)

type (
	CollateralStore interface {
		GetCollateral(ctx context.Context, token uuid.UUID) (*CollateralEntry, error)
		UpsertCollateral(ctx context.Context, entry *CollateralEntry) error
		ListCollaterals(ctx context.Context) ([]*CollateralEntry, error)
	}

	// CollateralEntry holds the per-token risk parameters. An entry exists
	// once its LoanToValueMultiplier is non-zero; it is supported as borrow
	// collateral while its PriceSource is non-nil. Entries are never deleted.
	CollateralEntry struct {
		Token       uuid.UUID `json:"token"`
		PriceSource uuid.UUID `json:"priceSource"`

		// LoanToValueMultiplier is the inverse haircut, >= WAD. A token with
		// multiplier 1.5 WAD backs 1/1.5 base-asset of borrow per unit of
		// base-asset value.
		LoanToValueMultiplier *uint256.Int `json:"loanToValueMultiplier"`
	}
)

func (e *CollateralEntry) Clone() *CollateralEntry {
	return &CollateralEntry{
		Token:                 e.Token,
		PriceSource:           e.PriceSource,
		LoanToValueMultiplier: e.LoanToValueMultiplier.Clone(),
	}
}

type CollateralRegistry struct {
	store  CollateralStore
	oracle PriceOracle
}

func NewCollateralRegistry(store CollateralStore, oracle PriceOracle) *CollateralRegistry {
	return &CollateralRegistry{store: store, oracle: oracle}
}

func (r *CollateralRegistry) Entry(ctx context.Context, token uuid.UUID) (*CollateralEntry, error) {
	entry, err := r.store.GetCollateral(ctx, token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, CollateralDoesNotExist
		}
		return nil, err
	}
	return entry, nil
}

// AddCollateral registers a fresh collateral token. ModifyCollateral can also
// create entries; the "already exists" guard here is a convenience for admin
// tooling, not a security boundary.
func (r *CollateralRegistry) AddCollateral(ctx context.Context, token, priceSource uuid.UUID, lvm *uint256.Int) error {
	entry, err := r.store.GetCollateral(ctx, token)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if entry != nil && !entry.LoanToValueMultiplier.IsZero() {
		return CollateralAlreadyExists
	}
	return r.ModifyCollateral(ctx, token, priceSource, lvm)
}

// ModifyCollateral fully overwrites (or creates) the entry for token.
func (r *CollateralRegistry) ModifyCollateral(ctx context.Context, token, priceSource uuid.UUID, lvm *uint256.Int) error {
	if token == uuid.Nil || priceSource == uuid.Nil || lvm.Lt(WAD) {
		return InvalidCollateralParams
	}
	return r.store.UpsertCollateral(ctx, &CollateralEntry{
		Token:                 token,
		PriceSource:           priceSource,
		LoanToValueMultiplier: lvm.Clone(),
	})
}

func (r *CollateralRegistry) ModifyPriceSource(ctx context.Context, token, priceSource uuid.UUID) error {
	if token == uuid.Nil || priceSource == uuid.Nil {
		return InvalidCollateralParams
	}
	entry, err := r.existing(ctx, token)
	if err != nil {
		return err
	}
	entry.PriceSource = priceSource
	return r.store.UpsertCollateral(ctx, entry)
}

func (r *CollateralRegistry) ModifyLvm(ctx context.Context, token uuid.UUID, lvm *uint256.Int) error {
	if token == uuid.Nil || lvm.Lt(WAD) {
		return InvalidCollateralParams
	}
	entry, err := r.existing(ctx, token)
	if err != nil {
		return err
	}
	entry.LoanToValueMultiplier = lvm.Clone()
	return r.store.UpsertCollateral(ctx, entry)
}

func (r *CollateralRegistry) existing(ctx context.Context, token uuid.UUID) (*CollateralEntry, error) {
	entry, err := r.store.GetCollateral(ctx, token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, CollateralDoesNotExist
		}
		return nil, err
	}
	if entry.LoanToValueMultiplier.IsZero() {
		return nil, CollateralDoesNotExist
	}
	return entry.Clone(), nil
}

// Valuate converts amount token units into WAD base-asset value via the
// token's price source.
func (r *CollateralRegistry) Valuate(ctx context.Context, token uuid.UUID, amount *uint256.Int) (*uint256.Int, error) {
	entry, err := r.store.GetCollateral(ctx, token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &CollateralTokenNotSupportedError{Token: token}
		}
		return nil, err
	}
	if entry.PriceSource == uuid.Nil {
		return nil, &CollateralTokenNotSupportedError{Token: token}
	}
	return r.oracle.Quote(ctx, entry.PriceSource, amount)
}

// MaxBorrowFromCollateral applies the loan-to-value haircut to the oracle
// valuation: value * WAD / lvm.
func (r *CollateralRegistry) MaxBorrowFromCollateral(ctx context.Context, token uuid.UUID, amount *uint256.Int) (*uint256.Int, error) {
	value, err := r.Valuate(ctx, token, amount)
	if err != nil {
		return nil, err
	}
	entry, err := r.Entry(ctx, token)
	if err != nil {
		return nil, err
	}
	return DivWad(value, entry.LoanToValueMultiplier)
}

// CollateralNeededForBorrow inverts MaxBorrowFromCollateral through the
// per-unit rate. The MaxAmount sentinel passes through unchanged, which the
// borrow path reads as "use all available collateral".
func (r *CollateralRegistry) CollateralNeededForBorrow(ctx context.Context, token uuid.UUID, ethAmount *uint256.Int) (*uint256.Int, error) {
	if ethAmount.Eq(MaxAmount) {
		return ethAmount.Clone(), nil
	}
	ethPerUnit, err := r.MaxBorrowFromCollateral(ctx, token, WAD)
	if err != nil {
		return nil, err
	}
	return DivWad(ethAmount, ethPerUnit)
}

package core

import (
	"context"
	"sync"

	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Vault is the collateralized-debt engine. It owns the borrow index and
// composes the receipt ledger, the liquidity pool, the collateral registry
// and the per-position debt records.
//
// Every public operation runs under a single mutex: operations are atomic
// with respect to each other, and the lock doubles as the reentrancy guard
// around outbound transfers. Ledger mutations that precede a failed transfer
// are rolled back before the error is returned, so callers never observe a
// partial commit.
type Vault struct {
	mu sync.Mutex

	clk  clock.Clock
	log  Log
	auth Authorizer

	assets    AssetTransferor
	registry  *CollateralRegistry
	receipt   *ReceiptLedger
	pool      *Pool
	positions PositionStore
	events    EventStore

	borrowIndex *uint256.Int

	rateModel   *InterestRateConfig
	lastAccrual int64
}

type VaultOption func(v *Vault)

func WithClock(clk clock.Clock) VaultOption {
	return func(v *Vault) { v.clk = clk }
}

func WithLog(log Log) VaultOption {
	return func(v *Vault) { v.log = log }
}

// WithRateModel enables AccrueInterestFromModel with the given utilization
// curve.
func WithRateModel(model *InterestRateConfig) VaultOption {
	return func(v *Vault) { v.rateModel = model }
}

func NewVault(
	registry *CollateralRegistry,
	receipt *ReceiptLedger,
	positions PositionStore,
	events EventStore,
	assets AssetTransferor,
	auth Authorizer,
	opts ...VaultOption,
) *Vault {
	nop := zerolog.Nop()
	v := &Vault{
		clk:         clock.New(),
		log:         &nop,
		auth:        auth,
		assets:      assets,
		registry:    registry,
		receipt:     receipt,
		pool:        NewPool(),
		positions:   positions,
		events:      events,
		borrowIndex: WAD.Clone(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.lastAccrual = v.clk.Now().Unix()
	return v
}

func (v *Vault) BorrowIndex() *uint256.Int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.borrowIndex.Clone()
}

func (v *Vault) DepositIndex() *uint256.Int {
	return v.receipt.DepositIndex()
}

func (v *Vault) Receipt() *ReceiptLedger { return v.receipt }

func (v *Vault) Registry() *CollateralRegistry { return v.registry }

// Deposit credits the pool with an attached base-asset payment and mints the
// depositor an equal receipt value at the current deposit index.
func (v *Vault) Deposit(ctx context.Context, caller uuid.UUID, amount *uint256.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if amount.IsZero() {
		return InvalidAmount
	}
	if err := v.pool.Credit(amount); err != nil {
		return err
	}
	if _, err := v.receipt.Mint(caller, amount); err != nil {
		v.pool.Debit(amount)
		return err
	}

	v.log.Debug().Str("account", caller.String()).Str("amount", amount.Dec()).Msg("deposit")
	return nil
}

// Withdraw burns receipt value and pushes base asset back to the holder,
// throttled by the pool's extractable liquidity.
func (v *Vault) Withdraw(ctx context.Context, caller uuid.UUID, amount *uint256.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if amount.IsZero() {
		return InvalidAmount
	}

	maxAmount, err := v.pool.MaxExtractable(v.receipt)
	if err != nil {
		return err
	}
	if amount.Gt(maxAmount) {
		return &NotEnoughLiquidityError{Available: maxAmount}
	}

	rawBurned, err := v.receipt.Burn(caller, amount)
	if err != nil {
		return err
	}
	if err := v.pool.Debit(amount); err != nil {
		v.receipt.mintRaw(caller, rawBurned)
		return err
	}

	if err := v.assets.PushBase(ctx, caller, amount); err != nil {
		v.pool.Credit(amount)
		v.receipt.mintRaw(caller, rawBurned)
		return errors.WithMessagef(InvalidTransfer, "withdraw push: %v", err)
	}

	v.log.Debug().Str("account", caller.String()).Str("amount", amount.Dec()).Msg("withdraw")
	return nil
}

// DepositCollateral records the collateral first and pulls the tokens from
// the caller afterwards; a failed pull undoes the record.
func (v *Vault) DepositCollateral(ctx context.Context, caller, token uuid.UUID, amount *uint256.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if amount.IsZero() {
		return InvalidAmount
	}
	entry, err := v.registry.Entry(ctx, token)
	if err != nil {
		if err == CollateralDoesNotExist {
			return &CollateralTokenNotSupportedError{Token: token}
		}
		return err
	}
	if entry.PriceSource == uuid.Nil {
		return &CollateralTokenNotSupportedError{Token: token}
	}

	position, err := FindOrCreatePosition(ctx, v.clk, v.positions, caller, token)
	if err != nil {
		return err
	}
	snapshot := position.Clone()

	position.AvailableCollateral, err = addChecked(position.AvailableCollateral, amount)
	if err != nil {
		return err
	}
	position.LastUpdate = v.clk.Now().Unix()
	if err := v.positions.UpsertPosition(ctx, position); err != nil {
		return err
	}

	if err := v.assets.PullToken(ctx, token, caller, amount); err != nil {
		v.positions.UpsertPosition(ctx, snapshot)
		if errors.Is(err, InsufficientAllowance) {
			return err
		}
		return errors.WithMessagef(InvalidTransfer, "collateral pull: %v", err)
	}

	v.log.Debug().
		Str("account", caller.String()).
		Str("token", token.String()).
		Str("amount", amount.Dec()).
		Msg("collateral deposited")
	return nil
}

// Borrow locks collateral and lends base asset against it. With
// takeMaxAvailable the requested amount is clamped to what the collateral
// and the pool can support; passing MaxAmount together with takeMaxAvailable
// is the borrow-max composite.
func (v *Vault) Borrow(ctx context.Context, caller, token uuid.UUID, amount *uint256.Int, takeMaxAvailable bool) (*uint256.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if amount.IsZero() {
		return nil, InvalidAmount
	}

	position, err := FindOrCreatePosition(ctx, v.clk, v.positions, caller, token)
	if err != nil {
		return nil, err
	}
	available := position.AvailableCollateral.Clone()
	if available.IsZero() {
		return nil, &NotEnoughCollateralError{Available: uint256.NewInt(0)}
	}

	amount = amount.Clone()
	locked, err := v.registry.CollateralNeededForBorrow(ctx, token, amount)
	if err != nil {
		return nil, err
	}
	if locked.Gt(available) {
		if !takeMaxAvailable {
			return nil, &NotEnoughCollateralError{Available: available}
		}
		locked = available.Clone()
		amount, err = v.registry.MaxBorrowFromCollateral(ctx, token, available)
		if err != nil {
			return nil, err
		}
	}

	maxAmount, err := v.pool.MaxExtractable(v.receipt)
	if err != nil {
		return nil, err
	}
	if maxAmount.IsZero() {
		return nil, &NotEnoughLiquidityError{Available: uint256.NewInt(0)}
	}
	if amount.Gt(maxAmount) {
		if !takeMaxAvailable {
			return nil, &NotEnoughLiquidityError{Available: maxAmount}
		}
		amount = maxAmount.Clone()
	}

	scaledDebt, err := DivWad(amount, v.borrowIndex)
	if err != nil {
		return nil, err
	}

	snapshot := position.Clone()
	if err := v.pool.Debit(amount); err != nil {
		return nil, err
	}

	position.Debt, err = addChecked(position.Debt, scaledDebt)
	if err == nil {
		position.AvailableCollateral, err = subChecked(position.AvailableCollateral, locked)
	}
	if err == nil {
		position.LockedCollateral, err = addChecked(position.LockedCollateral, locked)
	}
	if err == nil {
		err = v.pool.addBorrowScaled(scaledDebt)
	}
	if err != nil {
		v.pool.Credit(amount)
		return nil, err
	}
	position.LastUpdate = v.clk.Now().Unix()
	if err := v.positions.UpsertPosition(ctx, position); err != nil {
		v.pool.Credit(amount)
		v.pool.subBorrowScaled(scaledDebt)
		return nil, err
	}

	if err := v.assets.PushBase(ctx, caller, amount); err != nil {
		v.pool.Credit(amount)
		v.pool.subBorrowScaled(scaledDebt)
		v.positions.UpsertPosition(ctx, snapshot)
		return nil, errors.WithMessagef(InvalidTransfer, "borrow push: %v", err)
	}

	v.emitEvent(ctx, NewBorrowEvent(v.clk, caller, token, locked, amount))
	v.log.Info().
		Str("account", caller.String()).
		Str("token", token.String()).
		Str("collateralUsed", locked.Dec()).
		Str("ethBorrowed", amount.Dec()).
		Msg("borrowed")
	return amount.Clone(), nil
}

// Repay applies an attached base-asset payment against the position's
// accrued debt, releases collateral proportionally and refunds any excess.
// It returns the real amount repaid and the collateral returned.
func (v *Vault) Repay(ctx context.Context, caller, token uuid.UUID, paid *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if paid.IsZero() {
		return nil, nil, InvalidAmount
	}

	position, err := v.positions.FindPosition(ctx, caller, token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, &NoDebtForCollateralError{Token: token}
		}
		return nil, nil, err
	}
	if position.Debt.IsZero() {
		return nil, nil, &NoDebtForCollateralError{Token: token}
	}

	accruedDebt, err := position.AccruedDebt(v.borrowIndex)
	if err != nil {
		return nil, nil, err
	}

	refund := uint256.NewInt(0)
	if paid.Gt(accruedDebt) {
		refund = new(uint256.Int).Sub(paid, accruedDebt)
	}
	repaidReal := minAmount(paid, accruedDebt)

	scaledRepaid, err := DivWad(repaidReal, v.borrowIndex)
	if err != nil {
		return nil, nil, err
	}

	var returnCollateral *uint256.Int
	if !scaledRepaid.Lt(position.Debt) {
		// Full payoff: truncation can land scaledRepaid a hair past the
		// recorded debt, so clamp and release everything.
		returnCollateral = position.LockedCollateral.Clone()
		scaledRepaid = position.Debt.Clone()
	} else {
		returnCollateral, err = mulDiv(position.LockedCollateral, scaledRepaid, position.Debt)
		if err != nil {
			return nil, nil, err
		}
	}

	snapshot := position.Clone()
	position.Debt, err = subChecked(position.Debt, scaledRepaid)
	if err == nil {
		position.LockedCollateral, err = subChecked(position.LockedCollateral, returnCollateral)
	}
	if err == nil {
		err = v.pool.subBorrowScaled(scaledRepaid)
	}
	if err == nil {
		err = v.pool.Credit(repaidReal)
	}
	if err != nil {
		return nil, nil, err
	}
	position.LastUpdate = v.clk.Now().Unix()
	if err := v.positions.UpsertPosition(ctx, position); err != nil {
		v.pool.Debit(repaidReal)
		v.pool.addBorrowScaled(scaledRepaid)
		return nil, nil, err
	}

	rollback := func() {
		v.pool.Debit(repaidReal)
		v.pool.addBorrowScaled(scaledRepaid)
		v.positions.UpsertPosition(ctx, snapshot)
	}

	if !returnCollateral.IsZero() {
		if err := v.assets.PushToken(ctx, token, caller, returnCollateral); err != nil {
			rollback()
			return nil, nil, errors.WithMessagef(InvalidTransfer, "collateral return: %v", err)
		}
	}
	if !refund.IsZero() {
		if err := v.assets.PushBase(ctx, caller, refund); err != nil {
			rollback()
			return nil, nil, errors.WithMessagef(InvalidTransfer, "repay refund: %v", err)
		}
	}

	v.emitEvent(ctx, NewRepayEvent(v.clk, caller, token, repaidReal, returnCollateral))
	v.log.Info().
		Str("account", caller.String()).
		Str("token", token.String()).
		Str("repaid", repaidReal.Dec()).
		Str("returnedCollateral", returnCollateral.Dec()).
		Msg("repaid")
	return repaidReal, returnCollateral, nil
}

// AccrueInterest multiplies the borrow index by (1 + rate). The index only
// ever moves up; depositors see the growth after the next index sync.
func (v *Vault) AccrueInterest(ctx context.Context, caller uuid.UUID, rate *uint256.Int) error {
	if err := v.auth.RequireRole(ctx, RoleBorrowInterestManager, caller); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.accrueLocked(rate)
}

func (v *Vault) accrueLocked(rate *uint256.Int) error {
	factor, err := addChecked(WAD, rate)
	if err != nil {
		return err
	}
	newIndex, err := MulWad(v.borrowIndex, factor)
	if err != nil {
		return err
	}

	before, err := MulWad(v.pool.TotalBorrowScaled(), v.borrowIndex)
	if err != nil {
		return err
	}
	after, err := MulWad(v.pool.TotalBorrowScaled(), newIndex)
	if err != nil {
		return err
	}
	if after.Gt(before) {
		v.pool.addInterestCollected(new(uint256.Int).Sub(after, before))
	}

	v.borrowIndex = newIndex
	v.lastAccrual = v.clk.Now().Unix()
	v.log.Debug().Str("borrowIndex", newIndex.Dec()).Msg("interest accrued")
	return nil
}

// AccrueInterestFromModel derives the period rate from the configured
// utilization curve and the elapsed time since the last accrual.
func (v *Vault) AccrueInterestFromModel(ctx context.Context, caller uuid.UUID) error {
	if err := v.auth.RequireRole(ctx, RoleBorrowInterestManager, caller); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.rateModel == nil {
		return nil
	}
	elapsed := v.clk.Now().Unix() - v.lastAccrual
	if elapsed <= 0 {
		return nil
	}

	borrowed, err := MulWad(v.pool.TotalBorrowScaled(), v.borrowIndex)
	if err != nil {
		return err
	}
	if borrowed.IsZero() {
		v.lastAccrual = v.clk.Now().Unix()
		return nil
	}
	totalAssets, err := addChecked(v.pool.TotalLiquidity(), borrowed)
	if err != nil {
		return err
	}
	utilization, err := DivWad(borrowed, totalAssets)
	if err != nil {
		return err
	}
	rate, err := v.rateModel.RatePerPeriod(utilization, elapsed)
	if err != nil {
		return err
	}
	return v.accrueLocked(rate)
}

// SyncDepositIndexFromPool projects pool asset growth into the deposit
// index: newIndex = WAD * (liquidity + accrued borrows) / rawSupply. A
// would-be regression of the index is skipped rather than applied, so
// depositor balances never silently shrink.
func (v *Vault) SyncDepositIndexFromPool(ctx context.Context, caller uuid.UUID) error {
	if err := v.auth.RequireRole(ctx, RoleReceiptInterestManager, caller); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	rawSupply := v.receipt.TotalRawSupply()
	if rawSupply.IsZero() {
		return nil
	}

	borrowed, err := MulWad(v.pool.TotalBorrowScaled(), v.borrowIndex)
	if err != nil {
		return err
	}
	totalAssets, err := addChecked(v.pool.TotalLiquidity(), borrowed)
	if err != nil {
		return err
	}
	newIndex, err := DivWad(totalAssets, rawSupply)
	if err != nil {
		return err
	}

	current := v.receipt.DepositIndex()
	if newIndex.Lt(current) {
		v.log.Warn().
			Str("current", current.Dec()).
			Str("computed", newIndex.Dec()).
			Msg("deposit index regression skipped")
		return nil
	}
	return v.receipt.UpdateIndex(newIndex)
}

// IsPositionHealthy reports whether the position's accrued debt stays below
// the haircut borrow capacity of its locked collateral, further discounted
// by the effective liquidity threshold. A zero-collateral position surfaces
// the oracle's zero-amount error rather than a dedicated check.
func (v *Vault) IsPositionHealthy(ctx context.Context, accountId, tokenId uuid.UUID) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.isHealthyLocked(ctx, accountId, tokenId)
}

func (v *Vault) isHealthyLocked(ctx context.Context, accountId, tokenId uuid.UUID) (bool, error) {
	position, err := v.positions.FindPosition(ctx, accountId, tokenId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, &NoDebtForCollateralError{Token: tokenId}
		}
		return false, err
	}
	return v.positionHealthy(ctx, position)
}

func (v *Vault) positionHealthy(ctx context.Context, position *DebtPosition) (bool, error) {
	accruedDebt, err := position.AccruedDebt(v.borrowIndex)
	if err != nil {
		return false, err
	}

	capacity, err := v.registry.MaxBorrowFromCollateral(ctx, position.TokenId, position.LockedCollateral)
	if err != nil {
		return false, err
	}
	threshold, err := v.pool.EffectiveLiquidityThreshold(v.receipt)
	if err != nil {
		return false, err
	}
	discounted, err := MulWad(capacity, new(uint256.Int).Sub(WAD, threshold))
	if err != nil {
		return false, err
	}
	return accruedDebt.Lt(discounted), nil
}

// Liquidate repays part of an unhealthy position from an attached payment
// and hands the liquidator a proportional share of the locked collateral.
// When liquidity precision is configured, a slice of the repaid interest is
// added to the liquidator's refund as an incentive. Returns seized
// collateral and the refund.
func (v *Vault) Liquidate(ctx context.Context, liquidator, user, token uuid.UUID, paid *uint256.Int) (*uint256.Int, *uint256.Int, error) {
	if err := v.auth.RequireRole(ctx, RoleLiquidator, liquidator); err != nil {
		return nil, nil, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if paid.IsZero() {
		return nil, nil, InvalidAmount
	}

	position, err := v.positions.FindPosition(ctx, user, token)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, &NoDebtForCollateralError{Token: token}
		}
		return nil, nil, err
	}

	healthy, err := v.positionHealthy(ctx, position)
	if err != nil {
		return nil, nil, err
	}
	if healthy {
		return nil, nil, UserNotUnderCollateralized
	}

	accruedDebt, err := position.AccruedDebt(v.borrowIndex)
	if err != nil {
		return nil, nil, err
	}

	repaidReal := minAmount(paid, accruedDebt)
	refund := new(uint256.Int).Sub(paid, repaidReal)

	seized, err := mulDiv(position.LockedCollateral, repaidReal, accruedDebt)
	if err != nil {
		return nil, nil, err
	}
	scaledPaid, err := DivWad(repaidReal, v.borrowIndex)
	if err != nil {
		return nil, nil, err
	}
	scaledPaid = minAmount(scaledPaid, position.Debt)

	snapshot := position.Clone()
	position.Debt, err = subChecked(position.Debt, scaledPaid)
	if err == nil {
		position.LockedCollateral, err = subChecked(position.LockedCollateral, seized)
	}
	if err == nil {
		err = v.pool.subBorrowScaled(scaledPaid)
	}
	if err == nil {
		err = v.pool.Credit(repaidReal)
	}
	if err != nil {
		return nil, nil, err
	}
	position.LastUpdate = v.clk.Now().Unix()
	if err := v.positions.UpsertPosition(ctx, position); err != nil {
		v.pool.Debit(repaidReal)
		v.pool.addBorrowScaled(scaledPaid)
		return nil, nil, err
	}

	rollback := func() {
		v.pool.Debit(repaidReal)
		v.pool.addBorrowScaled(scaledPaid)
		v.positions.UpsertPosition(ctx, snapshot)
	}

	if !seized.IsZero() {
		if err := v.assets.PushToken(ctx, token, liquidator, seized); err != nil {
			rollback()
			return nil, nil, errors.WithMessagef(InvalidTransfer, "seize push: %v", err)
		}
	}

	precision := v.pool.LiquidityPrecision()
	if !precision.IsZero() && repaidReal.Gt(scaledPaid) {
		interestPortion := new(uint256.Int).Sub(repaidReal, scaledPaid)
		precisionReward, err := mulDiv(scaledPaid, precision, accruedDebt)
		if err != nil {
			rollback()
			return nil, nil, err
		}
		bonus, err := MulWad(interestPortion, precisionReward)
		if err != nil {
			rollback()
			return nil, nil, err
		}
		refund, err = addChecked(refund, bonus)
		if err != nil {
			rollback()
			return nil, nil, err
		}
	}

	if !refund.IsZero() {
		if err := v.assets.PushBase(ctx, liquidator, refund); err != nil {
			rollback()
			return nil, nil, errors.WithMessagef(InvalidTransfer, "liquidation refund: %v", err)
		}
	}

	v.emitEvent(ctx, NewLiquidationEvent(v.clk, user, token, seized, repaidReal))
	v.log.Info().
		Str("liquidator", liquidator.String()).
		Str("account", user.String()).
		Str("token", token.String()).
		Str("repaid", repaidReal.Dec()).
		Str("seized", seized.Dec()).
		Str("refund", refund.Dec()).
		Msg("liquidated")
	return seized, refund, nil
}

func (v *Vault) SetLiquidityThreshold(ctx context.Context, caller uuid.UUID, value *uint256.Int) error {
	if err := v.auth.RequireRole(ctx, RoleLiquidityManager, caller); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pool.SetLiquidityThreshold(value)
}

func (v *Vault) SetLiquidityPrecision(ctx context.Context, caller uuid.UUID, value *uint256.Int) error {
	if err := v.auth.RequireRole(ctx, RoleLiquidityManager, caller); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pool.SetLiquidityPrecision(value)
}

func (v *Vault) AddCollateral(ctx context.Context, caller, token, priceSource uuid.UUID, lvm *uint256.Int) error {
	if err := v.auth.RequireRole(ctx, RoleCollateralManager, caller); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registry.AddCollateral(ctx, token, priceSource, lvm)
}

func (v *Vault) ModifyCollateral(ctx context.Context, caller, token, priceSource uuid.UUID, lvm *uint256.Int) error {
	if err := v.auth.RequireRole(ctx, RoleCollateralManager, caller); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registry.ModifyCollateral(ctx, token, priceSource, lvm)
}

func (v *Vault) ModifyPriceSource(ctx context.Context, caller, token, priceSource uuid.UUID) error {
	if err := v.auth.RequireRole(ctx, RoleCollateralManager, caller); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registry.ModifyPriceSource(ctx, token, priceSource)
}

func (v *Vault) ModifyLvm(ctx context.Context, caller, token uuid.UUID, lvm *uint256.Int) error {
	if err := v.auth.RequireRole(ctx, RoleCollateralManager, caller); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registry.ModifyLvm(ctx, token, lvm)
}

// Stats returns the aggregate read-only snapshot.
func (v *Vault) Stats() *VaultStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return &VaultStats{
		DepositIndex:       v.receipt.DepositIndex(),
		BorrowIndex:        v.borrowIndex.Clone(),
		TotalLiquidity:     v.pool.TotalLiquidity(),
		TotalBorrowScaled:  v.pool.TotalBorrowScaled(),
		InterestCollected:  v.pool.InterestCollected(),
		LiquidityThreshold: v.pool.LiquidityThreshold(),
		LiquidityPrecision: v.pool.LiquidityPrecision(),
	}
}

// Position returns the read-only snapshot for one (account, token) pair.
func (v *Vault) Position(ctx context.Context, accountId, tokenId uuid.UUID) (*PositionView, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	position, err := v.positions.FindPosition(ctx, accountId, tokenId)
	if err != nil {
		return nil, err
	}
	accruedDebt, err := position.AccruedDebt(v.borrowIndex)
	if err != nil {
		return nil, err
	}
	healthy := true
	if !position.Debt.IsZero() {
		healthy, err = v.positionHealthy(ctx, position)
		if err != nil {
			return nil, err
		}
	}
	return &PositionView{
		AccountId:           position.AccountId,
		TokenId:             position.TokenId,
		ScaledDebt:          position.Debt.Clone(),
		AccruedDebt:         accruedDebt,
		LockedCollateral:    position.LockedCollateral.Clone(),
		AvailableCollateral: position.AvailableCollateral.Clone(),
		Healthy:             healthy,
	}, nil
}

func (v *Vault) emitEvent(ctx context.Context, event *Event) {
	if v.events == nil {
		return
	}
	if err := v.events.CreateEvent(ctx, event); err != nil {
		v.log.Warn().Err(err).Msg("event store rejected event")
	}
}

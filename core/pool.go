package core

import (
	"github.com/holiman/uint256"
)

// Pool tracks the aggregate liquidity shared by every position: real base
// asset sitting idle, and the sum of all scaled debts. Mutations happen only
// under the vault's operation lock.
type Pool struct {
	totalLiquidity    *uint256.Int
	totalBorrowScaled *uint256.Int

	liquidityThreshold *uint256.Int
	liquidityPrecision *uint256.Int

	interestCollected *uint256.Int
}

func NewPool() *Pool {
	return &Pool{
		totalLiquidity:     uint256.NewInt(0),
		totalBorrowScaled:  uint256.NewInt(0),
		liquidityThreshold: MIN_LIQUIDITY_THRESHOLD.Clone(),
		liquidityPrecision: uint256.NewInt(0),
		interestCollected:  uint256.NewInt(0),
	}
}

func (p *Pool) TotalLiquidity() *uint256.Int    { return p.totalLiquidity.Clone() }
func (p *Pool) TotalBorrowScaled() *uint256.Int { return p.totalBorrowScaled.Clone() }
func (p *Pool) LiquidityThreshold() *uint256.Int { return p.liquidityThreshold.Clone() }
func (p *Pool) LiquidityPrecision() *uint256.Int { return p.liquidityPrecision.Clone() }
func (p *Pool) InterestCollected() *uint256.Int  { return p.interestCollected.Clone() }

func (p *Pool) Credit(amount *uint256.Int) error {
	sum, err := addChecked(p.totalLiquidity, amount)
	if err != nil {
		return err
	}
	p.totalLiquidity = sum
	return nil
}

func (p *Pool) Debit(amount *uint256.Int) error {
	if amount.Gt(p.totalLiquidity) {
		return InsufficientLiquidity
	}
	p.totalLiquidity = new(uint256.Int).Sub(p.totalLiquidity, amount)
	return nil
}

func (p *Pool) addBorrowScaled(scaled *uint256.Int) error {
	sum, err := addChecked(p.totalBorrowScaled, scaled)
	if err != nil {
		return err
	}
	p.totalBorrowScaled = sum
	return nil
}

func (p *Pool) subBorrowScaled(scaled *uint256.Int) error {
	diff, err := subChecked(p.totalBorrowScaled, scaled)
	if err != nil {
		return err
	}
	p.totalBorrowScaled = diff
	return nil
}

func (p *Pool) addInterestCollected(amount *uint256.Int) {
	if sum, err := addChecked(p.interestCollected, amount); err == nil {
		p.interestCollected = sum
	}
}

// LiquidityHealthRate measures real idle liquidity against what is owed to
// receipt holders: near WAD the pool is fully backed by idle funds, near zero
// almost everything is out on loan.
func (p *Pool) LiquidityHealthRate(receipt *ReceiptLedger) (*uint256.Int, error) {
	if p.totalLiquidity.IsZero() {
		return uint256.NewInt(0), nil
	}
	rawSupply := receipt.TotalRawSupply()
	if rawSupply.IsZero() {
		return WAD.Clone(), nil
	}
	owed, err := MulWad(rawSupply, receipt.DepositIndex())
	if err != nil {
		return nil, err
	}
	if owed.IsZero() {
		return WAD.Clone(), nil
	}
	rate, err := DivWad(p.totalLiquidity, owed)
	if err != nil {
		return nil, err
	}
	return minAmount(rate, WAD), nil
}

// EffectiveLiquidityThreshold tightens the configured threshold as pool
// health degrades: max(configured, WAD - healthRate).
func (p *Pool) EffectiveLiquidityThreshold(receipt *ReceiptLedger) (*uint256.Int, error) {
	health, err := p.LiquidityHealthRate(receipt)
	if err != nil {
		return nil, err
	}
	gap := new(uint256.Int).Sub(WAD, health)
	if gap.Gt(p.liquidityThreshold) {
		return gap, nil
	}
	return p.liquidityThreshold.Clone(), nil
}

// MaxExtractable throttles borrows and withdrawals: zero at or below the
// protocol health floor, otherwise liquidity * (healthRate - floor) / WAD.
func (p *Pool) MaxExtractable(receipt *ReceiptLedger) (*uint256.Int, error) {
	health, err := p.LiquidityHealthRate(receipt)
	if err != nil {
		return nil, err
	}
	if !health.Gt(MIN_LIQUIDITY_HEALTH_RATE) {
		return uint256.NewInt(0), nil
	}
	margin := new(uint256.Int).Sub(health, MIN_LIQUIDITY_HEALTH_RATE)
	return MulWad(p.totalLiquidity, margin)
}

func (p *Pool) SetLiquidityThreshold(value *uint256.Int) error {
	if value.Lt(MIN_LIQUIDITY_THRESHOLD) || value.Gt(WAD) {
		return InvalidAmount
	}
	p.liquidityThreshold = value.Clone()
	return nil
}

func (p *Pool) SetLiquidityPrecision(value *uint256.Int) error {
	if value.Gt(WAD) {
		return InvalidAmount
	}
	p.liquidityPrecision = value.Clone()
	return nil
}

package core

import (
	"sync"

	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
)

type allowanceKey struct {
	owner   uuid.UUID
	spender uuid.UUID
}

// ReceiptLedger is the rebasing receipt balance: holders own raw units, and
// the observable balance is raw * depositIndex / WAD. The index is set
// absolutely by the vault's sync step; the ledger itself never moves it.
type ReceiptLedger struct {
	mu sync.RWMutex

	depositIndex *uint256.Int
	rawBalances  map[uuid.UUID]*uint256.Int
	allowances   map[allowanceKey]*uint256.Int
	totalRaw     *uint256.Int
}

func NewReceiptLedger() *ReceiptLedger {
	return &ReceiptLedger{
		depositIndex: WAD.Clone(),
		rawBalances:  make(map[uuid.UUID]*uint256.Int),
		allowances:   make(map[allowanceKey]*uint256.Int),
		totalRaw:     uint256.NewInt(0),
	}
}

func (l *ReceiptLedger) DepositIndex() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.depositIndex.Clone()
}

// UpdateIndex sets the deposit index to an absolute value. Callers compute
// the new value themselves; this is not a multiplicative bump.
func (l *ReceiptLedger) UpdateIndex(newIndex *uint256.Int) error {
	if newIndex.IsZero() {
		return InvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.depositIndex = newIndex.Clone()
	return nil
}

// EthToRaw converts an ETH-unit value into raw ledger units, truncating.
func (l *ReceiptLedger) EthToRaw(ethValue *uint256.Int) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return DivWad(ethValue, l.depositIndex)
}

// RawToEth converts raw ledger units into ETH-unit value, truncating.
// RawToEth(EthToRaw(x)) <= x for all x.
func (l *ReceiptLedger) RawToEth(raw *uint256.Int) (*uint256.Int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return MulWad(raw, l.depositIndex)
}

func (l *ReceiptLedger) BalanceOf(holder uuid.UUID) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	raw, ok := l.rawBalances[holder]
	if !ok {
		return uint256.NewInt(0)
	}
	eth, err := MulWad(raw, l.depositIndex)
	if err != nil {
		return uint256.NewInt(0)
	}
	return eth
}

func (l *ReceiptLedger) RawBalanceOf(holder uuid.UUID) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	raw, ok := l.rawBalances[holder]
	if !ok {
		return uint256.NewInt(0)
	}
	return raw.Clone()
}

func (l *ReceiptLedger) TotalRawSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalRaw.Clone()
}

func (l *ReceiptLedger) TotalSupply() *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	eth, err := MulWad(l.totalRaw, l.depositIndex)
	if err != nil {
		return uint256.NewInt(0)
	}
	return eth
}

// Mint credits holder with ethValue worth of receipt balance and returns the
// raw units created. Only the vault calls this.
func (l *ReceiptLedger) Mint(holder uuid.UUID, ethValue *uint256.Int) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	raw, err := DivWad(ethValue, l.depositIndex)
	if err != nil {
		return nil, err
	}
	l.addRaw(holder, raw)
	return raw.Clone(), nil
}

// Burn removes ethValue worth of receipt balance from holder and returns the
// raw units destroyed.
func (l *ReceiptLedger) Burn(holder uuid.UUID, ethValue *uint256.Int) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	raw, err := DivWad(ethValue, l.depositIndex)
	if err != nil {
		return nil, err
	}
	if err := l.subRaw(holder, raw); err != nil {
		return nil, err
	}
	return raw.Clone(), nil
}

// Transfer moves ethValue between holders. Because the conversion truncates,
// the raw units moved are fixed at call time; a concurrent index change does
// not retroactively adjust an in-flight transfer.
func (l *ReceiptLedger) Transfer(from, to uuid.UUID, ethValue *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	raw, err := DivWad(ethValue, l.depositIndex)
	if err != nil {
		return err
	}
	if err := l.subRaw(from, raw); err != nil {
		return err
	}
	l.addRaw(to, raw)
	return nil
}

func (l *ReceiptLedger) Approve(owner, spender uuid.UUID, ethValue *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[allowanceKey{owner: owner, spender: spender}] = ethValue.Clone()
}

func (l *ReceiptLedger) Allowance(owner, spender uuid.UUID) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if a, ok := l.allowances[allowanceKey{owner: owner, spender: spender}]; ok {
		return a.Clone()
	}
	return uint256.NewInt(0)
}

func (l *ReceiptLedger) TransferFrom(spender, owner, to uuid.UUID, ethValue *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := allowanceKey{owner: owner, spender: spender}
	allowance, ok := l.allowances[key]
	if !ok || allowance.Lt(ethValue) {
		return InsufficientAllowance
	}
	raw, err := DivWad(ethValue, l.depositIndex)
	if err != nil {
		return err
	}
	if err := l.subRaw(owner, raw); err != nil {
		return err
	}
	l.addRaw(to, raw)
	l.allowances[key] = new(uint256.Int).Sub(allowance, ethValue)
	return nil
}

// mintRaw and burnRaw restore exact raw balances when the vault rolls back a
// failed operation; value-level re-minting would drift under truncation.
func (l *ReceiptLedger) mintRaw(holder uuid.UUID, raw *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.addRaw(holder, raw)
}

func (l *ReceiptLedger) burnRaw(holder uuid.UUID, raw *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.subRaw(holder, raw)
}

func (l *ReceiptLedger) addRaw(holder uuid.UUID, raw *uint256.Int) {
	balance, ok := l.rawBalances[holder]
	if !ok {
		balance = uint256.NewInt(0)
	}
	l.rawBalances[holder] = new(uint256.Int).Add(balance, raw)
	l.totalRaw = new(uint256.Int).Add(l.totalRaw, raw)
}

func (l *ReceiptLedger) subRaw(holder uuid.UUID, raw *uint256.Int) error {
	balance, ok := l.rawBalances[holder]
	if !ok || balance.Lt(raw) {
		return InsufficientBalance
	}
	l.rawBalances[holder] = new(uint256.Int).Sub(balance, raw)
	l.totalRaw = new(uint256.Int).Sub(l.totalRaw, raw)
	return nil
}

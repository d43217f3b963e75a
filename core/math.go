package core

import (
	"github.com/holiman/uint256"
)

// MulWad computes a*b/WAD, truncating toward zero. The truncation bias is
// deliberate: partial computations always round against the caller, and full
// payoff comparisons reconcile with >= checks rather than exact equality.
func MulWad(a, b *uint256.Int) (*uint256.Int, error) {
	return mulDiv(a, b, WAD)
}

// DivWad computes a*WAD/b, truncating toward zero.
func DivWad(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, DivisionByZero
	}
	return mulDiv(a, WAD, b)
}

// mulDiv computes a*b/d over 256-bit unsigned integers. An intermediate
// product overflowing 256 bits aborts the enclosing operation.
func mulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, DivisionByZero
	}
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrAmountOverflow
	}
	return product.Div(product, d), nil
}

func addChecked(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrAmountOverflow
	}
	return sum, nil
}

// subChecked returns a-b, requiring a >= b. Every subtraction in the ledger
// is preceded by a dominance check; hitting the error path here means an
// accounting invariant is already broken.
func subChecked(a, b *uint256.Int) (*uint256.Int, error) {
	if a.Lt(b) {
		return nil, ErrAmountOverflow
	}
	return new(uint256.Int).Sub(a, b), nil
}

func minAmount(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a.Clone()
	}
	return b.Clone()
}

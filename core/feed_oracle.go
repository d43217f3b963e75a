package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

type (
	// PriceFeed is the raw quote source behind a price-source handle: a
	// decimal base-asset price per whole token, plus the token's decimals.
	PriceFeed interface {
		Price(ctx context.Context, priceSource uuid.UUID) (decimal.Decimal, error)
		Decimals(ctx context.Context, priceSource uuid.UUID) (uint8, error)
	}

	// FeedOracle adapts a decimal PriceFeed into the WAD-integer PriceOracle
	// the ledger consumes. Rescaling by the feed's decimals happens here so
	// the core only ever sees WAD base-asset units.
	FeedOracle struct {
		feed PriceFeed
	}
)

func NewFeedOracle(feed PriceFeed) *FeedOracle {
	return &FeedOracle{feed: feed}
}

func (o *FeedOracle) Quote(ctx context.Context, priceSource uuid.UUID, amount *uint256.Int) (*uint256.Int, error) {
	if amount.IsZero() {
		return nil, OracleInvalidAmount
	}

	price, err := o.feed.Price(ctx, priceSource)
	if err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, StaleOrInvalidRate
	}

	dec, err := o.feed.Decimals(ctx, priceSource)
	if err != nil {
		return nil, err
	}

	// value = amount * price * 10^(18-decimals), truncated.
	value := decimal.NewFromBigInt(amount.ToBig(), 0).
		Mul(price).
		Shift(18 - int32(dec)).
		Truncate(0)

	out, overflow := uint256.FromBig(value.BigInt())
	if overflow {
		return nil, ErrAmountOverflow
	}
	return out, nil
}

func (o *FeedOracle) Decimals(ctx context.Context, priceSource uuid.UUID) (uint8, error) {
	return o.feed.Decimals(ctx, priceSource)
}

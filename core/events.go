package core

import (
	"context"
	"database/sql/driver"
	"encoding/json"

	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
)

type EventKind uint8

const (
	EventBorrowed EventKind = iota + 1
	EventRepaid
	EventLiquidated
)

func (k EventKind) String() string {
	switch k {
	case EventBorrowed:
		return "Borrowed"
	case EventRepaid:
		return "Repaid"
	case EventLiquidated:
		return "Liquidated"
	default:
		return "Unknown"
	}
}

type (
	EventStore interface {
		CreateEvent(ctx context.Context, event *Event) error
		ListEvents(ctx context.Context, accountId uuid.UUID, createdBeforeAt, limit int64) ([]*Event, error)
	}

	// Event is the observability record emitted on successful borrow/repay,
	// consumed by off-core indexers. Not required for ledger correctness.
	Event struct {
		AccountId uuid.UUID   `json:"accountId"`
		TokenId   uuid.UUID   `json:"tokenId"`
		Kind      EventKind   `json:"kind"`
		Detail    EventDetail `json:"detail"`
		CreatedAt int64       `json:"createdAt"`
	}

	// EventDetail holds the amounts: for a borrow, collateral locked and base
	// asset lent; for a repay, base asset repaid and collateral returned.
	EventDetail struct {
		CollateralAmount *uint256.Int `json:"collateralAmount"`
		BaseAmount       *uint256.Int `json:"baseAmount"`
	}
)

func NewBorrowEvent(clk clock.Clock, accountId, tokenId uuid.UUID, collateralUsed, ethBorrowed *uint256.Int) *Event {
	return &Event{
		AccountId: accountId,
		TokenId:   tokenId,
		Kind:      EventBorrowed,
		Detail: EventDetail{
			CollateralAmount: collateralUsed.Clone(),
			BaseAmount:       ethBorrowed.Clone(),
		},
		CreatedAt: clk.Now().Unix(),
	}
}

func NewRepayEvent(clk clock.Clock, accountId, tokenId uuid.UUID, repaid, returnedCollateral *uint256.Int) *Event {
	return &Event{
		AccountId: accountId,
		TokenId:   tokenId,
		Kind:      EventRepaid,
		Detail: EventDetail{
			CollateralAmount: returnedCollateral.Clone(),
			BaseAmount:       repaid.Clone(),
		},
		CreatedAt: clk.Now().Unix(),
	}
}

// NewLiquidationEvent records the liquidated account's side of the result:
// collateral seized and real debt repaid on its behalf.
func NewLiquidationEvent(clk clock.Clock, accountId, tokenId uuid.UUID, seized, repaid *uint256.Int) *Event {
	return &Event{
		AccountId: accountId,
		TokenId:   tokenId,
		Kind:      EventLiquidated,
		Detail: EventDetail{
			CollateralAmount: seized.Clone(),
			BaseAmount:       repaid.Clone(),
		},
		CreatedAt: clk.Now().Unix(),
	}
}

func (d EventDetail) Value() (driver.Value, error) {
	valueString, err := json.Marshal(d)
	return string(valueString), err
}

func (d *EventDetail) Scan(value any) error {
	if err := json.Unmarshal(value.([]byte), &d); err != nil {
		return err
	}
	return nil
}

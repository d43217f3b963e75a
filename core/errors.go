package core

import (
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	InvalidAmount         = errors.New("invalid amount")
	InsufficientAllowance = errors.New("insufficient allowance")
	InsufficientBalance   = errors.New("insufficient balance")

	CollateralDoesNotExist  = errors.New("collateral does not exist")
	CollateralAlreadyExists = errors.New("collateral already exists")
	InvalidCollateralParams = errors.New("invalid collateral params")

	UserNotUnderCollateralized = errors.New("user not under collateralized")
	InvalidTransfer            = errors.New("invalid transfer")
	InsufficientLiquidity      = errors.New("insufficient liquidity")

	DivisionByZero    = errors.New("division by zero")
	ErrAmountOverflow = errors.New("amount overflow")

	StaleOrInvalidRate  = errors.New("stale or invalid rate")
	OracleInvalidAmount = errors.New("oracle: invalid amount")

	ErrOptimalUr             = errors.New("optimal utilization rate out of range")
	ErrPlateauIr             = errors.New("plateau interest rate out of range")
	ErrMaxIr                 = errors.New("max interest rate out of range")
	ErrPlateauGreaterThanMax = errors.New("plateau interest rate exceeds max")
)

// NotEnoughCollateralError carries the collateral amount still available so
// callers can retry with takeMaxAvailable or a smaller borrow.
type NotEnoughCollateralError struct {
	Available *uint256.Int
}

func (e *NotEnoughCollateralError) Error() string {
	return fmt.Sprintf("not enough collateral: %s available", e.Available.Dec())
}

func (e *NotEnoughCollateralError) Is(target error) bool {
	_, ok := target.(*NotEnoughCollateralError)
	return ok
}

type NotEnoughLiquidityError struct {
	Available *uint256.Int
}

func (e *NotEnoughLiquidityError) Error() string {
	return fmt.Sprintf("not enough liquidity: %s available", e.Available.Dec())
}

func (e *NotEnoughLiquidityError) Is(target error) bool {
	_, ok := target.(*NotEnoughLiquidityError)
	return ok
}

type CollateralTokenNotSupportedError struct {
	Token uuid.UUID
}

func (e *CollateralTokenNotSupportedError) Error() string {
	return fmt.Sprintf("collateral token %s not supported", e.Token)
}

func (e *CollateralTokenNotSupportedError) Is(target error) bool {
	_, ok := target.(*CollateralTokenNotSupportedError)
	return ok
}

type NoDebtForCollateralError struct {
	Token uuid.UUID
}

func (e *NoDebtForCollateralError) Error() string {
	return fmt.Sprintf("no debt for collateral %s", e.Token)
}

func (e *NoDebtForCollateralError) Is(target error) bool {
	_, ok := target.(*NoDebtForCollateralError)
	return ok
}

type UnauthorizedError struct {
	Caller uuid.UUID
	Role   Role
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("caller %s lacks role %s", e.Caller, e.Role)
}

func (e *UnauthorizedError) Is(target error) bool {
	_, ok := target.(*UnauthorizedError)
	return ok
}

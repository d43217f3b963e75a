package core

import (
	"context"

	"github.com/gofrs/uuid"
)

// Role gates the privileged vault entry points. Role granting and revocation
// happen outside the core; the engine only asks the Authorizer whether a
// caller holds the role it needs.
type Role uint8

const (
	RoleCollateralManager Role = iota + 1
	RoleBorrowInterestManager
	RoleReceiptInterestManager
	RoleLiquidator
	RoleLiquidityManager
)

func (r Role) String() string {
	switch r {
	case RoleCollateralManager:
		return "CollateralManager"
	case RoleBorrowInterestManager:
		return "BorrowInterestManager"
	case RoleReceiptInterestManager:
		return "ReceiptInterestManager"
	case RoleLiquidator:
		return "Liquidator"
	case RoleLiquidityManager:
		return "LiquidityManager"
	default:
		return "Unknown"
	}
}

type Authorizer interface {
	RequireRole(ctx context.Context, role Role, caller uuid.UUID) error
}

// RoleTable is a permission table keyed by (role, caller). It is the default
// Authorizer for embedders that do not bring their own permission system.
type RoleTable struct {
	grants map[Role]map[uuid.UUID]bool
}

func NewRoleTable() *RoleTable {
	return &RoleTable{grants: make(map[Role]map[uuid.UUID]bool)}
}

func (t *RoleTable) Grant(role Role, caller uuid.UUID) {
	if t.grants[role] == nil {
		t.grants[role] = make(map[uuid.UUID]bool)
	}
	t.grants[role][caller] = true
}

func (t *RoleTable) Revoke(role Role, caller uuid.UUID) {
	delete(t.grants[role], caller)
}

func (t *RoleTable) RequireRole(_ context.Context, role Role, caller uuid.UUID) error {
	if !t.grants[role][caller] {
		return &UnauthorizedError{Caller: caller, Role: role}
	}
	return nil
}

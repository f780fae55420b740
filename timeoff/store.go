package timeoff

import (
	"context"

	"github.com/dayflow/hr-engine/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// STORE - Persistence interface for types, balances and requests
// =============================================================================

// Store is what the ledger and the request workflow need from persistence.
// Lookups of missing rows return an error wrapping generic.ErrNotFound.
type Store interface {
	generic.EmployeeLookup

	// Types
	GetType(ctx context.Context, code string) (*Type, error)
	ListTypes(ctx context.Context, activeOnly bool) ([]Type, error)
	SaveType(ctx context.Context, t Type) error

	// Balances

	// InsertBalanceIfAbsent inserts b unless a row with the same
	// (employee, type, year) exists, in which case it does nothing.
	InsertBalanceIfAbsent(ctx context.Context, b Balance) error
	GetBalance(ctx context.Context, key BalanceKey) (*Balance, error)
	// GetBalanceForUpdate is GetBalance plus a row lock held until the
	// enclosing transaction ends.
	GetBalanceForUpdate(ctx context.Context, key BalanceKey) (*Balance, error)
	AddUsedDays(ctx context.Context, balanceID string, days decimal.Decimal) error
	ListBalances(ctx context.Context, employeeID generic.EmployeeID, year int) ([]Balance, error)

	// Requests
	CreateRequest(ctx context.Context, r Request) error
	GetRequest(ctx context.Context, id string) (*Request, error)
	GetRequestForUpdate(ctx context.Context, id string) (*Request, error)
	// UpdateRequestDecision persists Status, ApprovedBy, RejectionReason
	// and UpdatedAt. AllocationDays is never rewritten.
	UpdateRequestDecision(ctx context.Context, r Request) error
	ListRequests(ctx context.Context, filter RequestFilter) ([]Request, error)
}

// TxStore wraps Store with transaction support.
// Use this when you need atomic operations (e.g., approving a request).
type TxStore interface {
	Store
	generic.TxStore[Store]
}

/*
ledger.go - Time-off balance ledger

PURPOSE:
  Keeps one counter row per (employee, leave type, calendar year):
  allocated days, used days, and the derived available days.

INVARIANT:
  The approval path never drives Available() below zero. Only an
  administrative change to Allocated can do that.

LAZY CREATION:
  Rows are created on first need with allocated = type default, used = 0.
  Creation is an explicit insert-if-absent followed by a read, so two
  callers racing on the same key both end up with the single stored row:

    INSERT ... ON CONFLICT (employee_id, type_code, year) DO NOTHING
    SELECT ... WHERE employee_id = ? AND type_code = ? AND year = ?

WHAT IT DOES NOT DO:
  - No holds for pending requests. Availability is checked at approval.
  - No credit path. Used days only grow through approvals.

EXAMPLE:
  ledger := timeoff.NewLedger(store)
  balances, err := ledger.InitializeForYear(ctx, "emp-1", 2025)

  check := timeoff.ValidateSufficient(balance, decimal.NewFromInt(3))
  if !check.OK() {
      return check.Err()
  }

SEE ALSO:
  - request.go: Approve uses GetOrCreate, ValidateSufficient and Debit
    inside one transaction
  - store.go: InsertBalanceIfAbsent, GetBalanceForUpdate
*/
package timeoff

import (
	"context"
	"fmt"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER - Balance operations
// =============================================================================

type Ledger struct {
	store TxStore
	now   func() time.Time
}

func NewLedger(store TxStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// GetOrCreate returns the ledger row for the key, creating it with the
// type's default allocation if it does not exist yet.
func (l *Ledger) GetOrCreate(ctx context.Context, employeeID generic.EmployeeID, typeCode string, year int) (*Balance, error) {
	return getOrCreateBalance(ctx, l.store, BalanceKey{EmployeeID: employeeID, TypeCode: typeCode, Year: year}, l.now())
}

// InitializeForYear ensures a row exists for every active type. Existing
// rows are returned unchanged, so re-running is a no-op.
func (l *Ledger) InitializeForYear(ctx context.Context, employeeID generic.EmployeeID, year int) ([]Balance, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	if _, err := l.store.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	var balances []Balance
	err := l.store.WithTx(ctx, func(tx Store) error {
		types, err := tx.ListTypes(ctx, true)
		if err != nil {
			return fmt.Errorf("list active types: %w", err)
		}
		balances = make([]Balance, 0, len(types))
		for _, t := range types {
			b, err := getOrCreateBalance(ctx, tx, BalanceKey{EmployeeID: employeeID, TypeCode: t.Code, Year: year}, l.now())
			if err != nil {
				return err
			}
			balances = append(balances, *b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("balances initialized",
		"employee_id", employeeID, "year", year, "count", len(balances))
	return balances, nil
}

// ListForEmployee returns the employee's balances for a year, ordered by type code.
func (l *Ledger) ListForEmployee(ctx context.Context, employeeID generic.EmployeeID, year int) ([]Balance, error) {
	return l.store.ListBalances(ctx, employeeID, year)
}

func getOrCreateBalance(ctx context.Context, s Store, key BalanceKey, now time.Time) (*Balance, error) {
	existing, err := s.GetBalance(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !generic.IsNotFound(err) {
		return nil, fmt.Errorf("get balance: %w", err)
	}

	t, err := s.GetType(ctx, key.TypeCode)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	err = s.InsertBalanceIfAbsent(ctx, Balance{
		ID:         uuid.NewString(),
		EmployeeID: key.EmployeeID,
		TypeCode:   key.TypeCode,
		Year:       key.Year,
		Allocated:  t.DefaultAllocation,
		Used:       decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("insert balance: %w", err)
	}

	// Whoever won the insert, the stored row is the answer.
	return s.GetBalance(ctx, key)
}

// =============================================================================
// VALIDATION - A query, not a mutation
// =============================================================================

// BalanceCheck is the outcome of ValidateSufficient.
type BalanceCheck struct {
	Balance   Balance
	Requested decimal.Decimal
	Available decimal.Decimal
	Shortfall decimal.Decimal // zero when sufficient
}

func (c BalanceCheck) OK() bool {
	return c.Shortfall.IsZero()
}

// Err returns nil when sufficient, otherwise an *InsufficientBalanceError.
func (c BalanceCheck) Err() error {
	if c.OK() {
		return nil
	}
	return &generic.InsufficientBalanceError{
		EmployeeID: c.Balance.EmployeeID,
		TypeCode:   c.Balance.TypeCode,
		Year:       c.Balance.Year,
		Requested:  c.Requested,
		Available:  c.Available,
		Shortfall:  c.Shortfall,
	}
}

// ValidateSufficient reports whether requested fits in the balance's
// available days and, if not, by how much it falls short.
func ValidateSufficient(b Balance, requested decimal.Decimal) BalanceCheck {
	available := b.Available()
	check := BalanceCheck{
		Balance:   b,
		Requested: requested,
		Available: available,
		Shortfall: decimal.Zero,
	}
	if requested.GreaterThan(available) {
		check.Shortfall = requested.Sub(available)
	}
	return check
}

// =============================================================================
// DEBIT
// =============================================================================

// Debit adds days to the balance's used counter. It does not re-validate;
// callers run ValidateSufficient first under the same row lock.
func Debit(ctx context.Context, s Store, b *Balance, days decimal.Decimal) error {
	if err := s.AddUsedDays(ctx, b.ID, days); err != nil {
		return fmt.Errorf("debit balance %s: %w", b.ID, err)
	}
	b.Used = b.Used.Add(days)
	return nil
}

func validateYear(year int) error {
	if year < 1900 || year > 9999 {
		return &generic.ValidationError{Field: "year", Message: fmt.Sprintf("year %d out of range", year)}
	}
	return nil
}

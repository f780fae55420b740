package timeoff_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/store"
	"github.com/dayflow/hr-engine/store/memory"
	"github.com/dayflow/hr-engine/store/sqlstore"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var (
	admin    = generic.Actor{EmployeeID: "admin", Role: generic.RoleAdmin}
	employee = generic.Actor{EmployeeID: "emp-1", Role: generic.RoleEmployee}
)

func days(s string) decimal.Decimal {
	return generic.MustParseDecimal(s)
}

func date(year int, month time.Month, day int) generic.Date {
	return generic.NewDate(year, month, day)
}

// backends returns every store implementation, seeded with the default
// types, an admin and two employees.
func backends(t *testing.T) map[string]store.Backend {
	t.Helper()
	ctx := context.Background()

	sql, err := sqlstore.Open(ctx, sqlstore.Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { sql.Close() })

	all := map[string]store.Backend{
		"memory": memory.New(),
		"sqlite": sql,
	}
	for _, b := range all {
		seedBackend(t, b)
	}
	return all
}

func seedBackend(t *testing.T, b store.Backend) {
	t.Helper()
	ctx := context.Background()

	for _, typ := range timeoff.DefaultTypes() {
		require.NoError(t, b.TimeOff().SaveType(ctx, typ))
	}
	for _, e := range []generic.Employee{
		{ID: "admin", Name: "Ada Admin", Email: "admin@example.com", Role: generic.RoleAdmin},
		{ID: "emp-1", Name: "Emma Stone", Email: "emma@example.com", Role: generic.RoleEmployee},
		{ID: "emp-2", Name: "Liam Park", Email: "liam@example.com", Role: generic.RoleEmployee},
	} {
		e.CreatedAt = time.Now().UTC()
		require.NoError(t, b.SaveEmployee(ctx, e))
	}
}

// forEachBackend runs fn as a subtest per store implementation.
func forEachBackend(t *testing.T, fn func(t *testing.T, b store.Backend)) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, b)
		})
	}
}

// =============================================================================
// GET OR CREATE
// =============================================================================

func TestLedger_GetOrCreate_UsesTypeDefault(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b store.Backend) {
		// GIVEN: No balance rows yet
		ledger := timeoff.NewLedger(b.TimeOff())
		ctx := context.Background()

		// WHEN: Asking for the PAID balance for 2025
		bal, err := ledger.GetOrCreate(ctx, "emp-1", timeoff.TypePaid, 2025)

		// THEN: A row exists with the type default and nothing used
		require.NoError(t, err)
		assert.NotEmpty(t, bal.ID)
		assert.Equal(t, 2025, bal.Year)
		assert.True(t, bal.Allocated.Equal(days("24")), "allocated = %s", bal.Allocated)
		assert.True(t, bal.Used.IsZero())
		assert.True(t, bal.Available().Equal(days("24")))
		assert.Equal(t, "Paid time off", bal.TypeName)
	})
}

func TestLedger_GetOrCreate_IsIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b store.Backend) {
		// GIVEN: A SICK balance already created
		ledger := timeoff.NewLedger(b.TimeOff())
		ctx := context.Background()
		first, err := ledger.GetOrCreate(ctx, "emp-1", timeoff.TypeSick, 2025)
		require.NoError(t, err)

		// WHEN: Asking again
		second, err := ledger.GetOrCreate(ctx, "emp-1", timeoff.TypeSick, 2025)

		// THEN: The same row comes back and only one exists
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		list, err := ledger.ListForEmployee(ctx, "emp-1", 2025)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestLedger_GetOrCreate_ConcurrentCallersShareOneRow(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b store.Backend) {
		// GIVEN: Many callers racing on the same key
		ledger := timeoff.NewLedger(b.TimeOff())
		ctx := context.Background()

		const callers = 8
		ids := make([]string, callers)
		errs := make([]error, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				bal, err := ledger.GetOrCreate(ctx, "emp-2", timeoff.TypePaid, 2025)
				errs[i] = err
				if err == nil {
					ids[i] = bal.ID
				}
			}(i)
		}
		wg.Wait()

		// THEN: Every caller sees the same row
		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
	})
}

func TestLedger_GetOrCreate_UnknownType(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b store.Backend) {
		ledger := timeoff.NewLedger(b.TimeOff())

		_, err := ledger.GetOrCreate(context.Background(), "emp-1", "SABBATICAL", 2025)

		assert.ErrorIs(t, err, generic.ErrNotFound)
	})
}

func TestLedger_UnpaidStartsAtZero(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b store.Backend) {
		ledger := timeoff.NewLedger(b.TimeOff())

		bal, err := ledger.GetOrCreate(context.Background(), "emp-1", timeoff.TypeUnpaid, 2025)

		require.NoError(t, err)
		assert.True(t, bal.Available().IsZero())
	})
}

// =============================================================================
// INITIALIZE FOR YEAR
// =============================================================================

func TestLedger_InitializeForYear(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b store.Backend) {
		// GIVEN: An employee with no balances
		ledger := timeoff.NewLedger(b.TimeOff())
		ctx := context.Background()

		// WHEN: Initializing 2025 twice
		first, err := ledger.InitializeForYear(ctx, "emp-1", 2025)
		require.NoError(t, err)
		second, err := ledger.InitializeForYear(ctx, "emp-1", 2025)
		require.NoError(t, err)

		// THEN: One row per active type, unchanged by the second call
		require.Len(t, first, 3)
		require.Len(t, second, 3)
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}

		list, err := ledger.ListForEmployee(ctx, "emp-1", 2025)
		require.NoError(t, err)
		codes := make([]string, len(list))
		for i, bal := range list {
			codes[i] = bal.TypeCode
		}
		assert.ElementsMatch(t, []string{"PAID", "SICK", "UNPAID"}, codes)
	})
}

func TestLedger_InitializeForYear_SkipsInactiveTypes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b store.Backend) {
		ctx := context.Background()
		require.NoError(t, b.TimeOff().SaveType(ctx, timeoff.Type{
			Code: "STUDY", Name: "Study leave", DefaultAllocation: days("5"), Active: false,
		}))
		ledger := timeoff.NewLedger(b.TimeOff())

		balances, err := ledger.InitializeForYear(ctx, "emp-1", 2025)

		require.NoError(t, err)
		for _, bal := range balances {
			assert.NotEqual(t, "STUDY", bal.TypeCode)
		}
	})
}

func TestLedger_InitializeForYear_UnknownEmployee(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b store.Backend) {
		ledger := timeoff.NewLedger(b.TimeOff())

		_, err := ledger.InitializeForYear(context.Background(), "ghost", 2025)

		assert.ErrorIs(t, err, generic.ErrNotFound)
	})
}

func TestLedger_InitializeForYear_RejectsBadYear(t *testing.T) {
	ledger := timeoff.NewLedger(memory.New().TimeOff())

	_, err := ledger.InitializeForYear(context.Background(), "emp-1", 0)

	assert.ErrorIs(t, err, generic.ErrValidation)
}

func TestLedger_YearsAreIndependent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b store.Backend) {
		ledger := timeoff.NewLedger(b.TimeOff())
		ctx := context.Background()

		a, err := ledger.GetOrCreate(ctx, "emp-1", timeoff.TypePaid, 2025)
		require.NoError(t, err)
		c, err := ledger.GetOrCreate(ctx, "emp-1", timeoff.TypePaid, 2026)
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, c.ID)
		list, err := ledger.ListForEmployee(ctx, "emp-1", 2026)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

// =============================================================================
// VALIDATE SUFFICIENT
// =============================================================================

func TestValidateSufficient(t *testing.T) {
	bal := timeoff.Balance{
		EmployeeID: "emp-1", TypeCode: "PAID", Year: 2025,
		Allocated: days("24"), Used: days("21"),
	}

	tests := []struct {
		name      string
		requested string
		ok        bool
		shortfall string
	}{
		{"well within", "1", true, "0"},
		{"exactly available", "3", true, "0"},
		{"half day over", "3.5", false, "0.5"},
		{"far over", "22", false, "19"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			check := timeoff.ValidateSufficient(bal, days(tc.requested))

			assert.Equal(t, tc.ok, check.OK())
			assert.True(t, check.Available.Equal(days("3")))
			assert.True(t, check.Shortfall.Equal(days(tc.shortfall)), "shortfall = %s", check.Shortfall)
			if tc.ok {
				assert.NoError(t, check.Err())
				return
			}

			var insufficient *generic.InsufficientBalanceError
			require.ErrorAs(t, check.Err(), &insufficient)
			assert.ErrorIs(t, check.Err(), generic.ErrInsufficientBalance)
			assert.True(t, insufficient.Requested.Equal(days(tc.requested)))
			assert.Equal(t, "PAID", insufficient.TypeCode)
		})
	}
}

func TestValidateSufficient_DoesNotMutate(t *testing.T) {
	bal := timeoff.Balance{Allocated: days("7"), Used: days("2")}

	timeoff.ValidateSufficient(bal, days("10"))

	assert.True(t, bal.Used.Equal(days("2")))
}

// =============================================================================
// DEBIT
// =============================================================================

func TestDebit_AddsToUsed(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b store.Backend) {
		// GIVEN: A fresh PAID balance
		ctx := context.Background()
		ledger := timeoff.NewLedger(b.TimeOff())
		bal, err := ledger.GetOrCreate(ctx, "emp-1", timeoff.TypePaid, 2025)
		require.NoError(t, err)

		// WHEN: Debiting 2.5 then 0.5 days
		require.NoError(t, timeoff.Debit(ctx, b.TimeOff(), bal, days("2.5")))
		require.NoError(t, timeoff.Debit(ctx, b.TimeOff(), bal, days("0.5")))

		// THEN: The stored row shows 3 used, 21 available
		stored, err := b.TimeOff().GetBalance(ctx, bal.Key())
		require.NoError(t, err)
		assert.True(t, stored.Used.Equal(days("3")), "used = %s", stored.Used)
		assert.True(t, stored.Available().Equal(days("21")))
		assert.True(t, bal.Used.Equal(days("3")))
	})
}

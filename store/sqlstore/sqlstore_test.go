package sqlstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/payroll"
	"github.com/dayflow/hr-engine/store/sqlstore"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	s, err := sqlstore.Open(context.Background(), sqlstore.Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedEmployee(t *testing.T, s *sqlstore.Store, id generic.EmployeeID, name string) {
	t.Helper()
	require.NoError(t, s.SaveEmployee(context.Background(), generic.Employee{
		ID: id, Name: name, Email: string(id) + "@example.com", Role: generic.RoleEmployee,
		CreatedAt: time.Now().UTC(),
	}))
}

// =============================================================================
// OPEN / MIGRATIONS
// =============================================================================

func TestParseDialect(t *testing.T) {
	for _, in := range []string{"", "sqlite", "SQLite3"} {
		d, err := sqlstore.ParseDialect(in)
		require.NoError(t, err)
		assert.Equal(t, sqlstore.DialectSQLite, d)
	}
	for _, in := range []string{"postgres", "postgresql", "pgx"} {
		d, err := sqlstore.ParseDialect(in)
		require.NoError(t, err)
		assert.Equal(t, sqlstore.DialectPostgres, d)
	}
	_, err := sqlstore.ParseDialect("mysql")
	assert.Error(t, err)
}

func TestMigrations_UpDownStatus(t *testing.T) {
	// GIVEN: A file database opened without migrations
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hr.db")
	s, err := sqlstore.Open(ctx, sqlstore.Config{Driver: "sqlite", DSN: path, SkipMigrations: true})
	require.NoError(t, err)
	defer s.Close()

	statuses, err := s.MigrationStatus(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, statuses)
	assert.False(t, statuses[0].Applied)

	// WHEN: Migrating up
	require.NoError(t, s.Migrate(ctx))

	// THEN: Every migration is applied and the schema is usable
	statuses, err = s.MigrationStatus(ctx)
	require.NoError(t, err)
	for _, st := range statuses {
		assert.True(t, st.Applied, "migration %d", st.Version)
	}
	seedEmployee(t, s, "emp-1", "Emma Stone")

	// AND: Rolling back removes the tables
	require.NoError(t, s.MigrateDown(ctx))
	_, err = s.ListEmployees(ctx)
	assert.Error(t, err)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployees_SaveIsUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, s, "emp-1", "Emma Stone")
	seedEmployee(t, s, "emp-2", "Alex Moreau")

	require.NoError(t, s.SaveEmployee(ctx, generic.Employee{
		ID: "emp-1", Name: "Emma Stone-Park", Email: "emma@example.com", Role: generic.RoleHR,
	}))

	emp, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Emma Stone-Park", emp.Name)
	assert.Equal(t, generic.RoleHR, emp.Role)

	all, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alex Moreau", all[0].Name)

	_, err = s.GetEmployee(ctx, "ghost")
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

func TestEmployees_DuplicateEmailIsValidationError(t *testing.T) {
	// GIVEN: emp-1 holds emp-1@example.com
	s := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, s, "emp-1", "Emma Stone")

	// WHEN: Another employee is saved with the same email
	err := s.SaveEmployee(ctx, generic.Employee{
		ID: "emp-2", Name: "Liam Park", Email: "emp-1@example.com", Role: generic.RoleEmployee,
	})

	// THEN: It is refused as a validation error and nothing is stored
	var validation *generic.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "email", validation.Field)
	assert.True(t, generic.IsClientError(err))
	_, err = s.GetEmployee(ctx, "emp-2")
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

// =============================================================================
// BALANCES
// =============================================================================

func TestBalances_InsertIfAbsentKeepsFirstRow(t *testing.T) {
	// GIVEN: A PAID type and one stored balance
	s := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, s, "emp-1", "Emma Stone")
	require.NoError(t, s.TimeOff().SaveType(ctx, timeoff.DefaultTypes()[0]))

	key := timeoff.BalanceKey{EmployeeID: "emp-1", TypeCode: "PAID", Year: 2025}
	first := timeoff.Balance{
		ID: "bal-1", EmployeeID: "emp-1", TypeCode: "PAID", Year: 2025,
		Allocated: generic.MustParseDecimal("24"), CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.TimeOff().InsertBalanceIfAbsent(ctx, first))

	// WHEN: Inserting a second row for the same key
	second := first
	second.ID = "bal-2"
	second.Allocated = generic.MustParseDecimal("99")
	require.NoError(t, s.TimeOff().InsertBalanceIfAbsent(ctx, second))

	// THEN: The first row stands
	got, err := s.TimeOff().GetBalance(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "bal-1", got.ID)
	assert.Equal(t, "24.00", generic.FormatDecimal(got.Allocated))
	assert.Equal(t, "Paid time off", got.TypeName)
}

func TestBalances_AddUsedDaysKeepsDecimals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, s, "emp-1", "Emma Stone")
	require.NoError(t, s.TimeOff().SaveType(ctx, timeoff.DefaultTypes()[0]))
	ledger := timeoff.NewLedger(s.TimeOff())
	bal, err := ledger.GetOrCreate(ctx, "emp-1", "PAID", 2025)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.TimeOff().AddUsedDays(ctx, bal.ID, generic.MustParseDecimal("0.1")))
	}

	got, err := s.TimeOff().GetBalance(ctx, bal.Key())
	require.NoError(t, err)
	assert.True(t, got.Used.Equal(generic.MustParseDecimal("1")), "used = %s", got.Used)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.TimeOff().WithTx(ctx, func(tx timeoff.Store) error {
		require.NoError(t, tx.SaveType(ctx, timeoff.Type{Code: "TEMP", Name: "Temp", Active: true}))
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = s.TimeOff().GetType(ctx, "TEMP")
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

// =============================================================================
// REQUESTS
// =============================================================================

func TestRequests_SearchTreatsWildcardsLiterally(t *testing.T) {
	// GIVEN: One request by emp-1 (email emp-1@example.com)
	s := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, s, "emp-1", "Emma Stone")
	require.NoError(t, s.TimeOff().SaveType(ctx, timeoff.DefaultTypes()[0]))
	now := time.Now().UTC()
	require.NoError(t, s.TimeOff().CreateRequest(ctx, timeoff.Request{
		ID: "req-1", EmployeeID: "emp-1", TypeCode: "PAID",
		StartDate: generic.NewDate(2025, time.May, 5), EndDate: generic.NewDate(2025, time.May, 5),
		AllocationDays: generic.MustParseDecimal("1"), Status: timeoff.StatusPending,
		RequestedBy: "emp-1", CreatedAt: now, UpdatedAt: now,
	}))

	tests := []struct {
		search string
		want   int
	}{
		{"mp-1", 1},
		{"EMMA", 1},
		{"_", 0},
		{"%", 0},
		{"p_1", 0},
		{`\`, 0},
	}
	for _, tc := range tests {
		t.Run(tc.search, func(t *testing.T) {
			// WHEN: Searching
			got, err := s.TimeOff().ListRequests(ctx, timeoff.RequestFilter{Search: tc.search})

			// THEN: Only literal substrings match
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestRequests_DecisionAndDisplayNames(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, s, "emp-1", "Emma Stone")
	seedEmployee(t, s, "admin", "Ada Admin")
	require.NoError(t, s.TimeOff().SaveType(ctx, timeoff.DefaultTypes()[1]))

	now := time.Now().UTC()
	req := timeoff.Request{
		ID: "req-1", EmployeeID: "emp-1", TypeCode: "SICK",
		StartDate: generic.NewDate(2025, time.May, 5), EndDate: generic.NewDate(2025, time.May, 6),
		AllocationDays: generic.MustParseDecimal("1.5"), Status: timeoff.StatusPending,
		RequestedBy: "emp-1", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.TimeOff().CreateRequest(ctx, req))

	req.Status = timeoff.StatusRejected
	req.ApprovedBy = "admin"
	req.RejectionReason = "duplicate"
	require.NoError(t, s.TimeOff().UpdateRequestDecision(ctx, req))

	got, err := s.TimeOff().GetRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, timeoff.StatusRejected, got.Status)
	assert.Equal(t, "Ada Admin", got.ApprovedByName)
	assert.Equal(t, "Emma Stone", got.RequestedByName)
	assert.Equal(t, "Sick leave", got.TypeName)
	assert.Equal(t, "2025-05-05", got.StartDate.String())
	assert.Equal(t, "1.50", generic.FormatDecimal(got.AllocationDays))

	missing := req
	missing.ID = "req-404"
	assert.ErrorIs(t, s.TimeOff().UpdateRequestDecision(ctx, missing), generic.ErrNotFound)
}

// =============================================================================
// SALARY
// =============================================================================

func TestSalary_InsertIfAbsentAndUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, s, "emp-1", "Emma Stone")

	st := payroll.NewStructure("emp-1", 2025)
	st.CreatedAt = time.Now().UTC()
	st.UpdatedAt = st.CreatedAt
	require.NoError(t, s.Payroll().InsertSalaryIfAbsent(ctx, st))

	st.BasicSalary = generic.MustParseDecimal("60000")
	require.NoError(t, s.Payroll().InsertSalaryIfAbsent(ctx, st))
	got, err := s.Payroll().GetSalary(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, got.BasicSalary.IsZero())

	require.NoError(t, s.Payroll().UpdateSalary(ctx, st))
	got, err = s.Payroll().GetSalary(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "60000.00", generic.FormatDecimal(got.BasicSalary))
	assert.Equal(t, payroll.DefaultMonthlyWorkingDays, got.MonthlyWorkingDays)

	_, err = s.Payroll().GetSalary(ctx, "emp-2")
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

// =============================================================================
// RESET
// =============================================================================

func TestReset(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedEmployee(t, s, "emp-1", "Emma Stone")

	require.NoError(t, s.Reset(ctx))

	all, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

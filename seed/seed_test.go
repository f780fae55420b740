package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/seed"
	"github.com/dayflow/hr-engine/store/memory"
	"github.com/dayflow/hr-engine/store/sqlstore"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_AllLoad(t *testing.T) {
	ctx := context.Background()
	sql, err := sqlstore.Open(ctx, sqlstore.Config{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer sql.Close()

	loader := seed.NewLoader(sql)
	for _, s := range seed.Scenarios() {
		t.Run(s.ID, func(t *testing.T) {
			require.NoError(t, loader.Load(ctx, s.ID))

			employees, err := sql.ListEmployees(ctx)
			require.NoError(t, err)
			assert.Len(t, employees, 4)
		})
	}
}

func TestLoad_ReplacesPreviousData(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	loader := seed.NewLoader(store)

	require.NoError(t, loader.Load(ctx, "pending-approvals"))
	require.NoError(t, loader.Load(ctx, "basic"))

	reqs, err := store.TimeOff().ListRequests(ctx, timeoff.RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestPendingApprovals_LedgerMatchesDecisions(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, seed.NewLoader(store).Load(ctx, "pending-approvals"))

	bal, err := store.TimeOff().GetBalance(ctx, timeoff.BalanceKey{
		EmployeeID: seed.EmployeeID, TypeCode: timeoff.TypePaid, Year: time.Now().Year(),
	})
	require.NoError(t, err)
	assert.Equal(t, "21.00", generic.FormatDecimal(bal.Available()))

	pending, err := store.TimeOff().ListRequests(ctx, timeoff.RequestFilter{Status: timeoff.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}

func TestExhaustedBalance_RemainingRequestCannotBeApproved(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, seed.NewLoader(store).Load(ctx, "exhausted-balance"))

	pending, err := store.TimeOff().ListRequests(ctx, timeoff.RequestFilter{Status: timeoff.StatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)

	admin := generic.Actor{EmployeeID: seed.AdminID, Role: generic.RoleAdmin}
	_, err = timeoff.NewRequestService(store.TimeOff()).Approve(ctx, admin, pending[0].ID)
	assert.ErrorIs(t, err, generic.ErrInsufficientBalance)
}

func TestPayroll_SalaryStructures(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, seed.NewLoader(store).Load(ctx, "payroll"))

	st, err := store.Payroll().GetSalary(ctx, seed.EmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "102600.00", generic.FormatDecimal(st.Breakdown().Net))
}

func TestLoad_UnknownScenario(t *testing.T) {
	err := seed.NewLoader(memory.New()).Load(context.Background(), "nope")

	assert.ErrorIs(t, err, generic.ErrNotFound)
}

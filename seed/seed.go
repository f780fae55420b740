/*
Package seed loads demo scenarios into a store.

PURPOSE:
  Populates a fresh database with employees, the leave-type catalogue,
  balances, requests and salary structures so the API can be explored
  without hand-entering data. Used by `hr-engine seed` and by
  POST /api/scenarios/load.

AVAILABLE SCENARIOS:
  basic:             Default types, four employees, balances for this year
  pending-approvals: basic + a mix of pending, approved and rejected requests
  exhausted-balance: An employee whose paid leave is fully used, with one
                     more request waiting (approving it fails)
  payroll:           basic + salary structures

HOW SCENARIOS WORK:
  1. Reset the store (all rows deleted)
  2. Install the leave-type catalogue
  3. Create employees
  4. Initialize balances for the current year
  5. Drive requests through the same services the API uses

Everything goes through timeoff.RequestService, timeoff.Ledger and
payroll.Service, so scenarios never write state the API could not.

SEE ALSO:
  - api/scenarios.go: HTTP handlers
  - cmd/server/seed.go: CLI command
*/
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/logging"
	"github.com/dayflow/hr-engine/payroll"
	"github.com/dayflow/hr-engine/store"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/shopspring/decimal"
)

// Well-known employee IDs created by every scenario.
const (
	AdminID     generic.EmployeeID = "admin"
	HRID        generic.EmployeeID = "hr-1"
	EmployeeID  generic.EmployeeID = "emp-1"
	ColleagueID generic.EmployeeID = "emp-2"
)

// Scenario is one named demo data set.
type Scenario struct {
	ID          string
	Name        string
	Description string
	load        func(ctx context.Context, l *Loader) error
}

var scenarios = []Scenario{
	{
		ID:          "basic",
		Name:        "Basic",
		Description: "Default leave types, four employees and balances for the current year",
		load:        func(ctx context.Context, l *Loader) error { return l.loadBasic(ctx) },
	},
	{
		ID:          "pending-approvals",
		Name:        "Pending Approvals",
		Description: "Requests waiting for a decision next to approved and rejected ones",
		load:        func(ctx context.Context, l *Loader) error { return l.loadPendingApprovals(ctx) },
	},
	{
		ID:          "exhausted-balance",
		Name:        "Exhausted Balance",
		Description: "Paid leave fully used; approving the remaining request fails",
		load:        func(ctx context.Context, l *Loader) error { return l.loadExhaustedBalance(ctx) },
	},
	{
		ID:          "payroll",
		Name:        "Payroll",
		Description: "Salary structures for the sample employees",
		load:        func(ctx context.Context, l *Loader) error { return l.loadPayroll(ctx) },
	},
}

// Scenarios returns the available scenarios in display order.
func Scenarios() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// =============================================================================
// LOADER
// =============================================================================

// Loader applies scenarios to a backend through the domain services.
type Loader struct {
	backend  store.Backend
	ledger   *timeoff.Ledger
	requests *timeoff.RequestService
	salaries *payroll.Service
	now      func() time.Time
}

func NewLoader(backend store.Backend) *Loader {
	return &Loader{
		backend:  backend,
		ledger:   timeoff.NewLedger(backend.TimeOff()),
		requests: timeoff.NewRequestService(backend.TimeOff()),
		salaries: payroll.NewService(backend.Payroll()),
		now:      time.Now,
	}
}

// Load resets the backend and applies the scenario with the given ID.
func (l *Loader) Load(ctx context.Context, id string) error {
	for _, s := range scenarios {
		if s.ID != id {
			continue
		}
		if err := l.backend.Reset(ctx); err != nil {
			return fmt.Errorf("reset store: %w", err)
		}
		if err := s.load(ctx, l); err != nil {
			return fmt.Errorf("load scenario %s: %w", id, err)
		}
		logging.FromContext(ctx).Info("scenario loaded", "scenario", id)
		return nil
	}
	return generic.NewNotFound("scenario", id)
}

// InstallTypes saves each type, replacing any existing definition with the
// same code.
func InstallTypes(ctx context.Context, s timeoff.Store, types []timeoff.Type) error {
	for _, t := range types {
		if err := s.SaveType(ctx, t); err != nil {
			return fmt.Errorf("save type %s: %w", t.Code, err)
		}
	}
	return nil
}

var admin = generic.Actor{EmployeeID: AdminID, Role: generic.RoleAdmin}

func (l *Loader) year() int {
	return l.now().Year()
}

func (l *Loader) date(month time.Month, day int) generic.Date {
	return generic.NewDate(l.year(), month, day)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func (l *Loader) loadBasic(ctx context.Context) error {
	if err := InstallTypes(ctx, l.backend.TimeOff(), timeoff.DefaultTypes()); err != nil {
		return err
	}

	now := l.now().UTC()
	employees := []generic.Employee{
		{ID: AdminID, Name: "Ada Admin", Email: "admin@dayflow.example", Role: generic.RoleAdmin},
		{ID: HRID, Name: "Hana Reyes", Email: "hr@dayflow.example", Role: generic.RoleHR},
		{ID: EmployeeID, Name: "Emma Stone", Email: "emma@dayflow.example", Role: generic.RoleEmployee},
		{ID: ColleagueID, Name: "Liam Park", Email: "liam@dayflow.example", Role: generic.RoleEmployee},
	}
	for _, e := range employees {
		e.CreatedAt = now
		if err := l.backend.SaveEmployee(ctx, e); err != nil {
			return fmt.Errorf("save employee %s: %w", e.ID, err)
		}
		if _, err := l.ledger.InitializeForYear(ctx, e.ID, l.year()); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadPendingApprovals(ctx context.Context) error {
	if err := l.loadBasic(ctx); err != nil {
		return err
	}

	// Approved: 3 paid days, leaving 21 of 24.
	approved, err := l.submit(ctx, EmployeeID, timeoff.TypePaid, l.date(time.February, 10), l.date(time.February, 12), nil)
	if err != nil {
		return err
	}
	if _, err := l.requests.Approve(ctx, admin, approved.ID); err != nil {
		return err
	}

	rejected, err := l.submit(ctx, ColleagueID, timeoff.TypePaid, l.date(time.March, 2), l.date(time.March, 6), nil)
	if err != nil {
		return err
	}
	if _, err := l.requests.Reject(ctx, admin, rejected.ID, "Release week"); err != nil {
		return err
	}

	half := decimal.NewFromFloat(0.5)
	pending := []struct {
		employee   generic.EmployeeID
		code       string
		start, end generic.Date
		days       *decimal.Decimal
	}{
		{EmployeeID, timeoff.TypePaid, l.date(time.July, 14), l.date(time.July, 25), nil},
		{EmployeeID, timeoff.TypeSick, l.date(time.April, 3), l.date(time.April, 3), &half},
		{ColleagueID, timeoff.TypeUnpaid, l.date(time.September, 1), l.date(time.September, 5), nil},
	}
	for _, p := range pending {
		if _, err := l.submit(ctx, p.employee, p.code, p.start, p.end, p.days); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadExhaustedBalance(ctx context.Context) error {
	if err := l.loadBasic(ctx); err != nil {
		return err
	}

	full := decimal.NewFromInt(24)
	used, err := l.submit(ctx, EmployeeID, timeoff.TypePaid, l.date(time.January, 6), l.date(time.February, 7), &full)
	if err != nil {
		return err
	}
	if _, err := l.requests.Approve(ctx, admin, used.ID); err != nil {
		return err
	}

	_, err = l.submit(ctx, EmployeeID, timeoff.TypePaid, l.date(time.December, 24), l.date(time.December, 24), nil)
	return err
}

func (l *Loader) loadPayroll(ctx context.Context) error {
	if err := l.loadBasic(ctx); err != nil {
		return err
	}

	d := generic.MustParseDecimal
	structures := map[generic.EmployeeID]payroll.Patch{
		EmployeeID: {
			BasicSalary:                 ptr(d("60000")),
			HRAPercentage:               ptr(d("50")),
			StandardAllowancePercentage: ptr(d("30")),
			PerformanceBonus:            ptr(d("7000")),
			LeaveTravelAllowance:        ptr(d("3000")),
			PFPercentage:                ptr(d("12")),
			ProfessionalTax:             ptr(d("200")),
			IncomeTax:                   ptr(d("8000")),
		},
		ColleagueID: {
			BasicSalary:                 ptr(d("45000")),
			HRAFixed:                    ptr(d("15000")),
			StandardAllowancePercentage: ptr(d("20")),
			PFPercentage:                ptr(d("12")),
			ProfessionalTax:             ptr(d("200")),
			IncomeTax:                   ptr(d("4500")),
		},
	}
	for _, id := range []generic.EmployeeID{EmployeeID, ColleagueID} {
		if _, err := l.salaries.Update(ctx, admin, id, structures[id]); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) submit(ctx context.Context, employeeID generic.EmployeeID, code string, start, end generic.Date, days *decimal.Decimal) (*timeoff.Request, error) {
	return l.requests.Create(ctx, admin, timeoff.CreateInput{
		EmployeeID:     employeeID,
		TypeCode:       code,
		StartDate:      start,
		EndDate:        end,
		AllocationDays: days,
	})
}

func ptr[T any](v T) *T {
	return &v
}

// Package memory provides an in-memory implementation of the domain stores
// (for tests and demos). Transactions are simulated with a snapshot that is
// restored when the callback fails.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/payroll"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/shopspring/decimal"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu sync.RWMutex
	d  *data
}

func New() *Store {
	return &Store{d: newData()}
}

// TimeOff returns the time-off view of the store.
func (s *Store) TimeOff() timeoff.TxStore { return &timeOffStore{s: s} }

// Payroll returns the payroll view of the store.
func (s *Store) Payroll() payroll.TxStore { return &payrollStore{s: s} }

func (s *Store) GetEmployee(ctx context.Context, id generic.EmployeeID) (*generic.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.GetEmployee(ctx, id)
}

func (s *Store) ListEmployees(ctx context.Context) ([]generic.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]generic.Employee, 0, len(s.d.employees))
	for _, e := range s.d.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SaveEmployee(_ context.Context, emp generic.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, other := range s.d.employees {
		if id != emp.ID && other.Email == emp.Email {
			return generic.NewDuplicateEmail(emp.Email)
		}
	}
	if existing, ok := s.d.employees[emp.ID]; ok {
		emp.CreatedAt = existing.CreatedAt
	}
	s.d.employees[emp.ID] = emp
	return nil
}

// Reset drops all data.
func (s *Store) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d = newData()
	return nil
}

// withTx runs fn against the live data under the write lock and restores
// the snapshot if fn fails.
func (s *Store) withTx(fn func(*data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	if err := fn(s.d); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

// =============================================================================
// DATA - Unlocked state; implements timeoff.Store and payroll.Store
// =============================================================================

type data struct {
	employees map[generic.EmployeeID]generic.Employee
	types     map[string]timeoff.Type
	balances  map[timeoff.BalanceKey]timeoff.Balance
	requests  map[string]timeoff.Request
	salaries  map[generic.EmployeeID]payroll.Structure
}

var (
	_ timeoff.Store = (*data)(nil)
	_ payroll.Store = (*data)(nil)
)

func newData() *data {
	return &data{
		employees: make(map[generic.EmployeeID]generic.Employee),
		types:     make(map[string]timeoff.Type),
		balances:  make(map[timeoff.BalanceKey]timeoff.Balance),
		requests:  make(map[string]timeoff.Request),
		salaries:  make(map[generic.EmployeeID]payroll.Structure),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.employees {
		c.employees[k] = v
	}
	for k, v := range d.types {
		c.types[k] = v
	}
	for k, v := range d.balances {
		c.balances[k] = v
	}
	for k, v := range d.requests {
		c.requests[k] = v
	}
	for k, v := range d.salaries {
		c.salaries[k] = v
	}
	return c
}

func (d *data) GetEmployee(_ context.Context, id generic.EmployeeID) (*generic.Employee, error) {
	e, ok := d.employees[id]
	if !ok {
		return nil, generic.NewNotFound("employee", string(id))
	}
	return &e, nil
}

// Types

func (d *data) GetType(_ context.Context, code string) (*timeoff.Type, error) {
	t, ok := d.types[code]
	if !ok {
		return nil, generic.NewNotFound("time-off type", code)
	}
	return &t, nil
}

func (d *data) ListTypes(_ context.Context, activeOnly bool) ([]timeoff.Type, error) {
	out := make([]timeoff.Type, 0, len(d.types))
	for _, t := range d.types {
		if activeOnly && !t.Active {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (d *data) SaveType(_ context.Context, t timeoff.Type) error {
	d.types[t.Code] = t
	return nil
}

// Balances

func (d *data) InsertBalanceIfAbsent(_ context.Context, b timeoff.Balance) error {
	if _, ok := d.balances[b.Key()]; ok {
		return nil
	}
	if _, ok := d.types[b.TypeCode]; !ok {
		return generic.NewNotFound("time-off type", b.TypeCode)
	}
	b.TypeName = ""
	d.balances[b.Key()] = b
	return nil
}

func (d *data) GetBalance(_ context.Context, key timeoff.BalanceKey) (*timeoff.Balance, error) {
	b, ok := d.balances[key]
	if !ok {
		return nil, generic.NewNotFound("balance", key.TypeCode)
	}
	b.TypeName = d.types[b.TypeCode].Name
	return &b, nil
}

// GetBalanceForUpdate needs no extra lock: transactions hold the store's
// write lock for their whole duration.
func (d *data) GetBalanceForUpdate(ctx context.Context, key timeoff.BalanceKey) (*timeoff.Balance, error) {
	return d.GetBalance(ctx, key)
}

func (d *data) AddUsedDays(_ context.Context, balanceID string, days decimal.Decimal) error {
	for k, b := range d.balances {
		if b.ID == balanceID {
			b.Used = b.Used.Add(days)
			d.balances[k] = b
			return nil
		}
	}
	return generic.NewNotFound("balance", balanceID)
}

func (d *data) ListBalances(_ context.Context, employeeID generic.EmployeeID, year int) ([]timeoff.Balance, error) {
	var out []timeoff.Balance
	for _, b := range d.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			b.TypeName = d.types[b.TypeCode].Name
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeCode < out[j].TypeCode })
	return out, nil
}

// Requests

func (d *data) CreateRequest(_ context.Context, r timeoff.Request) error {
	d.requests[r.ID] = r
	return nil
}

func (d *data) GetRequest(_ context.Context, id string) (*timeoff.Request, error) {
	r, ok := d.requests[id]
	if !ok {
		return nil, generic.NewNotFound("time-off request", id)
	}
	d.decorate(&r)
	return &r, nil
}

func (d *data) GetRequestForUpdate(ctx context.Context, id string) (*timeoff.Request, error) {
	return d.GetRequest(ctx, id)
}

func (d *data) UpdateRequestDecision(_ context.Context, r timeoff.Request) error {
	stored, ok := d.requests[r.ID]
	if !ok {
		return generic.NewNotFound("time-off request", r.ID)
	}
	stored.Status = r.Status
	stored.ApprovedBy = r.ApprovedBy
	stored.RejectionReason = r.RejectionReason
	stored.UpdatedAt = r.UpdatedAt
	d.requests[r.ID] = stored
	return nil
}

func (d *data) ListRequests(_ context.Context, f timeoff.RequestFilter) ([]timeoff.Request, error) {
	search := strings.ToLower(f.Search)
	var out []timeoff.Request
	for _, r := range d.requests {
		if f.EmployeeID != "" && r.EmployeeID != f.EmployeeID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.TypeCode != "" && r.TypeCode != f.TypeCode {
			continue
		}
		if f.Year != 0 && r.Year() != f.Year {
			continue
		}
		d.decorate(&r)
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func matchesSearch(r timeoff.Request, search string) bool {
	for _, field := range []string{r.EmployeeName, r.EmployeeEmail, r.TypeName, string(r.Status)} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func (d *data) decorate(r *timeoff.Request) {
	emp := d.employees[r.EmployeeID]
	r.EmployeeName = emp.Name
	r.EmployeeEmail = emp.Email
	r.TypeName = d.types[r.TypeCode].Name
	r.RequestedByName = d.employees[r.RequestedBy].Name
	r.ApprovedByName = ""
	if r.ApprovedBy != "" {
		r.ApprovedByName = d.employees[r.ApprovedBy].Name
	}
}

// Salaries

func (d *data) GetSalary(_ context.Context, employeeID generic.EmployeeID) (*payroll.Structure, error) {
	s, ok := d.salaries[employeeID]
	if !ok {
		return nil, generic.NewNotFound("salary structure", string(employeeID))
	}
	return &s, nil
}

func (d *data) InsertSalaryIfAbsent(_ context.Context, s payroll.Structure) error {
	if _, ok := d.salaries[s.EmployeeID]; ok {
		return nil
	}
	d.salaries[s.EmployeeID] = s
	return nil
}

func (d *data) UpdateSalary(_ context.Context, s payroll.Structure) error {
	if _, ok := d.salaries[s.EmployeeID]; !ok {
		return generic.NewNotFound("salary structure", string(s.EmployeeID))
	}
	d.salaries[s.EmployeeID] = s
	return nil
}

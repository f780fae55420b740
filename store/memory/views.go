package memory

import (
	"context"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/payroll"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME-OFF VIEW
// =============================================================================

type timeOffStore struct {
	s *Store
}

var _ timeoff.TxStore = (*timeOffStore)(nil)

func (v *timeOffStore) WithTx(_ context.Context, fn func(timeoff.Store) error) error {
	return v.s.withTx(func(d *data) error { return fn(d) })
}

func (v *timeOffStore) GetEmployee(ctx context.Context, id generic.EmployeeID) (*generic.Employee, error) {
	return v.s.GetEmployee(ctx, id)
}

func (v *timeOffStore) GetType(ctx context.Context, code string) (*timeoff.Type, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.d.GetType(ctx, code)
}

func (v *timeOffStore) ListTypes(ctx context.Context, activeOnly bool) ([]timeoff.Type, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.d.ListTypes(ctx, activeOnly)
}

func (v *timeOffStore) SaveType(ctx context.Context, t timeoff.Type) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.d.SaveType(ctx, t)
}

func (v *timeOffStore) InsertBalanceIfAbsent(ctx context.Context, b timeoff.Balance) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.d.InsertBalanceIfAbsent(ctx, b)
}

func (v *timeOffStore) GetBalance(ctx context.Context, key timeoff.BalanceKey) (*timeoff.Balance, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.d.GetBalance(ctx, key)
}

func (v *timeOffStore) GetBalanceForUpdate(ctx context.Context, key timeoff.BalanceKey) (*timeoff.Balance, error) {
	return v.GetBalance(ctx, key)
}

func (v *timeOffStore) AddUsedDays(ctx context.Context, balanceID string, days decimal.Decimal) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.d.AddUsedDays(ctx, balanceID, days)
}

func (v *timeOffStore) ListBalances(ctx context.Context, employeeID generic.EmployeeID, year int) ([]timeoff.Balance, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.d.ListBalances(ctx, employeeID, year)
}

func (v *timeOffStore) CreateRequest(ctx context.Context, r timeoff.Request) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.d.CreateRequest(ctx, r)
}

func (v *timeOffStore) GetRequest(ctx context.Context, id string) (*timeoff.Request, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.d.GetRequest(ctx, id)
}

func (v *timeOffStore) GetRequestForUpdate(ctx context.Context, id string) (*timeoff.Request, error) {
	return v.GetRequest(ctx, id)
}

func (v *timeOffStore) UpdateRequestDecision(ctx context.Context, r timeoff.Request) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.d.UpdateRequestDecision(ctx, r)
}

func (v *timeOffStore) ListRequests(ctx context.Context, filter timeoff.RequestFilter) ([]timeoff.Request, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.d.ListRequests(ctx, filter)
}

// =============================================================================
// PAYROLL VIEW
// =============================================================================

type payrollStore struct {
	s *Store
}

var _ payroll.TxStore = (*payrollStore)(nil)

func (v *payrollStore) WithTx(_ context.Context, fn func(payroll.Store) error) error {
	return v.s.withTx(func(d *data) error { return fn(d) })
}

func (v *payrollStore) GetEmployee(ctx context.Context, id generic.EmployeeID) (*generic.Employee, error) {
	return v.s.GetEmployee(ctx, id)
}

func (v *payrollStore) GetSalary(ctx context.Context, employeeID generic.EmployeeID) (*payroll.Structure, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.d.GetSalary(ctx, employeeID)
}

func (v *payrollStore) InsertSalaryIfAbsent(ctx context.Context, st payroll.Structure) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.d.InsertSalaryIfAbsent(ctx, st)
}

func (v *payrollStore) UpdateSalary(ctx context.Context, st payroll.Structure) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return v.s.d.UpdateSalary(ctx, st)
}

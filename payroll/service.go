package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/logging"
	"github.com/shopspring/decimal"
)

// Store persists salary structures, one per employee.
type Store interface {
	generic.EmployeeLookup

	// GetSalary returns an error wrapping generic.ErrNotFound when the
	// employee has no structure yet.
	GetSalary(ctx context.Context, employeeID generic.EmployeeID) (*Structure, error)
	// InsertSalaryIfAbsent does nothing when a structure already exists.
	InsertSalaryIfAbsent(ctx context.Context, s Structure) error
	UpdateSalary(ctx context.Context, s Structure) error
}

type TxStore interface {
	Store
	generic.TxStore[Store]
}

// Service exposes salary structures to ADMIN and HR actors only.
type Service struct {
	store TxStore
	now   func() time.Time
}

func NewService(store TxStore) *Service {
	return &Service{store: store, now: time.Now}
}

// GetOrCreate returns the employee's structure, creating a zeroed one for
// the current year on first access.
func (s *Service) GetOrCreate(ctx context.Context, actor generic.Actor, employeeID generic.EmployeeID) (*Structure, error) {
	if !actor.CanAdminister() {
		return nil, fmt.Errorf("view salary: %w", generic.ErrForbidden)
	}
	var out *Structure
	err := s.store.WithTx(ctx, func(tx Store) error {
		st, err := s.getOrCreate(ctx, tx, employeeID)
		out = st
		return err
	})
	return out, err
}

func (s *Service) getOrCreate(ctx context.Context, tx Store, employeeID generic.EmployeeID) (*Structure, error) {
	if _, err := tx.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	existing, err := tx.GetSalary(ctx, employeeID)
	if err == nil {
		return existing, nil
	}
	if !generic.IsNotFound(err) {
		return nil, err
	}

	now := s.now().UTC()
	st := NewStructure(employeeID, now.Year())
	st.CreatedAt = now
	st.UpdatedAt = now
	if err := tx.InsertSalaryIfAbsent(ctx, st); err != nil {
		return nil, fmt.Errorf("insert salary: %w", err)
	}
	logging.FromContext(ctx).Info("salary structure created", "employee_id", employeeID)
	return tx.GetSalary(ctx, employeeID)
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	BasicSalary                 *decimal.Decimal
	HRAPercentage               *decimal.Decimal
	HRAFixed                    *decimal.Decimal
	StandardAllowancePercentage *decimal.Decimal
	PerformanceBonus            *decimal.Decimal
	LeaveTravelAllowance        *decimal.Decimal
	PFPercentage                *decimal.Decimal
	ProfessionalTax             *decimal.Decimal
	IncomeTax                   *decimal.Decimal
	MonthlyWorkingDays          *int
	WeeksPerMonth               *int
	Year                        *int
}

// Update applies patch to the employee's structure, creating it first if needed.
func (s *Service) Update(ctx context.Context, actor generic.Actor, employeeID generic.EmployeeID, patch Patch) (*Structure, error) {
	if !actor.CanAdminister() {
		return nil, fmt.Errorf("update salary: %w", generic.ErrForbidden)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var out *Structure
	err := s.store.WithTx(ctx, func(tx Store) error {
		st, err := s.getOrCreate(ctx, tx, employeeID)
		if err != nil {
			return err
		}
		patch.apply(st)
		st.UpdatedAt = s.now().UTC()
		if err := tx.UpdateSalary(ctx, *st); err != nil {
			return fmt.Errorf("update salary: %w", err)
		}
		out = st
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("salary structure updated",
		"employee_id", employeeID, "actor", actor.EmployeeID)
	return out, nil
}

// patchField pairs a JSON field name with its optional value. Fields are
// checked in declaration order so the first invalid one is reported.
type patchField struct {
	name  string
	value *decimal.Decimal
}

// Validate rejects negative amounts, percentages outside 0-100 and
// implausible working-time values.
func (p Patch) Validate() error {
	amounts := []patchField{
		{"basic_salary", p.BasicSalary},
		{"hra_fixed", p.HRAFixed},
		{"performance_bonus", p.PerformanceBonus},
		{"leave_travel_allowance", p.LeaveTravelAllowance},
		{"professional_tax", p.ProfessionalTax},
		{"income_tax", p.IncomeTax},
	}
	for _, f := range amounts {
		if f.value != nil && f.value.IsNegative() {
			return &generic.ValidationError{Field: f.name, Message: "must not be negative"}
		}
	}

	percentages := []patchField{
		{"hra_percentage", p.HRAPercentage},
		{"standard_allowance_percentage", p.StandardAllowancePercentage},
		{"pf_percentage", p.PFPercentage},
	}
	for _, f := range percentages {
		if f.value != nil && (f.value.IsNegative() || f.value.GreaterThan(hundred)) {
			return &generic.ValidationError{Field: f.name, Message: "must be between 0 and 100"}
		}
	}

	if p.MonthlyWorkingDays != nil && (*p.MonthlyWorkingDays < 1 || *p.MonthlyWorkingDays > 31) {
		return &generic.ValidationError{Field: "monthly_working_days", Message: "must be between 1 and 31"}
	}
	if p.WeeksPerMonth != nil && (*p.WeeksPerMonth < 1 || *p.WeeksPerMonth > 5) {
		return &generic.ValidationError{Field: "weeks_per_month", Message: "must be between 1 and 5"}
	}
	if p.Year != nil && (*p.Year < 1900 || *p.Year > 9999) {
		return &generic.ValidationError{Field: "year", Message: "out of range"}
	}
	return nil
}

func (p Patch) apply(s *Structure) {
	set := func(dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil {
			*dst = generic.Round2(*v)
		}
	}
	set(&s.BasicSalary, p.BasicSalary)
	set(&s.HRAPercentage, p.HRAPercentage)
	set(&s.HRAFixed, p.HRAFixed)
	set(&s.StandardAllowancePercentage, p.StandardAllowancePercentage)
	set(&s.PerformanceBonus, p.PerformanceBonus)
	set(&s.LeaveTravelAllowance, p.LeaveTravelAllowance)
	set(&s.PFPercentage, p.PFPercentage)
	set(&s.ProfessionalTax, p.ProfessionalTax)
	set(&s.IncomeTax, p.IncomeTax)
	if p.MonthlyWorkingDays != nil {
		s.MonthlyWorkingDays = *p.MonthlyWorkingDays
	}
	if p.WeeksPerMonth != nil {
		s.WeeksPerMonth = *p.WeeksPerMonth
	}
	if p.Year != nil {
		s.Year = *p.Year
	}
}

package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/payroll"
	"github.com/shopspring/decimal"
)

// payrollStore is the payroll.TxStore view of the store.
type payrollStore struct {
	*Store
}

var _ payroll.TxStore = payrollStore{}

// Payroll returns the payroll view of the store.
func (s *Store) Payroll() payroll.TxStore {
	return payrollStore{Store: s}
}

func (v payrollStore) WithTx(ctx context.Context, fn func(payroll.Store) error) error {
	return v.withTx(ctx, func(q queries) error { return fn(q) })
}

type salaryRow struct {
	EmployeeID                  string          `db:"employee_id"`
	BasicSalary                 decimal.Decimal `db:"basic_salary"`
	HRAPercentage               decimal.Decimal `db:"hra_percentage"`
	HRAFixed                    decimal.Decimal `db:"hra_fixed"`
	StandardAllowancePercentage decimal.Decimal `db:"standard_allowance_percentage"`
	PerformanceBonus            decimal.Decimal `db:"performance_bonus"`
	LeaveTravelAllowance        decimal.Decimal `db:"leave_travel_allowance"`
	PFPercentage                decimal.Decimal `db:"pf_percentage"`
	ProfessionalTax             decimal.Decimal `db:"professional_tax"`
	IncomeTax                   decimal.Decimal `db:"income_tax"`
	MonthlyWorkingDays          int             `db:"monthly_working_days"`
	WeeksPerMonth               int             `db:"weeks_per_month"`
	Year                        int             `db:"year"`
	CreatedAt                   time.Time       `db:"created_at"`
	UpdatedAt                   time.Time       `db:"updated_at"`
}

func (r salaryRow) toDomain() payroll.Structure {
	return payroll.Structure{
		EmployeeID:                  generic.EmployeeID(r.EmployeeID),
		BasicSalary:                 r.BasicSalary,
		HRAPercentage:               r.HRAPercentage,
		HRAFixed:                    r.HRAFixed,
		StandardAllowancePercentage: r.StandardAllowancePercentage,
		PerformanceBonus:            r.PerformanceBonus,
		LeaveTravelAllowance:        r.LeaveTravelAllowance,
		PFPercentage:                r.PFPercentage,
		ProfessionalTax:             r.ProfessionalTax,
		IncomeTax:                   r.IncomeTax,
		MonthlyWorkingDays:          r.MonthlyWorkingDays,
		WeeksPerMonth:               r.WeeksPerMonth,
		Year:                        r.Year,
		CreatedAt:                   r.CreatedAt,
		UpdatedAt:                   r.UpdatedAt,
	}
}

func (q queries) GetSalary(ctx context.Context, employeeID generic.EmployeeID) (*payroll.Structure, error) {
	var row salaryRow
	err := q.get(ctx, &row, `
		SELECT employee_id, basic_salary, hra_percentage, hra_fixed, standard_allowance_percentage,
			performance_bonus, leave_travel_allowance, pf_percentage, professional_tax, income_tax,
			monthly_working_days, weeks_per_month, year, created_at, updated_at
		FROM salary_structures WHERE employee_id = ?
	`, string(employeeID))
	if err != nil {
		return nil, notFound(err, "salary structure", string(employeeID))
	}
	s := row.toDomain()
	return &s, nil
}

func (q queries) InsertSalaryIfAbsent(ctx context.Context, s payroll.Structure) error {
	_, err := q.exec(ctx, `
		INSERT INTO salary_structures (employee_id, basic_salary, hra_percentage, hra_fixed,
			standard_allowance_percentage, performance_bonus, leave_travel_allowance, pf_percentage,
			professional_tax, income_tax, monthly_working_days, weeks_per_month, year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id) DO NOTHING
	`, salaryArgs(s)...)
	return err
}

func (q queries) UpdateSalary(ctx context.Context, s payroll.Structure) error {
	res, err := q.exec(ctx, `
		UPDATE salary_structures SET
			basic_salary = ?, hra_percentage = ?, hra_fixed = ?, standard_allowance_percentage = ?,
			performance_bonus = ?, leave_travel_allowance = ?, pf_percentage = ?, professional_tax = ?,
			income_tax = ?, monthly_working_days = ?, weeks_per_month = ?, year = ?, updated_at = ?
		WHERE employee_id = ?
	`,
		generic.Round2(s.BasicSalary), generic.Round2(s.HRAPercentage), generic.Round2(s.HRAFixed),
		generic.Round2(s.StandardAllowancePercentage), generic.Round2(s.PerformanceBonus),
		generic.Round2(s.LeaveTravelAllowance), generic.Round2(s.PFPercentage),
		generic.Round2(s.ProfessionalTax), generic.Round2(s.IncomeTax),
		s.MonthlyWorkingDays, s.WeeksPerMonth, s.Year, s.UpdatedAt.UTC(),
		string(s.EmployeeID),
	)
	if err != nil {
		return fmt.Errorf("update salary %s: %w", s.EmployeeID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return generic.NewNotFound("salary structure", string(s.EmployeeID))
	}
	return nil
}

func salaryArgs(s payroll.Structure) []any {
	return []any{
		string(s.EmployeeID),
		generic.Round2(s.BasicSalary), generic.Round2(s.HRAPercentage), generic.Round2(s.HRAFixed),
		generic.Round2(s.StandardAllowancePercentage), generic.Round2(s.PerformanceBonus),
		generic.Round2(s.LeaveTravelAllowance), generic.Round2(s.PFPercentage),
		generic.Round2(s.ProfessionalTax), generic.Round2(s.IncomeTax),
		s.MonthlyWorkingDays, s.WeeksPerMonth, s.Year, s.CreatedAt.UTC(), s.UpdatedAt.UTC(),
	}
}

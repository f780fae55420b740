/*
salary.go - Salary structure and derived payroll figures

PURPOSE:
  A Structure holds the stored inputs of an employee's pay: basic salary,
  percentage and fixed components, deductions. Breakdown derives the
  payroll figures from those inputs on every read. Nothing derived is
  ever persisted, so an edit to an input is reflected immediately.

FORMULAS (monthly):
  HRA        = basic × HRA% / 100 + HRA fixed
  Allowance  = basic × allowance% / 100
  Gross      = basic + HRA + allowance + performance bonus + LTA
  PF         = basic × PF% / 100
  Deductions = PF + professional tax + income tax
  Net        = gross − deductions
  Annual     = net × 12

PRECISION:
  All arithmetic is decimal. Exposed figures are rounded half-up to two
  fractional digits.

SEE ALSO:
  - service.go: Lazy creation and updates, ADMIN/HR only
*/
package payroll

import (
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// STRUCTURE - Stored inputs
// =============================================================================

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// Default working-time configuration for a new structure.
const (
	DefaultMonthlyWorkingDays = 22
	DefaultWeeksPerMonth      = 4
)

type Structure struct {
	EmployeeID                  generic.EmployeeID
	BasicSalary                 decimal.Decimal
	HRAPercentage               decimal.Decimal
	HRAFixed                    decimal.Decimal
	StandardAllowancePercentage decimal.Decimal
	PerformanceBonus            decimal.Decimal
	LeaveTravelAllowance        decimal.Decimal
	PFPercentage                decimal.Decimal
	ProfessionalTax             decimal.Decimal
	IncomeTax                   decimal.Decimal
	MonthlyWorkingDays          int
	WeeksPerMonth               int
	Year                        int
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// NewStructure returns a zeroed structure with the default working-time
// configuration.
func NewStructure(employeeID generic.EmployeeID, year int) Structure {
	return Structure{
		EmployeeID:                  employeeID,
		BasicSalary:                 decimal.Zero,
		HRAPercentage:               decimal.Zero,
		HRAFixed:                    decimal.Zero,
		StandardAllowancePercentage: decimal.Zero,
		PerformanceBonus:            decimal.Zero,
		LeaveTravelAllowance:        decimal.Zero,
		PFPercentage:                decimal.Zero,
		ProfessionalTax:             decimal.Zero,
		IncomeTax:                   decimal.Zero,
		MonthlyWorkingDays:          DefaultMonthlyWorkingDays,
		WeeksPerMonth:               DefaultWeeksPerMonth,
		Year:                        year,
	}
}

// =============================================================================
// BREAKDOWN - Derived figures, recomputed on every read
// =============================================================================

type Breakdown struct {
	HRA               decimal.Decimal
	StandardAllowance decimal.Decimal
	Gross             decimal.Decimal
	PFContribution    decimal.Decimal
	TotalDeductions   decimal.Decimal
	Net               decimal.Decimal
	Annual            decimal.Decimal
}

func percentOf(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(hundred)
}

// Breakdown computes the payroll figures. Intermediate values keep full
// precision; only the returned figures are rounded.
func (s Structure) Breakdown() Breakdown {
	hra := percentOf(s.BasicSalary, s.HRAPercentage).Add(s.HRAFixed)
	allowance := percentOf(s.BasicSalary, s.StandardAllowancePercentage)
	gross := s.BasicSalary.Add(hra).Add(allowance).Add(s.PerformanceBonus).Add(s.LeaveTravelAllowance)
	pf := percentOf(s.BasicSalary, s.PFPercentage)
	deductions := pf.Add(s.ProfessionalTax).Add(s.IncomeTax)
	net := gross.Sub(deductions)

	return Breakdown{
		HRA:               generic.Round2(hra),
		StandardAllowance: generic.Round2(allowance),
		Gross:             generic.Round2(gross),
		PFContribution:    generic.Round2(pf),
		TotalDeductions:   generic.Round2(deductions),
		Net:               generic.Round2(net),
		Annual:            generic.Round2(net.Mul(monthsPerYear)),
	}
}

/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication and keeps the domain
  types out of the wire contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Envelopes around several DTOs

DECIMALS:
  Day counts and money leave the API as strings with two fractional
  digits ("3.00", "102600.00"). Request bodies accept either a JSON number
  or a decimal string.

SEE ALSO:
  - handlers.go: Uses these types
  - errors.go: ErrorResponse
*/
package api

import (
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/payroll"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toEmployeeDTO(e generic.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:    string(e.ID),
		Name:  e.Name,
		Email: e.Email,
		Role:  string(e.Role),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// TIME-OFF
// =============================================================================

// TypeDTO represents a leave type.
type TypeDTO struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	DefaultAllocation string `json:"default_allocation"`
	Active            bool   `json:"active"`
}

func toTypeDTO(t timeoff.Type) TypeDTO {
	return TypeDTO{
		Code:              t.Code,
		Name:              t.Name,
		DefaultAllocation: generic.FormatDecimal(t.DefaultAllocation),
		Active:            t.Active,
	}
}

// BalanceDTO represents one ledger row.
type BalanceDTO struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	TypeCode      string `json:"type_code"`
	TypeName      string `json:"type_name"`
	Year          int    `json:"year"`
	AllocatedDays string `json:"allocated_days"`
	UsedDays      string `json:"used_days"`
	AvailableDays string `json:"available_days"`
}

func toBalanceDTO(b timeoff.Balance) BalanceDTO {
	return BalanceDTO{
		ID:            b.ID,
		EmployeeID:    string(b.EmployeeID),
		TypeCode:      b.TypeCode,
		TypeName:      b.TypeName,
		Year:          b.Year,
		AllocatedDays: generic.FormatDecimal(b.Allocated),
		UsedDays:      generic.FormatDecimal(b.Used),
		AvailableDays: generic.FormatDecimal(b.Available()),
	}
}

func toBalanceDTOs(balances []timeoff.Balance) []BalanceDTO {
	dtos := make([]BalanceDTO, len(balances))
	for i, b := range balances {
		dtos[i] = toBalanceDTO(b)
	}
	return dtos
}

// RequestDTO represents a time-off request.
type RequestDTO struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	EmployeeName    string `json:"employee_name"`
	EmployeeEmail   string `json:"employee_email,omitempty"`
	TypeCode        string `json:"timeoff_type_code"`
	TypeName        string `json:"timeoff_type_name"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	AllocationDays  string `json:"allocation_days"`
	Status          string `json:"status"`
	RequestedByName string `json:"requested_by_name,omitempty"`
	ApprovedByName  string `json:"approved_by_name,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	AttachmentURL   string `json:"attachment_url,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func toRequestDTO(r timeoff.Request) RequestDTO {
	return RequestDTO{
		ID:              r.ID,
		EmployeeID:      string(r.EmployeeID),
		EmployeeName:    r.EmployeeName,
		EmployeeEmail:   r.EmployeeEmail,
		TypeCode:        r.TypeCode,
		TypeName:        r.TypeName,
		StartDate:       r.StartDate.String(),
		EndDate:         r.EndDate.String(),
		AllocationDays:  generic.FormatDecimal(r.AllocationDays),
		Status:          string(r.Status),
		RequestedByName: r.RequestedByName,
		ApprovedByName:  r.ApprovedByName,
		RejectionReason: r.RejectionReason,
		AttachmentURL:   r.AttachmentURL,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
}

func toRequestDTOs(reqs []timeoff.Request) []RequestDTO {
	dtos := make([]RequestDTO, len(reqs))
	for i, r := range reqs {
		dtos[i] = toRequestDTO(r)
	}
	return dtos
}

// CreateTimeOffRequest is the body of POST /api/timeoff/me.
type CreateTimeOffRequest struct {
	TypeCode       string           `json:"timeoff_type"`
	StartDate      generic.Date     `json:"start_date"`
	EndDate        generic.Date     `json:"end_date"`
	AllocationDays *decimal.Decimal `json:"allocation_days,omitempty"`
	AttachmentURL  string           `json:"attachment_url,omitempty"`
	// EmployeeID lets ADMIN and HR submit on someone else's behalf.
	EmployeeID string `json:"employee_id,omitempty"`
}

// RejectRequest is the body of the reject endpoint.
type RejectRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

// MyTimeOffResponse is returned by GET /api/timeoff/me.
type MyTimeOffResponse struct {
	Requests []RequestDTO `json:"requests"`
	Balances []BalanceDTO `json:"balances"`
	Year     int          `json:"year"`
}

// RequestResponse wraps a single request after a mutation.
type RequestResponse struct {
	Request  RequestDTO   `json:"request"`
	Balances []BalanceDTO `json:"balances,omitempty"`
	Message  string       `json:"message"`
}

// BalancesResponse is returned by the admin balance endpoints.
type BalancesResponse struct {
	EmployeeID   string       `json:"employee_id"`
	EmployeeName string       `json:"employee_name"`
	Year         int          `json:"year"`
	Balances     []BalanceDTO `json:"balances"`
	Message      string       `json:"message,omitempty"`
}

// =============================================================================
// SALARY
// =============================================================================

// SalaryDTO carries the stored inputs and the derived monthly figures.
type SalaryDTO struct {
	EmployeeID                  string `json:"employee_id"`
	BasicSalary                 string `json:"basic_salary"`
	HRAPercentage               string `json:"hra_percentage"`
	HRAFixed                    string `json:"hra_fixed"`
	StandardAllowancePercentage string `json:"standard_allowance_percentage"`
	PerformanceBonus            string `json:"performance_bonus"`
	LeaveTravelAllowance        string `json:"leave_travel_allowance"`
	PFPercentage                string `json:"pf_percentage"`
	ProfessionalTax             string `json:"professional_tax"`
	IncomeTax                   string `json:"income_tax"`
	MonthlyWorkingDays          int    `json:"monthly_working_days"`
	WeeksPerMonth               int    `json:"weeks_per_month"`
	Year                        int    `json:"year"`

	HRA               string `json:"hra"`
	StandardAllowance string `json:"standard_allowance"`
	GrossSalary       string `json:"gross_salary"`
	PFContribution    string `json:"pf_contribution"`
	TotalDeductions   string `json:"total_deductions"`
	NetSalary         string `json:"net_salary"`
	AnnualSalary      string `json:"annual_salary"`

	UpdatedAt string `json:"updated_at,omitempty"`
}

func toSalaryDTO(s payroll.Structure) SalaryDTO {
	b := s.Breakdown()
	dto := SalaryDTO{
		EmployeeID:                  string(s.EmployeeID),
		BasicSalary:                 generic.FormatDecimal(s.BasicSalary),
		HRAPercentage:               generic.FormatDecimal(s.HRAPercentage),
		HRAFixed:                    generic.FormatDecimal(s.HRAFixed),
		StandardAllowancePercentage: generic.FormatDecimal(s.StandardAllowancePercentage),
		PerformanceBonus:            generic.FormatDecimal(s.PerformanceBonus),
		LeaveTravelAllowance:        generic.FormatDecimal(s.LeaveTravelAllowance),
		PFPercentage:                generic.FormatDecimal(s.PFPercentage),
		ProfessionalTax:             generic.FormatDecimal(s.ProfessionalTax),
		IncomeTax:                   generic.FormatDecimal(s.IncomeTax),
		MonthlyWorkingDays:          s.MonthlyWorkingDays,
		WeeksPerMonth:               s.WeeksPerMonth,
		Year:                        s.Year,
		HRA:                         generic.FormatDecimal(b.HRA),
		StandardAllowance:           generic.FormatDecimal(b.StandardAllowance),
		GrossSalary:                 generic.FormatDecimal(b.Gross),
		PFContribution:              generic.FormatDecimal(b.PFContribution),
		TotalDeductions:             generic.FormatDecimal(b.TotalDeductions),
		NetSalary:                   generic.FormatDecimal(b.Net),
		AnnualSalary:                generic.FormatDecimal(b.Annual),
	}
	if !s.UpdatedAt.IsZero() {
		dto.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// UpdateSalaryRequest is the body of PUT /api/employees/{id}/salary.
// Omitted fields keep their stored value.
type UpdateSalaryRequest struct {
	BasicSalary                 *decimal.Decimal `json:"basic_salary,omitempty"`
	HRAPercentage               *decimal.Decimal `json:"hra_percentage,omitempty"`
	HRAFixed                    *decimal.Decimal `json:"hra_fixed,omitempty"`
	StandardAllowancePercentage *decimal.Decimal `json:"standard_allowance_percentage,omitempty"`
	PerformanceBonus            *decimal.Decimal `json:"performance_bonus,omitempty"`
	LeaveTravelAllowance        *decimal.Decimal `json:"leave_travel_allowance,omitempty"`
	PFPercentage                *decimal.Decimal `json:"pf_percentage,omitempty"`
	ProfessionalTax             *decimal.Decimal `json:"professional_tax,omitempty"`
	IncomeTax                   *decimal.Decimal `json:"income_tax,omitempty"`
	MonthlyWorkingDays          *int             `json:"monthly_working_days,omitempty"`
	WeeksPerMonth               *int             `json:"weeks_per_month,omitempty"`
	Year                        *int             `json:"year,omitempty"`
}

func (u UpdateSalaryRequest) patch() payroll.Patch {
	return payroll.Patch{
		BasicSalary:                 u.BasicSalary,
		HRAPercentage:               u.HRAPercentage,
		HRAFixed:                    u.HRAFixed,
		StandardAllowancePercentage: u.StandardAllowancePercentage,
		PerformanceBonus:            u.PerformanceBonus,
		LeaveTravelAllowance:        u.LeaveTravelAllowance,
		PFPercentage:                u.PFPercentage,
		ProfessionalTax:             u.ProfessionalTax,
		IncomeTax:                   u.IncomeTax,
		MonthlyWorkingDays:          u.MonthlyWorkingDays,
		WeeksPerMonth:               u.WeeksPerMonth,
		Year:                        u.Year,
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

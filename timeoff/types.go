// Package timeoff implements the time-off balance ledger and the request
// approval workflow. Leave types are reference data, balances are counters
// per (employee, type, year), and requests move PENDING -> APPROVED | REJECTED.
package timeoff

import (
	"strings"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME-OFF TYPE - Reference data
// =============================================================================

// Type is a named leave category with a default annual allocation.
type Type struct {
	Code              string
	Name              string
	DefaultAllocation decimal.Decimal
	Active            bool
}

// Well-known type codes
const (
	TypePaid   = "PAID"
	TypeSick   = "SICK"
	TypeUnpaid = "UNPAID"
)

// DefaultTypes returns the leave types installed by `init-types`.
func DefaultTypes() []Type {
	return []Type{
		{Code: TypePaid, Name: "Paid time off", DefaultAllocation: decimal.NewFromInt(24), Active: true},
		{Code: TypeSick, Name: "Sick leave", DefaultAllocation: decimal.NewFromInt(7), Active: true},
		{Code: TypeUnpaid, Name: "Unpaid leaves", DefaultAllocation: decimal.Zero, Active: true},
	}
}

// =============================================================================
// BALANCE - Ledger entry for one (employee, type, year)
// =============================================================================

type Balance struct {
	ID         string
	EmployeeID generic.EmployeeID
	TypeCode   string
	TypeName   string // joined from the type on read
	Year       int
	Allocated  decimal.Decimal
	Used       decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Available is allocated minus used. It can be negative only after an
// administrative downward change to Allocated.
func (b Balance) Available() decimal.Decimal {
	return b.Allocated.Sub(b.Used)
}

// BalanceKey identifies a ledger row.
type BalanceKey struct {
	EmployeeID generic.EmployeeID
	TypeCode   string
	Year       int
}

func (b Balance) Key() BalanceKey {
	return BalanceKey{EmployeeID: b.EmployeeID, TypeCode: b.TypeCode, Year: b.Year}
}

// =============================================================================
// REQUEST - One instance of requested leave
// =============================================================================

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, true
	}
	return "", false
}

type Request struct {
	ID              string
	EmployeeID      generic.EmployeeID
	TypeCode        string
	StartDate       generic.Date
	EndDate         generic.Date
	AllocationDays  decimal.Decimal
	Status          Status
	RequestedBy     generic.EmployeeID
	ApprovedBy      generic.EmployeeID // empty while pending
	RejectionReason string
	AttachmentURL   string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Display fields joined on read; never written.
	EmployeeName    string
	EmployeeEmail   string
	TypeName        string
	RequestedByName string
	ApprovedByName  string
}

// Year is the ledger year the request is charged against.
func (r Request) Year() int {
	return r.StartDate.Year()
}

// RequestFilter narrows List. Zero values match everything.
type RequestFilter struct {
	EmployeeID generic.EmployeeID
	Status     Status
	TypeCode   string
	Year       int
	// Search is a case-insensitive substring matched against employee name,
	// employee email, type name and status.
	Search string
}

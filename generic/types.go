/*
Package generic provides the primitives shared by the HR domains.

PURPOSE:
  This package holds the domain-agnostic building blocks used by both the
  time-off workflow and payroll: exact decimal quantities, calendar dates,
  the acting identity, the error taxonomy and the transactional store
  contract. It knows nothing about leave types or salary components.

KEY CONCEPTS IN THIS FILE (types.go):
  - Decimal helpers: parsing, 2-digit half-up rounding for exposure
  - EmployeeID: type-safe identifier for the owning employee
  - Role / Actor: who is performing an operation, passed explicitly

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere, never float64 for days or money
  2. Explicit actors: every mutating operation receives the Actor as a
     parameter; nothing reads identity from ambient request state

USAGE:
  actor := generic.Actor{EmployeeID: "emp-1", Role: generic.RoleHR}
  if !actor.CanAdminister() {
      return generic.ErrForbidden
  }

SEE ALSO:
  - errors.go: Error taxonomy
  - time.go: Calendar dates
  - store.go: Transaction boundary contract
*/
package generic

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DECIMAL QUANTITIES
// =============================================================================

// ExposedPlaces is the number of fractional digits for every figure that
// leaves the system (JSON, storage).
const ExposedPlaces = 2

// Round2 rounds half away from zero to two fractional digits.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(ExposedPlaces)
}

// FormatDecimal renders d with exactly two fractional digits.
func FormatDecimal(d decimal.Decimal) string {
	return d.StringFixed(ExposedPlaces)
}

// ParseDecimal parses a decimal string, rejecting empty input.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty decimal")
	}
	return decimal.NewFromString(s)
}

// MustParseDecimal parses s and panics on error. For literals only.
func MustParseDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string

// =============================================================================
// ACTOR - The authenticated identity performing an operation
// =============================================================================

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole normalizes a role string. Unknown roles map to RoleEmployee.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleHR:
		return RoleHR
	default:
		return RoleEmployee
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleHR || r == RoleEmployee
}

// Actor is who performs an operation. It is always passed explicitly.
type Actor struct {
	EmployeeID EmployeeID
	Role       Role
}

// CanAdminister reports whether the actor may act on other employees' data
// (approve, reject, view salaries).
func (a Actor) CanAdminister() bool {
	return a.Role == RoleAdmin || a.Role == RoleHR
}

func (a Actor) String() string {
	return fmt.Sprintf("%s(%s)", a.EmployeeID, a.Role)
}

/*
errors.go - Centralized error types for the HR domains

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages return these (or wrap them) so the API layer can map
  every failure to a status code and machine-readable code in one switch.

ERROR CATEGORIES:
  1. Validation errors - bad date range, allocation below minimum, bad input
  2. State conflicts   - transitioning a request that is no longer pending
  3. Exhaustion        - insufficient balance, reported with the shortfall
  4. Not found / forbidden

USAGE:
  var insufficient *generic.InsufficientBalanceError
  if errors.As(err, &insufficient) {
      // insufficient.Shortfall is what the UI shows
  }
  if errors.Is(err, generic.ErrInvalidState) { ... }

SEE ALSO:
  - timeoff/request.go: Raises state and balance errors
  - api/errors.go: Maps errors to HTTP responses
*/
package generic

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when an employee, request, type or salary
	// record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor's role does not allow the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidRange is returned when an end date precedes its start date.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInvalidAllocation is returned when an explicit allocation is below the minimum.
	ErrInvalidAllocation = errors.New("invalid allocation")

	// ErrInvalidState is returned when a request is not in a state that
	// allows the attempted transition.
	ErrInvalidState = errors.New("invalid status")

	// ErrInsufficientBalance is returned when an approval would overdraw a balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError names the missing resource.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound is a shorthand for &NotFoundError{...}.
func NewNotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewDuplicateEmail reports an email already used by another employee.
func NewDuplicateEmail(email string) error {
	return &ValidationError{Field: "email", Message: fmt.Sprintf("%s is already in use", email)}
}

// InvalidRangeError is returned when End precedes Start.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("end date %s is before start date %s", e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// InvalidAllocationError is returned for an explicit allocation below
// Minimum or above Maximum.
type InvalidAllocationError struct {
	Requested decimal.Decimal
	Minimum   decimal.Decimal
	Maximum   decimal.Decimal
}

func (e *InvalidAllocationError) Error() string {
	if !e.Maximum.IsZero() && e.Requested.GreaterThan(e.Maximum) {
		return fmt.Sprintf("allocation %s days exceeds the maximum of %s days",
			e.Requested.String(), e.Maximum.String())
	}
	return fmt.Sprintf("allocation %s days is below the minimum of %s days",
		e.Requested.String(), e.Minimum.String())
}

func (e *InvalidAllocationError) Unwrap() error { return ErrInvalidAllocation }

// InvalidStateError carries the current status so callers can react
// without retrying blindly.
type InvalidStateError struct {
	Current   string
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s request: current status is %s", e.Attempted, e.Current)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// InsufficientBalanceError provides details about a balance shortage.
type InsufficientBalanceError struct {
	EmployeeID EmployeeID
	TypeCode   string
	Year       int
	Requested  decimal.Decimal
	Available  decimal.Decimal
	Shortfall  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: requested %s days, available %s days, shortfall %s days",
		FormatDecimal(e.Requested), FormatDecimal(e.Available), FormatDecimal(e.Shortfall))
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// or an expected business outcome.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidAllocation) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInsufficientBalance)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

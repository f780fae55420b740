package generic

import (
	"context"
	"time"
)

// =============================================================================
// EMPLOYEE DIRECTORY - Identity lookup consumed by the domains
// =============================================================================

// Employee is the identity record the domains reference by ID.
type Employee struct {
	ID        EmployeeID
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// EmployeeLookup resolves an employee by ID.
// Returns an error wrapping ErrNotFound when the employee does not exist.
type EmployeeLookup interface {
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
}

// EmployeeDirectory is the full employee collaborator.
type EmployeeDirectory interface {
	EmployeeLookup
	ListEmployees(ctx context.Context) ([]Employee, error)
	SaveEmployee(ctx context.Context, emp Employee) error
}

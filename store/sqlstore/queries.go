package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// queries runs statements against either the pool or one transaction.
type queries struct {
	q       sqlx.ExtContext
	dialect Dialect
}

func (q queries) get(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, q.q, dest, q.q.Rebind(query), args...)
}

func (q queries) sel(ctx context.Context, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, q.q, dest, q.q.Rebind(query), args...)
}

func (q queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return q.q.ExecContext(ctx, q.q.Rebind(query), args...)
}

// forUpdate returns the row-locking suffix for the dialect. SQLite has no
// row locks; its transactions already exclude other writers.
func (q queries) forUpdate(alias string) string {
	if q.dialect == DialectPostgres {
		return " FOR UPDATE OF " + alias
	}
	return ""
}

// notFound maps sql.ErrNoRows to a generic not-found error.
func notFound(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return generic.NewNotFound(kind, id)
	}
	return err
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// either driver.
func isUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

type employeeRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

func (r employeeRow) toDomain() generic.Employee {
	return generic.Employee{
		ID:        generic.EmployeeID(r.ID),
		Name:      r.Name,
		Email:     r.Email,
		Role:      generic.ParseRole(r.Role),
		CreatedAt: r.CreatedAt,
	}
}

// SaveEmployee inserts or updates an employee. An email already held by
// another employee is a validation error.
func (q queries) SaveEmployee(ctx context.Context, emp generic.Employee) error {
	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := q.exec(ctx, `
		INSERT INTO employees (id, name, email, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role
	`, string(emp.ID), emp.Name, emp.Email, string(emp.Role), createdAt.UTC())
	if isUniqueViolation(err) {
		return generic.NewDuplicateEmail(emp.Email)
	}
	if err != nil {
		return fmt.Errorf("save employee %s: %w", emp.ID, err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID.
func (q queries) GetEmployee(ctx context.Context, id generic.EmployeeID) (*generic.Employee, error) {
	var row employeeRow
	err := q.get(ctx, &row, `SELECT id, name, email, role, created_at FROM employees WHERE id = ?`, string(id))
	if err != nil {
		return nil, notFound(err, "employee", string(id))
	}
	emp := row.toDomain()
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (q queries) ListEmployees(ctx context.Context) ([]generic.Employee, error) {
	var rows []employeeRow
	if err := q.sel(ctx, &rows, `SELECT id, name, email, role, created_at FROM employees ORDER BY name`); err != nil {
		return nil, err
	}
	out := make([]generic.Employee, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

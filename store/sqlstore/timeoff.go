package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/shopspring/decimal"
)

// timeOffStore is the timeoff.TxStore view of the store.
type timeOffStore struct {
	*Store
}

var _ timeoff.TxStore = timeOffStore{}

// TimeOff returns the time-off view of the store.
func (s *Store) TimeOff() timeoff.TxStore {
	return timeOffStore{Store: s}
}

func (v timeOffStore) WithTx(ctx context.Context, fn func(timeoff.Store) error) error {
	return v.withTx(ctx, func(q queries) error { return fn(q) })
}

// =============================================================================
// TYPES
// =============================================================================

type typeRow struct {
	Code              string          `db:"code"`
	Name              string          `db:"name"`
	DefaultAllocation decimal.Decimal `db:"default_allocation"`
	Active            bool            `db:"active"`
}

func (r typeRow) toDomain() timeoff.Type {
	return timeoff.Type{Code: r.Code, Name: r.Name, DefaultAllocation: r.DefaultAllocation, Active: r.Active}
}

func (q queries) GetType(ctx context.Context, code string) (*timeoff.Type, error) {
	var row typeRow
	err := q.get(ctx, &row, `SELECT code, name, default_allocation, active FROM timeoff_types WHERE code = ?`, code)
	if err != nil {
		return nil, notFound(err, "time-off type", code)
	}
	t := row.toDomain()
	return &t, nil
}

func (q queries) ListTypes(ctx context.Context, activeOnly bool) ([]timeoff.Type, error) {
	query := `SELECT code, name, default_allocation, active FROM timeoff_types`
	var args []any
	if activeOnly {
		query += ` WHERE active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY code`

	var rows []typeRow
	if err := q.sel(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]timeoff.Type, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// SaveType inserts or updates a type by code.
func (q queries) SaveType(ctx context.Context, t timeoff.Type) error {
	_, err := q.exec(ctx, `
		INSERT INTO timeoff_types (code, name, default_allocation, active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (code) DO UPDATE SET
			name = excluded.name,
			default_allocation = excluded.default_allocation,
			active = excluded.active
	`, t.Code, t.Name, generic.Round2(t.DefaultAllocation), t.Active)
	if err != nil {
		return fmt.Errorf("save time-off type %s: %w", t.Code, err)
	}
	return nil
}

// =============================================================================
// BALANCES
// =============================================================================

type balanceRow struct {
	ID         string          `db:"id"`
	EmployeeID string          `db:"employee_id"`
	TypeCode   string          `db:"type_code"`
	TypeName   string          `db:"type_name"`
	Year       int             `db:"year"`
	Allocated  decimal.Decimal `db:"allocated_days"`
	Used       decimal.Decimal `db:"used_days"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func (r balanceRow) toDomain() timeoff.Balance {
	return timeoff.Balance{
		ID:         r.ID,
		EmployeeID: generic.EmployeeID(r.EmployeeID),
		TypeCode:   r.TypeCode,
		TypeName:   r.TypeName,
		Year:       r.Year,
		Allocated:  r.Allocated,
		Used:       r.Used,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

const balanceSelect = `
	SELECT b.id, b.employee_id, b.type_code, t.name AS type_name, b.year,
		b.allocated_days, b.used_days, b.created_at, b.updated_at
	FROM timeoff_balances b
	JOIN timeoff_types t ON t.code = b.type_code
`

// InsertBalanceIfAbsent inserts b unless the (employee, type, year) row exists.
func (q queries) InsertBalanceIfAbsent(ctx context.Context, b timeoff.Balance) error {
	_, err := q.exec(ctx, `
		INSERT INTO timeoff_balances (id, employee_id, type_code, year, allocated_days, used_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, type_code, year) DO NOTHING
	`, b.ID, string(b.EmployeeID), b.TypeCode, b.Year,
		generic.Round2(b.Allocated), generic.Round2(b.Used), b.CreatedAt.UTC(), b.UpdatedAt.UTC())
	return err
}

func (q queries) GetBalance(ctx context.Context, key timeoff.BalanceKey) (*timeoff.Balance, error) {
	return q.getBalance(ctx, key, "")
}

func (q queries) GetBalanceForUpdate(ctx context.Context, key timeoff.BalanceKey) (*timeoff.Balance, error) {
	return q.getBalance(ctx, key, q.forUpdate("b"))
}

func (q queries) getBalance(ctx context.Context, key timeoff.BalanceKey, suffix string) (*timeoff.Balance, error) {
	var row balanceRow
	err := q.get(ctx, &row,
		balanceSelect+` WHERE b.employee_id = ? AND b.type_code = ? AND b.year = ?`+suffix,
		string(key.EmployeeID), key.TypeCode, key.Year)
	if err != nil {
		return nil, notFound(err, "balance", fmt.Sprintf("%s/%s/%d", key.EmployeeID, key.TypeCode, key.Year))
	}
	b := row.toDomain()
	return &b, nil
}

// AddUsedDays increments used_days. The sum is computed in Go so SQLite's
// TEXT decimals never pass through floating point.
func (q queries) AddUsedDays(ctx context.Context, balanceID string, days decimal.Decimal) error {
	var used decimal.Decimal
	if err := q.get(ctx, &used, `SELECT used_days FROM timeoff_balances WHERE id = ?`, balanceID); err != nil {
		return notFound(err, "balance", balanceID)
	}
	_, err := q.exec(ctx,
		`UPDATE timeoff_balances SET used_days = ?, updated_at = ? WHERE id = ?`,
		generic.Round2(used.Add(days)), time.Now().UTC(), balanceID)
	return err
}

func (q queries) ListBalances(ctx context.Context, employeeID generic.EmployeeID, year int) ([]timeoff.Balance, error) {
	var rows []balanceRow
	err := q.sel(ctx, &rows,
		balanceSelect+` WHERE b.employee_id = ? AND b.year = ? ORDER BY b.type_code`,
		string(employeeID), year)
	if err != nil {
		return nil, err
	}
	out := make([]timeoff.Balance, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// =============================================================================
// REQUESTS
// =============================================================================

type requestRow struct {
	ID              string          `db:"id"`
	EmployeeID      string          `db:"employee_id"`
	TypeCode        string          `db:"type_code"`
	StartDate       generic.Date    `db:"start_date"`
	EndDate         generic.Date    `db:"end_date"`
	AllocationDays  decimal.Decimal `db:"allocation_days"`
	Status          string          `db:"status"`
	RequestedBy     string          `db:"requested_by"`
	ApprovedBy      sql.NullString  `db:"approved_by"`
	RejectionReason string          `db:"rejection_reason"`
	AttachmentURL   string          `db:"attachment_url"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	EmployeeName    string          `db:"employee_name"`
	EmployeeEmail   string          `db:"employee_email"`
	TypeName        string          `db:"type_name"`
	RequestedByName string          `db:"requested_by_name"`
	ApprovedByName  string          `db:"approved_by_name"`
}

func (r requestRow) toDomain() timeoff.Request {
	return timeoff.Request{
		ID:              r.ID,
		EmployeeID:      generic.EmployeeID(r.EmployeeID),
		TypeCode:        r.TypeCode,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		AllocationDays:  r.AllocationDays,
		Status:          timeoff.Status(r.Status),
		RequestedBy:     generic.EmployeeID(r.RequestedBy),
		ApprovedBy:      generic.EmployeeID(r.ApprovedBy.String),
		RejectionReason: r.RejectionReason,
		AttachmentURL:   r.AttachmentURL,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		EmployeeName:    r.EmployeeName,
		EmployeeEmail:   r.EmployeeEmail,
		TypeName:        r.TypeName,
		RequestedByName: r.RequestedByName,
		ApprovedByName:  r.ApprovedByName,
	}
}

const requestSelect = `
	SELECT r.id, r.employee_id, r.type_code, r.start_date, r.end_date, r.allocation_days,
		r.status, r.requested_by, r.approved_by, r.rejection_reason, r.attachment_url,
		r.created_at, r.updated_at,
		e.name AS employee_name, e.email AS employee_email, t.name AS type_name,
		COALESCE(rb.name, '') AS requested_by_name,
		COALESCE(ab.name, '') AS approved_by_name
	FROM timeoff_requests r
	JOIN employees e ON e.id = r.employee_id
	JOIN timeoff_types t ON t.code = r.type_code
	LEFT JOIN employees rb ON rb.id = r.requested_by
	LEFT JOIN employees ab ON ab.id = r.approved_by
`

func (q queries) CreateRequest(ctx context.Context, r timeoff.Request) error {
	_, err := q.exec(ctx, `
		INSERT INTO timeoff_requests (id, employee_id, type_code, start_date, end_date, allocation_days,
			status, requested_by, approved_by, rejection_reason, attachment_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, string(r.EmployeeID), r.TypeCode, r.StartDate, r.EndDate, generic.Round2(r.AllocationDays),
		string(r.Status), string(r.RequestedBy), nullable(string(r.ApprovedBy)),
		r.RejectionReason, r.AttachmentURL, r.CreatedAt.UTC(), r.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

func (q queries) GetRequest(ctx context.Context, id string) (*timeoff.Request, error) {
	return q.getRequest(ctx, id, "")
}

func (q queries) GetRequestForUpdate(ctx context.Context, id string) (*timeoff.Request, error) {
	return q.getRequest(ctx, id, q.forUpdate("r"))
}

func (q queries) getRequest(ctx context.Context, id, suffix string) (*timeoff.Request, error) {
	var row requestRow
	if err := q.get(ctx, &row, requestSelect+` WHERE r.id = ?`+suffix, id); err != nil {
		return nil, notFound(err, "time-off request", id)
	}
	r := row.toDomain()
	return &r, nil
}

// UpdateRequestDecision writes the decision columns only.
func (q queries) UpdateRequestDecision(ctx context.Context, r timeoff.Request) error {
	res, err := q.exec(ctx, `
		UPDATE timeoff_requests
		SET status = ?, approved_by = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ?
	`, string(r.Status), nullable(string(r.ApprovedBy)), r.RejectionReason, r.UpdatedAt.UTC(), r.ID)
	if err != nil {
		return fmt.Errorf("update request %s: %w", r.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return generic.NewNotFound("time-off request", r.ID)
	}
	return nil
}

// ListRequests returns matching requests, newest first.
func (q queries) ListRequests(ctx context.Context, f timeoff.RequestFilter) ([]timeoff.Request, error) {
	var (
		where []string
		args  []any
	)
	if f.EmployeeID != "" {
		where = append(where, "r.employee_id = ?")
		args = append(args, string(f.EmployeeID))
	}
	if f.Status != "" {
		where = append(where, "r.status = ?")
		args = append(args, string(f.Status))
	}
	if f.TypeCode != "" {
		where = append(where, "r.type_code = ?")
		args = append(args, f.TypeCode)
	}
	if f.Year != 0 {
		where = append(where, "r.start_date >= ? AND r.start_date <= ?")
		args = append(args, generic.StartOfYear(f.Year), generic.EndOfYear(f.Year))
	}
	if f.Search != "" {
		like := containsPattern(f.Search)
		where = append(where, `(LOWER(e.name) LIKE ? ESCAPE '\' OR LOWER(e.email) LIKE ? ESCAPE '\' OR LOWER(t.name) LIKE ? ESCAPE '\' OR LOWER(r.status) LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like, like)
	}

	query := requestSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY r.created_at DESC, r.id DESC"

	var rows []requestRow
	if err := q.sel(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]timeoff.Request, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive substring LIKE pattern with the
// wildcards in s matched literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

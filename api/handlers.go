/*
handlers.go - HTTP API handlers for time-off, salary and employees

PURPOSE:
  Exposes the time-off ledger, the request workflow and the salary
  calculator via REST. Handles HTTP request/response, JSON serialization,
  and delegates to the domain services with the authenticated actor.

ENDPOINTS:
  Time-off (any authenticated actor):
    GET    /api/timeoff/me                     Own balances (?year) and requests (?search)
    POST   /api/timeoff/me                     Submit a request
    GET    /api/timeoff/types                  Leave-type catalogue

  Time-off administration (ADMIN, HR):
    GET    /api/timeoff/admin                  All requests (?status &type &employee &search)
    POST   /api/timeoff/admin/{id}/approve     Approve and debit the ledger
    POST   /api/timeoff/admin/{id}/reject      Reject (body: rejection_reason)
    GET    /api/timeoff/admin/balances/{employeeId}             Existing rows for ?year
    POST   /api/timeoff/admin/balances/{employeeId}/initialize  Create missing rows

  Employees and salary (ADMIN, HR):
    GET    /api/employees
    POST   /api/employees
    GET    /api/employees/{id}
    GET    /api/employees/{id}/salary
    PUT    /api/employees/{id}/salary

REQUEST FLOW:
  1. Parse path, query and body
  2. Take the actor from context (see auth.go)
  3. Call the domain service with the actor
  4. Serialize response, or map the error (see errors.go)

SEE ALSO:
  - dto.go: Request/response data structures
  - errors.go: Error codes and status mapping
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/payroll"
	"github.com/dayflow/hr-engine/seed"
	"github.com/dayflow/hr-engine/store"
	"github.com/dayflow/hr-engine/timeoff"
	"github.com/go-chi/chi/v5"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Backend  store.Backend
	Ledger   *timeoff.Ledger
	Requests *timeoff.RequestService
	Salaries *payroll.Service
	Seeds    *seed.Loader

	now func() time.Time
}

// NewHandler wires the domain services over one backend.
func NewHandler(backend store.Backend) *Handler {
	return &Handler{
		Backend:  backend,
		Ledger:   timeoff.NewLedger(backend.TimeOff()),
		Requests: timeoff.NewRequestService(backend.TimeOff()),
		Salaries: payroll.NewService(backend.Payroll()),
		Seeds:    seed.NewLoader(backend),
		now:      time.Now,
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// yearParam reads ?year, defaulting to the current year.
func (h *Handler) yearParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return h.now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Backend.ListEmployees(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates or updates an employee record.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.ID == "" || req.Name == "" {
		writeBadRequest(w, "id and name are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeBadRequest(w, fmt.Sprintf("invalid email %q", req.Email))
		return
	}
	role := generic.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role == "" {
		role = generic.RoleEmployee
	}
	if !role.Valid() {
		writeBadRequest(w, fmt.Sprintf("invalid role %q", req.Role))
		return
	}

	emp := generic.Employee{
		ID:        generic.EmployeeID(req.ID),
		Name:      req.Name,
		Email:     req.Email,
		Role:      role,
		CreatedAt: h.now().UTC(),
	}
	if err := h.Backend.SaveEmployee(r.Context(), emp); err != nil {
		writeDomainError(w, r, err)
		return
	}

	saved, err := h.Backend.GetEmployee(r.Context(), emp.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*saved))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Backend.GetEmployee(r.Context(), generic.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// =============================================================================
// TIME-OFF HANDLERS (SELF SERVICE)
// =============================================================================

// GetMyTimeOff returns the actor's balances for ?year and all their
// requests, optionally narrowed by ?search on type name or status.
func (h *Handler) GetMyTimeOff(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)
	year, err := h.yearParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	balances, err := h.Ledger.ListForEmployee(r.Context(), actor.EmployeeID, year)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	requests, err := h.Requests.ListForEmployee(r.Context(), actor.EmployeeID, 0, r.URL.Query().Get("search"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MyTimeOffResponse{
		Requests: toRequestDTOs(requests),
		Balances: toBalanceDTOs(balances),
		Year:     year,
	})
}

// CreateTimeOff submits a PENDING request.
func (h *Handler) CreateTimeOff(w http.ResponseWriter, r *http.Request) {
	var req CreateTimeOffRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(req.TypeCode) == "" {
		writeBadRequest(w, "timeoff_type is required")
		return
	}

	created, err := h.Requests.Create(r.Context(), actorFrom(r), timeoff.CreateInput{
		EmployeeID:     generic.EmployeeID(strings.TrimSpace(req.EmployeeID)),
		TypeCode:       req.TypeCode,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AllocationDays: req.AllocationDays,
		AttachmentURL:  req.AttachmentURL,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	h.writeRequestResponse(w, r, http.StatusCreated, created, "Time off request created successfully")
}

// ListTypes returns the active leave types.
func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Backend.TimeOff().ListTypes(r.Context(), true)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dtos := make([]TypeDTO, len(types))
	for i, t := range types {
		dtos[i] = toTypeDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// TIME-OFF HANDLERS (ADMINISTRATION)
// =============================================================================

// ListAllTimeOff lists requests across employees.
func (h *Handler) ListAllTimeOff(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := timeoff.RequestFilter{
		EmployeeID: generic.EmployeeID(q.Get("employee")),
		TypeCode:   q.Get("type"),
		Search:     q.Get("search"),
	}
	if raw := q.Get("status"); raw != "" {
		status, ok := timeoff.ParseStatus(raw)
		if !ok {
			writeBadRequest(w, fmt.Sprintf("invalid status %q", raw))
			return
		}
		filter.Status = status
	}

	requests, err := h.Requests.List(r.Context(), actorFrom(r), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(requests))
}

// ApproveTimeOff approves a pending request and debits the ledger.
func (h *Handler) ApproveTimeOff(w http.ResponseWriter, r *http.Request) {
	approved, err := h.Requests.Approve(r.Context(), actorFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeRequestResponse(w, r, http.StatusOK, approved, "Time off request approved successfully")
}

// RejectTimeOff rejects a pending request. An empty body is allowed.
func (h *Handler) RejectTimeOff(w http.ResponseWriter, r *http.Request) {
	var req RejectRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, err.Error())
			return
		}
	}

	rejected, err := h.Requests.Reject(r.Context(), actorFrom(r), chi.URLParam(r, "id"), req.RejectionReason)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeRequestResponse(w, r, http.StatusOK, rejected, "Time off request rejected")
}

// GetEmployeeBalances lists the employee's existing ledger rows for ?year.
func (h *Handler) GetEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	emp, err := h.Backend.GetEmployee(r.Context(), generic.EmployeeID(chi.URLParam(r, "employeeId")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	balances, err := h.Ledger.ListForEmployee(r.Context(), emp.ID, year)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BalancesResponse{
		EmployeeID:   string(emp.ID),
		EmployeeName: emp.Name,
		Year:         year,
		Balances:     toBalanceDTOs(balances),
	})
}

// InitializeEmployeeBalances creates the missing rows for every active type.
func (h *Handler) InitializeEmployeeBalances(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearParam(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	emp, err := h.Backend.GetEmployee(r.Context(), generic.EmployeeID(chi.URLParam(r, "employeeId")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	balances, err := h.Ledger.InitializeForYear(r.Context(), emp.ID, year)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BalancesResponse{
		EmployeeID:   string(emp.ID),
		EmployeeName: emp.Name,
		Year:         year,
		Balances:     toBalanceDTOs(balances),
		Message:      "Balances initialized",
	})
}

// writeRequestResponse sends the request together with the owner's
// balances for the request's year.
func (h *Handler) writeRequestResponse(w http.ResponseWriter, r *http.Request, status int, req *timeoff.Request, message string) {
	balances, err := h.Ledger.ListForEmployee(r.Context(), req.EmployeeID, req.Year())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, status, RequestResponse{
		Request:  toRequestDTO(*req),
		Balances: toBalanceDTOs(balances),
		Message:  message,
	})
}

// =============================================================================
// SALARY HANDLERS
// =============================================================================

// GetSalary returns the employee's structure with derived monthly figures,
// creating a zeroed structure on first access.
func (h *Handler) GetSalary(w http.ResponseWriter, r *http.Request) {
	st, err := h.Salaries.GetOrCreate(r.Context(), actorFrom(r), generic.EmployeeID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSalaryDTO(*st))
}

// UpdateSalary applies a partial update to the employee's structure.
func (h *Handler) UpdateSalary(w http.ResponseWriter, r *http.Request) {
	var req UpdateSalaryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	st, err := h.Salaries.Update(r.Context(), actorFrom(r), generic.EmployeeID(chi.URLParam(r, "id")), req.patch())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSalaryDTO(*st))
}

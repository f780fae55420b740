package timeoff

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUEST SERVICE - Handles request lifecycle with transactional guarantees
// =============================================================================

type RequestService struct {
	Store TxStore
	now   func() time.Time
}

func NewRequestService(store TxStore) *RequestService {
	return &RequestService{Store: store, now: time.Now}
}

// CreateInput is what a caller supplies to submit a request.
type CreateInput struct {
	// EmployeeID defaults to the actor. Submitting for someone else
	// requires an ADMIN or HR actor.
	EmployeeID     generic.EmployeeID
	TypeCode       string
	StartDate      generic.Date
	EndDate        generic.Date
	AllocationDays *decimal.Decimal // nil = compute from the date span
	AttachmentURL  string
}

// =============================================================================
// CREATE
// =============================================================================

// Create validates and persists a PENDING request. The ledger row for the
// request's year is created if missing so callers can show it, but nothing
// is held or debited.
func (rs *RequestService) Create(ctx context.Context, actor generic.Actor, in CreateInput) (*Request, error) {
	employeeID := in.EmployeeID
	if employeeID == "" {
		employeeID = actor.EmployeeID
	}
	if employeeID != actor.EmployeeID && !actor.CanAdminister() {
		return nil, fmt.Errorf("submit on behalf of %s: %w", employeeID, generic.ErrForbidden)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, &generic.ValidationError{Field: "start_date", Message: "start_date and end_date are required"}
	}

	days, err := resolveAllocation(in.StartDate, in.EndDate, in.AllocationDays)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(in.TypeCode))
	now := rs.now().UTC()
	req := Request{
		ID:             uuid.NewString(),
		EmployeeID:     employeeID,
		TypeCode:       code,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		AllocationDays: days,
		Status:         StatusPending,
		RequestedBy:    actor.EmployeeID,
		AttachmentURL:  strings.TrimSpace(in.AttachmentURL),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = rs.Store.WithTx(ctx, func(tx Store) error {
		if _, err := tx.GetEmployee(ctx, employeeID); err != nil {
			return err
		}
		t, err := tx.GetType(ctx, code)
		if err != nil {
			return err
		}
		if !t.Active {
			return &generic.ValidationError{Field: "timeoff_type", Message: fmt.Sprintf("time-off type %s is not active", code)}
		}
		if _, err := getOrCreateBalance(ctx, tx, BalanceKey{EmployeeID: employeeID, TypeCode: code, Year: req.Year()}, now); err != nil {
			return err
		}
		return tx.CreateRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("time-off request created",
		"request_id", req.ID, "employee_id", employeeID, "type", code,
		"days", req.AllocationDays.String(), "actor", actor.EmployeeID)
	return rs.Store.GetRequest(ctx, req.ID)
}

// =============================================================================
// APPROVE REQUEST - The critical transactional operation
// =============================================================================

// Approve approves a pending request.
// This is TRANSACTIONAL:
//   - Locks the request and the ledger row for its year
//   - Validates the allocation fits in the available days
//   - Debits the ledger and marks the request APPROVED
//
// On any failure nothing is written.
func (rs *RequestService) Approve(ctx context.Context, actor generic.Actor, requestID string) (*Request, error) {
	if !actor.CanAdminister() {
		return nil, fmt.Errorf("approve request: %w", generic.ErrForbidden)
	}

	logger := logging.FromContext(ctx).With("request_id", requestID, "actor", actor.EmployeeID)

	err := rs.Store.WithTx(ctx, func(tx Store) error {
		req, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status.IsTerminal() {
			return &generic.InvalidStateError{Current: string(req.Status), Attempted: "approve"}
		}

		now := rs.now().UTC()
		key := BalanceKey{EmployeeID: req.EmployeeID, TypeCode: req.TypeCode, Year: req.Year()}
		if _, err := getOrCreateBalance(ctx, tx, key, now); err != nil {
			return err
		}
		balance, err := tx.GetBalanceForUpdate(ctx, key)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		if check := ValidateSufficient(*balance, req.AllocationDays); !check.OK() {
			return check.Err()
		}
		if err := Debit(ctx, tx, balance, req.AllocationDays); err != nil {
			return err
		}

		req.Status = StatusApproved
		req.ApprovedBy = actor.EmployeeID
		req.UpdatedAt = now
		return tx.UpdateRequestDecision(ctx, *req)
	})
	if err != nil {
		if generic.IsClientError(err) {
			logger.Warn("time-off approval refused", "error", err)
		}
		return nil, err
	}

	logger.Info("time-off request approved")
	return rs.Store.GetRequest(ctx, requestID)
}

// =============================================================================
// REJECT REQUEST
// =============================================================================

// Reject marks a pending request REJECTED. The ledger is not touched.
func (rs *RequestService) Reject(ctx context.Context, actor generic.Actor, requestID, reason string) (*Request, error) {
	if !actor.CanAdminister() {
		return nil, fmt.Errorf("reject request: %w", generic.ErrForbidden)
	}

	err := rs.Store.WithTx(ctx, func(tx Store) error {
		req, err := tx.GetRequestForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status.IsTerminal() {
			return &generic.InvalidStateError{Current: string(req.Status), Attempted: "reject"}
		}

		req.Status = StatusRejected
		req.ApprovedBy = actor.EmployeeID
		req.RejectionReason = strings.TrimSpace(reason)
		req.UpdatedAt = rs.now().UTC()
		return tx.UpdateRequestDecision(ctx, *req)
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("time-off request rejected",
		"request_id", requestID, "actor", actor.EmployeeID)
	return rs.Store.GetRequest(ctx, requestID)
}

// =============================================================================
// QUERIES
// =============================================================================

func (rs *RequestService) Get(ctx context.Context, requestID string) (*Request, error) {
	return rs.Store.GetRequest(ctx, requestID)
}

// ListForEmployee returns the employee's requests starting in year.
// Search matches type name and status.
func (rs *RequestService) ListForEmployee(ctx context.Context, employeeID generic.EmployeeID, year int, search string) ([]Request, error) {
	reqs, err := rs.Store.ListRequests(ctx, RequestFilter{EmployeeID: employeeID, Year: year})
	if err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return reqs, nil
	}
	filtered := reqs[:0]
	for _, r := range reqs {
		if strings.Contains(strings.ToLower(r.TypeName), search) ||
			strings.Contains(strings.ToLower(string(r.Status)), search) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// List returns requests across employees. ADMIN and HR only.
func (rs *RequestService) List(ctx context.Context, actor generic.Actor, filter RequestFilter) ([]Request, error) {
	if !actor.CanAdminister() {
		return nil, fmt.Errorf("list requests: %w", generic.ErrForbidden)
	}
	filter.TypeCode = strings.ToUpper(strings.TrimSpace(filter.TypeCode))
	filter.Search = strings.TrimSpace(filter.Search)
	return rs.Store.ListRequests(ctx, filter)
}
